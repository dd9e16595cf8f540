// seehuhn.de/go/typeset - a Knuth-Plass typesetting engine
// Copyright (C) 2025  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package typeset

import "strconv"

// references records the pages on which nodes were placed, and the
// placeholders which refer to them.
type references struct {
	pageOf       map[string]int
	placeholders []*Placeholder
}

func newReferences() *references {
	return &references{
		pageOf: make(map[string]int),
	}
}

// record notes that the node with the given ID starts on page n.
// Only the first location is kept.
func (r *references) record(id string, n int) {
	if _, seen := r.pageOf[id]; !seen {
		r.pageOf[id] = n
	}
}

func (r *references) addPlaceholder(ph *Placeholder) {
	r.placeholders = append(r.placeholders, ph)
}

// lookup returns the number of the page where the node with the given ID
// starts.
func (r *references) lookup(id string) (int, bool) {
	n, ok := r.pageOf[id]
	return n, ok
}

// resolve fills in the text of all placeholders.
func (r *references) resolve() error {
	for _, ph := range r.placeholders {
		n, ok := r.lookup(ph.Target)
		if !ok {
			return &MissingValueError{
				Node:  ph.node,
				Value: "page for " + strconv.Quote(ph.Target),
				Err:   ErrUnknownTarget,
			}
		}
		ph.Text = strconv.Itoa(n)
	}
	return nil
}
