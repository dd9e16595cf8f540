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

import (
	"fmt"
	"math"
	"strings"
)

// stretchAmount is an amount of stretchability.  Amounts of higher order
// are infinitely larger than all amounts of lower order.
type stretchAmount struct {
	Val   float64
	Order int
}

func (s stretchAmount) String() string {
	unit := ""
	if s.Order > 0 {
		unit = "fi" + strings.Repeat("l", s.Order)
	}
	return fmt.Sprintf("%g%s", s.Val, unit)
}

// glueSum accumulates the widths of boxes and glue.  Infinite stretch
// is counted separately, so that sums can be subtracted without
// producing NaN.
type glueSum struct {
	Width   float64
	Stretch float64
	Fil     int
	Shrink  float64
}

func (s *glueSum) addGlue(g Glue) {
	s.Width += g.Width
	if math.IsInf(g.Stretch, +1) {
		s.Fil++
	} else {
		s.Stretch += g.Stretch
	}
	s.Shrink += g.Shrink
}

func (s glueSum) minus(other glueSum) glueSum {
	return glueSum{
		Width:   s.Width - other.Width,
		Stretch: s.Stretch - other.Stretch,
		Fil:     s.Fil - other.Fil,
		Shrink:  s.Shrink - other.Shrink,
	}
}

func (s glueSum) stretch() stretchAmount {
	if s.Fil > 0 {
		return stretchAmount{Val: float64(s.Fil), Order: 1}
	}
	return stretchAmount{Val: s.Stretch}
}

// adjustmentRatio returns the amount by which the glue in a line with
// the given totals must be stretched (r > 0) or shrunk (r < 0) to reach
// the given width.  Lines which cannot be stretched give +Inf, lines
// which cannot be shrunk give -Inf.
func (s glueSum) adjustmentRatio(width float64) float64 {
	diff := width - s.Width
	if diff > 1e-3 { // loose line
		stretch := s.stretch()
		if stretch.Order > 0 {
			return 0
		}
		if stretch.Val > 0 {
			return diff / stretch.Val
		}
		return math.Inf(+1)
	} else if diff < -1e-3 { // tight line
		if s.Shrink > 0 {
			return diff / s.Shrink
		}
		return math.Inf(-1)
	}
	return 0
}

// scaleStretch returns a copy of items where all finite glue stretch
// is multiplied by f.
func scaleStretch(items []Item, f float64) []Item {
	if f == 1 {
		return items
	}
	res := make([]Item, len(items))
	for i, item := range items {
		if g, ok := item.(Glue); ok && !math.IsInf(g.Stretch, +1) {
			g.Stretch *= f
			item = g
		}
		res[i] = item
	}
	return res
}
