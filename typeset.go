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

// Package typeset breaks paragraphs into lines and lines into pages.
//
// Paragraphs are given as lists of boxes, glue and penalties, as
// described by Knuth and Plass.  Line breaks are chosen to minimise the
// total demerits of a paragraph; if no acceptable solution exists, the
// stretchability of the glue is increased step by step, and as a last
// resort the lines are filled greedily.  The pagination engine places
// the lines, together with images, formulas, tables, code listings,
// footnotes, headers and footers, onto pages.
package typeset

import (
	"fmt"
)

// Typeset lays out a document.  The returned pages contain the positions
// of all elements; drawing the pages is left to the caller.
func Typeset(doc *Document, cfg *Config) ([]*Page, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}

	c := newContext(doc, cfg)
	for _, group := range doc.Content {
		for _, b := range group {
			err := c.typesetBlock(b)
			if err != nil {
				return nil, err
			}
		}
		err := c.pushPage()
		if err != nil {
			return nil, err
		}
	}

	err = c.refs.resolve()
	if err != nil {
		return nil, err
	}

	c.trace.Infof("typeset %d pages", len(c.pages))
	return c.pages, nil
}

func (c *Context) typesetBlock(b Block) error {
	n := b.node()
	if n.ID != "" {
		c.anchor = n.ID
	}

	var err error
	switch b := b.(type) {
	case *TextBlock:
		err = c.typesetText(n, b.Items, textOptions{lineNumbers: b.ShowLineNumbers})
	case *ImageBlock:
		err = c.typesetImage(b)
	case *MathBlock:
		err = c.typesetMath(b)
	case *TableBlock:
		err = c.typesetTable(b)
	case *CodeBlock:
		err = c.typesetCode(b)
	case *TocEntryBlock:
		err = c.typesetTocEntry(b)
	default:
		err = &StructuralMisuseError{Node: n, Reason: fmt.Sprintf("unsupported block type %T", b)}
	}
	if err != nil {
		return err
	}

	// blocks without visible content are located at the cursor
	if c.anchor != "" {
		c.refs.record(c.anchor, c.pageNumber())
		c.anchor = ""
	}
	return nil
}
