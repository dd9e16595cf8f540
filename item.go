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
)

// An Item is one element of a paragraph, as seen by the line breaker.
// The concrete types are [Box], [Glue] and [Penalty].
type Item interface {
	isItem()
}

// Box is material which is never broken and which has a fixed width.
// The line breaker only looks at the width; the content is interpreted
// when the line is placed on the page.
type Box struct {
	Width   float64
	Content BoxContent
}

// Glue is elastic white space.  A glue item is a potential breakpoint
// if it immediately follows a box.
//
// Stretch may be +Inf, for glue which can fill any amount of space.
type Glue struct {
	Width   float64
	Stretch float64
	Shrink  float64
}

// Penalty is a potential breakpoint.
//
// Costs of [PenaltyForceBreak] (or anything at or below -1000) force a break,
// costs of [PenaltyPreventBreak] (or anything at or above 1000) forbid one.
// If a break occurs at a flagged penalty with positive width, Text
// is shown at the end of the line (normally a hyphen).
type Penalty struct {
	Width   float64
	Cost    float64
	Flagged bool
	Text    string
	Style   *Style
}

func (Box) isItem()     {}
func (Glue) isItem()    {}
func (Penalty) isItem() {}

var (
	PenaltyPreventBreak = math.Inf(+1)
	PenaltyForceBreak   = math.Inf(-1)
)

const (
	forbiddenPenalty = 1000
	mandatoryPenalty = -1000
)

// IsMandatory reports whether a line break must occur at p.
func (p Penalty) IsMandatory() bool {
	return p.Cost <= mandatoryPenalty
}

// IsForbidden reports whether a line break is impossible at p.
func (p Penalty) IsForbidden() bool {
	return p.Cost >= forbiddenPenalty
}

func (p Penalty) String() string {
	switch {
	case p.IsMandatory():
		return "penalty (force break)"
	case p.IsForbidden():
		return "penalty (no break)"
	}
	flag := ""
	if p.Flagged {
		flag = " flagged"
	}
	return fmt.Sprintf("penalty %g%s", p.Cost, flag)
}

// isMarker reports whether g is the zero-width glue which precedes an
// explicit line break.
func (g Glue) isMarker() bool {
	return g.Width == 0 && g.Stretch > 0 && !math.IsInf(g.Stretch, +1)
}

// BoxContent describes what is shown inside a [Box].
type BoxContent interface {
	isBoxContent()
}

// Word is a piece of text set in a single style.
type Word struct {
	Text  string
	Style *Style
}

// FootnoteRef is the reference mark of a footnote.  The footnote
// text is looked up in [Document.Footnotes] using NoteID.
type FootnoteRef struct {
	Word
	NoteID string
}

// InlineMath is a pre-typeset formula inside a paragraph.
type InlineMath struct {
	Expr   string
	Height float64
	Style  *Style
}

// PageNumber is replaced by the number of the page the box ends up on.
type PageNumber struct {
	Style *Style
}

// ListItemStart marks the beginning of an enumeration item.  Marker is
// drawn in place of the box, and all following lines of the paragraph are
// indented by Indent.
type ListItemStart struct {
	Marker string
	Indent float64
	Style  *Style
}

func (Word) isBoxContent()          {}
func (FootnoteRef) isBoxContent()   {}
func (InlineMath) isBoxContent()    {}
func (PageNumber) isBoxContent()    {}
func (ListItemStart) isBoxContent() {}

// ExplicitBreak returns the items which end a line early.
// The glue fills the rest of a line of the given width.
func ExplicitBreak(width float64) []Item {
	return []Item{
		Glue{Stretch: width},
		Penalty{Cost: PenaltyForceBreak, Flagged: true},
	}
}

// ParagraphEnd returns the items which close a paragraph.
func ParagraphEnd() []Item {
	return []Item{
		Penalty{Cost: PenaltyPreventBreak},
		Glue{Stretch: math.Inf(+1)},
		Penalty{Cost: PenaltyForceBreak, Flagged: true},
	}
}

// Paragraph is the input of the line breaker.
type Paragraph struct {
	Items []Item

	// LineWidth gives the target width of the given line.
	// Lines are numbered starting from 1.
	LineWidth func(line int) float64
}

// ConstantWidth returns a LineWidth function for lines of equal width.
func ConstantWidth(width float64) func(int) float64 {
	return func(int) float64 {
		return width
	}
}

// items returns the paragraph items, followed by a forced break if the
// paragraph does not end in one already.  The caller's slice is never
// modified.
func (p *Paragraph) items() []Item {
	n := len(p.Items)
	if n > 0 {
		if pen, ok := p.Items[n-1].(Penalty); ok && pen.IsMandatory() {
			return p.Items
		}
	}
	res := make([]Item, n, n+1)
	copy(res, p.Items)
	return append(res, Penalty{Cost: PenaltyForceBreak})
}

func (p *Paragraph) lineWidth(line int) float64 {
	if p.LineWidth == nil {
		return 0
	}
	return p.LineWidth(line)
}

// isValidBreakpoint reports whether a line may be broken at items[pos].
func isValidBreakpoint(items []Item, pos int) bool {
	switch h := items[pos].(type) {
	case Penalty:
		return !h.IsForbidden()
	case Glue:
		if pos == 0 {
			return false
		}
		_, prevIsBox := items[pos-1].(Box)
		return prevIsBox
	default:
		return false
	}
}
