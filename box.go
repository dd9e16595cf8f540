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
)

// Page is a typeset page.
type Page struct {
	Number   int
	Size     Size
	Insets   Insets
	Elements []Element
}

// Element represents marks on a page within a rectangular area of known
// size.  The concrete types are [*TextRun], [*Image], [*Rect], [*MathExpr],
// [*Placeholder] and [*Rule].
type Element interface {
	Extent() *ElementExtent
	isElement()
}

// ElementExtent gives the position and size of an element.
type ElementExtent struct {
	PageNo int // the number of the page the element is placed on
	Pos    Position
	Size   Size
}

func (ext ElementExtent) String() string {
	return fmt.Sprintf("p%d:%gx%g@(%g,%g)",
		ext.PageNo, ext.Size.Width, ext.Size.Height, ext.Pos.X, ext.Pos.Y)
}

// Extent allows for objects to embed an ElementExtent in order to implement
// part of the Element interface.
func (ext *ElementExtent) Extent() *ElementExtent {
	return ext
}

// Bottom returns the y coordinate of the lower edge.
func (ext *ElementExtent) Bottom() float64 {
	return ext.Pos.Y + ext.Size.Height
}

func (ext *ElementExtent) shift(dx, dy float64) {
	ext.Pos.X += dx
	ext.Pos.Y += dy
}

// TextRun is a piece of text on a line.
type TextRun struct {
	ElementExtent
	Text  string
	Style *Style

	// Baseline is the distance from the top of the extent to the
	// baseline of the text.
	Baseline float64
}

// Image is a placed image.
type Image struct {
	ElementExtent
	Source string
}

// Rect is a background rectangle with an optional border.
type Rect struct {
	ElementExtent
	Fill        Color
	Border      Insets
	BorderColor Color
}

// MathExpr is a placed formula.
type MathExpr struct {
	ElementExtent
	Expr  string
	Style *Style
}

// Placeholder reserves space for text which is only known after all
// pages are typeset, like the page numbers in a table of contents.
type Placeholder struct {
	ElementExtent
	Target string
	Style  *Style

	// Text is filled in once the target has been placed.
	Text string

	// Baseline is the distance from the top of the extent to the
	// baseline of the text.
	Baseline float64

	node *Node
}

// Rule is a straight line from Pos to Pos + (Size.Width, Size.Height).
type Rule struct {
	ElementExtent
	LineWidth float64
	Color     Color
	Dash      []float64 // nil for solid lines
}

func (*TextRun) isElement()     {}
func (*Image) isElement()       {}
func (*Rect) isElement()        {}
func (*MathExpr) isElement()    {}
func (*Placeholder) isElement() {}
func (*Rule) isElement()        {}
