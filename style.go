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

import "fmt"

// Alignment describes the horizontal placement of lines which are
// not justified, and of images and formulas.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return fmt.Sprintf("Alignment(%d)", int(a))
	}
}

// Color is an RGB color with opacity.  All components are in the range
// [0, 1].  The zero value is fully transparent.
type Color struct {
	R, G, B, A float64
}

// Black is opaque black.
var Black = Color{A: 1}

// Size gives the dimensions of a rectangle, in PDF points.
type Size struct {
	Width, Height float64
}

// Position is a point on a page.  The y-axis points downwards, from the
// top edge of the page.
type Position struct {
	X, Y float64
}

// Insets are distances from the four edges of a rectangle.
type Insets struct {
	Top, Right, Bottom, Left float64
}

// Horizontal returns the sum of the left and right inset.
func (in Insets) Horizontal() float64 {
	return in.Left + in.Right
}

// Vertical returns the sum of the top and bottom inset.
func (in Insets) Vertical() float64 {
	return in.Top + in.Bottom
}

func (in Insets) isZero() bool {
	return in.Top <= 0 && in.Right <= 0 && in.Bottom <= 0 && in.Left <= 0
}

// Style collects the resolved style values for a node.
type Style struct {
	Font     string
	FontSize float64
	Color    Color

	// LineHeight is the distance between baselines.  If this is zero,
	// [Config.LineHeight] is used.
	LineHeight float64

	Margin  Insets
	Padding Insets

	Align   Alignment
	Justify bool

	Background  Color
	Border      Insets // border widths
	BorderColor Color
}

// hasBackground reports whether paragraphs in this style need a
// background rectangle.
func (s *Style) hasBackground() bool {
	return s.Background.A > 0 || !s.Border.isZero()
}
