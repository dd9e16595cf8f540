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

// Package pdfout draws typeset pages into a PDF file.
package pdfout

import (
	"errors"

	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/font"
	"seehuhn.de/go/pdf/font/standard"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/typeset"
)

// Options control the PDF output.
type Options struct {
	// Fonts maps the font names used in styles to PDF fonts.  Text in
	// fonts not listed here is set in Helvetica.
	Fonts map[string]font.Instance

	// Debug enables an overlay which shows the extents of all elements.
	Debug bool
}

var errNoPages = errors.New("no pages")

// Write draws the pages into a new PDF file.
func Write(fileName string, pages []*typeset.Page, opt *Options) error {
	if len(pages) == 0 {
		return errNoPages
	}
	if opt == nil {
		opt = &Options{}
	}

	doc, err := document.CreateMultiPage(fileName, mediaBox(pages[0].Size), pdf.V1_7, nil)
	if err != nil {
		return err
	}

	w := &writer{
		opt:      opt,
		fallback: standard.Helvetica.New(),
	}
	if opt.Debug {
		w.labelFont = standard.Helvetica.New()
	}

	for _, p := range pages {
		page := doc.AddPage()
		page.SetPageSize(mediaBox(p.Size))
		w.page = page
		w.height = p.Size.Height

		for _, el := range p.Elements {
			w.draw(el)
		}
		if opt.Debug {
			w.debugPage(p)
		}

		err = page.Close()
		if err != nil {
			return err
		}
	}
	return doc.Close()
}

func mediaBox(size typeset.Size) *pdf.Rectangle {
	return &pdf.Rectangle{URx: size.Width, URy: size.Height}
}

type writer struct {
	opt       *Options
	fallback  font.Instance
	labelFont font.Instance

	page   *document.Page
	height float64
}

// y converts a distance from the top of the page to a PDF coordinate.
func (w *writer) y(y float64) float64 {
	return w.height - y
}

func (w *writer) font(s *typeset.Style) font.Instance {
	if s != nil {
		if F, ok := w.opt.Fonts[s.Font]; ok {
			return F
		}
	}
	return w.fallback
}

func (w *writer) draw(el typeset.Element) {
	switch el := el.(type) {
	case *typeset.TextRun:
		w.text(&el.ElementExtent, el.Style, el.Baseline, el.Text)
	case *typeset.Placeholder:
		w.text(&el.ElementExtent, el.Style, el.Baseline, el.Text)
	case *typeset.MathExpr:
		// formulas are typeset elsewhere; show the source
		w.text(&el.ElementExtent, el.Style, el.Size.Height, el.Expr)
	case *typeset.Rect:
		w.rect(el)
	case *typeset.Rule:
		w.rule(el)
	case *typeset.Image:
		w.image(el)
	}
}

func (w *writer) text(ext *typeset.ElementExtent, s *typeset.Style, baseline float64, text string) {
	if text == "" || s == nil || s.FontSize <= 0 {
		return
	}
	page := w.page
	page.TextBegin()
	page.SetFillColor(pdfColor(s.Color))
	page.TextSetFont(w.font(s), s.FontSize)
	page.TextFirstLine(ext.Pos.X, w.y(ext.Pos.Y+baseline))
	page.TextShow(text)
	page.TextEnd()
}

func (w *writer) rect(r *typeset.Rect) {
	page := w.page
	x, y := r.Pos.X, w.y(r.Bottom())
	width, height := r.Size.Width, r.Size.Height

	page.PushGraphicsState()
	if r.Fill.A > 0 {
		page.SetFillColor(pdfColor(r.Fill))
		page.Rectangle(x, y, width, height)
		page.Fill()
	}

	// borders are drawn inside the rectangle
	b := r.Border
	if b.Top > 0 || b.Right > 0 || b.Bottom > 0 || b.Left > 0 {
		page.SetFillColor(pdfColor(r.BorderColor))
		if b.Top > 0 {
			page.Rectangle(x, y+height-b.Top, width, b.Top)
		}
		if b.Bottom > 0 {
			page.Rectangle(x, y, width, b.Bottom)
		}
		if b.Left > 0 {
			page.Rectangle(x, y, b.Left, height)
		}
		if b.Right > 0 {
			page.Rectangle(x+width-b.Right, y, b.Right, height)
		}
		page.Fill()
	}
	page.PopGraphicsState()
}

func (w *writer) rule(r *typeset.Rule) {
	if r.LineWidth <= 0 {
		return
	}
	page := w.page
	page.PushGraphicsState()
	page.SetStrokeColor(pdfColor(r.Color))
	page.SetLineWidth(r.LineWidth)
	if len(r.Dash) > 0 {
		page.SetLineDash(r.Dash, 0)
	}
	page.MoveTo(r.Pos.X, w.y(r.Pos.Y))
	page.LineTo(r.Pos.X+r.Size.Width, w.y(r.Pos.Y+r.Size.Height))
	page.Stroke()
	page.PopGraphicsState()
}

// image draws a crossed box in place of the image.
func (w *writer) image(img *typeset.Image) {
	page := w.page
	x0, y0 := img.Pos.X, w.y(img.Bottom())
	x1, y1 := x0+img.Size.Width, w.y(img.Pos.Y)

	page.PushGraphicsState()
	page.SetFillColor(color.DeviceGray(0.9))
	page.Rectangle(x0, y0, x1-x0, y1-y0)
	page.Fill()
	page.SetStrokeColor(color.DeviceGray(0.5))
	page.SetLineWidth(0.5)
	page.Rectangle(x0, y0, x1-x0, y1-y0)
	page.MoveTo(x0, y0)
	page.LineTo(x1, y1)
	page.MoveTo(x0, y1)
	page.LineTo(x1, y0)
	page.Stroke()
	page.PopGraphicsState()
}

// pdfColor converts a color to DeviceRGB.  Transparency is ignored.
func pdfColor(c typeset.Color) color.Color {
	return color.DeviceRGB(clamp(c.R), clamp(c.G), clamp(c.B))
}

func clamp(x float64) float64 {
	return min(max(x, 0), 1)
}
