package pdfout

import (
	"fmt"
	"math"

	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/typeset"
)

var (
	geomColor  = color.DeviceRGB(0, 0, 0.9)
	breakColor = color.DeviceRGB(0.9, 0, 0)
	areaColor  = color.DeviceGray(0.7)
)

// debugPage draws the text area, the outlines of all elements and the
// baselines of all text.
func (w *writer) debugPage(p *typeset.Page) {
	const labelSize = 5

	page := w.page
	page.PushGraphicsState()

	// the text area
	in := p.Insets
	page.SetStrokeColor(areaColor)
	page.SetLineWidth(0.25)
	page.SetLineDash([]float64{2, 2}, 0)
	page.Rectangle(in.Left, in.Bottom,
		p.Size.Width-in.Horizontal(), p.Size.Height-in.Vertical())
	page.Stroke()
	page.SetLineDash(nil, 0)

	page.SetStrokeColor(geomColor)
	page.SetLineWidth(0.2)
	for _, el := range p.Elements {
		ext := el.Extent()
		page.Rectangle(ext.Pos.X, w.y(ext.Bottom()), ext.Size.Width, ext.Size.Height)
	}
	page.Stroke()

	page.SetStrokeColor(breakColor)
	page.SetLineWidth(0.2)
	for _, el := range p.Elements {
		var baseline float64
		switch el := el.(type) {
		case *typeset.TextRun:
			baseline = el.Baseline
		case *typeset.Placeholder:
			baseline = el.Baseline
		default:
			continue
		}
		ext := el.Extent()
		y := w.y(ext.Pos.Y + baseline)
		page.MoveTo(ext.Pos.X, y)
		page.LineTo(ext.Pos.X+ext.Size.Width, y)
	}
	page.Stroke()

	// label the line heights in the right margin
	page.SetFillColor(geomColor)
	x := p.Size.Width - in.Right + 4
	lastY := math.Inf(-1)
	for _, el := range p.Elements {
		tr, ok := el.(*typeset.TextRun)
		if !ok || tr.Pos.Y <= lastY {
			continue
		}
		lastY = tr.Pos.Y
		page.TextBegin()
		page.TextSetFont(w.labelFont, labelSize)
		page.TextFirstLine(x, w.y(tr.Pos.Y+tr.Baseline))
		page.TextShow(fmt.Sprintf("y=%s h=%s", format(tr.Pos.Y), format(tr.Size.Height)))
		page.TextEnd()
	}

	page.PopGraphicsState()
}

func format(x float64) string {
	xInt := int(math.Round(x))
	if math.Abs(x-float64(xInt)) < 1e-6 {
		return fmt.Sprintf("%d", xInt)
	}
	if math.Abs(x) >= 1e7 {
		return fmt.Sprintf("%.6g", x)
	}
	return fmt.Sprintf("%.3f", x)
}
