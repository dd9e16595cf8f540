package typeset

import (
	"math"
	"strconv"
	"strings"
)

type textOptions struct {
	lineNumbers bool

	// reserve is kept free at the right end of every line.
	reserve float64
}

// typesetText breaks a paragraph into lines and places the lines on the
// page, starting new pages as needed.
func (c *Context) typesetText(n *Node, items []Item, opt textOptions) error {
	s, lh, err := c.resolve(n)
	if err != nil {
		return err
	}
	mg, pd := s.Margin, s.Padding

	bg := c.startBackground(s)
	c.y += mg.Top + pd.Top

	left := c.insets.Left + mg.Left + pd.Left
	width := c.textWidth() - mg.Horizontal() - pd.Horizontal() - opt.reserve

	items, err = c.estimatePageNumbers(n, items)
	if err != nil {
		return err
	}
	hang := listIndent(items)

	// Lines next to a floating image are shortened.
	fl := c.float
	floatLines := 0
	if fl.active(c.y) {
		d := math.Min(fl.UntilY-c.y, c.available())
		floatLines = int(math.Round(d / lh))
	}
	lineWidth := func(k int) float64 {
		w := width
		if k > 1 {
			w -= hang
		}
		if k <= floatLines {
			w -= fl.Width
		}
		return w
	}

	p := &Paragraph{Items: items, LineWidth: lineWidth}
	res := BreakLines(p, c.cfg)
	lines := Materialize(p, res)
	if res.FirstFit {
		c.trace.Infof("%s: used first-fit line breaking", n)
	}

	space, err := c.spaceWidth(n, s)
	if err != nil {
		return err
	}
	xm, err := c.measure(n, s, "X")
	if err != nil {
		return err
	}
	baseline := (lh + xm.Height) / 2

	startPage := c.pageNumber()
	for k := range lines {
		line := &lines[k]
		num := k + 1

		if refs := footnoteRefs(line.Items); len(refs) > 0 {
			if c.nested {
				c.trace.Debugf("%s: footnotes %q in nested content are not placed", n, refs)
			} else {
				err := c.reserveFootnotes(refs, n, lh, bg)
				if err != nil {
					return err
				}
			}
		}
		if c.available() < lh && !c.atTop() {
			err := c.breakPage(bg)
			if err != nil {
				return err
			}
		}

		err := c.fixPageNumbers(n, s, line)
		if err != nil {
			return err
		}

		x := left
		if num > 1 {
			x += hang
		}
		if num <= floatLines && c.pageNumber() == startPage {
			x += fl.Indent
		}
		lay := line.Layout(lineWidth(num), space, s, k == len(lines)-1)
		x += lay.Offset

		if opt.lineNumbers || c.cfg.ShowLineNumbers {
			err := c.emitLineNumber(n, s, num, lh, baseline)
			if err != nil {
				return err
			}
		}

		for _, item := range line.Items {
			switch h := item.(type) {
			case Box:
				switch content := h.Content.(type) {
				case Word:
					c.emitText(x, h.Width, lh, baseline, content.Text, styleOr(content.Style, s))
				case FootnoteRef:
					c.emitText(x, h.Width, lh, baseline, content.Text, styleOr(content.Style, s))
				case PageNumber:
					c.emitText(x, h.Width, lh, baseline, strconv.Itoa(c.pageNumber()), styleOr(content.Style, s))
				case ListItemStart:
					c.emitText(x, h.Width, lh, baseline, content.Marker, styleOr(content.Style, s))
				case InlineMath:
					el := &MathExpr{Expr: content.Expr, Style: styleOr(content.Style, s)}
					el.Pos = Position{X: x, Y: c.y + (lh-content.Height)/2}
					el.Size = Size{Width: h.Width, Height: content.Height}
					c.emit(el)
				}
				x += h.Width
			case Glue:
				if h.Width > 0 {
					x += lay.Space
				}
			case Penalty:
				text := h.Text
				if text == "" {
					text = "-"
				}
				c.emitText(x, h.Width, lh, baseline, text, styleOr(h.Style, s))
				x += h.Width
			}
		}

		c.y += lh
	}

	c.flushBackground(bg, c.y+pd.Bottom)
	c.y += pd.Bottom + mg.Bottom
	return nil
}

func (c *Context) emitText(x, w, lh, baseline float64, text string, s *Style) {
	tr := &TextRun{Text: text, Style: s, Baseline: baseline}
	tr.Pos = Position{X: x, Y: c.y}
	tr.Size = Size{Width: w, Height: lh}
	c.emit(tr)
}

// emitLineNumber places a line number in the left margin.
func (c *Context) emitLineNumber(n *Node, s *Style, num int, lh, baseline float64) error {
	label := strconv.Itoa(num)
	m, err := c.measure(n, s, label)
	if err != nil {
		return err
	}
	tr := &TextRun{Text: label, Style: s, Baseline: baseline}
	tr.Pos = Position{X: c.insets.Left - m.Width - 10, Y: c.y}
	tr.Size = Size{Width: m.Width, Height: lh}
	c.place(tr)
	return nil
}

// estimatePageNumbers sets the width of page number boxes to the width
// of a number one digit longer than the current page number.
func (c *Context) estimatePageNumbers(n *Node, items []Item) ([]Item, error) {
	var res []Item
	for i, item := range items {
		box, ok := item.(Box)
		if !ok {
			continue
		}
		pn, ok := box.Content.(PageNumber)
		if !ok {
			continue
		}
		if res == nil {
			res = make([]Item, len(items))
			copy(res, items)
		}
		digits := len(strconv.Itoa(c.pageNumber())) + 1
		m, err := c.measure(n, pn.Style, strings.Repeat("9", digits))
		if err != nil {
			return nil, err
		}
		box.Width = m.Width
		res[i] = box
	}
	if res == nil {
		return items, nil
	}
	return res, nil
}

// fixPageNumbers replaces the estimated widths of page number boxes by
// the actual width of the number.
func (c *Context) fixPageNumbers(n *Node, s *Style, line *Line) error {
	for i, item := range line.Items {
		box, ok := item.(Box)
		if !ok {
			continue
		}
		pn, ok := box.Content.(PageNumber)
		if !ok {
			continue
		}
		m, err := c.measure(n, styleOr(pn.Style, s), strconv.Itoa(c.pageNumber()))
		if err != nil {
			return err
		}
		box.Width = m.Width
		line.Items[i] = box
	}
	return nil
}

func footnoteRefs(items []Item) []string {
	var res []string
	for _, item := range items {
		if box, ok := item.(Box); ok {
			if ref, ok := box.Content.(FootnoteRef); ok {
				res = append(res, ref.NoteID)
			}
		}
	}
	return res
}

// listIndent returns the hanging indentation of a list item.
func listIndent(items []Item) float64 {
	for _, item := range items {
		box, ok := item.(Box)
		if !ok {
			continue
		}
		if start, ok := box.Content.(ListItemStart); ok {
			return start.Indent
		}
		return 0
	}
	return 0
}

func styleOr(s, def *Style) *Style {
	if s != nil {
		return s
	}
	return def
}

// resolve returns the style and line height for a node.
func (c *Context) resolve(n *Node) (*Style, float64, error) {
	s := styleOr(n.Style, c.cfg.Style)
	if s == nil {
		return nil, 0, &MissingValueError{Node: n, Value: "style"}
	}
	if !(s.FontSize > 0) {
		return nil, 0, &MissingValueError{Node: n, Value: "font size"}
	}
	lh := s.LineHeight
	if lh <= 0 {
		lh = c.cfg.LineHeight
	}
	return s, lh, nil
}

func (c *Context) measure(n *Node, s *Style, text string) (StringMetrics, error) {
	if s == nil {
		s = styleOr(n.Style, c.cfg.Style)
	}
	m, err := c.cfg.Metrics.MeasureString(s, text)
	if err != nil {
		return StringMetrics{}, &MissingValueError{
			Node:  n,
			Value: "metrics for " + strconv.Quote(text),
			Err:   err,
		}
	}
	return m, nil
}

func (c *Context) spaceWidth(n *Node, s *Style) (float64, error) {
	w, err := c.cfg.Metrics.SpaceWidth(s)
	if err != nil {
		return 0, &MissingValueError{Node: n, Value: "space width", Err: err}
	}
	return w, nil
}
