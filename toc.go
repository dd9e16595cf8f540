package typeset

// tocFillGap is the space between the dotted fill and the text on
// either side.
const tocFillGap = 5

// typesetTocEntry places a table of contents entry.  The page number
// is left as a placeholder, which is filled in once all pages are known.
func (c *Context) typesetTocEntry(b *TocEntryBlock) error {
	n := &b.Node
	s, _, err := c.resolve(n)
	if err != nil {
		return err
	}
	numM, err := c.measure(n, s, "999")
	if err != nil {
		return err
	}
	numWidth := numM.Width

	first, firstPage := len(c.elements), len(c.pages)
	err = c.typesetText(n, b.Items, textOptions{reserve: numWidth + 2*tocFillGap})
	if err != nil {
		return err
	}

	var last *TextRun
	emitted := len(c.elements) > first || len(c.pages) > firstPage
	if k := len(c.elements); emitted && k > 0 {
		last, _ = c.elements[k-1].(*TextRun)
	}
	if last == nil {
		return &StructuralMisuseError{
			Node:   n,
			Reason: "table of contents entry does not end in text",
		}
	}

	ph := &Placeholder{
		Target:   b.Target,
		Style:    s,
		Baseline: last.Baseline,
		node:     n,
	}
	ph.Pos = Position{
		X: c.size.Width - c.insets.Right - s.Margin.Right - s.Padding.Right - numWidth,
		Y: last.Pos.Y,
	}
	ph.Size = Size{Width: numWidth, Height: last.Size.Height}
	c.place(ph)
	c.refs.addPlaceholder(ph)

	fill := &Rule{
		LineWidth: 0.5,
		Color:     styleOr(last.Style, s).Color,
		Dash:      []float64{1, 3},
	}
	x0 := last.Pos.X + last.Size.Width + tocFillGap
	x1 := ph.Pos.X - tocFillGap
	if x1 > x0 {
		fill.Pos = Position{X: x0, Y: last.Pos.Y + last.Baseline}
		fill.Size.Width = x1 - x0
		c.place(fill)
	}
	return nil
}
