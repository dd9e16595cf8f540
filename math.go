package typeset

// typesetMath places a display formula.  Formulas are never split
// across pages.
func (c *Context) typesetMath(b *MathBlock) error {
	n := &b.Node
	s, _, err := c.resolve(n)
	if err != nil {
		return err
	}
	if !(b.Size.Width >= 0 && b.Size.Height >= 0) {
		return &MissingValueError{Node: n, Value: "formula size"}
	}
	mg, pd := s.Margin, s.Padding

	if mg.Top+pd.Top+b.Size.Height > c.available() && !c.atTop() {
		err := c.pushPage()
		if err != nil {
			return err
		}
	}
	bg := c.startBackground(s)
	c.y += mg.Top + pd.Top

	maxWidth := c.textWidth() - mg.Horizontal() - pd.Horizontal()
	x := c.insets.Left + mg.Left + pd.Left
	switch s.Align {
	case AlignCenter:
		x += (maxWidth - b.Size.Width) / 2
	case AlignRight:
		x += maxWidth - b.Size.Width
	}

	el := &MathExpr{Expr: b.Expr, Style: s}
	el.Pos = Position{X: x, Y: c.y}
	el.Size = b.Size
	c.emit(el)

	c.y += b.Size.Height
	c.flushBackground(bg, c.y+pd.Bottom)
	c.y += pd.Bottom + mg.Bottom
	return nil
}
