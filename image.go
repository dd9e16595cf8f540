package typeset

// typesetImage places an image block.  Floating images do not advance
// the cursor; instead, the following lines are shortened.
func (c *Context) typesetImage(b *ImageBlock) error {
	n := &b.Node
	s, _, err := c.resolve(n)
	if err != nil {
		return err
	}
	if !(b.Ratio > 0) {
		return &MissingValueError{Node: n, Value: "image aspect ratio"}
	}
	mg, pd := s.Margin, s.Padding

	maxWidth := c.textWidth() - mg.Horizontal() - pd.Horizontal()
	w := maxWidth
	if b.Width > 0 && b.Width < maxWidth {
		w = b.Width
	}
	h := w / b.Ratio
	floating := b.Float && s.Align != AlignCenter

	if !floating && mg.Top+pd.Top+h > c.available() && !c.atTop() {
		err := c.pushPage()
		if err != nil {
			return err
		}
	}

	left := c.insets.Left + mg.Left + pd.Left
	x := left
	switch s.Align {
	case AlignCenter:
		x += (maxWidth - w) / 2
	case AlignRight:
		x += maxWidth - w
	}
	y := c.y + mg.Top + pd.Top

	img := &Image{Source: b.Source}
	img.Pos = Position{X: x, Y: y}
	img.Size = Size{Width: w, Height: h}
	c.emit(img)
	maxY := y + h

	if b.Caption != nil {
		capWidth := maxWidth
		capX := left
		if floating {
			capWidth = w
			capX = x
		}
		els, height, err := c.typesetNested([]Block{b.Caption}, capWidth)
		if err != nil {
			return err
		}
		if floating {
			for _, el := range els {
				el.Extent().shift(capX, maxY)
				c.emit(el)
			}
			maxY += height
		} else {
			c.y = maxY
			err = c.flow(els, height, capX, true)
			if err != nil {
				return err
			}
			maxY = c.y
		}
	}
	maxY += pd.Bottom + mg.Bottom

	if floating {
		c.float = FloatState{
			UntilY: maxY,
			Width:  w + mg.Horizontal() + pd.Horizontal(),
		}
		if s.Align == AlignLeft {
			c.float.Indent = c.float.Width
		}
		return nil
	}
	c.y = maxY
	return nil
}
