package typeset

import (
	"fmt"
	"strings"
)

// typesetCode places a code listing.  Lines which are too long are
// wrapped at spaces; tokens are never hyphenated.
func (c *Context) typesetCode(b *CodeBlock) error {
	n := &b.Node
	s, lh, err := c.resolve(n)
	if err != nil {
		return err
	}

	start, end := b.StartLine, b.EndLine
	if start <= 0 {
		start = 1
	}
	if end <= 0 || end > len(b.Lines) {
		end = len(b.Lines)
	}
	if start > end+1 {
		return &StructuralMisuseError{
			Node:   n,
			Reason: fmt.Sprintf("invalid line range %d-%d", b.StartLine, b.EndLine),
		}
	}

	mg, pd := s.Margin, s.Padding
	space, err := c.spaceWidth(n, s)
	if err != nil {
		return err
	}
	xm, err := c.measure(n, s, "X")
	if err != nil {
		return err
	}
	baseline := (lh + xm.Height) / 2

	bg := c.startBackground(s)
	c.y += mg.Top + pd.Top

	x0 := c.insets.Left + mg.Left + pd.Left
	maxX := c.size.Width - c.insets.Right - mg.Right - pd.Right

	newLine := func() error {
		if c.available() < lh && !c.atTop() {
			return c.breakPage(bg)
		}
		return nil
	}

	for i, text := range b.Lines[start-1 : end] {
		err := newLine()
		if err != nil {
			return err
		}
		if b.ShowLineNumbers || c.cfg.ShowLineNumbers {
			err := c.emitLineNumber(n, s, start+i, lh, baseline)
			if err != nil {
				return err
			}
		}

		x := x0
		for j, token := range strings.Split(text, " ") {
			if j > 0 {
				x += space
			}
			if token == "" {
				continue
			}
			m, err := c.measure(n, s, token)
			if err != nil {
				return err
			}
			if x+m.Width > maxX && x > x0 {
				c.y += lh
				err := newLine()
				if err != nil {
					return err
				}
				x = x0
			}
			c.emitText(x, m.Width, lh, baseline, token, s)
			x += m.Width
		}
		c.y += lh
	}

	c.flushBackground(bg, c.y+pd.Bottom)
	c.y += pd.Bottom + mg.Bottom

	return c.typesetCaption(b.Caption)
}

// typesetCaption places a caption below a code block or table.
func (c *Context) typesetCaption(caption *TextBlock) error {
	if caption == nil {
		return nil
	}
	els, height, err := c.typesetNested([]Block{caption}, c.textWidth())
	if err != nil {
		return err
	}
	return c.flow(els, height, c.insets.Left, true)
}
