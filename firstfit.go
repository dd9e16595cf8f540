package typeset

// FirstFit breaks a paragraph greedily: every line takes as much material
// as fits, and mandatory penalties always break.  Lines are only broken at
// legal breakpoints.  Material which starts a line is never moved to the
// next line, so items (or unbreakable runs of items) which are wider than
// the line width end up overfull.  The result is a complete partition of
// the paragraph for every input.
func FirstFit(p *Paragraph) *LineBreakingResult {
	items := p.items()

	res := &LineBreakingResult{FirstFit: true}
	addBreak := func(pos int) {
		res.Breaks = append(res.Breaks, BreakPoint{Index: pos})
	}

	width := 0.0  // natural width of the current line
	empty := true // no box on the current line yet

	// legal is the last legal breakpoint on the current line, or -1.
	// after is the width of the material following it, and afterBox
	// records whether that material contains a box.
	legal := -1
	after, afterBox := 0.0, false
	setLegal := func(pos int) {
		legal = pos
		after, afterBox = 0, false
	}
	breakAt := func(pos int) {
		addBreak(pos)
		legal = -1
	}

	for i, item := range items {
		lw := p.lineWidth(len(res.Breaks) + 1)
		switch h := item.(type) {
		case Penalty:
			if h.IsMandatory() {
				breakAt(i)
				width, empty = 0, true
			} else if !empty && isValidBreakpoint(items, i) {
				setLegal(i)
			}
		case Glue:
			if empty {
				continue
			}
			valid := isValidBreakpoint(items, i)
			if width+h.Width > lw && valid {
				breakAt(i)
				width, empty = 0, true
				continue
			}
			width += h.Width
			if valid {
				setLegal(i)
			} else if afterBox {
				after += h.Width
			}
		case Box:
			if !empty && width+h.Width > lw {
				if legal >= 0 {
					width, empty = after, !afterBox
					breakAt(legal)
				}
			}
			width += h.Width
			after += h.Width
			afterBox = true
			empty = false
		}
	}

	res.Lines = len(res.Breaks)
	return res
}
