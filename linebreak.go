package typeset

import "math"

// BreakLines breaks a paragraph into lines.  This never fails: the
// Knuth-Plass algorithm is tried at increasing quality levels, where
// level q multiplies all glue stretch by 2^q, and if no level succeeds
// the first-fit algorithm is used.
func BreakLines(p *Paragraph, cfg *Config) *LineBreakingResult {
	trace := cfg.tracer()
	for q := 0; q < cfg.QualityLevels; q++ {
		scaled := &Paragraph{
			Items:     scaleStretch(p.Items, math.Exp2(float64(q))),
			LineWidth: p.LineWidth,
		}
		res, err := FindBreakPoints(scaled, cfg.Tolerance,
			cfg.FlaggedDemerit, cfg.FitnessDemerit, cfg.Looseness)
		if err == nil {
			res.Quality = q
			return res
		}
		trace.Debugf("quality level %d: %v", q, err)
	}
	trace.Debugf("falling back to first-fit line breaking")
	return FirstFit(p)
}

// Line is a paragraph line, ready to be placed on a page.
type Line struct {
	Items []Item

	// Forced is set if the line ends in a mandatory break.
	Forced bool

	// Explicit is set if the line ends in an explicit line break,
	// see [ExplicitBreak].
	Explicit bool
}

// LineMetrics summarises the horizontal extent of a line.
type LineMetrics struct {
	MinWidth   float64 // total width of everything except glue
	WhiteSpace int     // number of visible glue items
}

// Metrics returns the horizontal extent of the line.
func (l *Line) Metrics() LineMetrics {
	var m LineMetrics
	for _, item := range l.Items {
		switch h := item.(type) {
		case Box:
			m.MinWidth += h.Width
		case Penalty:
			m.MinWidth += h.Width
		case Glue:
			if h.Width > 0 {
				m.WhiteSpace++
			}
		}
	}
	return m
}

// LineLayout gives the horizontal placement of a line.
type LineLayout struct {
	Offset float64 // from the left edge of the line
	Space  float64 // width of every visible glue item
}

// Layout determines the spacing of the line.  The last line of a
// paragraph and lines which end in an explicit break are not justified.
func (l *Line) Layout(width, spaceWidth float64, style *Style, last bool) LineLayout {
	m := l.Metrics()
	if style.Justify && !last && !l.Explicit && !l.Forced && m.WhiteSpace > 0 {
		return LineLayout{Space: (width - m.MinWidth) / float64(m.WhiteSpace)}
	}

	res := LineLayout{Space: spaceWidth}
	rest := width - m.MinWidth - float64(m.WhiteSpace)*spaceWidth
	switch style.Align {
	case AlignCenter:
		res.Offset = rest / 2
	case AlignRight:
		res.Offset = rest
	}
	return res
}

// Materialize splits the items of a paragraph into lines.
//
// Glue at the start or end of a line, glue at the breakpoint, and glue
// following other glue is dropped, except for explicit break markers.
// Penalties are kept only where a line ends in a visible hyphen.
// A final line without boxes is dropped.
func Materialize(p *Paragraph, res *LineBreakingResult) []Line {
	items := p.items()

	var lines []Line
	start := 0
	for _, bp := range res.Breaks {
		end := bp.Index
		var line Line
		prevGlue := false
		for i := start; i <= end && i < len(items); i++ {
			switch h := items[i].(type) {
			case Box:
				line.Items = append(line.Items, h)
				prevGlue = false
			case Glue:
				if h.isMarker() {
					line.Items = append(line.Items, h)
					line.Explicit = true
					prevGlue = false
					continue
				}
				if len(line.Items) == 0 || i == end || prevGlue {
					continue
				}
				line.Items = append(line.Items, h)
				prevGlue = true
			case Penalty:
				if i != end {
					continue
				}
				line.Forced = h.IsMandatory()
				if h.Width > 0 && h.Flagged {
					line.Items = append(line.Items, h)
				}
			}
		}

		// trim trailing glue
		for n := len(line.Items); n > 0; n-- {
			g, isGlue := line.Items[n-1].(Glue)
			if !isGlue || g.isMarker() {
				break
			}
			line.Items = line.Items[:n-1]
		}
		if line.Explicit && !endsInMarker(line.Items) {
			line.Explicit = false
		}

		lines = append(lines, line)
		start = end + 1
	}

	if n := len(lines); n > 0 && !hasBox(lines[n-1].Items) {
		lines = lines[:n-1]
	}
	return lines
}

func endsInMarker(items []Item) bool {
	for i := len(items) - 1; i >= 0; i-- {
		switch h := items[i].(type) {
		case Glue:
			return h.isMarker()
		case Penalty:
			continue
		default:
			return false
		}
	}
	return false
}

func hasBox(items []Item) bool {
	for _, item := range items {
		if _, isBox := item.(Box); isBox {
			return true
		}
	}
	return false
}
