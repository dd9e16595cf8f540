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

// Package textpar converts text into the boxes, glue and penalties
// used by the line breaker.
package textpar

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/uax/segment"
	"github.com/npillmayer/uax/uax14"

	"seehuhn.de/go/typeset"
)

// HyphenPenalty is the cost of breaking a line at a hyphenation point.
const HyphenPenalty = 50

// defaultBreakStretch is used for explicit line breaks if the builder
// does not know the line width.
const defaultBreakStretch = 1000

// Builder accumulates the items of one paragraph.
type Builder struct {
	Metrics    typeset.FontMetrics
	Hyphenator typeset.Hyphenator // optional

	// Style is used for text added without a style.
	Style *typeset.Style

	// Width is the text width.  It determines the stretch of the glue
	// before explicit line breaks.
	Width float64

	// ParIndent, if positive, is inserted as a box at the start of the
	// paragraph.
	ParIndent float64

	items      []typeset.Item
	afterPunct bool
	afterSpace bool
	spaceStyle *typeset.Style
}

// NewBuilder returns a builder which measures text using m.
func NewBuilder(m typeset.FontMetrics, style *typeset.Style) *Builder {
	return &Builder{
		Metrics: m,
		Style:   style,
	}
}

func (b *Builder) style(s *typeset.Style) *typeset.Style {
	if s != nil {
		return s
	}
	return b.Style
}

func (b *Builder) start() {
	if len(b.items) == 0 && b.ParIndent > 0 {
		b.items = append(b.items, typeset.Box{Width: b.ParIndent})
	}
}

// AddText adds running text.  If style is nil, b.Style is used.
// Runs of white space are collapsed into a single glue item, and line
// breaks in the text are turned into explicit line breaks.
func (b *Builder) AddText(style *typeset.Style, text string) error {
	b.start()
	ms := b.style(style)

	segs, err := segments(text)
	if err != nil {
		return err
	}
	for i, sg := range segs {
		word := strings.TrimRightFunc(sg.text, unicode.IsSpace)
		tail := sg.text[len(word):]

		if word != "" {
			err := b.flushSpace()
			if err != nil {
				return err
			}
			err = b.addWord(style, ms, word)
			if err != nil {
				return err
			}
			r := []rune(word)
			b.afterPunct = strings.ContainsRune(".!?", r[len(r)-1])
		}

		switch {
		case sg.penalty <= mandatoryBreak && endsInNewline(tail):
			b.afterSpace = false
			b.AddBreak()
		case tail != "":
			b.afterSpace = true
			b.spaceStyle = ms
		case word != "" && i < len(segs)-1:
			// a break opportunity without space, e.g. after a dash
			b.items = append(b.items, typeset.Penalty{Cost: HyphenPenalty, Flagged: true})
		}
	}
	return nil
}

const mandatoryBreak = -1000

type textSegment struct {
	text    string
	penalty int
}

// segments splits text at the line break opportunities defined by
// Unicode Annex 14.  Every segment includes its trailing white space.
func segments(text string) ([]textSegment, error) {
	seg := segment.NewSegmenter(uax14.NewLineWrap())
	seg.Init(strings.NewReader(text))
	var res []textSegment
	for seg.Next() {
		p1, _ := seg.Penalties()
		res = append(res, textSegment{text: seg.Text(), penalty: p1})
	}
	err := seg.Err()
	if err != nil {
		return nil, err
	}
	return res, nil
}

func endsInNewline(s string) bool {
	if s == "" {
		return false
	}
	switch s[len(s)-1] {
	case '\n', '\r', '\v', '\f':
		return true
	}
	return strings.HasSuffix(s, "\u2028") || strings.HasSuffix(s, "\u2029")
}

// flushSpace adds the glue for pending white space.
func (b *Builder) flushSpace() error {
	if !b.afterSpace {
		return nil
	}
	b.afterSpace = false
	if len(b.items) == 0 {
		return nil
	}
	if _, isBox := b.items[len(b.items)-1].(typeset.Box); !isBox {
		return nil
	}

	sp, err := b.Metrics.SpaceWidth(b.spaceStyle)
	if err != nil {
		return err
	}
	var g typeset.Glue
	if b.afterPunct {
		g = typeset.Glue{Width: 1.5 * sp, Stretch: 1.5 * sp, Shrink: sp}
	} else {
		g = typeset.Glue{Width: sp, Stretch: sp / 2, Shrink: sp / 3}
	}
	b.items = append(b.items, g)
	return nil
}

// addWord adds a word, together with its hyphenation points.
func (b *Builder) addWord(style, ms *typeset.Style, word string) error {
	parts := []string{word}
	if b.Hyphenator != nil {
		if pre, core, post := splitLetters(word); len([]rune(core)) >= minHyphenLength {
			frags := slices.Clone(b.Hyphenator.Hyphenate(core))
			if len(frags) > 1 {
				frags[0] = pre + frags[0]
				frags[len(frags)-1] += post
				parts = frags
			}
		}
	}

	var hyphenWidth float64
	if len(parts) > 1 {
		m, err := b.Metrics.MeasureString(ms, "-")
		if err != nil {
			return err
		}
		hyphenWidth = m.Width
	}
	for i, part := range parts {
		if i > 0 {
			b.items = append(b.items, typeset.Penalty{
				Width:   hyphenWidth,
				Cost:    HyphenPenalty,
				Flagged: true,
				Text:    "-",
				Style:   style,
			})
		}
		m, err := b.Metrics.MeasureString(ms, part)
		if err != nil {
			return err
		}
		b.items = append(b.items, typeset.Box{
			Width:   m.Width,
			Content: typeset.Word{Text: part, Style: style},
		})
	}
	return nil
}

// minHyphenLength is the minimal number of letters in a word which is
// hyphenated.
const minHyphenLength = 5

// splitLetters splits off leading and trailing non-letters, like
// quotes and punctuation.
func splitLetters(word string) (pre, core, post string) {
	start := strings.IndexFunc(word, unicode.IsLetter)
	if start < 0 {
		return word, "", ""
	}
	end := strings.LastIndexFunc(word, unicode.IsLetter)
	_, size := utf8.DecodeRuneInString(word[end:])
	end += size
	core = word[start:end]
	if strings.IndexFunc(core, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
		// compound words are only broken at their explicit hyphens
		return word, "", ""
	}
	return word[:start], core, word[end:]
}

// AddMath adds an inline formula of the given size.
func (b *Builder) AddMath(style *typeset.Style, expr string, size typeset.Size) error {
	b.start()
	err := b.flushSpace()
	if err != nil {
		return err
	}
	b.items = append(b.items, typeset.Box{
		Width:   size.Width,
		Content: typeset.InlineMath{Expr: expr, Height: size.Height, Style: style},
	})
	b.afterPunct = false
	return nil
}

// AddFootnoteRef adds the reference mark for the footnote with the
// given ID.
func (b *Builder) AddFootnoteRef(style *typeset.Style, mark, noteID string) error {
	b.start()
	err := b.flushSpace()
	if err != nil {
		return err
	}
	m, err := b.Metrics.MeasureString(b.style(style), mark)
	if err != nil {
		return err
	}
	b.items = append(b.items, typeset.Box{
		Width: m.Width,
		Content: typeset.FootnoteRef{
			Word:   typeset.Word{Text: mark, Style: style},
			NoteID: noteID,
		},
	})
	return nil
}

// AddPageNumber adds the number of the current page.  The width of the
// box is determined during pagination.
func (b *Builder) AddPageNumber(style *typeset.Style) error {
	b.start()
	err := b.flushSpace()
	if err != nil {
		return err
	}
	b.items = append(b.items, typeset.Box{Content: typeset.PageNumber{Style: style}})
	b.afterPunct = false
	return nil
}

// AddBreak ends the current line.
func (b *Builder) AddBreak() {
	w := b.Width
	if w <= 0 {
		w = defaultBreakStretch
	}
	b.afterSpace = false
	b.items = append(b.items, typeset.ExplicitBreak(w)...)
}

// AddListItem starts an enumeration item.  The marker is set in a box
// of width indent, and the following lines are indented by the same
// amount.
func (b *Builder) AddListItem(style *typeset.Style, marker string, indent float64) error {
	if len(b.items) > 0 {
		b.AddBreak()
	}
	m, err := b.Metrics.MeasureString(b.style(style), marker)
	if err != nil {
		return err
	}
	b.items = append(b.items, typeset.Box{
		Width:   max(indent, m.Width),
		Content: typeset.ListItemStart{Marker: marker, Indent: indent, Style: style},
	})
	b.afterSpace = false
	b.afterPunct = false
	return nil
}

// Items returns the items added so far, without the end of paragraph
// marker.
func (b *Builder) Items() []typeset.Item {
	return b.items
}

// Paragraph returns the finished paragraph and resets the builder.
func (b *Builder) Paragraph() []typeset.Item {
	items := append(b.items, typeset.ParagraphEnd()...)
	tracer().Debugf("paragraph with %d items", len(items))

	b.items = nil
	b.afterSpace = false
	b.afterPunct = false
	return items
}

func tracer() tracing.Trace {
	return gtrace.CoreTracer
}
