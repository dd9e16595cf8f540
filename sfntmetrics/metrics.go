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

// Package sfntmetrics measures text using TrueType and OpenType fonts.
package sfntmetrics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/image/font/gofont/goregular"
	"seehuhn.de/go/sfnt"
	"seehuhn.de/go/sfnt/cmap"
	"seehuhn.de/go/sfnt/glyph"

	"seehuhn.de/go/typeset"
)

// ErrNoFont is returned if a style refers to a font which has not been
// added, and no fallback font is set.
var ErrNoFont = errors.New("font not found")

type fontInfo struct {
	font *sfnt.Font
	cmap cmap.Subtable
	upem float64
}

// Metrics implements [typeset.FontMetrics] for sfnt fonts.
type Metrics struct {
	fonts    map[string]*fontInfo
	fallback *fontInfo
}

// New returns an empty font collection.
func New() *Metrics {
	return &Metrics{
		fonts: make(map[string]*fontInfo),
	}
}

// GoRegular returns a font collection which uses the Go Regular font for
// all styles.
func GoRegular() (*Metrics, error) {
	m := New()
	err := m.Add("", bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Add reads a font and registers it under the given name.
// The font added with the empty name is used for all unknown names.
func (m *Metrics) Add(name string, r io.Reader) error {
	info, err := sfnt.Read(r)
	if err != nil {
		return fmt.Errorf("font %q: %w", name, err)
	}
	subtable, err := info.CMapTable.GetBest()
	if err != nil {
		return fmt.Errorf("font %q: %w", name, err)
	}
	fi := &fontInfo{
		font: info,
		cmap: subtable,
		upem: float64(info.UnitsPerEm),
	}
	if name == "" {
		m.fallback = fi
	} else {
		m.fonts[name] = fi
	}
	return nil
}

// AddFile reads a font file.
func (m *Metrics) AddFile(name, fileName string) error {
	fd, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer fd.Close()
	return m.Add(name, fd)
}

func (m *Metrics) get(style *typeset.Style) (*fontInfo, error) {
	if fi, ok := m.fonts[style.Font]; ok {
		return fi, nil
	}
	if m.fallback != nil {
		return m.fallback, nil
	}
	return nil, fmt.Errorf("%q: %w", style.Font, ErrNoFont)
}

// MeasureString implements the [typeset.FontMetrics] interface.
func (m *Metrics) MeasureString(style *typeset.Style, text string) (typeset.StringMetrics, error) {
	fi, err := m.get(style)
	if err != nil {
		return typeset.StringMetrics{}, err
	}
	q := style.FontSize / fi.upem

	var width float64
	for _, r := range text {
		gid := fi.cmap.Lookup(r)
		width += float64(fi.font.GlyphWidth(gid))
	}
	ascent := float64(fi.font.Ascent) * q
	descent := float64(fi.font.Descent) * q // negative
	return typeset.StringMetrics{
		Width:  width * q,
		Height: ascent - descent,
		Ascent: ascent,
	}, nil
}

// SpaceWidth implements the [typeset.FontMetrics] interface.
// If the font has no space glyph, a quarter of the font size is used.
func (m *Metrics) SpaceWidth(style *typeset.Style) (float64, error) {
	fi, err := m.get(style)
	if err != nil {
		return 0, err
	}
	gid := fi.cmap.Lookup(' ')
	if gid == glyph.ID(0) {
		return style.FontSize / 4, nil
	}
	return float64(fi.font.GlyphWidth(gid)) * style.FontSize / fi.upem, nil
}
