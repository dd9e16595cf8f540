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

package typeset

import (
	"github.com/npillmayer/schuko/tracing"
)

// StringMetrics gives the dimensions of a typeset string.
type StringMetrics struct {
	Width  float64
	Height float64
	Ascent float64
}

// FontMetrics measures text.  Implementations must return the same
// values when called repeatedly with the same arguments.
type FontMetrics interface {
	MeasureString(style *Style, text string) (StringMetrics, error)
	SpaceWidth(style *Style) (float64, error)
}

// Hyphenator splits a word into the fragments between its hyphenation
// points.
type Hyphenator interface {
	Hyphenate(word string) []string
}

// Config holds the parameters for a typesetting run.
type Config struct {
	PageSize Size
	Insets   Insets

	// LineHeight is used for styles which do not specify one.
	LineHeight float64

	// Style is used for nodes which have no style attached.
	Style *Style

	Tolerance      float64
	Looseness      int
	FlaggedDemerit float64
	FitnessDemerit float64

	// QualityLevels is the number of attempts to find optimal line
	// breaks before falling back to first-fit.  Attempt q multiplies all
	// glue stretch by 2^q.
	QualityLevels int

	FootnoteLineLength float64 // default: a third of the text width
	FootnoteLineWidth  float64
	FootnoteMarginTop  float64
	FootnotePaddingTop float64

	ShowLineNumbers bool

	Metrics    FontMetrics
	Hyphenator Hyphenator

	// Tracer receives debug output.  If this is nil, gtrace.CoreTracer
	// is used.
	Tracer tracing.Trace
}

// A4 is the size of an A4 page in PDF points.
var A4 = Size{Width: 595.276, Height: 841.89}

// DefaultConfig returns the default parameters, for A4 paper with
// one inch margins.  The caller must set Metrics.
func DefaultConfig() *Config {
	return &Config{
		PageSize:   A4,
		Insets:     Insets{Top: 72, Right: 72, Bottom: 72, Left: 72},
		LineHeight: 14,
		Style: &Style{
			Font:     "default",
			FontSize: 11,
			Color:    Black,
			Justify:  true,
		},
		Tolerance:      1,
		Looseness:      0,
		FlaggedDemerit: 100,
		FitnessDemerit: 100,
		QualityLevels:  5,

		FootnoteLineWidth:  0.5,
		FootnoteMarginTop:  12,
		FootnotePaddingTop: 6,
	}
}

// Validate checks the configuration for consistency.
func (cfg *Config) Validate() error {
	switch {
	case cfg.PageSize.Width <= 0 || cfg.PageSize.Height <= 0:
		return &InvalidConfigError{Field: "PageSize", Reason: "must be positive"}
	case cfg.TextWidth() <= 0:
		return &InvalidConfigError{Field: "Insets", Reason: "leave no room for text"}
	case cfg.LineHeight <= 0:
		return &InvalidConfigError{Field: "LineHeight", Reason: "must be positive"}
	case !(cfg.Tolerance > 0):
		return &InvalidConfigError{Field: "Tolerance", Reason: "must be positive"}
	case cfg.FlaggedDemerit < 0:
		return &InvalidConfigError{Field: "FlaggedDemerit", Reason: "must not be negative"}
	case cfg.FitnessDemerit < 0:
		return &InvalidConfigError{Field: "FitnessDemerit", Reason: "must not be negative"}
	case cfg.QualityLevels < 0:
		return &InvalidConfigError{Field: "QualityLevels", Reason: "must not be negative"}
	case cfg.Metrics == nil:
		return &InvalidConfigError{Field: "Metrics", Reason: ErrMissingMetrics.Error()}
	}
	return nil
}

// TextWidth returns the width between the left and right page insets.
func (cfg *Config) TextWidth() float64 {
	return cfg.PageSize.Width - cfg.Insets.Horizontal()
}

func (cfg *Config) footnoteLineLength() float64 {
	if cfg.FootnoteLineLength > 0 {
		return cfg.FootnoteLineLength
	}
	return cfg.TextWidth() / 3
}
