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

// Kptypeset sets a plain text file as a PDF document.
//
// Paragraphs are separated by blank lines.  A form feed character starts
// a new page.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/text/language"

	"seehuhn.de/go/typeset"
	"seehuhn.de/go/typeset/hyphen"
	"seehuhn.de/go/typeset/pdfout"
	"seehuhn.de/go/typeset/sfntmetrics"
	"seehuhn.de/go/typeset/textpar"
)

func main() {
	out := flag.String("o", "out.pdf", "name of the output file")
	tolerance := flag.Float64("tolerance", 1, "maximal adjustment ratio of a line")
	looseness := flag.Int("looseness", 0, "preferred change in the number of lines")
	fontFile := flag.String("font", "", "TrueType or OpenType font (default: Go Regular)")
	fontSize := flag.Float64("size", 11, "font size in points")
	hyph := flag.String("hyph", "", "file with hyphenation patterns")
	lang := flag.String("lang", "en", "language of the text")
	justify := flag.Bool("justify", true, "justify the lines")
	debug := flag.Bool("debug", false, "draw the element outlines")
	verbose := flag.Bool("v", false, "show debug output")
	flag.Parse()

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "usage: kptypeset [options] [file.txt]")
		os.Exit(1)
	}

	opt := &options{
		out:       *out,
		tolerance: *tolerance,
		looseness: *looseness,
		fontFile:  *fontFile,
		fontSize:  *fontSize,
		hyph:      *hyph,
		lang:      *lang,
		justify:   *justify,
		debug:     *debug,
	}
	if *verbose {
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelDebug)
	} else {
		gtrace.CoreTracer.SetTraceLevel(tracing.LevelError)
	}

	in := os.Stdin
	if flag.NArg() == 1 {
		fd, err := os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer fd.Close()
		in = fd
	}

	err := run(in, opt)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	out       string
	tolerance float64
	looseness int
	fontFile  string
	fontSize  float64
	hyph      string
	lang      string
	justify   bool
	debug     bool
}

func run(in io.Reader, opt *options) error {
	var metrics *sfntmetrics.Metrics
	var err error
	if opt.fontFile != "" {
		metrics = sfntmetrics.New()
		err = metrics.AddFile("", opt.fontFile)
	} else {
		metrics, err = sfntmetrics.GoRegular()
	}
	if err != nil {
		return err
	}

	cfg := typeset.DefaultConfig()
	cfg.Metrics = metrics
	cfg.Tolerance = opt.tolerance
	cfg.Looseness = opt.looseness
	cfg.Style.FontSize = opt.fontSize
	cfg.Style.Justify = opt.justify
	cfg.LineHeight = 1.25 * opt.fontSize

	if opt.hyph != "" {
		tag, err := language.Parse(opt.lang)
		if err != nil {
			return err
		}
		reg := &hyphen.Registry{}
		reg.RegisterFile(tag, opt.hyph)
		h, err := reg.Get(tag)
		if err != nil {
			return err
		}
		if h != nil {
			cfg.Hyphenator = h
		}
	}

	doc, err := readDocument(in, cfg)
	if err != nil {
		return err
	}
	pages, err := typeset.Typeset(doc, cfg)
	if err != nil {
		return err
	}
	return pdfout.Write(opt.out, pages, &pdfout.Options{Debug: opt.debug})
}

// readDocument converts plain text into a document.  Every paragraph is
// a text block, and form feeds start new groups.
func readDocument(in io.Reader, cfg *typeset.Config) (*typeset.Document, error) {
	b := textpar.NewBuilder(cfg.Metrics, cfg.Style)
	b.Hyphenator = cfg.Hyphenator
	b.Width = cfg.TextWidth()

	doc := &typeset.Document{}
	var group []typeset.Block
	var par []string
	lineNo := 0
	parStart := 0

	flushPar := func() error {
		if len(par) == 0 {
			return nil
		}
		err := b.AddText(nil, strings.Join(par, " "))
		if err != nil {
			return err
		}
		group = append(group, &typeset.TextBlock{
			Node:  typeset.Node{Pos: fmt.Sprintf("line %d", parStart)},
			Items: b.Paragraph(),
		})
		par = par[:0]
		return nil
	}
	flushGroup := func() {
		if len(group) > 0 {
			doc.Content = append(doc.Content, group)
			group = nil
		}
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		for {
			before, after, found := strings.Cut(line, "\f")
			if strings.TrimSpace(before) == "" {
				err := flushPar()
				if err != nil {
					return nil, err
				}
			} else {
				if len(par) == 0 {
					parStart = lineNo
				}
				par = append(par, strings.TrimSpace(before))
			}
			if !found {
				break
			}
			err := flushPar()
			if err != nil {
				return nil, err
			}
			flushGroup()
			line = after
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	err := flushPar()
	if err != nil {
		return nil, err
	}
	flushGroup()
	return doc, nil
}
