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

import "fmt"

// BlockKind distinguishes the types of [Block].
type BlockKind int

const (
	KindText BlockKind = iota
	KindImage
	KindMath
	KindTable
	KindCode
	KindTocEntry
)

func (k BlockKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	case KindMath:
		return "math"
	case KindTable:
		return "table"
	case KindCode:
		return "code"
	case KindTocEntry:
		return "toc entry"
	default:
		return fmt.Sprintf("BlockKind(%d)", int(k))
	}
}

// Node holds the information common to all blocks.
type Node struct {
	// ID, if non-empty, allows table of contents entries to refer to
	// the page where the block starts.
	ID string

	// Pos describes the source location of the block, for error messages.
	Pos string

	// Style is the resolved style of the block.  If this is nil,
	// [Config.Style] is used.
	Style *Style
}

func (n *Node) String() string {
	switch {
	case n.Pos != "" && n.ID != "":
		return n.Pos + " (" + n.ID + ")"
	case n.Pos != "":
		return n.Pos
	case n.ID != "":
		return n.ID
	default:
		return "<node>"
	}
}

func (n *Node) node() *Node {
	return n
}

// A Block is a unit of vertical layout.  The concrete types are
// [*TextBlock], [*ImageBlock], [*MathBlock], [*TableBlock], [*CodeBlock]
// and [*TocEntryBlock].
type Block interface {
	Kind() BlockKind
	node() *Node
}

// TextBlock is a paragraph of running text.
type TextBlock struct {
	Node
	Items []Item

	ShowLineNumbers bool
}

// ImageBlock is an image, scaled to the given width (or to the full text
// width, if Width is zero).  A floating image which is not centered lets
// the following text flow around it.
type ImageBlock struct {
	Node
	Source  string
	Ratio   float64 // width / height
	Width   float64
	Float   bool
	Caption *TextBlock
}

// MathBlock is a pre-typeset display formula.
type MathBlock struct {
	Node
	Expr string
	Size Size
}

// TableBlock is a table with fixed column widths.
type TableBlock struct {
	Node
	Columns []float64

	// RowHeights gives fixed heights for rows.  Rows with missing or
	// non-positive entries are as high as their tallest cell.
	RowHeights []float64

	Cells   []*Cell
	Caption *TextBlock
}

// Cell is a table cell.  Rows and columns are numbered from 0.
type Cell struct {
	Row, Col         int
	RowSpan, ColSpan int // 0 is treated as 1
	Content          []Block
	Style            *Style
}

// CodeBlock is a listing, set line by line without hyphenation.
type CodeBlock struct {
	Node
	Lines []string

	// StartLine and EndLine select the lines to show, counting from 1.
	// Zero values select the beginning and end of the listing.
	StartLine, EndLine int

	ShowLineNumbers bool
	Caption         *TextBlock
}

// TocEntryBlock is a table of contents entry.  The number of the page
// where the block with the ID Target starts is shown at the right margin.
type TocEntryBlock struct {
	Node
	Items  []Item
	Target string
}

func (*TextBlock) Kind() BlockKind     { return KindText }
func (*ImageBlock) Kind() BlockKind    { return KindImage }
func (*MathBlock) Kind() BlockKind     { return KindMath }
func (*TableBlock) Kind() BlockKind    { return KindTable }
func (*CodeBlock) Kind() BlockKind     { return KindCode }
func (*TocEntryBlock) Kind() BlockKind { return KindTocEntry }

// Document is the input of [Typeset].
type Document struct {
	// Content is a list of groups of blocks.  Every group starts on a
	// new page.
	Content [][]Block

	Headers []PageContent
	Footers []PageContent

	// Footnotes maps the note IDs of [FootnoteRef] boxes to the
	// footnote text.
	Footnotes map[string][]Block
}

// PageContent is a header or footer.
type PageContent struct {
	// Range selects the pages.  A nil Range matches all pages which are
	// not matched by any other entry.
	Range  *PageRange
	Blocks []Block
}

// LastPage can be used as the end of a [PageRange].
const LastPage = -1

// PageRange is a range of page numbers, including both ends.
type PageRange struct {
	Start, End int
}

// Contains reports whether page n is in the range.
func (r *PageRange) Contains(n int) bool {
	return n >= r.Start && (r.End == LastPage || n <= r.End)
}

// findPageContent returns the blocks for page n.
func findPageContent(list []PageContent, n int) []Block {
	var def []Block
	for _, pc := range list {
		if pc.Range == nil {
			if def == nil {
				def = pc.Blocks
			}
			continue
		}
		if pc.Range.Contains(n) {
			return pc.Blocks
		}
	}
	return def
}
