package typeset

import (
	"fmt"
	"math"
)

type placedCell struct {
	*Cell
	elements []Element
	height   float64
	width    float64
	pad      Insets
}

// typesetTable places a table.  Every cell is typeset separately, then
// the table is placed row by row.  A row which does not fit (together
// with all rows covered by cells starting in this row) is moved to the
// next page.
func (c *Context) typesetTable(b *TableBlock) error {
	n := &b.Node
	s, _, err := c.resolve(n)
	if err != nil {
		return err
	}
	mg, pd := s.Margin, s.Padding

	numCols := len(b.Columns)
	colX := make([]float64, numCols+1)
	for i, w := range b.Columns {
		colX[i+1] = colX[i] + w
	}

	numRows := len(b.RowHeights)
	for _, cell := range b.Cells {
		if cell.Row < 0 || cell.Col < 0 || cell.Col+span(cell.ColSpan) > numCols {
			return &StructuralMisuseError{
				Node:   n,
				Reason: fmt.Sprintf("cell (%d,%d) outside the table", cell.Row, cell.Col),
			}
		}
		for _, sub := range cell.Content {
			switch sub.(type) {
			case *TableBlock, *CodeBlock:
				return &StructuralMisuseError{
					Node:   sub.node(),
					Reason: fmt.Sprintf("%s block inside a table cell", sub.Kind()),
				}
			}
		}
		numRows = max(numRows, cell.Row+span(cell.RowSpan))
	}

	// typeset the cell contents
	cells := make([]*placedCell, len(b.Cells))
	rowH := make([]float64, numRows)
	for i, cell := range b.Cells {
		pc := &placedCell{
			Cell:  cell,
			width: colX[cell.Col+span(cell.ColSpan)] - colX[cell.Col],
		}
		if cell.Style != nil {
			pc.pad = cell.Style.Padding
		}
		els, h, err := c.typesetNested(cell.Content, pc.width-pc.pad.Horizontal())
		if err != nil {
			return err
		}
		pc.elements = els
		pc.height = h + pc.pad.Vertical()
		cells[i] = pc
		if span(cell.RowSpan) == 1 {
			rowH[cell.Row] = max(rowH[cell.Row], pc.height)
		}
	}
	for r, h := range b.RowHeights {
		if h > 0 {
			rowH[r] = h
		}
	}
	// Spanning cells grow the last row they cover.
	for _, pc := range cells {
		k := span(pc.RowSpan)
		if k == 1 {
			continue
		}
		last := pc.Row + k - 1
		total := 0.0
		for r := pc.Row; r <= last; r++ {
			total += rowH[r]
		}
		if pc.height > total && !(last < len(b.RowHeights) && b.RowHeights[last] > 0) {
			rowH[last] += pc.height - total
		}
	}

	c.y += mg.Top + pd.Top
	x0 := c.insets.Left + mg.Left + pd.Left

	// unit[r] is the height which must fit on the page before row r is placed
	unit := make([]float64, numRows)
	copy(unit, rowH)
	for _, pc := range cells {
		h := 0.0
		for r := pc.Row; r < pc.Row+span(pc.RowSpan); r++ {
			h += rowH[r]
		}
		unit[pc.Row] = math.Max(unit[pc.Row], h)
	}

	for r := 0; r < numRows; r++ {
		if unit[r] > c.available() && !c.atTop() {
			err := c.pushPage()
			if err != nil {
				return err
			}
		}
		for _, pc := range cells {
			if pc.Row != r {
				continue
			}
			h := 0.0
			for k := r; k < r+span(pc.RowSpan); k++ {
				h += rowH[k]
			}
			x := x0 + colX[pc.Col]
			if pc.Style != nil && pc.Style.hasBackground() {
				rect := &Rect{
					Fill:        pc.Style.Background,
					Border:      pc.Style.Border,
					BorderColor: pc.Style.BorderColor,
				}
				rect.Pos = Position{X: x, Y: c.y}
				rect.Size = Size{Width: pc.width, Height: h}
				c.emit(rect)
			}
			for _, el := range pc.elements {
				el.Extent().shift(x+pc.pad.Left, c.y+pc.pad.Top)
				c.emit(el)
			}
		}
		c.y += rowH[r]
	}

	c.y += pd.Bottom + mg.Bottom
	return c.typesetCaption(b.Caption)
}

func span(k int) int {
	if k < 1 {
		return 1
	}
	return k
}
