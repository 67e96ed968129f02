package grid

import "fmt"

// Coord addresses one cell, 0-based.
type Coord struct {
	Row int
	Col int
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Range is a selection rectangle spanned by two corners. Anchor stays fixed
// for the duration of a selection gesture; Focus tracks the pointer or the
// keyboard cursor.
type Range struct {
	Anchor Coord
	Focus  Coord
}

// Bounds returns the inclusive rectangle covered by the range.
func (r Range) Bounds() (rowMin, rowMax, colMin, colMax int) {
	rowMin, rowMax = minmax(r.Anchor.Row, r.Focus.Row)
	colMin, colMax = minmax(r.Anchor.Col, r.Focus.Col)
	return rowMin, rowMax, colMin, colMax
}

// Contains reports whether c lies inside the rectangle, edges included.
func (r Range) Contains(c Coord) bool {
	rowMin, rowMax, colMin, colMax := r.Bounds()
	return c.Row >= rowMin && c.Row <= rowMax && c.Col >= colMin && c.Col <= colMax
}

// Rows returns the number of rows spanned.
func (r Range) Rows() int {
	rowMin, rowMax, _, _ := r.Bounds()
	return rowMax - rowMin + 1
}

// Cols returns the number of columns spanned.
func (r Range) Cols() int {
	_, _, colMin, colMax := r.Bounds()
	return colMax - colMin + 1
}

// Cells returns the number of cells in the rectangle.
func (r Range) Cells() int {
	return r.Rows() * r.Cols()
}

func minmax(a, b int) (int, int) {
	if a <= b {
		return a, b
	}
	return b, a
}
