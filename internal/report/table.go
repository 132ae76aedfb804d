package report

import "fmt"

// ShapeError reports a table whose rows do not share one arity. It marks a
// caller bug, not a data condition: the section renderers always build
// uniform rows from the fetched records.
type ShapeError struct {
	Row  int // offending row index, -1 for the header
	Got  int
	Want int
}

func (e *ShapeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("table header has %d columns, rows have %d", e.Got, e.Want)
	}
	return fmt.Sprintf("table row %d has %d columns, want %d", e.Row, e.Got, e.Want)
}

// Table is an ordered grid of cell strings handed to the document writer.
// Wide marks columns that receive a double width share (a notes column).
type Table struct {
	Header []string
	Rows   [][]string
	Wide   map[int]bool
}

// arity returns the table's column count, preferring the header.
func (t Table) arity() int {
	if len(t.Header) > 0 {
		return len(t.Header)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// ColumnWidths divides contentWidth between the table's columns: one share
// per column, two shares for wide-flagged columns. It validates that every
// row matches the table's arity.
func (t Table) ColumnWidths(contentWidth float64) ([]float64, error) {
	n := t.arity()
	if n == 0 {
		return nil, nil
	}
	if len(t.Header) > 0 && len(t.Rows) > 0 && len(t.Rows[0]) != len(t.Header) {
		return nil, &ShapeError{Row: -1, Got: len(t.Header), Want: len(t.Rows[0])}
	}
	for i, row := range t.Rows {
		if len(row) != n {
			return nil, &ShapeError{Row: i, Got: len(row), Want: n}
		}
	}

	totalShares := 0.0
	for i := 0; i < n; i++ {
		if t.Wide[i] {
			totalShares += 2
		} else {
			totalShares++
		}
	}

	widths := make([]float64, n)
	for i := 0; i < n; i++ {
		share := 1.0
		if t.Wide[i] {
			share = 2.0
		}
		widths[i] = contentWidth * share / totalShares
	}
	return widths, nil
}
