package interfaces

import "regexp"

// Cell is a single spreadsheet value together with the A1-style coordinate
// it was read from. The coordinate is the write-back target for IDs and
// error messages.
type Cell struct {
	Value      string
	Coordinate string
}

// Row maps a header name to the cell found under it.
type Row map[string]Cell

// CellWrite is one element of a buffered write batch.
type CellWrite struct {
	Sheet      string
	Coordinate string
	Value      string
}

// CellOptions carries optional presentation attributes for a written cell.
type CellOptions struct {
	// Validation restricts the cell to the given values via a drop-down.
	Validation []string
	// Currency and Precision format a numeric cell as money when Currency
	// is non-empty.
	Currency  string
	Precision int
	Bold      bool
}

// WorkbookStore is cell-level access to a named-sheet workbook on disk.
// Opening is lazy and writes are buffered until Save.
type WorkbookStore interface {
	Exists() bool
	Create() error
	SheetNames() ([]string, error)
	GetCell(sheet, coordinate string) (Cell, error)
	GetVertical(sheet string, fields []string) (map[string]Cell, error)
	GetHorizontal(sheet string, fields []string) ([]Row, error)
	GetDynamic(sheet string, fields []string, patterns []*regexp.Regexp) ([]Row, error)
	WriteCells(batch []CellWrite) error
	WriteCell(sheet, column string, row int, value any, opts *CellOptions) error
	Merge(sheet, cellRange string) error
	NextColumn(sheet string) (string, error)
	NextRow(sheet string) (int, error)
	Save() error
}
