package workbook

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/mptcli/cli/internal/errors"
	"github.com/mptcli/cli/internal/interfaces"
	"github.com/xuri/excelize/v2"
)

// coordinatePattern accepts A1-style cell references only.
var coordinatePattern = regexp.MustCompile(`^[A-Z]+[0-9]+$`)

// Store implements the WorkbookStore interface on top of an xlsx file.
// The file is opened on first access and all writes stay in memory until
// Save is called.
type Store struct {
	path string
	file *excelize.File
}

// NewStore creates a store for the workbook at the given path. The file is
// not opened until the first operation that needs it.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Exists reports whether the workbook file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Create initializes a new workbook with a single sheet named General and
// writes it to disk.
func (s *Store) Create() error {
	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(f.GetActiveSheetIndex())
	if defaultSheet != "General" {
		if err := f.SetSheetName(defaultSheet, "General"); err != nil {
			return fmt.Errorf("failed to rename default sheet: %w", err)
		}
	}
	s.file = f
	return s.Save()
}

// open loads the workbook from disk if it has not been loaded yet.
func (s *Store) open() (*excelize.File, error) {
	if s.file != nil {
		return s.file, nil
	}
	f, err := excelize.OpenFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", s.path, err)
	}
	s.file = f
	return s.file, nil
}

// SheetNames returns the workbook's sheet names in order.
func (s *Store) SheetNames() ([]string, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	return f.GetSheetList(), nil
}

// GetCell reads a single cell by A1-style coordinate.
func (s *Store) GetCell(sheet, coordinate string) (interfaces.Cell, error) {
	if !coordinatePattern.MatchString(coordinate) {
		return interfaces.Cell{}, &errors.InvalidCoordinateError{Coordinate: coordinate}
	}
	f, err := s.open()
	if err != nil {
		return interfaces.Cell{}, err
	}
	value, err := f.GetCellValue(sheet, coordinate)
	if err != nil {
		return interfaces.Cell{}, fmt.Errorf("failed to read cell %s!%s: %w", sheet, coordinate, err)
	}
	return interfaces.Cell{Value: value, Coordinate: coordinate}, nil
}

// GetVertical reads a key-value sheet: field names in column A, values in
// column B. The returned cells carry the column-B coordinate. When fields
// is non-empty only the named fields are returned.
func (s *Store) GetVertical(sheet string, fields []string) (map[string]interfaces.Cell, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}

	wanted := fieldSet(fields)
	result := make(map[string]interfaces.Cell)
	for i, row := range rows {
		if len(row) == 0 || row[0] == "" {
			continue
		}
		name := row[0]
		if wanted != nil {
			if _, ok := wanted[name]; !ok {
				continue
			}
		}
		value := ""
		if len(row) > 1 {
			value = row[1]
		}
		result[name] = interfaces.Cell{
			Value:      value,
			Coordinate: fmt.Sprintf("B%d", i+1),
		}
	}
	return result, nil
}

// GetHorizontal reads a row-per-record sheet: headers in row 1, one record
// per non-empty row below it.
func (s *Store) GetHorizontal(sheet string, fields []string) ([]interfaces.Row, error) {
	return s.readRows(sheet, fields, nil)
}

// GetDynamic reads a horizontal sheet but additionally includes any column
// whose header matches one of the given patterns.
func (s *Store) GetDynamic(sheet string, fields []string, patterns []*regexp.Regexp) ([]interfaces.Row, error) {
	return s.readRows(sheet, fields, patterns)
}

func (s *Store) readRows(sheet string, fields []string, patterns []*regexp.Regexp) ([]interfaces.Row, error) {
	f, err := s.open()
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	headers := rows[0]
	wanted := fieldSet(fields)

	var result []interfaces.Row
	for i, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		rowNum := i + 2
		record := make(interfaces.Row)
		for col, header := range headers {
			if header == "" {
				continue
			}
			if !includeHeader(header, wanted, patterns) {
				continue
			}
			value := ""
			if col < len(row) {
				value = row[col]
			}
			coord, err := excelize.CoordinatesToCellName(col+1, rowNum)
			if err != nil {
				return nil, fmt.Errorf("failed to build coordinate for column %d: %w", col+1, err)
			}
			record[header] = interfaces.Cell{Value: value, Coordinate: coord}
		}
		result = append(result, record)
	}
	return result, nil
}

// includeHeader decides whether a column belongs to a record. With no field
// restriction every header is included.
func includeHeader(header string, wanted map[string]struct{}, patterns []*regexp.Regexp) bool {
	if wanted == nil && patterns == nil {
		return true
	}
	if wanted != nil {
		if _, ok := wanted[header]; ok {
			return true
		}
	}
	for _, p := range patterns {
		if p.MatchString(header) {
			return true
		}
	}
	return false
}

// WriteCells applies a batch of coordinate writes and persists the file.
func (s *Store) WriteCells(batch []interfaces.CellWrite) error {
	f, err := s.open()
	if err != nil {
		return err
	}
	for _, w := range batch {
		if !coordinatePattern.MatchString(w.Coordinate) {
			return &errors.InvalidCoordinateError{Coordinate: w.Coordinate}
		}
		if err := s.ensureSheet(w.Sheet); err != nil {
			return err
		}
		if err := f.SetCellValue(w.Sheet, w.Coordinate, w.Value); err != nil {
			return fmt.Errorf("failed to write cell %s!%s: %w", w.Sheet, w.Coordinate, err)
		}
	}
	return s.Save()
}

// WriteCell writes one cell, optionally attaching a drop-down validation or
// a currency number format.
func (s *Store) WriteCell(sheet, column string, row int, value any, opts *interfaces.CellOptions) error {
	f, err := s.open()
	if err != nil {
		return err
	}
	if err := s.ensureSheet(sheet); err != nil {
		return err
	}
	coordinate := fmt.Sprintf("%s%d", column, row)
	if !coordinatePattern.MatchString(coordinate) {
		return &errors.InvalidCoordinateError{Coordinate: coordinate}
	}
	if err := f.SetCellValue(sheet, coordinate, value); err != nil {
		return fmt.Errorf("failed to write cell %s!%s: %w", sheet, coordinate, err)
	}
	if opts == nil {
		return nil
	}

	if len(opts.Validation) > 0 {
		dv := excelize.NewDataValidation(true)
		dv.Sqref = coordinate
		if err := dv.SetDropList(opts.Validation); err != nil {
			return fmt.Errorf("failed to build drop list for %s!%s: %w", sheet, coordinate, err)
		}
		if err := f.AddDataValidation(sheet, dv); err != nil {
			return fmt.Errorf("failed to attach validation to %s!%s: %w", sheet, coordinate, err)
		}
	}

	if opts.Currency != "" || opts.Bold {
		style := &excelize.Style{}
		if opts.Currency != "" {
			format := currencyFormat(opts.Currency, opts.Precision)
			style.CustomNumFmt = &format
		}
		if opts.Bold {
			style.Font = &excelize.Font{Bold: true}
		}
		styleID, err := f.NewStyle(style)
		if err != nil {
			return fmt.Errorf("failed to create cell style: %w", err)
		}
		if err := f.SetCellStyle(sheet, coordinate, coordinate, styleID); err != nil {
			return fmt.Errorf("failed to apply cell style to %s!%s: %w", sheet, coordinate, err)
		}
	}
	return nil
}

// Merge merges the cells in an A1:B1-style range.
func (s *Store) Merge(sheet, cellRange string) error {
	f, err := s.open()
	if err != nil {
		return err
	}
	parts := strings.SplitN(cellRange, ":", 2)
	if len(parts) != 2 {
		return fmt.Errorf("invalid merge range %q", cellRange)
	}
	if err := f.MergeCell(sheet, parts[0], parts[1]); err != nil {
		return fmt.Errorf("failed to merge %s!%s: %w", sheet, cellRange, err)
	}
	return nil
}

// NextColumn returns the name of the first column to the right of the
// header row.
func (s *Store) NextColumn(sheet string) (string, error) {
	f, err := s.open()
	if err != nil {
		return "", err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	name, err := excelize.ColumnNumberToName(width + 1)
	if err != nil {
		return "", fmt.Errorf("failed to compute next column: %w", err)
	}
	return name, nil
}

// NextRow returns the first free row number below the existing content.
func (s *Store) NextRow(sheet string) (int, error) {
	f, err := s.open()
	if err != nil {
		return 0, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return len(rows) + 1, nil
}

// Save persists buffered changes to disk.
func (s *Store) Save() error {
	if s.file == nil {
		return nil
	}
	if err := s.file.SaveAs(s.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", s.path, err)
	}
	return nil
}

func (s *Store) ensureSheet(sheet string) error {
	idx, err := s.file.GetSheetIndex(sheet)
	if err != nil {
		return fmt.Errorf("failed to look up sheet %s: %w", sheet, err)
	}
	if idx >= 0 {
		return nil
	}
	if _, err := s.file.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	return nil
}

func fieldSet(fields []string) map[string]struct{} {
	if fields == nil {
		return nil
	}
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// currencyFormat builds a number format like `#,##0.00 "EUR"`.
func currencyFormat(currency string, precision int) string {
	if precision <= 0 {
		return fmt.Sprintf(`#,##0 "%s"`, currency)
	}
	return fmt.Sprintf(`#,##0.%s "%s"`, strings.Repeat("0", precision), currency)
}
