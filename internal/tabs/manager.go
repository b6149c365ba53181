package tabs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/mptcli/cli/internal/errors"
	"github.com/mptcli/cli/internal/interfaces"
)

const errorHeader = "Error"

// Manager translates between typed entity records and one sheet of a
// workbook. The read/write logic branches on the spec's shape; the
// per-entity schema itself is plain data.
type Manager struct {
	spec      Spec
	store     interfaces.WorkbookStore
	currency  string
	precision int
}

// NewManager binds a tab spec to a workbook store.
func NewManager(spec Spec, store interfaces.WorkbookStore) *Manager {
	return &Manager{spec: spec, store: store}
}

// Spec returns the tab's schema.
func (m *Manager) Spec() Spec {
	return m.spec
}

// SheetName returns the tab's sheet name.
func (m *Manager) SheetName() string {
	return m.spec.SheetName
}

// SetCurrency attaches a currency format to the spec's currency fields for
// subsequent Add calls.
func (m *Manager) SetCurrency(currency string, precision int) {
	m.currency = currency
	m.precision = precision
}

// CreateTab writes the tab skeleton: a merged title plus field labels for
// vertical sheets, a bold header row for horizontal ones.
func (m *Manager) CreateTab() error {
	bold := &interfaces.CellOptions{Bold: true}
	if m.spec.Shape == Vertical {
		if err := m.store.WriteCell(m.spec.SheetName, "A", 1, m.spec.Title, bold); err != nil {
			return err
		}
		if err := m.store.Merge(m.spec.SheetName, "A1:B1"); err != nil {
			return err
		}
		for i, field := range m.spec.Fields {
			if err := m.store.WriteCell(m.spec.SheetName, "A", i+2, field, bold); err != nil {
				return err
			}
		}
		return m.store.Save()
	}

	for i, field := range m.spec.Fields {
		if err := m.store.WriteCell(m.spec.SheetName, columnName(i+1), 1, field, bold); err != nil {
			return err
		}
	}
	return m.store.Save()
}

// ReadVertical reads a vertical sheet into a field-to-cell mapping.
func (m *Manager) ReadVertical() (map[string]interfaces.Cell, error) {
	return m.store.GetVertical(m.spec.SheetName, m.spec.Fields)
}

// ReadRows reads a horizontal or dynamic sheet into row mappings.
func (m *Manager) ReadRows() ([]interfaces.Row, error) {
	if m.spec.Shape == Dynamic {
		return m.store.GetDynamic(m.spec.SheetName, m.spec.Fields, m.spec.DynamicPatterns)
	}
	return m.store.GetHorizontal(m.spec.SheetName, m.spec.Fields)
}

// AddVertical fills a vertical sheet's value column in field order.
func (m *Manager) AddVertical(values map[string]any) error {
	for i, field := range m.spec.Fields {
		value, ok := values[field]
		if !ok {
			continue
		}
		if err := m.store.WriteCell(m.spec.SheetName, "B", i+2, value, nil); err != nil {
			return err
		}
	}
	return m.store.Save()
}

// Add appends records to a horizontal sheet starting at the first free
// row. Dynamic sheets grow extra columns for keys outside the static field
// set; action cells get their drop-down, currency fields their format.
func (m *Manager) Add(records []map[string]any) error {
	if len(records) == 0 {
		return m.store.Save()
	}

	columns := make(map[string]string, len(m.spec.Fields))
	for i, field := range m.spec.Fields {
		columns[field] = columnName(i + 1)
	}
	fields := m.spec.Fields
	if m.spec.Shape == Dynamic {
		extra, err := m.placeExtraHeaders(records, columns)
		if err != nil {
			return err
		}
		fields = append(append([]string(nil), m.spec.Fields...), extra...)
	}

	row, err := m.store.NextRow(m.spec.SheetName)
	if err != nil {
		return err
	}
	for _, record := range records {
		for _, field := range fields {
			value, ok := record[field]
			if !ok {
				continue
			}
			if err := m.store.WriteCell(m.spec.SheetName, columns[field], row, value, m.cellOptions(field)); err != nil {
				return err
			}
		}
		row++
	}
	return m.store.Save()
}

// placeExtraHeaders assigns columns to the records' dynamic keys. Headers
// already present in row 1 keep their column, so a later batch of records
// lines up with the columns an earlier batch created; only genuinely new
// headers are appended after the last occupied header cell.
func (m *Manager) placeExtraHeaders(records []map[string]any, columns map[string]string) ([]string, error) {
	next := len(m.spec.Fields) + 1
	for i := next; ; i++ {
		cell, err := m.store.GetCell(m.spec.SheetName, columnName(i)+"1")
		if err != nil {
			return nil, err
		}
		if cell.Value == "" {
			next = i
			break
		}
		if cell.Value != errorHeader {
			columns[cell.Value] = columnName(i)
		}
	}

	extra := m.collectExtraHeaders(records)
	for _, header := range extra {
		if _, ok := columns[header]; ok {
			continue
		}
		column := columnName(next)
		if err := m.store.WriteCell(m.spec.SheetName, column, 1, header, &interfaces.CellOptions{Bold: true}); err != nil {
			return nil, err
		}
		columns[header] = column
		next++
	}
	return extra, nil
}

func (m *Manager) cellOptions(field string) *interfaces.CellOptions {
	opts := &interfaces.CellOptions{}
	used := false
	if validation, ok := m.spec.Validations[field]; ok {
		opts.Validation = validation
		used = true
	}
	if m.currency != "" && contains(m.spec.CurrencyFields, field) {
		opts.Currency = m.currency
		opts.Precision = m.precision
		used = true
	}
	if !used {
		return nil
	}
	return opts
}

func (m *Manager) collectExtraHeaders(records []map[string]any) []string {
	static := make(map[string]struct{}, len(m.spec.Fields))
	for _, field := range m.spec.Fields {
		static[field] = struct{}{}
	}
	seen := make(map[string]struct{})
	var extra []string
	for _, record := range records {
		for key := range record {
			if _, ok := static[key]; ok {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return extra
}

// WriteIDs writes server-assigned IDs back to their originating cells and
// persists immediately so partial progress survives a crash. An empty map
// is a no-op.
func (m *Manager) WriteIDs(ids map[string]string) error {
	return m.WriteValues(ids)
}

// WriteValues writes arbitrary coordinate-keyed values to the tab and
// persists them immediately.
func (m *Manager) WriteValues(values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	batch := make([]interfaces.CellWrite, 0, len(values))
	for coordinate, value := range values {
		batch = append(batch, interfaces.CellWrite{
			Sheet:      m.spec.SheetName,
			Coordinate: coordinate,
			Value:      value,
		})
	}
	return m.store.WriteCells(batch)
}

// RewriteHeaders replaces header-row cells whose value appears as a key in
// the given map. Used to move dynamic parameter columns onto their
// server-assigned IDs.
func (m *Manager) RewriteHeaders(replacements map[string]string) error {
	if len(replacements) == 0 {
		return nil
	}
	batch := make([]interfaces.CellWrite, 0, len(replacements))
	for i := 1; ; i++ {
		column := columnName(i)
		cell, err := m.store.GetCell(m.spec.SheetName, column+"1")
		if err != nil {
			return err
		}
		if cell.Value == "" {
			break
		}
		if replacement, ok := replacements[cell.Value]; ok {
			batch = append(batch, interfaces.CellWrite{
				Sheet:      m.spec.SheetName,
				Coordinate: column + "1",
				Value:      replacement,
			})
		}
	}
	if len(batch) == 0 {
		return nil
	}
	return m.store.WriteCells(batch)
}

// WriteError writes a message into the tab's Error column at the row whose
// ID cell matches resourceID, creating the column when absent. Rows that
// cannot be matched fall back to the first data row.
func (m *Manager) WriteError(message, resourceID string) error {
	column, err := m.errorColumn()
	if err != nil {
		return err
	}
	row, err := m.errorRow(resourceID)
	if err != nil {
		return err
	}
	if err := m.store.WriteCell(m.spec.SheetName, column, row, message, nil); err != nil {
		return err
	}
	return m.store.Save()
}

// errorColumn finds the header cell named Error in row 1, appending one
// when the sheet has none.
func (m *Manager) errorColumn() (string, error) {
	for i := 1; ; i++ {
		column := columnName(i)
		cell, err := m.store.GetCell(m.spec.SheetName, column+"1")
		if err != nil {
			return "", err
		}
		if cell.Value == errorHeader {
			return column, nil
		}
		if cell.Value == "" {
			break
		}
	}
	column, err := m.store.NextColumn(m.spec.SheetName)
	if err != nil {
		return "", err
	}
	if err := m.store.WriteCell(m.spec.SheetName, column, 1, errorHeader, &interfaces.CellOptions{Bold: true}); err != nil {
		return "", err
	}
	return column, nil
}

func (m *Manager) errorRow(resourceID string) (int, error) {
	if resourceID == "" {
		return 2, nil
	}
	if m.spec.Shape == Vertical {
		cells, err := m.store.GetVertical(m.spec.SheetName, nil)
		if err != nil {
			return 0, err
		}
		for _, cell := range cells {
			if cell.Value == resourceID {
				return rowNumber(cell.Coordinate)
			}
		}
		return 2, nil
	}

	rows, err := m.ReadRows()
	if err != nil {
		return 0, err
	}
	for _, row := range rows {
		cell, ok := row[m.spec.IDField]
		if !ok {
			continue
		}
		if cell.Value == resourceID {
			return rowNumber(cell.Coordinate)
		}
	}
	return 2, nil
}

// CheckRequiredTabs verifies every required sheet exists in the workbook.
func (m *Manager) CheckRequiredTabs() error {
	names, err := m.store.SheetNames()
	if err != nil {
		return err
	}
	present := make(map[string]struct{}, len(names))
	for _, name := range names {
		present[name] = struct{}{}
	}
	var missing []string
	for _, required := range m.spec.RequiredTabs {
		if _, ok := present[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return errors.NewRequiredSheetsError(missing)
	}
	return nil
}

// FieldFailure ties a required-field failure to the tab it was found on.
type FieldFailure struct {
	Tab string
	Err error
}

// CheckRequiredFields verifies the declared fields of every required tab:
// vertical tabs must carry the field labels in column A (with values for
// the value-required subset), horizontal tabs must include them in the
// header row. All failures are returned, not just the first.
func (m *Manager) CheckRequiredFields() []FieldFailure {
	var failures []FieldFailure

	tabNames := make([]string, 0, len(m.spec.RequiredFieldsByTab))
	for tab := range m.spec.RequiredFieldsByTab {
		tabNames = append(tabNames, tab)
	}
	sort.Strings(tabNames)

	for _, tab := range tabNames {
		required := m.spec.RequiredFieldsByTab[tab]
		if tab == m.spec.SheetName && m.spec.Shape == Vertical {
			cells, err := m.store.GetVertical(tab, nil)
			if err != nil {
				failures = append(failures, FieldFailure{Tab: tab, Err: err})
				continue
			}
			var missingFields, missingValues []string
			for _, field := range required {
				if _, ok := cells[field]; !ok {
					missingFields = append(missingFields, field)
				}
			}
			for _, field := range m.spec.ValueRequiredFields {
				cell, ok := cells[field]
				if ok && strings.TrimSpace(cell.Value) == "" {
					missingValues = append(missingValues, field)
				}
			}
			if len(missingFields) > 0 {
				failures = append(failures, FieldFailure{Tab: tab, Err: errors.NewRequiredFieldsError(missingFields)})
			}
			if len(missingValues) > 0 {
				failures = append(failures, FieldFailure{Tab: tab, Err: errors.NewRequiredFieldValuesError(missingValues)})
			}
			continue
		}

		headers, err := m.headerRow(tab)
		if err != nil {
			failures = append(failures, FieldFailure{Tab: tab, Err: err})
			continue
		}
		var missing []string
		for _, field := range required {
			if _, ok := headers[field]; !ok {
				missing = append(missing, field)
			}
		}
		if len(missing) > 0 {
			failures = append(failures, FieldFailure{Tab: tab, Err: errors.NewRequiredFieldsError(missing)})
		}
	}
	return failures
}

func (m *Manager) headerRow(sheet string) (map[string]struct{}, error) {
	headers := make(map[string]struct{})
	for i := 1; ; i++ {
		cell, err := m.store.GetCell(sheet, columnName(i)+"1")
		if err != nil {
			return nil, err
		}
		if cell.Value == "" {
			break
		}
		headers[cell.Value] = struct{}{}
	}
	return headers, nil
}

// columnName converts a 1-based column number to its letter name.
func columnName(n int) string {
	name := ""
	for n > 0 {
		n--
		name = string(rune('A'+n%26)) + name
		n /= 26
	}
	return name
}

// rowNumber extracts the row part of an A1-style coordinate.
func rowNumber(coordinate string) (int, error) {
	i := 0
	for i < len(coordinate) && coordinate[i] >= 'A' && coordinate[i] <= 'Z' {
		i++
	}
	row, err := strconv.Atoi(coordinate[i:])
	if err != nil {
		return 0, fmt.Errorf("invalid coordinate %q", coordinate)
	}
	return row, nil
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
