package tabs

import (
	stderrors "errors"
	"fmt"
	"regexp"
	"strconv"
	"testing"

	clierrors "github.com/mptcli/cli/internal/errors"
	"github.com/mptcli/cli/internal/interfaces"
)

// memStore is an in-memory WorkbookStore for manager tests. Cells live in a
// sheet-keyed coordinate map; merges and saves are recorded.
type memStore struct {
	sheets []string
	cells  map[string]map[string]string
	merges []string
	saves  int
}

func newMemStore(sheets ...string) *memStore {
	store := &memStore{cells: make(map[string]map[string]string)}
	for _, sheet := range sheets {
		store.addSheet(sheet)
	}
	return store
}

func (s *memStore) addSheet(name string) {
	s.sheets = append(s.sheets, name)
	s.cells[name] = make(map[string]string)
}

func (s *memStore) set(sheet, coordinate, value string) {
	if _, ok := s.cells[sheet]; !ok {
		s.addSheet(sheet)
	}
	s.cells[sheet][coordinate] = value
}

func (s *memStore) Exists() bool  { return true }
func (s *memStore) Create() error { return nil }

func (s *memStore) SheetNames() ([]string, error) {
	return append([]string(nil), s.sheets...), nil
}

func (s *memStore) GetCell(sheet, coordinate string) (interfaces.Cell, error) {
	return interfaces.Cell{Value: s.cells[sheet][coordinate], Coordinate: coordinate}, nil
}

func (s *memStore) GetVertical(sheet string, fields []string) (map[string]interfaces.Cell, error) {
	wanted := fieldSet(fields)
	result := make(map[string]interfaces.Cell)
	for row := 2; ; row++ {
		label := s.cells[sheet]["A"+strconv.Itoa(row)]
		if label == "" {
			break
		}
		if wanted != nil {
			if _, ok := wanted[label]; !ok {
				continue
			}
		}
		coordinate := "B" + strconv.Itoa(row)
		result[label] = interfaces.Cell{Value: s.cells[sheet][coordinate], Coordinate: coordinate}
	}
	return result, nil
}

func (s *memStore) GetHorizontal(sheet string, fields []string) ([]interfaces.Row, error) {
	return s.readRows(sheet, fields, nil)
}

func (s *memStore) GetDynamic(sheet string, fields []string, patterns []*regexp.Regexp) ([]interfaces.Row, error) {
	return s.readRows(sheet, fields, patterns)
}

func (s *memStore) readRows(sheet string, fields []string, patterns []*regexp.Regexp) ([]interfaces.Row, error) {
	headers := s.headerRow(sheet)
	wanted := fieldSet(fields)
	var rows []interfaces.Row
	for rowIndex := 2; ; rowIndex++ {
		row := make(interfaces.Row)
		empty := true
		for column, header := range headers {
			include := wanted == nil
			if !include {
				if _, ok := wanted[header]; ok {
					include = true
				}
			}
			for _, pattern := range patterns {
				if pattern.MatchString(header) {
					include = true
				}
			}
			if !include {
				continue
			}
			coordinate := column + strconv.Itoa(rowIndex)
			value := s.cells[sheet][coordinate]
			if value != "" {
				empty = false
			}
			row[header] = interfaces.Cell{Value: value, Coordinate: coordinate}
		}
		if empty {
			break
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *memStore) headerRow(sheet string) map[string]string {
	headers := make(map[string]string)
	for i := 1; ; i++ {
		column := columnName(i)
		value := s.cells[sheet][column+"1"]
		if value == "" {
			break
		}
		headers[column] = value
	}
	return headers
}

func (s *memStore) WriteCells(batch []interfaces.CellWrite) error {
	for _, write := range batch {
		s.set(write.Sheet, write.Coordinate, write.Value)
	}
	return nil
}

func (s *memStore) WriteCell(sheet, column string, row int, value any, opts *interfaces.CellOptions) error {
	s.set(sheet, column+strconv.Itoa(row), fmt.Sprintf("%v", value))
	return nil
}

func (s *memStore) Merge(sheet, cellRange string) error {
	s.merges = append(s.merges, sheet+"!"+cellRange)
	return nil
}

func (s *memStore) NextColumn(sheet string) (string, error) {
	return columnName(len(s.headerRow(sheet)) + 1), nil
}

func (s *memStore) NextRow(sheet string) (int, error) {
	for row := 2; ; row++ {
		empty := true
		for column := range s.headerRow(sheet) {
			if s.cells[sheet][column+strconv.Itoa(row)] != "" {
				empty = false
				break
			}
		}
		if empty {
			return row, nil
		}
	}
}

func (s *memStore) Save() error {
	s.saves++
	return nil
}

func fieldSet(fields []string) map[string]struct{} {
	if fields == nil {
		return nil
	}
	set := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		set[field] = struct{}{}
	}
	return set
}

func verticalSpec() Spec {
	return Spec{
		Shape:     Vertical,
		SheetName: "General",
		Title:     "General Information",
		Fields:    []string{"Product ID", "Product Name", "Short Description"},
		IDField:   "Product ID",
	}
}

func horizontalSpec() Spec {
	return Spec{
		Shape:     Horizontal,
		SheetName: "Items Groups",
		Fields:    []string{"ID", "Name", "Action"},
		IDField:   "ID",
	}
}

func TestCreateTabVertical(t *testing.T) {
	store := newMemStore("General")
	manager := NewManager(verticalSpec(), store)

	if err := manager.CreateTab(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["General"]["A1"] != "General Information" {
		t.Errorf("expected the title in A1, got %q", store.cells["General"]["A1"])
	}
	if len(store.merges) != 1 || store.merges[0] != "General!A1:B1" {
		t.Errorf("expected the title merged across A1:B1, got %v", store.merges)
	}
	if store.cells["General"]["A2"] != "Product ID" || store.cells["General"]["A4"] != "Short Description" {
		t.Errorf("expected field labels down column A, got %v", store.cells["General"])
	}
	if store.saves != 1 {
		t.Errorf("expected one save, got %d", store.saves)
	}
}

func TestCreateTabHorizontal(t *testing.T) {
	store := newMemStore("Items Groups")
	manager := NewManager(horizontalSpec(), store)

	if err := manager.CreateTab(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["Items Groups"]["A1"] != "ID" ||
		store.cells["Items Groups"]["B1"] != "Name" ||
		store.cells["Items Groups"]["C1"] != "Action" {
		t.Errorf("expected the header row, got %v", store.cells["Items Groups"])
	}
}

func TestAddAppendsAtNextRow(t *testing.T) {
	store := newMemStore("Items Groups")
	manager := NewManager(horizontalSpec(), store)
	if err := manager.CreateTab(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := []map[string]any{
		{"ID": "IGR-0001", "Name": "Default", "Action": "-"},
		{"ID": "IGR-0002", "Name": "Addons", "Action": "-"},
	}
	if err := manager.Add(records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["Items Groups"]["A2"] != "IGR-0001" || store.cells["Items Groups"]["B3"] != "Addons" {
		t.Errorf("expected records from row 2, got %v", store.cells["Items Groups"])
	}

	// A second Add continues below the existing rows.
	if err := manager.Add([]map[string]any{{"ID": "IGR-0003"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["Items Groups"]["A4"] != "IGR-0003" {
		t.Errorf("expected the third record in row 4, got %v", store.cells["Items Groups"])
	}
}

func TestAddDynamicExtraHeaders(t *testing.T) {
	spec := Spec{
		Shape:           Dynamic,
		SheetName:       "Items",
		Fields:          []string{"ID", "Name"},
		IDField:         "ID",
		DynamicPatterns: []*regexp.Regexp{regexp.MustCompile(`^Parameter\..+$`)},
	}
	store := newMemStore("Items")
	manager := NewManager(spec, store)
	if err := manager.CreateTab(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	records := []map[string]any{
		{"ID": "ITM-0001", "Name": "Acrobat", "Parameter.PRM-B": "beta"},
		{"ID": "ITM-0002", "Name": "Photoshop", "Parameter.PRM-A": "alpha"},
	}
	if err := manager.Add(records); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Extra headers land after the static fields in sorted order.
	if store.cells["Items"]["C1"] != "Parameter.PRM-A" || store.cells["Items"]["D1"] != "Parameter.PRM-B" {
		t.Errorf("expected sorted dynamic headers, got C1=%q D1=%q",
			store.cells["Items"]["C1"], store.cells["Items"]["D1"])
	}
	if store.cells["Items"]["D2"] != "beta" || store.cells["Items"]["C3"] != "alpha" {
		t.Errorf("expected parameter values under their headers, got %v", store.cells["Items"])
	}
}

func TestAddDynamicKeepsHeadersAcrossBatches(t *testing.T) {
	spec := Spec{
		Shape:           Dynamic,
		SheetName:       "Items",
		Fields:          []string{"ID", "Name"},
		IDField:         "ID",
		DynamicPatterns: []*regexp.Regexp{regexp.MustCompile(`^Parameter\..+$`)},
	}
	store := newMemStore("Items")
	manager := NewManager(spec, store)
	if err := manager.CreateTab(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Paginated exports call Add once per page; a page carrying a key the
	// previous page lacked must not displace the existing columns.
	if err := manager.Add([]map[string]any{
		{"ID": "ITM-0001", "Parameter.PRM-A": "alpha"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.Add([]map[string]any{
		{"ID": "ITM-0002", "Parameter.PRM-B": "beta"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if store.cells["Items"]["C1"] != "Parameter.PRM-A" {
		t.Errorf("expected the first page's header untouched, got C1=%q", store.cells["Items"]["C1"])
	}
	if store.cells["Items"]["D1"] != "Parameter.PRM-B" {
		t.Errorf("expected the new header appended, got D1=%q", store.cells["Items"]["D1"])
	}
	if store.cells["Items"]["C2"] != "alpha" || store.cells["Items"]["D3"] != "beta" {
		t.Errorf("expected each value under its own header, got %v", store.cells["Items"])
	}
	if store.cells["Items"]["D2"] != "" || store.cells["Items"]["C3"] != "" {
		t.Errorf("expected no values under foreign headers, got %v", store.cells["Items"])
	}

	// A key already known keeps its column on later pages.
	if err := manager.Add([]map[string]any{
		{"ID": "ITM-0003", "Parameter.PRM-A": "gamma"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["Items"]["C4"] != "gamma" {
		t.Errorf("expected the value in the existing column, got %v", store.cells["Items"])
	}
}

func TestWriteErrorMatchesRowByID(t *testing.T) {
	store := newMemStore("Items Groups")
	manager := NewManager(horizontalSpec(), store)
	if err := manager.CreateTab(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := manager.Add([]map[string]any{
		{"ID": "IGR-0001", "Name": "Default"},
		{"ID": "IGR-0002", "Name": "Addons"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := manager.WriteError("name: is required", "IGR-0002"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["Items Groups"]["D1"] != "Error" {
		t.Errorf("expected an Error header appended, got %q", store.cells["Items Groups"]["D1"])
	}
	if store.cells["Items Groups"]["D3"] != "name: is required" {
		t.Errorf("expected the message on the matching row, got %v", store.cells["Items Groups"])
	}

	// Unknown IDs fall back to the first data row; the existing Error
	// column is reused.
	if err := manager.WriteError("boom", "IGR-9999"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["Items Groups"]["D2"] != "boom" {
		t.Errorf("expected the fallback row, got %v", store.cells["Items Groups"])
	}
	if store.cells["Items Groups"]["E1"] != "" {
		t.Errorf("expected no second Error column, got %q", store.cells["Items Groups"]["E1"])
	}
}

func TestWriteValuesAndRewriteHeaders(t *testing.T) {
	store := newMemStore("Items")
	store.set("Items", "A1", "ID")
	store.set("Items", "B1", "Parameter.local-ref")
	manager := NewManager(Spec{Shape: Horizontal, SheetName: "Items", Fields: []string{"ID"}}, store)

	if err := manager.WriteValues(map[string]string{"A2": "ITM-0001"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["Items"]["A2"] != "ITM-0001" {
		t.Errorf("expected the value written, got %v", store.cells["Items"])
	}

	if err := manager.RewriteHeaders(map[string]string{"Parameter.local-ref": "Parameter.PRM-0001"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.cells["Items"]["B1"] != "Parameter.PRM-0001" {
		t.Errorf("expected the header rewritten, got %q", store.cells["Items"]["B1"])
	}

	if err := manager.WriteValues(nil); err != nil {
		t.Errorf("an empty batch must be a no-op, got %v", err)
	}
}

func TestCheckRequiredTabs(t *testing.T) {
	spec := verticalSpec()
	spec.RequiredTabs = []string{"General", "Settings", "Templates"}

	store := newMemStore("General", "Settings")
	manager := NewManager(spec, store)

	err := manager.CheckRequiredTabs()
	var details *clierrors.DetailsError
	if !stderrors.As(err, &details) {
		t.Fatalf("expected a DetailsError, got %v", err)
	}
	if details.Kind != clierrors.KindRequiredSheets {
		t.Errorf("expected the required-sheets kind, got %q", details.Kind)
	}
	if len(details.Details) != 1 || details.Details[0] != "Templates" {
		t.Errorf("expected the missing sheet named, got %v", details.Details)
	}

	store.addSheet("Templates")
	if err := manager.CheckRequiredTabs(); err != nil {
		t.Errorf("expected no error with all tabs present, got %v", err)
	}
}

func TestCheckRequiredFields(t *testing.T) {
	spec := verticalSpec()
	spec.RequiredFieldsByTab = map[string][]string{
		"General":      spec.Fields,
		"Items Groups": {"ID", "Name", "Action"},
	}
	spec.ValueRequiredFields = []string{"Product Name", "Short Description"}

	store := newMemStore("General", "Items Groups")
	// The General sheet misses the Short Description label and has an
	// empty Product Name value.
	store.set("General", "A2", "Product ID")
	store.set("General", "B2", "PRD-0001")
	store.set("General", "A3", "Product Name")
	// The Items Groups header misses the Action column.
	store.set("Items Groups", "A1", "ID")
	store.set("Items Groups", "B1", "Name")

	manager := NewManager(spec, store)
	failures := manager.CheckRequiredFields()
	if len(failures) != 3 {
		t.Fatalf("expected 3 failures, got %d: %v", len(failures), failures)
	}

	kinds := make(map[string][]string)
	for _, failure := range failures {
		var details *clierrors.DetailsError
		if !stderrors.As(failure.Err, &details) {
			t.Fatalf("expected a DetailsError, got %v", failure.Err)
		}
		kinds[failure.Tab+"/"+details.Kind] = details.Details
	}
	if details := kinds["General/"+clierrors.KindRequiredFields]; len(details) != 1 || details[0] != "Short Description" {
		t.Errorf("expected the missing General field, got %v", details)
	}
	if details := kinds["General/"+clierrors.KindRequiredValues]; len(details) != 1 || details[0] != "Product Name" {
		t.Errorf("expected the empty value flagged, got %v", details)
	}
	if details := kinds["Items Groups/"+clierrors.KindRequiredFields]; len(details) != 1 || details[0] != "Action" {
		t.Errorf("expected the missing header flagged, got %v", details)
	}
}

func TestColumnName(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "A"}, {2, "B"}, {26, "Z"}, {27, "AA"}, {28, "AB"}, {52, "AZ"}, {53, "BA"},
	}
	for _, tt := range tests {
		if got := columnName(tt.n); got != tt.want {
			t.Errorf("columnName(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRowNumber(t *testing.T) {
	row, err := rowNumber("AB17")
	if err != nil || row != 17 {
		t.Errorf("rowNumber(AB17) = %d, %v", row, err)
	}
	if _, err := rowNumber("ABC"); err == nil {
		t.Errorf("expected an error for a coordinate without a row")
	}
}
