package workbook

import (
	stderrors "errors"
	"path/filepath"
	"regexp"
	"testing"

	clierrors "github.com/mptcli/cli/internal/errors"
	"github.com/mptcli/cli/internal/interfaces"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workbook.xlsx")
	store := NewStore(path)
	if err := store.Create(); err != nil {
		t.Fatalf("failed to create workbook: %v", err)
	}
	return store
}

func TestCreateRenamesDefaultSheet(t *testing.T) {
	store := newTestStore(t)
	if !store.Exists() {
		t.Fatalf("expected the workbook on disk")
	}
	names, err := store.SheetNames()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(names) != 1 || names[0] != "General" {
		t.Errorf("expected a single General sheet, got %v", names)
	}
}

func TestExistsMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.xlsx"))
	if store.Exists() {
		t.Errorf("expected a missing file to report false")
	}
}

func TestWriteAndGetCell(t *testing.T) {
	store := newTestStore(t)
	if err := store.WriteCell("General", "B", 3, "PRD-0001", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cell, err := store.GetCell("General", "B3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cell.Value != "PRD-0001" || cell.Coordinate != "B3" {
		t.Errorf("unexpected cell: %+v", cell)
	}
}

func TestGetCellInvalidCoordinate(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetCell("General", "3B")
	var invalid *clierrors.InvalidCoordinateError
	if !stderrors.As(err, &invalid) {
		t.Fatalf("expected InvalidCoordinateError, got %v", err)
	}
	if invalid.Coordinate != "3B" {
		t.Errorf("expected the offending coordinate, got %q", invalid.Coordinate)
	}
}

func TestGetVertical(t *testing.T) {
	store := newTestStore(t)
	writes := map[int][2]string{
		2: {"Product ID", "PRD-0001"},
		3: {"Product Name", "Adobe Commerce"},
		4: {"Short Description", ""},
	}
	for row, pair := range writes {
		if err := store.WriteCell("General", "A", row, pair[0], nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pair[1] != "" {
			if err := store.WriteCell("General", "B", row, pair[1], nil); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
	}

	cells, err := store.GetVertical("General", []string{"Product ID", "Product Name", "Short Description"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cells["Product ID"].Value != "PRD-0001" || cells["Product ID"].Coordinate != "B2" {
		t.Errorf("unexpected Product ID cell: %+v", cells["Product ID"])
	}
	if cells["Product Name"].Value != "Adobe Commerce" {
		t.Errorf("unexpected Product Name cell: %+v", cells["Product Name"])
	}
	// A labelled row without a value still yields its coordinate for
	// write-back.
	if cell, ok := cells["Short Description"]; !ok || cell.Value != "" || cell.Coordinate != "B4" {
		t.Errorf("unexpected Short Description cell: %+v", cell)
	}
}

func TestGetHorizontal(t *testing.T) {
	store := newTestStore(t)
	headers := []string{"ID", "Name", "Action"}
	for i, header := range headers {
		if err := store.WriteCell("Items Groups", string(rune('A'+i)), 1, header, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := store.WriteCell("Items Groups", "A", 2, "IGR-0001", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.WriteCell("Items Groups", "B", 2, "Default", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.WriteCell("Items Groups", "B", 4, "Below a gap", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rows, err := store.GetHorizontal("Items Groups", headers)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The empty row 3 is skipped, not treated as the end.
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["ID"].Value != "IGR-0001" || rows[0]["ID"].Coordinate != "A2" {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1]["Name"].Value != "Below a gap" || rows[1]["Name"].Coordinate != "B4" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestGetDynamic(t *testing.T) {
	store := newTestStore(t)
	headers := []string{"ID", "Name", "Parameter.PRM-0001", "Ignored"}
	for i, header := range headers {
		if err := store.WriteCell("Items", string(rune('A'+i)), 1, header, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	for i, value := range []string{"ITM-0001", "Acrobat", "alpha", "noise"} {
		if err := store.WriteCell("Items", string(rune('A'+i)), 2, value, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	pattern := regexp.MustCompile(`^Parameter\..+$`)
	rows, err := store.GetDynamic("Items", []string{"ID", "Name"}, []*regexp.Regexp{pattern})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0]["Parameter.PRM-0001"].Value != "alpha" {
		t.Errorf("expected the pattern column included, got %+v", rows[0])
	}
	if _, ok := rows[0]["Ignored"]; ok {
		t.Errorf("columns outside fields and patterns must be excluded")
	}
}

func TestWriteCellsPersists(t *testing.T) {
	store := newTestStore(t)
	batch := []interfaces.CellWrite{
		{Sheet: "General", Coordinate: "B2", Value: "PRD-0001"},
		{Sheet: "Items", Coordinate: "A2", Value: "ITM-0001"},
	}
	if err := store.WriteCells(batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Reopen from disk to verify the batch was saved.
	reopened := NewStore(store.path)
	cell, err := reopened.GetCell("Items", "A2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cell.Value != "ITM-0001" {
		t.Errorf("expected the batch persisted, got %q", cell.Value)
	}
}

func TestNextRowAndColumn(t *testing.T) {
	store := newTestStore(t)
	row, err := store.NextRow("General")
	if err != nil || row != 1 {
		t.Errorf("expected row 1 on an empty sheet, got %d, %v", row, err)
	}
	column, err := store.NextColumn("General")
	if err != nil || column != "A" {
		t.Errorf("expected column A on an empty sheet, got %q, %v", column, err)
	}

	if err := store.WriteCell("General", "A", 1, "ID", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.WriteCell("General", "B", 1, "Name", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.WriteCell("General", "A", 2, "IGR-0001", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	row, err = store.NextRow("General")
	if err != nil || row != 3 {
		t.Errorf("expected row 3, got %d, %v", row, err)
	}
	column, err = store.NextColumn("General")
	if err != nil || column != "C" {
		t.Errorf("expected column C, got %q, %v", column, err)
	}
}

func TestCurrencyFormat(t *testing.T) {
	if got := currencyFormat("EUR", 2); got != `#,##0.00 "EUR"` {
		t.Errorf("unexpected format %q", got)
	}
	if got := currencyFormat("JPY", 0); got != `#,##0 "JPY"` {
		t.Errorf("unexpected zero-precision format %q", got)
	}
}
