package models

import "github.com/mptcli/cli/internal/interfaces"

// rowOf builds a row whose cells sit in column A, B, ... of row 2, in an
// arbitrary but stable order. Good enough for parsing tests that only care
// about values.
func rowOf(values map[string]string) interfaces.Row {
	row := make(interfaces.Row, len(values))
	column := 'A'
	for field, value := range values {
		row[field] = interfaces.Cell{Value: value, Coordinate: string(column) + "2"}
		column++
	}
	return row
}
