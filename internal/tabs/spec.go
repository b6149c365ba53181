package tabs

import "regexp"

// Shape selects how a sheet maps records to cells.
type Shape int

const (
	// Vertical sheets hold one entity: field names in column A, values in
	// column B, a merged title in row 1.
	Vertical Shape = iota
	// Horizontal sheets hold one record per row under a row-1 header.
	Horizontal
	// Dynamic sheets are horizontal sheets that additionally accept any
	// column whose header matches one of the spec's patterns.
	Dynamic
)

// Spec is the immutable schema of one tab: its shape, field order, ID
// field, validation drop-downs, and the workbook-level requirements checked
// before a sync run.
type Spec struct {
	Shape     Shape
	SheetName string
	Title     string

	Fields  []string
	IDField string

	RequiredTabs        []string
	RequiredFieldsByTab map[string][]string
	ValueRequiredFields []string

	Validations     map[string][]string
	DynamicPatterns []*regexp.Regexp
	CurrencyFields  []string
}
