package models

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mptcli/cli/internal/interfaces"
)

// Items sheet static columns. Any column whose header matches
// ItemParameterPattern is additionally part of an item row.
var ItemFields = []string{
	"ID", "Name", "Action", "Description", "Group ID",
	"Item Vendor ID", "Item Operations ID",
	"Terms Model", "Terms Period", "Terms Commitment",
	"Unit Name", "Quantity Not Applicable",
}

// ItemParameterPattern matches the dynamic item-parameter columns.
var ItemParameterPattern = regexp.MustCompile(`^Parameter\..+$`)

const itemParameterPrefix = "Parameter."

// ItemParameterHeader builds the dynamic column header for a parameter ID.
func ItemParameterHeader(id string) string {
	return itemParameterPrefix + id
}

// Terms models.
const (
	TermsOneTime  = "one-time"
	TermsQuantity = "quantity"
	TermsUsage    = "usage"
)

// ItemParameter is one dynamic column projected into the item's parameter
// value list. ID starts as the column's parameter reference and is rewritten
// to the server-assigned parameter ID before create.
type ItemParameter struct {
	ID         string
	Value      string
	Coordinate string
}

// Item is one sellable catalog entry.
type Item struct {
	ID         string
	Coordinate string
	Action     Action

	Name        string
	Description string

	VendorExternalID     string
	OperationsExternalID string

	TermsModel      string
	TermsPeriod     string
	TermsCommitment string

	UnitName       string
	UnitID         string
	UnitCoordinate string

	GroupID         string
	GroupCoordinate string

	QuantityNotApplicable bool

	Parameters []ItemParameter

	// OperationsAccount switches the wire format between the vendor and
	// operations external-ID fields.
	OperationsAccount bool
}

// ItemFromRow parses one Items sheet row, projecting every Parameter.*
// column into the parameter list in header order.
func ItemFromRow(row interfaces.Row) (*Item, error) {
	action, err := ParseItemAction(cellValue(row, "Action"))
	if err != nil {
		return nil, err
	}
	item := &Item{
		ID:                    cellValue(row, "ID"),
		Coordinate:            cellCoordinate(row, "ID"),
		Action:                action,
		Name:                  cellValue(row, "Name"),
		Description:           cellValue(row, "Description"),
		VendorExternalID:      cellValue(row, "Item Vendor ID"),
		OperationsExternalID:  cellValue(row, "Item Operations ID"),
		TermsModel:            cellValue(row, "Terms Model"),
		TermsPeriod:           cellValue(row, "Terms Period"),
		TermsCommitment:       cellValue(row, "Terms Commitment"),
		UnitName:              cellValue(row, "Unit Name"),
		UnitCoordinate:        cellCoordinate(row, "Unit Name"),
		GroupID:               cellValue(row, "Group ID"),
		GroupCoordinate:       cellCoordinate(row, "Group ID"),
		QuantityNotApplicable: parseBoolCell(cellValue(row, "Quantity Not Applicable")),
	}

	headers := make([]string, 0, len(row))
	for header := range row {
		if ItemParameterPattern.MatchString(header) {
			headers = append(headers, header)
		}
	}
	sort.Strings(headers)
	for _, header := range headers {
		cell := row[header]
		item.Parameters = append(item.Parameters, ItemParameter{
			ID:         strings.TrimPrefix(header, itemParameterPrefix),
			Value:      cell.Value,
			Coordinate: cell.Coordinate,
		})
	}
	return item, nil
}

// ItemFromJSON parses a platform item payload.
func ItemFromJSON(data map[string]any) *Item {
	item := &Item{
		ID:          str(data, "id"),
		Action:      ActionSkip,
		Name:        str(data, "name"),
		Description: str(data, "description"),
	}
	if externalIDs := obj(data, "externalIds"); externalIDs != nil {
		item.VendorExternalID = str(externalIDs, "vendor")
		item.OperationsExternalID = str(externalIDs, "operations")
	}
	if terms := obj(data, "terms"); terms != nil {
		item.TermsModel = str(terms, "model")
		item.TermsPeriod = str(terms, "period")
		item.TermsCommitment = str(terms, "commitment")
	}
	if unit := obj(data, "unit"); unit != nil {
		item.UnitID = str(unit, "id")
		item.UnitName = str(unit, "name")
	}
	if group := obj(data, "group"); group != nil {
		item.GroupID = str(group, "id")
	}
	item.QuantityNotApplicable = boolean(data, "quantityNotApplicable")
	for _, raw := range list(data, "parameters") {
		parameter, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		item.Parameters = append(item.Parameters, ItemParameter{
			ID:    str(parameter, "id"),
			Value: str(parameter, "value"),
		})
	}
	return item
}

// Terms computes the wire terms block. One-time items carry no commitment
// and a fixed one-time period.
func (i *Item) Terms() map[string]any {
	if i.TermsModel == TermsOneTime {
		return map[string]any{"model": TermsOneTime, "period": "one-time"}
	}
	return map[string]any{
		"model":      i.TermsModel,
		"period":     i.TermsPeriod,
		"commitment": i.TermsCommitment,
	}
}

// ToJSON serialises the item for create or update. Exactly one of the
// vendor and operations external IDs is emitted, chosen by account type.
func (i *Item) ToJSON() map[string]any {
	payload := map[string]any{
		"name":                  i.Name,
		"description":           i.Description,
		"terms":                 i.Terms(),
		"quantityNotApplicable": i.QuantityNotApplicable,
	}
	if i.OperationsAccount {
		payload["externalIds"] = map[string]any{"operations": i.OperationsExternalID}
	} else {
		payload["externalIds"] = map[string]any{"vendor": i.VendorExternalID}
	}
	if i.UnitID != "" {
		payload["unit"] = map[string]any{"id": i.UnitID}
	}
	if i.GroupID != "" {
		payload["group"] = map[string]any{"id": i.GroupID}
	}
	if len(i.Parameters) > 0 {
		parameters := make([]map[string]any, 0, len(i.Parameters))
		for _, p := range i.Parameters {
			parameters = append(parameters, map[string]any{"id": p.ID, "value": p.Value})
		}
		payload["parameters"] = parameters
	}
	return payload
}

// ToXLSX returns the Items sheet projection. Parameter values land under
// their dynamic Parameter.<id> headers.
func (i *Item) ToXLSX() map[string]any {
	record := map[string]any{
		"ID":                      i.ID,
		"Name":                    i.Name,
		"Action":                  string(i.Action),
		"Description":             i.Description,
		"Group ID":                i.GroupID,
		"Item Vendor ID":          i.VendorExternalID,
		"Item Operations ID":      i.OperationsExternalID,
		"Terms Model":             i.TermsModel,
		"Terms Period":            i.TermsPeriod,
		"Terms Commitment":        i.TermsCommitment,
		"Unit Name":               i.UnitName,
		"Quantity Not Applicable": formatBool(i.QuantityNotApplicable),
	}
	for _, p := range i.Parameters {
		record[itemParameterPrefix+p.ID] = p.Value
	}
	return record
}

func list(data map[string]any, key string) []any {
	if v, ok := data[key].([]any); ok {
		return v
	}
	return nil
}
