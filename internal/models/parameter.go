package models

import "github.com/mptcli/cli/internal/interfaces"

// Parameter scopes. The scope is fixed by the sheet a parameter lives on
// and is never read from a cell.
const (
	ScopeAgreement    = "Agreement"
	ScopeAsset        = "Asset"
	ScopeItem         = "Item"
	ScopeRequest      = "Request"
	ScopeSubscription = "Subscription"
)

// Parameter phases.
const (
	PhaseOrder         = "Order"
	PhaseFulfillment   = "Fulfillment"
	PhaseConfiguration = "Configuration"
)

// ParameterSheets maps each scope to its workbook sheet.
var ParameterSheets = map[string]string{
	ScopeAgreement:    SheetAgreementsParameters,
	ScopeAsset:        SheetAssetsParameters,
	ScopeItem:         SheetItemParameters,
	ScopeRequest:      SheetRequestParameters,
	ScopeSubscription: SheetSubscriptionParameters,
}

// Parameter sheet columns, shared by all five scoped sheets.
var ParameterFields = []string{
	"ID", "Name", "Action", "External ID", "Phase", "Type", "Description",
	"Display Order", "Options", "Constraints", "Group ID",
}

// Parameter is one scoped product parameter. Options and Constraints live
// as raw JSON strings in their cells.
type Parameter struct {
	ID         string
	Coordinate string
	Action     Action

	Name         string
	ExternalID   string
	Phase        string
	Type         string
	Description  string
	DisplayOrder int
	Options      map[string]any
	Constraints  map[string]any

	Scope string

	GroupID         string
	GroupCoordinate string
}

// ParameterFromRow parses one scoped parameter sheet row. The scope comes
// from the sheet, not from the row.
func ParameterFromRow(row interfaces.Row, scope string) (*Parameter, error) {
	action, err := ParseDataAction(cellValue(row, "Action"))
	if err != nil {
		return nil, err
	}
	return &Parameter{
		ID:              cellValue(row, "ID"),
		Coordinate:      cellCoordinate(row, "ID"),
		Action:          action,
		Name:            cellValue(row, "Name"),
		ExternalID:      cellValue(row, "External ID"),
		Phase:           cellValue(row, "Phase"),
		Type:            cellValue(row, "Type"),
		Description:     cellValue(row, "Description"),
		DisplayOrder:    parseIntCell(cellValue(row, "Display Order")),
		Options:         parseJSONCell(cellValue(row, "Options")),
		Constraints:     parseJSONCell(cellValue(row, "Constraints")),
		Scope:           scope,
		GroupID:         cellValue(row, "Group ID"),
		GroupCoordinate: cellCoordinate(row, "Group ID"),
	}, nil
}

// ParameterFromJSON parses a platform parameter payload.
func ParameterFromJSON(data map[string]any, scope string) *Parameter {
	parameter := &Parameter{
		ID:           str(data, "id"),
		Action:       ActionSkip,
		Name:         str(data, "name"),
		ExternalID:   str(data, "externalId"),
		Phase:        str(data, "phase"),
		Type:         str(data, "type"),
		Description:  str(data, "description"),
		DisplayOrder: int(num(data, "displayOrder")),
		Options:      obj(data, "options"),
		Constraints:  obj(data, "constraints"),
		Scope:        scope,
	}
	if group := obj(data, "group"); group != nil {
		parameter.GroupID = str(group, "id")
	}
	return parameter
}

// OrderRequest reports whether the parameter carries a parameter-group
// association: phase Order with scope outside Item and Request.
func (p *Parameter) OrderRequest() bool {
	return p.Phase == PhaseOrder && p.Scope != ScopeItem && p.Scope != ScopeRequest
}

// ToJSON serialises the parameter for create or update. The group block is
// emitted only for order-request parameters.
func (p *Parameter) ToJSON() map[string]any {
	payload := map[string]any{
		"name":         p.Name,
		"externalId":   p.ExternalID,
		"phase":        p.Phase,
		"scope":        p.Scope,
		"type":         p.Type,
		"description":  p.Description,
		"displayOrder": p.DisplayOrder,
	}
	if p.Options != nil {
		payload["options"] = p.Options
	}
	if p.Constraints != nil {
		payload["constraints"] = p.Constraints
	}
	if p.OrderRequest() && p.GroupID != "" {
		payload["group"] = map[string]any{"id": p.GroupID}
	}
	return payload
}

func (p *Parameter) ToXLSX() map[string]any {
	return map[string]any{
		"ID":            p.ID,
		"Name":          p.Name,
		"Action":        string(p.Action),
		"External ID":   p.ExternalID,
		"Phase":         p.Phase,
		"Type":          p.Type,
		"Description":   p.Description,
		"Display Order": p.DisplayOrder,
		"Options":       jsonCell(p.Options),
		"Constraints":   jsonCell(p.Constraints),
		"Group ID":      p.GroupID,
	}
}
