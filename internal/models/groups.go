package models

import "github.com/mptcli/cli/internal/interfaces"

// Items Groups sheet columns.
var ItemGroupFields = []string{
	"ID", "Name", "Action", "Label", "Description", "Display Order",
	"Default", "Multiple Choices", "Required",
}

// Parameters Groups sheet columns.
var ParameterGroupFields = []string{
	"ID", "Name", "Action", "Label", "Description", "Display Order", "Default",
}

// ItemGroup is the parent grouping of catalog items.
type ItemGroup struct {
	ID         string
	Coordinate string
	Action     Action

	Name         string
	Label        string
	Description  string
	DisplayOrder int
	Default      bool
	Multiple     bool
	Required     bool
}

// ItemGroupFromRow parses one Items Groups sheet row.
func ItemGroupFromRow(row interfaces.Row) (*ItemGroup, error) {
	action, err := ParseDataAction(cellValue(row, "Action"))
	if err != nil {
		return nil, err
	}
	return &ItemGroup{
		ID:           cellValue(row, "ID"),
		Coordinate:   cellCoordinate(row, "ID"),
		Action:       action,
		Name:         cellValue(row, "Name"),
		Label:        cellValue(row, "Label"),
		Description:  cellValue(row, "Description"),
		DisplayOrder: parseIntCell(cellValue(row, "Display Order")),
		Default:      parseBoolCell(cellValue(row, "Default")),
		Multiple:     parseBoolCell(cellValue(row, "Multiple Choices")),
		Required:     parseBoolCell(cellValue(row, "Required")),
	}, nil
}

// ItemGroupFromJSON parses a platform item-group payload.
func ItemGroupFromJSON(data map[string]any) *ItemGroup {
	return &ItemGroup{
		ID:           str(data, "id"),
		Action:       ActionSkip,
		Name:         str(data, "name"),
		Label:        str(data, "label"),
		Description:  str(data, "description"),
		DisplayOrder: int(num(data, "displayOrder")),
		Default:      boolean(data, "default"),
		Multiple:     boolean(data, "multiple"),
		Required:     boolean(data, "required"),
	}
}

func (g *ItemGroup) ToJSON() map[string]any {
	return map[string]any{
		"name":         g.Name,
		"label":        g.Label,
		"description":  g.Description,
		"displayOrder": g.DisplayOrder,
		"default":      g.Default,
		"multiple":     g.Multiple,
		"required":     g.Required,
	}
}

func (g *ItemGroup) ToXLSX() map[string]any {
	return map[string]any{
		"ID":               g.ID,
		"Name":             g.Name,
		"Action":           string(g.Action),
		"Label":            g.Label,
		"Description":      g.Description,
		"Display Order":    g.DisplayOrder,
		"Default":          formatBool(g.Default),
		"Multiple Choices": formatBool(g.Multiple),
		"Required":         formatBool(g.Required),
	}
}

// ParameterGroup is the parent grouping of order-request parameters.
type ParameterGroup struct {
	ID         string
	Coordinate string
	Action     Action

	Name         string
	Label        string
	Description  string
	DisplayOrder int
	Default      bool
}

// ParameterGroupFromRow parses one Parameters Groups sheet row.
func ParameterGroupFromRow(row interfaces.Row) (*ParameterGroup, error) {
	action, err := ParseDataAction(cellValue(row, "Action"))
	if err != nil {
		return nil, err
	}
	return &ParameterGroup{
		ID:           cellValue(row, "ID"),
		Coordinate:   cellCoordinate(row, "ID"),
		Action:       action,
		Name:         cellValue(row, "Name"),
		Label:        cellValue(row, "Label"),
		Description:  cellValue(row, "Description"),
		DisplayOrder: parseIntCell(cellValue(row, "Display Order")),
		Default:      parseBoolCell(cellValue(row, "Default")),
	}, nil
}

// ParameterGroupFromJSON parses a platform parameter-group payload.
func ParameterGroupFromJSON(data map[string]any) *ParameterGroup {
	return &ParameterGroup{
		ID:           str(data, "id"),
		Action:       ActionSkip,
		Name:         str(data, "name"),
		Label:        str(data, "label"),
		Description:  str(data, "description"),
		DisplayOrder: int(num(data, "displayOrder")),
		Default:      boolean(data, "default"),
	}
}

func (g *ParameterGroup) ToJSON() map[string]any {
	return map[string]any{
		"name":         g.Name,
		"label":        g.Label,
		"description":  g.Description,
		"displayOrder": g.DisplayOrder,
		"default":      g.Default,
	}
}

func (g *ParameterGroup) ToXLSX() map[string]any {
	return map[string]any{
		"ID":            g.ID,
		"Name":          g.Name,
		"Action":        string(g.Action),
		"Label":         g.Label,
		"Description":   g.Description,
		"Display Order": g.DisplayOrder,
		"Default":       formatBool(g.Default),
	}
}
