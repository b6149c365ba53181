package models

import (
	"fmt"

	"github.com/mptcli/cli/internal/interfaces"
)

// Settings sheet columns.
var SettingsFields = []string{"Setting", "Action", "Value"}

// SettingEnabled and SettingOff are the workbook encodings of boolean
// product settings. Label and title settings stay as plain strings.
const (
	SettingEnabled = "Enabled"
	SettingOff     = "Off"
)

// settingDefinition binds a human-readable setting name to its dot-notation
// path inside the product settings subdocument.
type settingDefinition struct {
	Name string
	Path string
	Text bool
}

// settingDefinitions fixes the order settings appear in the Settings sheet.
var settingDefinitions = []settingDefinition{
	{Name: "Change order validation (draft)", Path: "changeOrder.validation.draft"},
	{Name: "Change order validation (querying)", Path: "changeOrder.validation.querying"},
	{Name: "Purchase order validation (draft)", Path: "purchaseOrder.validation.draft"},
	{Name: "Purchase order validation (querying)", Path: "purchaseOrder.validation.querying"},
	{Name: "Termination order validation (draft)", Path: "terminationOrder.validation.draft"},
	{Name: "Termination order validation (querying)", Path: "terminationOrder.validation.querying"},
	{Name: "Pay-as-you-go subscriptions", Path: "payAsYouGo.enabled"},
	{Name: "Item selection", Path: "itemSelection.enabled"},
	{Name: "Order queue changes notification", Path: "notifications.orderQueueChanges"},
	{Name: "Purchase wizard title", Path: "purchaseWizard.title", Text: true},
	{Name: "Purchase wizard description", Path: "purchaseWizard.description", Text: true},
}

// Setting is one row of the Settings sheet.
type Setting struct {
	Name       string
	Coordinate string
	Action     Action
	Value      string
}

// SettingFromRow parses one Settings sheet row.
func SettingFromRow(row interfaces.Row) (Setting, error) {
	action, err := ParseDataAction(cellValue(row, "Action"))
	if err != nil {
		return Setting{}, err
	}
	return Setting{
		Name:       cellValue(row, "Setting"),
		Coordinate: cellCoordinate(row, "Setting"),
		Action:     action,
		Value:      cellValue(row, "Value"),
	}, nil
}

// SettingsFromJSON projects a product settings subdocument into sheet rows,
// in definition order. Paths absent from the payload are skipped.
func SettingsFromJSON(settings map[string]any) []Setting {
	var result []Setting
	for _, def := range settingDefinitions {
		raw, ok := nestedGet(settings, def.Path)
		if !ok {
			continue
		}
		value := ""
		if def.Text {
			value, _ = raw.(string)
		} else if enabled, ok := raw.(bool); ok {
			if enabled {
				value = SettingEnabled
			} else {
				value = SettingOff
			}
		} else {
			value = fmt.Sprintf("%v", raw)
		}
		result = append(result, Setting{Name: def.Name, Value: value, Action: ActionSkip})
	}
	return result
}

// SettingsToJSON builds the nested settings subdocument from sheet rows.
// Rows with unknown names are ignored; boolean paths encode Enabled/Off.
func SettingsToJSON(settings []Setting) map[string]any {
	paths := make(map[string]settingDefinition, len(settingDefinitions))
	for _, def := range settingDefinitions {
		paths[def.Name] = def
	}

	payload := make(map[string]any)
	for _, setting := range settings {
		def, ok := paths[setting.Name]
		if !ok {
			continue
		}
		if def.Text {
			nestedSet(payload, def.Path, setting.Value)
			continue
		}
		nestedSet(payload, def.Path, setting.Value == SettingEnabled)
	}
	return payload
}

// ToXLSX returns the dense sheet projection of one setting row.
func (s Setting) ToXLSX() map[string]any {
	action := string(s.Action)
	if s.Action == ActionSkip {
		action = "-"
	}
	return map[string]any{
		"Setting": s.Name,
		"Action":  action,
		"Value":   s.Value,
	}
}
