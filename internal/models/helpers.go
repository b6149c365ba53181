package models

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mptcli/cli/internal/interfaces"
)

// Sheet names are case-sensitive and fixed by the workbook format.
const (
	SheetGeneral                = "General"
	SheetSettings               = "Settings"
	SheetItems                  = "Items"
	SheetItemGroups             = "Items Groups"
	SheetParameterGroups        = "Parameters Groups"
	SheetAgreementsParameters   = "Agreements Parameters"
	SheetAssetsParameters       = "Assets Parameters"
	SheetItemParameters         = "Item Parameters"
	SheetRequestParameters      = "Request Parameters"
	SheetSubscriptionParameters = "Subscription Parameters"
	SheetTemplates              = "Templates"
	SheetPriceItems             = "Price Items"
)

func cellValue(row interfaces.Row, field string) string {
	return strings.TrimSpace(row[field].Value)
}

func cellCoordinate(row interfaces.Row, field string) string {
	return row[field].Coordinate
}

// Booleans are serialised as the literal strings "True" and "False" in
// workbook cells.
func parseBoolCell(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "True")
}

func formatBool(value bool) string {
	if value {
		return "True"
	}
	return "False"
}

func parseIntCell(value string) int {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}

func parseFloatCell(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseJSONCell parses a raw JSON cell. Invalid or empty content yields nil
// so a malformed options cell never aborts a row read.
func parseJSONCell(value string) map[string]any {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		return nil
	}
	return parsed
}

func jsonCell(value any) string {
	if value == nil {
		return ""
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return ""
	}
	return string(raw)
}

// JSON payload accessors. Platform responses are decoded into
// map[string]any; these keep the call sites short.

func str(data map[string]any, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}

func obj(data map[string]any, key string) map[string]any {
	if v, ok := data[key].(map[string]any); ok {
		return v
	}
	return nil
}

func num(data map[string]any, key string) float64 {
	switch v := data[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	}
	return 0
}

func boolean(data map[string]any, key string) bool {
	if v, ok := data[key].(bool); ok {
		return v
	}
	return false
}

// nestedGet resolves a dot-notation path inside a JSON object.
func nestedGet(data map[string]any, path string) (any, bool) {
	parts := strings.Split(path, ".")
	current := any(data)
	for _, part := range parts {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// nestedSet writes a value at a dot-notation path, creating intermediate
// objects as needed.
func nestedSet(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	current[parts[len(parts)-1]] = value
}

// auditCreatedDate extracts the ISO date from a payload's audit block.
func auditCreatedDate(data map[string]any) string {
	audit := obj(data, "audit")
	if audit == nil {
		return ""
	}
	created := obj(audit, "created")
	if created == nil {
		return ""
	}
	at := str(created, "at")
	if len(at) >= 10 {
		return at[:10]
	}
	return at
}
