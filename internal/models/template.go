package models

import (
	"strings"

	"github.com/mptcli/cli/internal/interfaces"
)

// Templates sheet columns.
var TemplateFields = []string{"ID", "Name", "Action", "Type", "Default", "Content"}

// Template is a markdown document attached to a product. Its content may
// textually embed parameter IDs that need rewriting after create.
type Template struct {
	ID         string
	Coordinate string
	Action     Action

	Name    string
	Type    string
	Default bool

	Content           string
	ContentCoordinate string
}

// TemplateFromRow parses one Templates sheet row.
func TemplateFromRow(row interfaces.Row) (*Template, error) {
	action, err := ParseDataAction(cellValue(row, "Action"))
	if err != nil {
		return nil, err
	}
	return &Template{
		ID:                cellValue(row, "ID"),
		Coordinate:        cellCoordinate(row, "ID"),
		Action:            action,
		Name:              cellValue(row, "Name"),
		Type:              cellValue(row, "Type"),
		Default:           parseBoolCell(cellValue(row, "Default")),
		Content:           row["Content"].Value,
		ContentCoordinate: cellCoordinate(row, "Content"),
	}, nil
}

// TemplateFromJSON parses a platform template payload.
func TemplateFromJSON(data map[string]any) *Template {
	return &Template{
		ID:      str(data, "id"),
		Action:  ActionSkip,
		Name:    str(data, "name"),
		Type:    str(data, "type"),
		Default: boolean(data, "default"),
		Content: str(data, "content"),
	}
}

// RewriteContent substitutes old parameter IDs embedded in the content for
// their server-assigned replacements. It reports whether anything changed.
func (t *Template) RewriteContent(ids map[string]string) bool {
	rewritten := t.Content
	for oldID, newID := range ids {
		rewritten = strings.ReplaceAll(rewritten, oldID, newID)
	}
	changed := rewritten != t.Content
	t.Content = rewritten
	return changed
}

func (t *Template) ToJSON() map[string]any {
	return map[string]any{
		"name":    t.Name,
		"type":    t.Type,
		"default": t.Default,
		"content": t.Content,
	}
}

func (t *Template) ToXLSX() map[string]any {
	return map[string]any{
		"ID":      t.ID,
		"Name":    t.Name,
		"Action":  string(t.Action),
		"Type":    t.Type,
		"Default": formatBool(t.Default),
		"Content": t.Content,
	}
}
