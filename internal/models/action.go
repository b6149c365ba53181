package models

import (
	"fmt"
	"strings"
)

// Action is the per-row intent carried in a sheet's Action column.
type Action string

const (
	ActionSkip      Action = "-"
	ActionCreate    Action = "create"
	ActionUpdate    Action = "update"
	ActionDelete    Action = "delete"
	ActionReview    Action = "review"
	ActionPublish   Action = "publish"
	ActionUnpublish Action = "unpublish"
)

// DataActions is the alphabet for plain catalog rows.
var DataActions = []string{
	string(ActionCreate), string(ActionUpdate), string(ActionDelete), string(ActionSkip),
}

// ItemActions extends DataActions with the server-side item actions.
var ItemActions = []string{
	string(ActionCreate), string(ActionUpdate), string(ActionDelete),
	string(ActionReview), string(ActionPublish), string(ActionUnpublish),
	string(ActionSkip),
}

// ParseDataAction parses an action cell for a plain catalog row. Empty and
// "-" both mean skip.
func ParseDataAction(value string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(value)))
	switch action {
	case "", ActionSkip:
		return ActionSkip, nil
	case ActionCreate, ActionUpdate, ActionDelete:
		return action, nil
	}
	return "", fmt.Errorf("unknown action %q", value)
}

// ParseItemAction parses an action cell for an item row, which additionally
// allows review, publish, and unpublish.
func ParseItemAction(value string) (Action, error) {
	action := Action(strings.ToLower(strings.TrimSpace(value)))
	switch action {
	case "", ActionSkip:
		return ActionSkip, nil
	case ActionCreate, ActionUpdate, ActionDelete, ActionReview, ActionPublish, ActionUnpublish:
		return action, nil
	}
	return "", fmt.Errorf("unknown action %q", value)
}

// Skip reports whether the row requires no processing.
func (a Action) Skip() bool {
	return a == ActionSkip
}
