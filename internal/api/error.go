package api

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// MPTAPIError is the single error type that leaves the API layer. It pairs
// a request summary with a rendered response body.
type MPTAPIError struct {
	RequestMessage string
	ResponseBody   string
}

func (e *MPTAPIError) Error() string {
	if e.ResponseBody == "" {
		return e.RequestMessage
	}
	return fmt.Sprintf("%s: %s", e.RequestMessage, e.ResponseBody)
}

// newAPIError wraps a failed response. Bodies shaped like
// {"errors":{"field":["msg"]}} are rendered one "field: msg" line per
// message; anything else is included raw.
func newAPIError(requestMessage string, body []byte) *MPTAPIError {
	return &MPTAPIError{
		RequestMessage: requestMessage,
		ResponseBody:   renderBody(body),
	}
}

func renderBody(body []byte) string {
	var envelope struct {
		Errors map[string][]string `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		fields := make([]string, 0, len(envelope.Errors))
		for field := range envelope.Errors {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		var lines []string
		for _, field := range fields {
			for _, message := range envelope.Errors[field] {
				lines = append(lines, fmt.Sprintf("%s: %s", field, message))
			}
		}
		return strings.Join(lines, "\n")
	}
	return strings.TrimSpace(string(body))
}

// ResourceNotFoundError reports a get for an ID the platform does not know.
type ResourceNotFoundError struct {
	ID string
}

func (e *ResourceNotFoundError) Error() string {
	return fmt.Sprintf("resource %s not found", e.ID)
}
