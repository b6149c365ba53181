package interfaces

import (
	"context"
	"net/url"
)

// HTTPClient performs a single platform request and returns the raw status
// and body. Authentication, base URL, and timeouts belong to the
// implementation; callers never see transport details.
type HTTPClient interface {
	Do(ctx context.Context, req *Request) (*Response, error)
}

// Request describes one platform API call.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    any               // JSON-encoded when non-nil and Parts is empty
	Parts   map[string]Part   // multipart form parts; takes precedence over Body
	Headers map[string]string
}

// Part is a single multipart form part.
type Part struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Response carries the HTTP status and the raw response body.
type Response struct {
	Status int
	Body   []byte
}
