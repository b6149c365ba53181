package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strings"
	"time"

	"github.com/mptcli/cli/internal/interfaces"
)

const defaultTimeout = 60 * time.Second

// Client implements the HTTPClient interface against one platform
// environment, attaching the account's bearer token to every request.
type Client struct {
	environment string
	token       string
	http        *http.Client
}

// NewClient creates a client for the given environment base URL and token.
func NewClient(environment, token string) *Client {
	return &Client{
		environment: strings.TrimRight(environment, "/"),
		token:       token,
		http:        &http.Client{Timeout: defaultTimeout},
	}
}

// Do performs a single request and returns the status and raw body.
func (c *Client) Do(ctx context.Context, req *interfaces.Request) (*interfaces.Response, error) {
	target := c.environment + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	body, contentType, err := encodeBody(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.token)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", req.Path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", req.Path, err)
	}
	return &interfaces.Response{Status: resp.StatusCode, Body: raw}, nil
}

// encodeBody renders either a JSON body or a multipart form, in that order
// of precedence for Parts.
func encodeBody(req *interfaces.Request) (io.Reader, string, error) {
	if len(req.Parts) > 0 {
		return encodeMultipart(req.Parts)
	}
	if req.Body == nil {
		return nil, "", nil
	}
	raw, err := json.Marshal(req.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request body: %w", err)
	}
	return bytes.NewReader(raw), "application/json", nil
}

func encodeMultipart(parts map[string]interfaces.Part) (io.Reader, string, error) {
	var buffer bytes.Buffer
	writer := multipart.NewWriter(&buffer)

	names := make([]string, 0, len(parts))
	for name := range parts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		part := parts[name]
		header := make(textproto.MIMEHeader)
		disposition := fmt.Sprintf(`form-data; name=%q`, name)
		if part.Filename != "" {
			disposition = fmt.Sprintf(`form-data; name=%q; filename=%q`, name, part.Filename)
		}
		header.Set("Content-Disposition", disposition)
		if part.ContentType != "" {
			header.Set("Content-Type", part.ContentType)
		}
		field, err := writer.CreatePart(header)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create multipart field %s: %w", name, err)
		}
		if _, err := field.Write(part.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write multipart field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}
	return &buffer, writer.FormDataContentType(), nil
}
