package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/mptcli/cli/internal/interfaces"
)

// Pagination is the platform list envelope's paging block.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// Page is one page of a platform list response.
type Page struct {
	Meta Pagination
	Data []map[string]any
}

// Done reports whether this page is the last one.
func (p *Page) Done() bool {
	return p.Meta.Offset+p.Meta.Limit >= p.Meta.Total
}

type listEnvelope struct {
	Meta struct {
		Pagination Pagination `json:"pagination"`
	} `json:"$meta"`
	Data []map[string]any `json:"data"`
}

// Service is a resource-scoped REST facade over one platform collection.
// All failures surface as MPTAPIError.
type Service struct {
	client interfaces.HTTPClient
	base   string
}

// NewService creates a facade for a top-level collection such as
// /catalog/products.
func NewService(client interfaces.HTTPClient, base string) *Service {
	return &Service{client: client, base: base}
}

// NewRelatedService creates a facade for a collection nested under a parent
// resource; {resource_id} in the base path is interpolated once.
func NewRelatedService(client interfaces.HTTPClient, base, resourceID string) *Service {
	return &Service{
		client: client,
		base:   strings.ReplaceAll(base, "{resource_id}", resourceID),
	}
}

func (s *Service) do(ctx context.Context, req *interfaces.Request) (*interfaces.Response, error) {
	resp, err := s.client.Do(ctx, req)
	if err != nil {
		return nil, &MPTAPIError{
			RequestMessage: fmt.Sprintf("%s %s failed", req.Method, req.Path),
			ResponseBody:   err.Error(),
		}
	}
	return resp, nil
}

func (s *Service) failure(req *interfaces.Request, resp *interfaces.Response) *MPTAPIError {
	return newAPIError(
		fmt.Sprintf("%s %s returned status %d", req.Method, req.Path, resp.Status),
		resp.Body,
	)
}

// Exists issues a zero-limit list and reads the pagination total.
func (s *Service) Exists(ctx context.Context, query url.Values) (bool, error) {
	q := cloneQuery(query)
	q.Set("limit", "0")
	page, err := s.List(ctx, q)
	if err != nil {
		return false, err
	}
	return page.Meta.Total > 0, nil
}

// Get fetches a single resource by ID.
func (s *Service) Get(ctx context.Context, id string, query url.Values) (map[string]any, error) {
	req := &interfaces.Request{
		Method: http.MethodGet,
		Path:   s.base + "/" + id,
		Query:  query,
	}
	resp, err := s.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status == http.StatusNotFound {
		return nil, &ResourceNotFoundError{ID: id}
	}
	if resp.Status >= http.StatusBadRequest {
		return nil, s.failure(req, resp)
	}
	if len(resp.Body) == 0 {
		return nil, &ResourceNotFoundError{ID: id}
	}
	var payload map[string]any
	if err := json.Unmarshal(resp.Body, &payload); err != nil {
		return nil, newAPIError(fmt.Sprintf("GET %s returned an unreadable body", req.Path), resp.Body)
	}
	if len(payload) == 0 {
		return nil, &ResourceNotFoundError{ID: id}
	}
	return payload, nil
}

// List fetches one page of the collection.
func (s *Service) List(ctx context.Context, query url.Values) (*Page, error) {
	req := &interfaces.Request{
		Method: http.MethodGet,
		Path:   s.base,
		Query:  query,
	}
	resp, err := s.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status >= http.StatusBadRequest {
		return nil, s.failure(req, resp)
	}
	var envelope listEnvelope
	if err := json.Unmarshal(resp.Body, &envelope); err != nil {
		return nil, newAPIError(fmt.Sprintf("GET %s returned an unreadable body", req.Path), resp.Body)
	}
	return &Page{Meta: envelope.Meta.Pagination, Data: envelope.Data}, nil
}

// Create posts a new resource. When parts is non-empty the request is sent
// as a multipart form (product creation: a "product" JSON part plus the
// binary icon).
func (s *Service) Create(ctx context.Context, payload map[string]any, parts map[string]interfaces.Part, headers map[string]string) (map[string]any, error) {
	req := &interfaces.Request{
		Method:  http.MethodPost,
		Path:    s.base,
		Headers: headers,
	}
	if len(parts) > 0 {
		req.Parts = parts
	} else {
		req.Body = payload
	}
	resp, err := s.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status >= http.StatusBadRequest {
		return nil, s.failure(req, resp)
	}
	var created map[string]any
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &created); err != nil {
			return nil, newAPIError(fmt.Sprintf("POST %s returned an unreadable body", req.Path), resp.Body)
		}
	}
	return created, nil
}

// Update replaces a resource with PUT semantics.
func (s *Service) Update(ctx context.Context, id string, payload map[string]any) error {
	req := &interfaces.Request{
		Method: http.MethodPut,
		Path:   s.base + "/" + id,
		Body:   payload,
	}
	resp, err := s.do(ctx, req)
	if err != nil {
		return err
	}
	if resp.Status >= http.StatusBadRequest {
		return s.failure(req, resp)
	}
	return nil
}

// Put replaces the resource at the base path itself, used for singleton
// sub-resources such as a product's settings subdocument.
func (s *Service) Put(ctx context.Context, payload map[string]any) error {
	req := &interfaces.Request{
		Method: http.MethodPut,
		Path:   s.base,
		Body:   payload,
	}
	resp, err := s.do(ctx, req)
	if err != nil {
		return err
	}
	if resp.Status >= http.StatusBadRequest {
		return s.failure(req, resp)
	}
	return nil
}

// PostAction invokes a server-side action endpoint such as /{id}/publish.
func (s *Service) PostAction(ctx context.Context, id, action string) error {
	req := &interfaces.Request{
		Method: http.MethodPost,
		Path:   s.base + "/" + id + "/" + action,
	}
	resp, err := s.do(ctx, req)
	if err != nil {
		return err
	}
	if resp.Status >= http.StatusBadRequest {
		return s.failure(req, resp)
	}
	return nil
}

func cloneQuery(query url.Values) url.Values {
	cloned := url.Values{}
	for key, values := range query {
		for _, value := range values {
			cloned.Add(key, value)
		}
	}
	return cloned
}
