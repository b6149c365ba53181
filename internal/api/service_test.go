package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/mptcli/cli/internal/httpclient"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := httpclient.NewClient(server.URL, "test-token")
	return NewService(client, "/catalog/products")
}

func TestServiceList(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}
		if r.URL.Query().Get("limit") != "10" {
			t.Errorf("expected limit=10, got %q", r.URL.Query().Get("limit"))
		}
		fmt.Fprint(w, `{
			"$meta": {"pagination": {"limit": 10, "offset": 0, "total": 2}},
			"data": [{"id": "PRD-0001"}, {"id": "PRD-0002"}]
		}`)
	})

	query := url.Values{}
	query.Set("limit", "10")
	page, err := service.List(context.Background(), query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(page.Data))
	}
	if page.Data[0]["id"] != "PRD-0001" {
		t.Errorf("unexpected first record: %v", page.Data[0])
	}
	if !page.Done() {
		t.Errorf("a full page must report done")
	}
}

func TestPageDone(t *testing.T) {
	tests := []struct {
		name string
		meta Pagination
		want bool
	}{
		{"empty collection", Pagination{Limit: 100, Offset: 0, Total: 0}, true},
		{"first of three", Pagination{Limit: 100, Offset: 0, Total: 250}, false},
		{"second of three", Pagination{Limit: 100, Offset: 100, Total: 250}, false},
		{"last of three", Pagination{Limit: 100, Offset: 200, Total: 250}, true},
		{"exact boundary", Pagination{Limit: 100, Offset: 100, Total: 200}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := &Page{Meta: tt.meta}
			if page.Done() != tt.want {
				t.Errorf("expected Done() == %v for %+v", tt.want, tt.meta)
			}
		})
	}
}

func TestServiceGetNotFound(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := service.Get(context.Background(), "PRD-9999", nil)
	var notFound *ResourceNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected ResourceNotFoundError, got %v", err)
	}
	if notFound.ID != "PRD-9999" {
		t.Errorf("expected the missing ID, got %q", notFound.ID)
	}
}

func TestServiceGet(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/catalog/products/PRD-0001" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("select") != "audit" {
			t.Errorf("expected select=audit, got %q", r.URL.Query().Get("select"))
		}
		fmt.Fprint(w, `{"id": "PRD-0001", "name": "Adobe Commerce"}`)
	})

	query := url.Values{}
	query.Set("select", "audit")
	payload, err := service.Get(context.Background(), "PRD-0001", query)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["name"] != "Adobe Commerce" {
		t.Errorf("unexpected payload: %v", payload)
	}
}

func TestServiceCreateValidationError(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errors": {"name": ["is required"], "terms": ["model is unknown"]}}`)
	})

	_, err := service.Create(context.Background(), map[string]any{}, nil, nil)
	var apiErr *MPTAPIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected MPTAPIError, got %v", err)
	}
	if !strings.Contains(apiErr.ResponseBody, "name: is required") {
		t.Errorf("expected a rendered field error, got %q", apiErr.ResponseBody)
	}
	if !strings.Contains(apiErr.ResponseBody, "terms: model is unknown") {
		t.Errorf("expected all field errors rendered, got %q", apiErr.ResponseBody)
	}
}

func TestServiceCreate(t *testing.T) {
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		if body["name"] != "Acrobat" {
			t.Errorf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id": "ITM-0001", "name": "Acrobat"}`)
	})

	created, err := service.Create(context.Background(), map[string]any{"name": "Acrobat"}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created["id"] != "ITM-0001" {
		t.Errorf("expected the created payload, got %v", created)
	}
}

func TestServicePostAction(t *testing.T) {
	var gotPath string
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := service.PostAction(context.Background(), "ITM-0001", "publish"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/catalog/products/ITM-0001/publish" {
		t.Errorf("unexpected action path %s", gotPath)
	}
}

func TestServiceExists(t *testing.T) {
	var gotLimit string
	service := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		fmt.Fprint(w, `{"$meta": {"pagination": {"limit": 0, "offset": 0, "total": 1}}, "data": []}`)
	})

	exists, err := service.Exists(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Errorf("expected a positive total to report existence")
	}
	if gotLimit != "0" {
		t.Errorf("expected a zero-limit probe, got limit=%q", gotLimit)
	}
}

func TestNewRelatedService(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, `{"id": "TPL-0001"}`)
	}))
	t.Cleanup(server.Close)

	client := httpclient.NewClient(server.URL, "test-token")
	service := NewRelatedService(client, "/catalog/products/{resource_id}/templates", "PRD-0001")
	if _, err := service.Get(context.Background(), "TPL-0001", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/catalog/products/PRD-0001/templates/TPL-0001" {
		t.Errorf("unexpected interpolated path %s", gotPath)
	}
}

func TestRenderBodyFallback(t *testing.T) {
	err := newAPIError("POST /catalog/products returned status 500", []byte("  internal error  "))
	if err.ResponseBody != "internal error" {
		t.Errorf("expected the raw body trimmed, got %q", err.ResponseBody)
	}
	if !strings.Contains(err.Error(), "status 500") {
		t.Errorf("expected the request summary, got %q", err.Error())
	}
}
