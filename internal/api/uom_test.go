package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mptcli/cli/internal/httpclient"
)

func TestUnitResolverMemoizes(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/catalog/units-of-measure" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("name") != "User" {
			t.Errorf("unexpected name query %q", r.URL.Query().Get("name"))
		}
		fmt.Fprint(w, `{
			"$meta": {"pagination": {"limit": 1, "offset": 0, "total": 1}},
			"data": [{"id": "UOM-0001", "name": "User"}]
		}`)
	}))
	t.Cleanup(server.Close)

	resolver := NewUnitResolver(httpclient.NewClient(server.URL, "test-token"))

	unit, err := resolver.SearchByName(context.Background(), "User")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit.ID != "UOM-0001" || unit.Name != "User" {
		t.Errorf("unexpected unit: %+v", unit)
	}

	// Case-insensitive cache hit, no second request.
	if _, err := resolver.SearchByName(context.Background(), "  user "); err != nil {
		t.Fatalf("unexpected error on cached lookup: %v", err)
	}
	if requests != 1 {
		t.Errorf("expected one upstream request, got %d", requests)
	}
}

func TestUnitResolverNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"$meta": {"pagination": {"limit": 1, "offset": 0, "total": 0}}, "data": []}`)
	}))
	t.Cleanup(server.Close)

	resolver := NewUnitResolver(httpclient.NewClient(server.URL, "test-token"))
	_, err := resolver.SearchByName(context.Background(), "Furlong")
	if err == nil {
		t.Fatalf("expected an error for an unknown unit")
	}
	if !strings.Contains(err.Error(), "Furlong") {
		t.Errorf("expected the error to name the unit, got %q", err.Error())
	}
}
