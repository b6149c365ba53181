package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mptcli/cli/internal/interfaces"
)

// Unit is a resolved unit of measure.
type Unit struct {
	ID   string
	Name string
}

// UnitResolver turns human-readable unit names into platform unit IDs.
// Lookups are memoized for the lifetime of a sync run, keyed by the
// lowercased name.
type UnitResolver struct {
	service *Service
	cache   map[string]Unit
}

// NewUnitResolver creates a resolver over the units-of-measure collection.
func NewUnitResolver(client interfaces.HTTPClient) *UnitResolver {
	return &UnitResolver{
		service: NewService(client, "/catalog/units-of-measure"),
		cache:   make(map[string]Unit),
	}
}

// SearchByName resolves a unit name. An empty result fails with an API
// error naming the unit.
func (r *UnitResolver) SearchByName(ctx context.Context, name string) (Unit, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if unit, ok := r.cache[key]; ok {
		return unit, nil
	}

	query := url.Values{}
	query.Set("name", name)
	query.Set("limit", "1")
	query.Set("offset", "0")
	page, err := r.service.List(ctx, query)
	if err != nil {
		return Unit{}, err
	}
	if len(page.Data) == 0 {
		return Unit{}, &MPTAPIError{RequestMessage: fmt.Sprintf("unit %q not found", name)}
	}

	data := page.Data[0]
	unit := Unit{}
	if id, ok := data["id"].(string); ok {
		unit.ID = id
	}
	if unitName, ok := data["name"].(string); ok {
		unit.Name = unitName
	}
	r.cache[key] = unit
	return unit, nil
}
