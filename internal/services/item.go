package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/mptcli/cli/internal/api"
	"github.com/mptcli/cli/internal/interfaces"
	"github.com/mptcli/cli/internal/models"
	"github.com/mptcli/cli/internal/stats"
	"github.com/mptcli/cli/internal/tabs"
)

// ItemService syncs and exports the Items tab. Items are a top-level
// collection on the platform, so every request carries the product filter
// or a product reference in the payload.
type ItemService struct {
	tab       *tabs.Manager
	api       *api.Service
	stats     *stats.Collector
	units     *api.UnitResolver
	account   interfaces.Account
	productID string

	// parameters maps placeholder parameter IDs onto server-assigned ones
	// during a create run.
	parameters map[string]string
}

// NewItemService binds the service to the platform item collection for one
// product.
func NewItemService(client interfaces.HTTPClient, account interfaces.Account, productID string, tab *tabs.Manager, collector *stats.Collector) *ItemService {
	return &ItemService{
		tab:       tab,
		api:       api.NewService(client, itemsPath),
		stats:     collector,
		units:     api.NewUnitResolver(client),
		account:   account,
		productID: productID,
	}
}

// SetNewItemGroups rewrites every Group ID cell whose value appears in the
// placeholder map onto the server-assigned group ID.
func (s *ItemService) SetNewItemGroups(groups map[string]string) error {
	if len(groups) == 0 {
		return nil
	}
	rows, err := s.tab.ReadRows()
	if err != nil {
		return err
	}
	updates := make(map[string]string)
	for _, row := range rows {
		cell := row["Group ID"]
		if cell.Coordinate == "" {
			continue
		}
		newID, ok := groups[strings.TrimSpace(cell.Value)]
		if !ok {
			continue
		}
		updates[cell.Coordinate] = newID
	}
	return s.tab.WriteValues(updates)
}

// SetNewParameters moves the dynamic Parameter.<id> column headers onto
// their server-assigned IDs and keeps the map for payload building.
func (s *ItemService) SetNewParameters(parameters map[string]string) error {
	s.parameters = parameters
	if len(parameters) == 0 {
		return nil
	}
	headers := make(map[string]string, len(parameters))
	for oldID, newID := range parameters {
		headers[models.ItemParameterHeader(oldID)] = models.ItemParameterHeader(newID)
	}
	return s.tab.RewriteHeaders(headers)
}

// prepare finishes a parsed row for the wire: account-type gating,
// parameter ID rewriting, and unit-of-measure resolution with write-back.
func (s *ItemService) prepare(ctx context.Context, item *models.Item) error {
	item.OperationsAccount = s.account.Type == interfaces.AccountOperations
	for i := range item.Parameters {
		if newID, ok := s.parameters[item.Parameters[i].ID]; ok {
			item.Parameters[i].ID = newID
		}
	}
	if item.UnitID == "" && item.UnitName != "" {
		unit, err := s.units.SearchByName(ctx, item.UnitName)
		if err != nil {
			return err
		}
		item.UnitID = unit.ID
		if item.UnitCoordinate != "" {
			if err := s.tab.WriteValues(map[string]string{item.UnitCoordinate: unit.ID}); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *ItemService) payload(item *models.Item) map[string]any {
	payload := item.ToJSON()
	payload["product"] = map[string]any{"id": s.productID}
	return payload
}

// resolveID finds the platform item ID for a row, preferring the ID cell
// and falling back to a vendor external-ID lookup scoped to the product.
func (s *ItemService) resolveID(ctx context.Context, item *models.Item) (string, error) {
	if item.ID != "" {
		return item.ID, nil
	}
	query := url.Values{}
	query.Set("externalIds.vendor", item.VendorExternalID)
	query.Set("product.id", s.productID)
	query.Set("limit", "1")
	query.Set("offset", "0")
	page, err := s.api.List(ctx, query)
	if err != nil {
		return "", err
	}
	if len(page.Data) == 0 {
		return "", fmt.Errorf("item with vendor external id %q not found", item.VendorExternalID)
	}
	id, _ := page.Data[0]["id"].(string)
	if id == "" {
		return "", fmt.Errorf("item with vendor external id %q not found", item.VendorExternalID)
	}
	if err := writeID(s.tab, item.Coordinate, id); err != nil {
		return "", err
	}
	item.ID = id
	return id, nil
}

func (s *ItemService) createRow(ctx context.Context, item *models.Item) error {
	if err := s.prepare(ctx, item); err != nil {
		return err
	}
	payload, err := s.api.Create(ctx, s.payload(item), nil, nil)
	if err != nil {
		return err
	}
	return writeID(s.tab, item.Coordinate, payloadID(payload))
}

// Create posts every row.
func (s *ItemService) Create(ctx context.Context) error {
	rows, err := s.tab.ReadRows()
	if err != nil {
		return err
	}
	for _, row := range rows {
		item, err := models.ItemFromRow(row)
		if err != nil {
			recordRowError(s.tab, s.stats, row["ID"].Value, err.Error())
			continue
		}
		if err := s.createRow(ctx, item); err != nil {
			recordRowError(s.tab, s.stats, item.ID, err.Error())
			continue
		}
		s.stats.AddSynced(s.tab.SheetName())
	}
	return nil
}

// Update dispatches every row on its action. Review, publish, and unpublish
// map to the platform's item action endpoints.
func (s *ItemService) Update(ctx context.Context) error {
	rows, err := s.tab.ReadRows()
	if err != nil {
		return err
	}
	for _, row := range rows {
		item, err := models.ItemFromRow(row)
		if err != nil {
			recordRowError(s.tab, s.stats, row["ID"].Value, err.Error())
			continue
		}
		switch item.Action {
		case models.ActionSkip:
			s.stats.AddSkipped(s.tab.SheetName())
		case models.ActionCreate:
			if err := s.createRow(ctx, item); err != nil {
				recordRowError(s.tab, s.stats, item.ID, err.Error())
				continue
			}
			s.stats.AddSynced(s.tab.SheetName())
		case models.ActionUpdate:
			id, err := s.resolveID(ctx, item)
			if err != nil {
				recordRowError(s.tab, s.stats, item.ID, err.Error())
				continue
			}
			if err := s.prepare(ctx, item); err != nil {
				recordRowError(s.tab, s.stats, id, err.Error())
				continue
			}
			if err := s.api.Update(ctx, id, item.ToJSON()); err != nil {
				recordRowError(s.tab, s.stats, id, err.Error())
				continue
			}
			s.stats.AddSynced(s.tab.SheetName())
		case models.ActionReview, models.ActionPublish, models.ActionUnpublish:
			id, err := s.resolveID(ctx, item)
			if err != nil {
				recordRowError(s.tab, s.stats, item.ID, err.Error())
				continue
			}
			if err := s.api.PostAction(ctx, id, string(item.Action)); err != nil {
				recordRowError(s.tab, s.stats, id, err.Error())
				continue
			}
			s.stats.AddSynced(s.tab.SheetName())
		case models.ActionDelete:
			recordRowError(s.tab, s.stats, item.ID, deleteNotSupported)
		}
	}
	return nil
}

// Export writes the product's items into a fresh tab.
func (s *ItemService) Export(ctx context.Context) error {
	query := url.Values{}
	query.Set("select", "audit")
	query.Set("product.id", s.productID)
	return exportPages(ctx, s.api, query, s.tab, func(data map[string]any) map[string]any {
		return models.ItemFromJSON(data).ToXLSX()
	})
}
