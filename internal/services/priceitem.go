package services

import (
	"context"
	"net/url"

	"github.com/mptcli/cli/internal/api"
	"github.com/mptcli/cli/internal/interfaces"
	"github.com/mptcli/cli/internal/models"
	"github.com/mptcli/cli/internal/stats"
	"github.com/mptcli/cli/internal/tabs"
)

// PriceListItemService syncs and exports the Price Items tab. Price-list
// lines are created server-side with the price list, so sync only ever
// updates them.
type PriceListItemService struct {
	tab        *tabs.Manager
	api        *api.Service
	stats      *stats.Collector
	operations bool
}

// NewPriceListItemService binds the service to one price list's item
// collection.
func NewPriceListItemService(client interfaces.HTTPClient, account interfaces.Account, priceListID string, tab *tabs.Manager, collector *stats.Collector) *PriceListItemService {
	return &PriceListItemService{
		tab:        tab,
		api:        api.NewRelatedService(client, priceListItemsPath, priceListID),
		stats:      collector,
		operations: account.Type == interfaces.AccountOperations,
	}
}

// Update dispatches every row on its action. Create is folded into update:
// the platform materialises the lines itself, the sheet only adjusts them.
func (s *PriceListItemService) Update(ctx context.Context) error {
	rows, err := s.tab.ReadRows()
	if err != nil {
		return err
	}
	for _, row := range rows {
		priceItem, err := models.PriceListItemFromRow(row)
		if err != nil {
			recordRowError(s.tab, s.stats, row["ID"].Value, err.Error())
			continue
		}
		priceItem.OperationsAccount = s.operations
		switch priceItem.Action {
		case models.ActionSkip:
			s.stats.AddSkipped(s.tab.SheetName())
		case models.ActionDelete:
			recordRowError(s.tab, s.stats, priceItem.ID, deleteNotSupported)
		case models.ActionCreate, models.ActionUpdate:
			if priceItem.ID == "" {
				recordRowError(s.tab, s.stats, "", "price item ID is missing")
				continue
			}
			if err := s.api.Update(ctx, priceItem.ID, priceItem.ToJSON()); err != nil {
				recordRowError(s.tab, s.stats, priceItem.ID, err.Error())
				continue
			}
			s.stats.AddSynced(s.tab.SheetName())
		}
	}
	return nil
}

// Export writes the price list's lines into a fresh tab, formatting the
// unit price columns with the list's currency.
func (s *PriceListItemService) Export(ctx context.Context, priceList *models.PriceList) error {
	s.tab.SetCurrency(priceList.Currency, priceList.Precision)
	query := url.Values{}
	query.Set("select", "audit,item.terms,priceList.precision,priceList.currency")
	return exportPages(ctx, s.api, query, s.tab, func(data map[string]any) map[string]any {
		return models.PriceListItemFromJSON(data).ToXLSX()
	})
}
