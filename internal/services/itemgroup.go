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

// ItemGroupService syncs and exports the Items Groups tab.
type ItemGroupService struct {
	tab   *tabs.Manager
	api   *api.Service
	stats *stats.Collector
}

// NewItemGroupService binds the service to one product's item-group
// collection.
func NewItemGroupService(client interfaces.HTTPClient, productID string, tab *tabs.Manager, collector *stats.Collector) *ItemGroupService {
	return &ItemGroupService{
		tab:   tab,
		api:   api.NewRelatedService(client, itemGroupsPath, productID),
		stats: collector,
	}
}

// Create posts every row and returns the placeholder-to-server ID map for
// cross-reference rewriting in dependent sheets.
func (s *ItemGroupService) Create(ctx context.Context) (map[string]string, error) {
	rows, err := s.tab.ReadRows()
	if err != nil {
		return nil, err
	}
	created := make(map[string]string)
	for _, row := range rows {
		group, err := models.ItemGroupFromRow(row)
		if err != nil {
			recordRowError(s.tab, s.stats, row["ID"].Value, err.Error())
			continue
		}
		payload, err := s.api.Create(ctx, group.ToJSON(), nil, nil)
		if err != nil {
			recordRowError(s.tab, s.stats, group.ID, err.Error())
			continue
		}
		oldID := group.ID
		group.ID = payloadID(payload)
		created[oldID] = group.ID
		if err := writeID(s.tab, group.Coordinate, group.ID); err != nil {
			return created, err
		}
		s.stats.AddSynced(s.tab.SheetName())
	}
	return created, nil
}

// Update dispatches every row on its action.
func (s *ItemGroupService) Update(ctx context.Context) error {
	rows, err := s.tab.ReadRows()
	if err != nil {
		return err
	}
	for _, row := range rows {
		group, err := models.ItemGroupFromRow(row)
		if err != nil {
			recordRowError(s.tab, s.stats, row["ID"].Value, err.Error())
			continue
		}
		switch group.Action {
		case models.ActionSkip:
			s.stats.AddSkipped(s.tab.SheetName())
		case models.ActionCreate:
			payload, err := s.api.Create(ctx, group.ToJSON(), nil, nil)
			if err != nil {
				recordRowError(s.tab, s.stats, group.ID, err.Error())
				continue
			}
			if err := writeID(s.tab, group.Coordinate, payloadID(payload)); err != nil {
				return err
			}
			s.stats.AddSynced(s.tab.SheetName())
		case models.ActionUpdate:
			if err := s.api.Update(ctx, group.ID, group.ToJSON()); err != nil {
				recordRowError(s.tab, s.stats, group.ID, err.Error())
				continue
			}
			s.stats.AddSynced(s.tab.SheetName())
		case models.ActionDelete:
			recordRowError(s.tab, s.stats, group.ID, deleteNotSupported)
		}
	}
	return nil
}

// Export writes the product's item groups into a fresh tab.
func (s *ItemGroupService) Export(ctx context.Context) error {
	query := url.Values{}
	query.Set("select", "audit")
	return exportPages(ctx, s.api, query, s.tab, func(data map[string]any) map[string]any {
		return models.ItemGroupFromJSON(data).ToXLSX()
	})
}
