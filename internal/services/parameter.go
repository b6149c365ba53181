package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/mptcli/cli/internal/api"
	"github.com/mptcli/cli/internal/interfaces"
	"github.com/mptcli/cli/internal/models"
	"github.com/mptcli/cli/internal/stats"
	"github.com/mptcli/cli/internal/tabs"
)

// ParameterService syncs and exports one scoped parameter tab. The scope is
// fixed at construction and applied both as the wire scope field and as the
// export filter.
type ParameterService struct {
	scope string
	tab   *tabs.Manager
	api   *api.Service
	stats *stats.Collector
}

// NewParameterService binds the service to one product's parameter
// collection for a single scope.
func NewParameterService(client interfaces.HTTPClient, productID, scope string, tab *tabs.Manager, collector *stats.Collector) *ParameterService {
	return &ParameterService{
		scope: scope,
		tab:   tab,
		api:   api.NewRelatedService(client, parametersPath, productID),
		stats: collector,
	}
}

// Scope returns the service's parameter scope.
func (s *ParameterService) Scope() string {
	return s.scope
}

// SetNewParameterGroups rewrites every Group ID cell whose value appears in
// the placeholder map onto the server-assigned group ID. Unknown values are
// left untouched; the POST surfaces them as per-row errors.
func (s *ParameterService) SetNewParameterGroups(groups map[string]string) error {
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

// Create posts every row and returns the placeholder-to-server ID map for
// templates and items.
func (s *ParameterService) Create(ctx context.Context) (map[string]string, error) {
	rows, err := s.tab.ReadRows()
	if err != nil {
		return nil, err
	}
	created := make(map[string]string)
	for _, row := range rows {
		parameter, err := models.ParameterFromRow(row, s.scope)
		if err != nil {
			recordRowError(s.tab, s.stats, row["ID"].Value, err.Error())
			continue
		}
		payload, err := s.api.Create(ctx, parameter.ToJSON(), nil, nil)
		if err != nil {
			recordRowError(s.tab, s.stats, parameter.ID, err.Error())
			continue
		}
		oldID := parameter.ID
		parameter.ID = payloadID(payload)
		created[oldID] = parameter.ID
		if err := writeID(s.tab, parameter.Coordinate, parameter.ID); err != nil {
			return created, err
		}
		s.stats.AddSynced(s.tab.SheetName())
	}
	return created, nil
}

// Update dispatches every row on its action.
func (s *ParameterService) Update(ctx context.Context) error {
	rows, err := s.tab.ReadRows()
	if err != nil {
		return err
	}
	for _, row := range rows {
		parameter, err := models.ParameterFromRow(row, s.scope)
		if err != nil {
			recordRowError(s.tab, s.stats, row["ID"].Value, err.Error())
			continue
		}
		switch parameter.Action {
		case models.ActionSkip:
			s.stats.AddSkipped(s.tab.SheetName())
		case models.ActionCreate:
			payload, err := s.api.Create(ctx, parameter.ToJSON(), nil, nil)
			if err != nil {
				recordRowError(s.tab, s.stats, parameter.ID, err.Error())
				continue
			}
			if err := writeID(s.tab, parameter.Coordinate, payloadID(payload)); err != nil {
				return err
			}
			s.stats.AddSynced(s.tab.SheetName())
		case models.ActionUpdate:
			if err := s.api.Update(ctx, parameter.ID, parameter.ToJSON()); err != nil {
				recordRowError(s.tab, s.stats, parameter.ID, err.Error())
				continue
			}
			s.stats.AddSynced(s.tab.SheetName())
		case models.ActionDelete:
			recordRowError(s.tab, s.stats, parameter.ID, deleteNotSupported)
		}
	}
	return nil
}

// Export writes the product's parameters of this scope into a fresh tab.
func (s *ParameterService) Export(ctx context.Context) error {
	query := url.Values{}
	query.Set("select", "audit")
	query.Set("scope", s.scope)
	return exportPages(ctx, s.api, query, s.tab, func(data map[string]any) map[string]any {
		return models.ParameterFromJSON(data, s.scope).ToXLSX()
	})
}
