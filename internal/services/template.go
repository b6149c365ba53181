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

// TemplateService syncs and exports the Templates tab. Template content may
// textually embed parameter placeholder IDs, so the service rewrites the
// content cells before the templates are posted.
type TemplateService struct {
	tab   *tabs.Manager
	api   *api.Service
	stats *stats.Collector
}

// NewTemplateService binds the service to one product's template
// collection.
func NewTemplateService(client interfaces.HTTPClient, productID string, tab *tabs.Manager, collector *stats.Collector) *TemplateService {
	return &TemplateService{
		tab:   tab,
		api:   api.NewRelatedService(client, templatesPath, productID),
		stats: collector,
	}
}

// SetNewParameters substitutes old parameter IDs embedded in template
// content for their server-assigned replacements and persists the changed
// cells.
func (s *TemplateService) SetNewParameters(parameters map[string]string) error {
	if len(parameters) == 0 {
		return nil
	}
	rows, err := s.tab.ReadRows()
	if err != nil {
		return err
	}
	updates := make(map[string]string)
	for _, row := range rows {
		template, err := models.TemplateFromRow(row)
		if err != nil {
			// Unparsable rows surface during Create.
			continue
		}
		if template.RewriteContent(parameters) && template.ContentCoordinate != "" {
			updates[template.ContentCoordinate] = template.Content
		}
	}
	return s.tab.WriteValues(updates)
}

// Create posts every row.
func (s *TemplateService) Create(ctx context.Context) error {
	rows, err := s.tab.ReadRows()
	if err != nil {
		return err
	}
	for _, row := range rows {
		template, err := models.TemplateFromRow(row)
		if err != nil {
			recordRowError(s.tab, s.stats, row["ID"].Value, err.Error())
			continue
		}
		payload, err := s.api.Create(ctx, template.ToJSON(), nil, nil)
		if err != nil {
			recordRowError(s.tab, s.stats, template.ID, err.Error())
			continue
		}
		if err := writeID(s.tab, template.Coordinate, payloadID(payload)); err != nil {
			return err
		}
		s.stats.AddSynced(s.tab.SheetName())
	}
	return nil
}

// Update dispatches every row on its action.
func (s *TemplateService) Update(ctx context.Context) error {
	rows, err := s.tab.ReadRows()
	if err != nil {
		return err
	}
	for _, row := range rows {
		template, err := models.TemplateFromRow(row)
		if err != nil {
			recordRowError(s.tab, s.stats, row["ID"].Value, err.Error())
			continue
		}
		switch template.Action {
		case models.ActionSkip:
			s.stats.AddSkipped(s.tab.SheetName())
		case models.ActionCreate:
			payload, err := s.api.Create(ctx, template.ToJSON(), nil, nil)
			if err != nil {
				recordRowError(s.tab, s.stats, template.ID, err.Error())
				continue
			}
			if err := writeID(s.tab, template.Coordinate, payloadID(payload)); err != nil {
				return err
			}
			s.stats.AddSynced(s.tab.SheetName())
		case models.ActionUpdate:
			if err := s.api.Update(ctx, template.ID, template.ToJSON()); err != nil {
				recordRowError(s.tab, s.stats, template.ID, err.Error())
				continue
			}
			s.stats.AddSynced(s.tab.SheetName())
		case models.ActionDelete:
			recordRowError(s.tab, s.stats, template.ID, deleteNotSupported)
		}
	}
	return nil
}

// Export writes the product's templates into a fresh tab.
func (s *TemplateService) Export(ctx context.Context) error {
	query := url.Values{}
	query.Set("select", "audit")
	return exportPages(ctx, s.api, query, s.tab, func(data map[string]any) map[string]any {
		return models.TemplateFromJSON(data).ToXLSX()
	})
}
