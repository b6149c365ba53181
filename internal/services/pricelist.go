package services

import (
	"context"
	"net/url"

	stderrors "errors"

	"github.com/mptcli/cli/internal/api"
	"github.com/mptcli/cli/internal/errors"
	"github.com/mptcli/cli/internal/interfaces"
	"github.com/mptcli/cli/internal/models"
	"github.com/mptcli/cli/internal/stats"
	"github.com/mptcli/cli/internal/tabs"
)

// PriceListService owns the vertical General tab of a price-list workbook.
type PriceListService struct {
	store    interfaces.WorkbookStore
	general  *tabs.Manager
	api      *api.Service
	stats    *stats.Collector
	messages *stats.ErrorMessages
}

// NewPriceListService binds the service to a price-list workbook on disk.
func NewPriceListService(client interfaces.HTTPClient, store interfaces.WorkbookStore, collector *stats.Collector, messages *stats.ErrorMessages) *PriceListService {
	return &PriceListService{
		store:    store,
		general:  tabs.NewManager(tabs.PriceListGeneralSpec(), store),
		api:      api.NewService(client, priceListsPath),
		stats:    collector,
		messages: messages,
	}
}

// ValidateDefinition checks the workbook before any network I/O.
func (s *PriceListService) ValidateDefinition() bool {
	if !s.store.Exists() {
		s.messages.Add(models.SheetGeneral, "", "Provided file path doesn't exist")
		return false
	}
	if err := s.general.CheckRequiredTabs(); err != nil {
		var details *errors.DetailsError
		if stderrors.As(err, &details) {
			for _, tab := range details.Details {
				s.messages.Add(tab, "", "Required tab doesn't exist")
			}
		} else {
			s.messages.Add(models.SheetGeneral, "", err.Error())
		}
		return false
	}
	for _, failure := range s.general.CheckRequiredFields() {
		var details *errors.DetailsError
		if !stderrors.As(failure.Err, &details) {
			s.messages.Add(failure.Tab, "", failure.Err.Error())
			continue
		}
		text := "Required field doesn't exist"
		if details.Kind == errors.KindRequiredValues {
			text = "Required field value is not provided"
		}
		for _, field := range details.Details {
			s.messages.Add(failure.Tab, field, text)
		}
	}
	return s.messages.Empty()
}

// Retrieve reads the General tab and checks whether its price-list ID is
// known to the platform.
func (s *PriceListService) Retrieve(ctx context.Context) (*models.PriceList, bool, error) {
	cells, err := s.general.ReadVertical()
	if err != nil {
		return nil, false, err
	}
	priceList := models.PriceListFromVertical(cells)
	if priceList.ID == "" {
		return priceList, false, nil
	}
	if _, err := s.api.Get(ctx, priceList.ID, nil); err != nil {
		var notFound *api.ResourceNotFoundError
		if stderrors.As(err, &notFound) {
			return priceList, false, nil
		}
		return nil, false, err
	}
	return priceList, true, nil
}

// Create posts the price list and writes the assigned ID back.
func (s *PriceListService) Create(ctx context.Context, priceList *models.PriceList) error {
	payload, err := s.api.Create(ctx, priceList.ToJSON(), nil, nil)
	if err != nil {
		recordRowError(s.general, s.stats, priceList.ID, err.Error())
		return err
	}
	priceList.ID = payloadID(payload)
	if err := writeID(s.general, priceList.Coordinate, priceList.ID); err != nil {
		return err
	}
	s.stats.AddSynced(models.SheetGeneral)
	return nil
}

// Update replaces the price-list root fields.
func (s *PriceListService) Update(ctx context.Context, priceList *models.PriceList) error {
	if err := s.api.Update(ctx, priceList.ID, priceList.ToJSON()); err != nil {
		recordRowError(s.general, s.stats, priceList.ID, err.Error())
		return nil
	}
	s.stats.AddSynced(models.SheetGeneral)
	return nil
}

// Export fetches the price list and writes the General tab. The parsed
// price list is returned so the items export can pick up currency and
// precision.
func (s *PriceListService) Export(ctx context.Context, id string) (*models.PriceList, error) {
	query := url.Values{}
	query.Set("select", "audit")
	payload, err := s.api.Get(ctx, id, query)
	if err != nil {
		return nil, err
	}
	priceList := models.PriceListFromJSON(payload)
	if err := s.general.CreateTab(); err != nil {
		return nil, err
	}
	if err := s.general.AddVertical(priceList.ToXLSX()); err != nil {
		return nil, err
	}
	return priceList, nil
}
