package services

import (
	"context"
	"encoding/json"
	"mime"
	"net/url"
	"os"
	"path/filepath"

	stderrors "errors"

	"github.com/mptcli/cli/internal/api"
	"github.com/mptcli/cli/internal/errors"
	"github.com/mptcli/cli/internal/interfaces"
	"github.com/mptcli/cli/internal/models"
	"github.com/mptcli/cli/internal/stats"
	"github.com/mptcli/cli/internal/tabs"
)

// ProductService owns the vertical General tab and the Settings tab of a
// product workbook, plus the workbook-level definition checks that run
// before any network I/O.
type ProductService struct {
	path     string
	store    interfaces.WorkbookStore
	general  *tabs.Manager
	settings *tabs.Manager
	client   interfaces.HTTPClient
	api      *api.Service
	stats    *stats.Collector
	messages *stats.ErrorMessages
}

// NewProductService binds the service to a product workbook on disk.
func NewProductService(client interfaces.HTTPClient, path string, store interfaces.WorkbookStore, collector *stats.Collector, messages *stats.ErrorMessages) *ProductService {
	return &ProductService{
		path:     path,
		store:    store,
		general:  tabs.NewManager(tabs.ProductGeneralSpec(), store),
		settings: tabs.NewManager(tabs.SettingsSpec(), store),
		client:   client,
		api:      api.NewService(client, productsPath),
		stats:    collector,
		messages: messages,
	}
}

// ValidateDefinition checks the workbook before any network I/O: the file
// exists, every required tab is present, and every tab carries its declared
// fields. Failures accumulate into the message collector.
func (s *ProductService) ValidateDefinition() bool {
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

// Retrieve reads the General tab and checks whether its product ID is known
// to the platform.
func (s *ProductService) Retrieve(ctx context.Context) (*models.Product, bool, error) {
	cells, err := s.general.ReadVertical()
	if err != nil {
		return nil, false, err
	}
	product := models.ProductFromVertical(cells)
	if product.ID == "" {
		return product, false, nil
	}
	if _, err := s.api.Get(ctx, product.ID, nil); err != nil {
		var notFound *api.ResourceNotFoundError
		if stderrors.As(err, &notFound) {
			return product, false, nil
		}
		return nil, false, err
	}
	return product, true, nil
}

// Create posts the product as a multipart form with the icon attached and
// writes the assigned ID back to the General tab.
func (s *ProductService) Create(ctx context.Context) (*models.Product, error) {
	cells, err := s.general.ReadVertical()
	if err != nil {
		return nil, err
	}
	product := models.ProductFromVertical(cells)

	body, err := json.Marshal(product.ToJSON())
	if err != nil {
		return nil, err
	}
	parts := map[string]interfaces.Part{
		"product": {ContentType: "application/json", Content: body},
	}
	if product.IconName != "" {
		icon, err := s.loadIcon(product.IconName)
		if err != nil {
			recordRowError(s.general, s.stats, product.ID, err.Error())
			return nil, err
		}
		parts["icon"] = interfaces.Part{
			Filename:    filepath.Base(product.IconName),
			ContentType: iconContentType(product.IconName),
			Content:     icon,
		}
	}

	payload, err := s.api.Create(ctx, nil, parts, nil)
	if err != nil {
		recordRowError(s.general, s.stats, product.ID, err.Error())
		return nil, err
	}
	product.ID = payloadID(payload)
	if err := writeID(s.general, product.Coordinate, product.ID); err != nil {
		return nil, err
	}
	s.stats.AddSynced(models.SheetGeneral)
	return product, nil
}

// loadIcon reads the icon file named on the General tab, resolved relative
// to the workbook when the path is not absolute.
func (s *ProductService) loadIcon(name string) ([]byte, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(s.path), name)
	}
	return os.ReadFile(path)
}

func iconContentType(name string) string {
	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		return contentType
	}
	return "image/png"
}

func (s *ProductService) readSettings() ([]models.Setting, error) {
	rows, err := s.settings.ReadRows()
	if err != nil {
		return nil, err
	}
	settings := make([]models.Setting, 0, len(rows))
	for _, row := range rows {
		setting, err := models.SettingFromRow(row)
		if err != nil {
			recordRowError(s.settings, s.stats, row["Setting"].Value, err.Error())
			continue
		}
		settings = append(settings, setting)
	}
	return settings, nil
}

func (s *ProductService) putSettings(ctx context.Context, productID string, settings []models.Setting) error {
	if len(settings) == 0 {
		return nil
	}
	service := api.NewRelatedService(s.client, productSettingsPath, productID)
	if err := service.Put(ctx, models.SettingsToJSON(settings)); err != nil {
		for range settings {
			s.stats.AddError(models.SheetSettings)
		}
		_ = s.settings.WriteError(err.Error(), "")
		return nil
	}
	for range settings {
		s.stats.AddSynced(models.SheetSettings)
	}
	return nil
}

// CreateSettings pushes every settings row after a product create,
// regardless of the row actions.
func (s *ProductService) CreateSettings(ctx context.Context, productID string) error {
	settings, err := s.readSettings()
	if err != nil {
		return err
	}
	return s.putSettings(ctx, productID, settings)
}

// UpdateSettings pushes the settings rows marked for create or update as a
// single PUT against the settings subdocument. The root product fields are
// never updated.
func (s *ProductService) UpdateSettings(ctx context.Context, productID string) error {
	settings, err := s.readSettings()
	if err != nil {
		return err
	}
	var selected []models.Setting
	for _, setting := range settings {
		switch setting.Action {
		case models.ActionSkip:
			s.stats.AddSkipped(models.SheetSettings)
		case models.ActionDelete:
			recordRowError(s.settings, s.stats, setting.Name, deleteNotSupported)
		case models.ActionCreate, models.ActionUpdate:
			selected = append(selected, setting)
		}
	}
	return s.putSettings(ctx, productID, selected)
}

// Export fetches the product and writes the General and Settings tabs.
func (s *ProductService) Export(ctx context.Context, id string) error {
	query := url.Values{}
	query.Set("select", "audit")
	payload, err := s.api.Get(ctx, id, query)
	if err != nil {
		return err
	}
	product := models.ProductFromJSON(payload)

	if err := s.general.CreateTab(); err != nil {
		return err
	}
	if err := s.general.AddVertical(product.ToXLSX()); err != nil {
		return err
	}
	if err := s.settings.CreateTab(); err != nil {
		return err
	}
	records := make([]map[string]any, 0, len(product.Settings))
	for _, setting := range product.Settings {
		records = append(records, setting.ToXLSX())
	}
	return s.settings.Add(records)
}
