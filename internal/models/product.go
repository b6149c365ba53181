package models

import "github.com/mptcli/cli/internal/interfaces"

// General sheet rows for a product workbook.
var ProductFields = []string{
	"Product ID",
	"Product Name",
	"Export Date",
	"Product Status",
	"Short Description",
	"Long Description",
	"Product Website",
	"Account ID",
	"Icon",
}

// ProductRequiredValues are the General fields that must carry a value
// before a sync run is allowed to start.
var ProductRequiredValues = []string{"Product Name", "Short Description", "Long Description"}

// Product is the root catalog entity. The workbook stores it on the
// vertical General sheet with an embedded Settings block on its own sheet.
type Product struct {
	ID         string
	Coordinate string

	Name             string
	ShortDescription string
	LongDescription  string
	Website          string
	Status           string
	AccountID        string
	ExportDate       string
	IconName         string
	Icon             []byte

	Settings []Setting
}

// ProductFromVertical parses the General sheet of a product workbook.
func ProductFromVertical(cells map[string]interfaces.Cell) *Product {
	return &Product{
		ID:               cells["Product ID"].Value,
		Coordinate:       cells["Product ID"].Coordinate,
		Name:             cells["Product Name"].Value,
		ExportDate:       cells["Export Date"].Value,
		Status:           cells["Product Status"].Value,
		ShortDescription: cells["Short Description"].Value,
		LongDescription:  cells["Long Description"].Value,
		Website:          cells["Product Website"].Value,
		AccountID:        cells["Account ID"].Value,
		IconName:         cells["Icon"].Value,
	}
}

// ProductFromJSON parses a platform product payload.
func ProductFromJSON(data map[string]any) *Product {
	product := &Product{
		ID:               str(data, "id"),
		Name:             str(data, "name"),
		ShortDescription: str(data, "shortDescription"),
		LongDescription:  str(data, "longDescription"),
		Website:          str(data, "website"),
		Status:           str(data, "status"),
		IconName:         str(data, "icon"),
		ExportDate:       auditCreatedDate(data),
	}
	if account := obj(data, "account"); account != nil {
		product.AccountID = str(account, "id")
	}
	if settings := obj(data, "settings"); settings != nil {
		product.Settings = SettingsFromJSON(settings)
	}
	return product
}

// ToJSON serialises the product for create. Status, account, and audit
// fields are server-owned and never sent.
func (p *Product) ToJSON() map[string]any {
	payload := map[string]any{
		"name":             p.Name,
		"shortDescription": p.ShortDescription,
		"longDescription":  p.LongDescription,
	}
	if p.Website != "" {
		payload["website"] = p.Website
	}
	return payload
}

// SettingsToJSON serialises the embedded settings block for the dedicated
// settings endpoint.
func (p *Product) SettingsToJSON() map[string]any {
	return SettingsToJSON(p.Settings)
}

// ToXLSX returns the General sheet projection in field order.
func (p *Product) ToXLSX() map[string]any {
	return map[string]any{
		"Product ID":        p.ID,
		"Product Name":      p.Name,
		"Export Date":       p.ExportDate,
		"Product Status":    p.Status,
		"Short Description": p.ShortDescription,
		"Long Description":  p.LongDescription,
		"Product Website":   p.Website,
		"Account ID":        p.AccountID,
		"Icon":              p.IconName,
	}
}
