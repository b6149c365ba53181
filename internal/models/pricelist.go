package models

import (
	"strconv"

	"github.com/mptcli/cli/internal/interfaces"
)

// Price list types.
const (
	PriceListOperations = "operations"
	PriceListVendor     = "vendor"
)

// General sheet rows for a price-list workbook.
var PriceListFields = []string{
	"Price List ID",
	"Currency",
	"Precision",
	"Notes",
	"Product ID",
	"Product Name",
	"Export Date",
	"Type",
	"Default Markup",
}

// PriceListRequiredValues are the General fields a price-list sync needs
// filled in before it starts.
var PriceListRequiredValues = []string{"Currency", "Precision", "Product ID"}

// PriceList is the root entity of a price-list workbook.
type PriceList struct {
	ID         string
	Coordinate string

	Currency    string
	Precision   int
	Notes       string
	ProductID   string
	ProductName string
	ExportDate  string
	Type        string

	// DefaultMarkup applies to operations price lists only.
	DefaultMarkup float64
}

// PriceListFromVertical parses the General sheet of a price-list workbook.
func PriceListFromVertical(cells map[string]interfaces.Cell) *PriceList {
	return &PriceList{
		ID:            cells["Price List ID"].Value,
		Coordinate:    cells["Price List ID"].Coordinate,
		Currency:      cells["Currency"].Value,
		Precision:     parseIntCell(cells["Precision"].Value),
		Notes:         cells["Notes"].Value,
		ProductID:     cells["Product ID"].Value,
		ProductName:   cells["Product Name"].Value,
		ExportDate:    cells["Export Date"].Value,
		Type:          cells["Type"].Value,
		DefaultMarkup: parseFloatCell(cells["Default Markup"].Value),
	}
}

// PriceListFromJSON parses a platform price-list payload.
func PriceListFromJSON(data map[string]any) *PriceList {
	priceList := &PriceList{
		ID:            str(data, "id"),
		Currency:      str(data, "currency"),
		Precision:     int(num(data, "precision")),
		Notes:         str(data, "notes"),
		ExportDate:    auditCreatedDate(data),
		DefaultMarkup: num(data, "defaultMarkup"),
	}
	if product := obj(data, "product"); product != nil {
		priceList.ProductID = str(product, "id")
		priceList.ProductName = str(product, "name")
	}
	return priceList
}

// ToJSON serialises the price list for create or update. The default markup
// is an operations-only field.
func (p *PriceList) ToJSON() map[string]any {
	payload := map[string]any{
		"currency":  p.Currency,
		"precision": p.Precision,
		"product":   map[string]any{"id": p.ProductID},
	}
	if p.Notes != "" {
		payload["notes"] = p.Notes
	}
	if p.Type == PriceListOperations {
		payload["defaultMarkup"] = p.DefaultMarkup
	}
	return payload
}

func (p *PriceList) ToXLSX() map[string]any {
	return map[string]any{
		"Price List ID":  p.ID,
		"Currency":       p.Currency,
		"Precision":      strconv.Itoa(p.Precision),
		"Notes":          p.Notes,
		"Product ID":     p.ProductID,
		"Product Name":   p.ProductName,
		"Export Date":    p.ExportDate,
		"Type":           p.Type,
		"Default Markup": p.DefaultMarkup,
	}
}
