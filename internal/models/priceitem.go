package models

import "github.com/mptcli/cli/internal/interfaces"

// Price Items sheet columns.
var PriceListItemFields = []string{
	"ID", "Item Name", "Action", "Item Vendor ID",
	"Billing Frequency", "Commitment",
	"Unit LP", "Unit PP", "Unit SP", "Markup", "Status",
}

// Price-list item statuses.
const (
	PriceStatusDraft   = "Draft"
	PriceStatusForSale = "ForSale"
	PriceStatusPrivate = "Private"
)

// PriceStatuses is the drop-down alphabet for the Status column.
var PriceStatuses = []string{PriceStatusDraft, PriceStatusForSale, PriceStatusPrivate}

// PriceListItem is one line of a price list, referencing a catalog item by
// its vendor external ID.
type PriceListItem struct {
	ID         string
	Coordinate string
	Action     Action

	ItemName     string
	ItemVendorID string

	BillingFrequency string
	Commitment       string

	UnitLP float64
	UnitPP float64
	UnitSP float64
	Markup float64

	Status string

	// OperationsAccount gates the markup field on the wire.
	OperationsAccount bool
}

// PriceListItemFromRow parses one Price Items sheet row.
func PriceListItemFromRow(row interfaces.Row) (*PriceListItem, error) {
	action, err := ParseDataAction(cellValue(row, "Action"))
	if err != nil {
		return nil, err
	}
	return &PriceListItem{
		ID:               cellValue(row, "ID"),
		Coordinate:       cellCoordinate(row, "ID"),
		Action:           action,
		ItemName:         cellValue(row, "Item Name"),
		ItemVendorID:     cellValue(row, "Item Vendor ID"),
		BillingFrequency: cellValue(row, "Billing Frequency"),
		Commitment:       cellValue(row, "Commitment"),
		UnitLP:           parseFloatCell(cellValue(row, "Unit LP")),
		UnitPP:           parseFloatCell(cellValue(row, "Unit PP")),
		UnitSP:           parseFloatCell(cellValue(row, "Unit SP")),
		Markup:           parseFloatCell(cellValue(row, "Markup")),
		Status:           cellValue(row, "Status"),
	}, nil
}

// PriceListItemFromJSON parses a platform price-list item payload.
func PriceListItemFromJSON(data map[string]any) *PriceListItem {
	priceItem := &PriceListItem{
		ID:     str(data, "id"),
		Action: ActionSkip,
		UnitLP: num(data, "unitLP"),
		UnitPP: num(data, "unitPP"),
		UnitSP: num(data, "unitSP"),
		Markup: num(data, "markup"),
		Status: str(data, "status"),
	}
	if item := obj(data, "item"); item != nil {
		priceItem.ItemName = str(item, "name")
		if externalIDs := obj(item, "externalIds"); externalIDs != nil {
			priceItem.ItemVendorID = str(externalIDs, "vendor")
		}
		if terms := obj(item, "terms"); terms != nil {
			priceItem.BillingFrequency = str(terms, "period")
			priceItem.Commitment = str(terms, "commitment")
		}
	}
	return priceItem
}

// ToJSON serialises the price-list item for update. Markup is emitted for
// operations accounts only.
func (p *PriceListItem) ToJSON() map[string]any {
	payload := map[string]any{
		"unitLP": p.UnitLP,
		"unitPP": p.UnitPP,
		"status": p.Status,
	}
	if p.UnitSP != 0 {
		payload["unitSP"] = p.UnitSP
	}
	if p.OperationsAccount {
		payload["markup"] = p.Markup
	}
	return payload
}

func (p *PriceListItem) ToXLSX() map[string]any {
	return map[string]any{
		"ID":                p.ID,
		"Item Name":         p.ItemName,
		"Action":            string(p.Action),
		"Item Vendor ID":    p.ItemVendorID,
		"Billing Frequency": p.BillingFrequency,
		"Commitment":        p.Commitment,
		"Unit LP":           p.UnitLP,
		"Unit PP":           p.UnitPP,
		"Unit SP":           p.UnitSP,
		"Markup":            p.Markup,
		"Status":            p.Status,
	}
}
