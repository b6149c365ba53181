package models

import "testing"

func TestPriceListToJSONMarkupGating(t *testing.T) {
	priceList := &PriceList{
		Currency:      "EUR",
		Precision:     2,
		ProductID:     "PRD-0232-2541",
		Type:          PriceListOperations,
		DefaultMarkup: 15,
	}

	payload := priceList.ToJSON()
	if payload["defaultMarkup"] != 15.0 {
		t.Errorf("expected the default markup for an operations list, got %v", payload["defaultMarkup"])
	}
	if payload["product"].(map[string]any)["id"] != "PRD-0232-2541" {
		t.Errorf("expected a product reference, got %v", payload["product"])
	}
	if _, ok := payload["notes"]; ok {
		t.Errorf("empty notes must be omitted")
	}

	priceList.Type = PriceListVendor
	if _, ok := priceList.ToJSON()["defaultMarkup"]; ok {
		t.Errorf("vendor lists must not carry a default markup")
	}

	priceList.Notes = "Q3 pricing"
	if priceList.ToJSON()["notes"] != "Q3 pricing" {
		t.Errorf("expected notes to pass through")
	}
}

func TestPriceListFromJSON(t *testing.T) {
	priceList := PriceListFromJSON(map[string]any{
		"id":        "PRC-1234-5678",
		"currency":  "USD",
		"precision": float64(2),
		"product": map[string]any{
			"id":   "PRD-0232-2541",
			"name": "Adobe Commerce",
		},
		"audit": map[string]any{
			"created": map[string]any{"at": "2024-03-19T11:16:57.932Z"},
		},
	})

	if priceList.ID != "PRC-1234-5678" || priceList.Currency != "USD" || priceList.Precision != 2 {
		t.Errorf("unexpected price list: %+v", priceList)
	}
	if priceList.ProductID != "PRD-0232-2541" || priceList.ProductName != "Adobe Commerce" {
		t.Errorf("expected the product reference to be flattened, got %+v", priceList)
	}
	if priceList.ExportDate != "2024-03-19" {
		t.Errorf("expected the audit date to be truncated, got %q", priceList.ExportDate)
	}
}

func TestPriceListItemToJSONGating(t *testing.T) {
	priceItem := &PriceListItem{
		UnitLP: 10.5,
		UnitPP: 9.5,
		Markup: 12,
		Status: PriceStatusForSale,
	}

	payload := priceItem.ToJSON()
	if _, ok := payload["unitSP"]; ok {
		t.Errorf("a zero sales price must be omitted")
	}
	if _, ok := payload["markup"]; ok {
		t.Errorf("markup must be omitted for vendor accounts")
	}

	priceItem.OperationsAccount = true
	priceItem.UnitSP = 11.25
	payload = priceItem.ToJSON()
	if payload["unitSP"] != 11.25 {
		t.Errorf("expected the sales price, got %v", payload["unitSP"])
	}
	if payload["markup"] != 12.0 {
		t.Errorf("expected the markup for operations accounts, got %v", payload["markup"])
	}
}

func TestPriceListItemFromJSON(t *testing.T) {
	priceItem := PriceListItemFromJSON(map[string]any{
		"id":     "PRI-0001",
		"unitLP": 10.0,
		"unitPP": 9.0,
		"status": PriceStatusDraft,
		"item": map[string]any{
			"name": "Acrobat Pro",
			"externalIds": map[string]any{
				"vendor": "30006419CB",
			},
			"terms": map[string]any{
				"period":     "1m",
				"commitment": "1y",
			},
		},
	})

	if priceItem.ItemName != "Acrobat Pro" || priceItem.ItemVendorID != "30006419CB" {
		t.Errorf("expected the item reference to be flattened, got %+v", priceItem)
	}
	if priceItem.BillingFrequency != "1m" || priceItem.Commitment != "1y" {
		t.Errorf("expected terms to be flattened, got %+v", priceItem)
	}
	if priceItem.Action != ActionSkip {
		t.Errorf("exported rows default to the skip action, got %q", priceItem.Action)
	}
}
