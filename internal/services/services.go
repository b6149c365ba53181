// Package services implements the per-entity sync and export pipelines on
// top of the tab managers and the platform API facades. Every service
// isolates failures at the row boundary: an API rejection lands in the
// row's Error cell and the run continues.
package services

import (
	"github.com/mptcli/cli/internal/stats"
	"github.com/mptcli/cli/internal/tabs"
)

// Platform endpoint paths. Related paths interpolate {resource_id} with the
// parent resource.
const (
	productsPath        = "/catalog/products"
	productSettingsPath = "/catalog/products/{resource_id}/settings"
	itemGroupsPath      = "/catalog/products/{resource_id}/item-groups"
	parameterGroupsPath = "/catalog/products/{resource_id}/parameter-groups"
	parametersPath      = "/catalog/products/{resource_id}/parameters"
	templatesPath       = "/catalog/products/{resource_id}/templates"
	itemsPath           = "/catalog/items"
	priceListsPath      = "/catalog/price-lists"
	priceListItemsPath  = "/catalog/price-lists/{resource_id}/items"
)

const exportPageSize = 100

const deleteNotSupported = "Action delete is not supported yet"

// payloadID extracts the server-assigned id from a create response.
func payloadID(payload map[string]any) string {
	if id, ok := payload["id"].(string); ok {
		return id
	}
	return ""
}

// writeID persists a server-assigned id at the row's originating cell.
// Rows without a readable ID cell are left alone.
func writeID(tab *tabs.Manager, coordinate, id string) error {
	if coordinate == "" || id == "" {
		return nil
	}
	return tab.WriteIDs(map[string]string{coordinate: id})
}

// recordRowError writes the failure into the row's Error cell and counts it.
func recordRowError(tab *tabs.Manager, collector *stats.Collector, resourceID, message string) {
	// A failed error write must not mask the row failure itself.
	_ = tab.WriteError(message, resourceID)
	collector.AddError(tab.SheetName())
}
