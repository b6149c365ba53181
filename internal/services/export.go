package services

import (
	"context"
	"net/url"
	"strconv"

	"github.com/mptcli/cli/internal/api"
	"github.com/mptcli/cli/internal/tabs"
)

// exportPages walks a platform collection page by page and appends every
// record to the tab. The loop terminates when offset+limit reaches the
// reported total.
func exportPages(ctx context.Context, service *api.Service, query url.Values, tab *tabs.Manager, project func(map[string]any) map[string]any) error {
	if err := tab.CreateTab(); err != nil {
		return err
	}
	offset := 0
	for {
		query.Set("limit", strconv.Itoa(exportPageSize))
		query.Set("offset", strconv.Itoa(offset))
		page, err := service.List(ctx, query)
		if err != nil {
			return err
		}
		records := make([]map[string]any, 0, len(page.Data))
		for _, data := range page.Data {
			records = append(records, project(data))
		}
		if err := tab.Add(records); err != nil {
			return err
		}
		if page.Done() {
			return nil
		}
		offset = page.Meta.Offset + page.Meta.Limit
	}
}
