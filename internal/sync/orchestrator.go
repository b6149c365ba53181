// Package sync coordinates the per-entity services into whole-workbook
// sync and export runs.
package sync

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	stderrors "errors"

	"github.com/mptcli/cli/internal/api"
	"github.com/mptcli/cli/internal/errors"
	"github.com/mptcli/cli/internal/interfaces"
	"github.com/mptcli/cli/internal/models"
	"github.com/mptcli/cli/internal/services"
	"github.com/mptcli/cli/internal/stats"
	"github.com/mptcli/cli/internal/tabs"
	"github.com/mptcli/cli/internal/workbook"
)

// parameterScopes fixes the order the scoped parameter sheets are
// processed in.
var parameterScopes = []string{
	models.ScopeAgreement,
	models.ScopeAsset,
	models.ScopeItem,
	models.ScopeRequest,
	models.ScopeSubscription,
}

// productTabs fixes the stats table order for product runs.
var productTabs = []string{
	models.SheetGeneral,
	models.SheetSettings,
	models.SheetItemGroups,
	models.SheetParameterGroups,
	models.SheetAgreementsParameters,
	models.SheetAssetsParameters,
	models.SheetItemParameters,
	models.SheetRequestParameters,
	models.SheetSubscriptionParameters,
	models.SheetTemplates,
	models.SheetItems,
}

// Orchestrator runs whole-workbook operations against the platform using
// the active account's credentials.
type Orchestrator struct {
	account  interfaces.Account
	client   interfaces.HTTPClient
	recorder interfaces.RunRecorder
	out      io.Writer
	newStore func(path string) interfaces.WorkbookStore
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRecorder attaches a run-history recorder.
func WithRecorder(recorder interfaces.RunRecorder) Option {
	return func(o *Orchestrator) { o.recorder = recorder }
}

// WithOutput redirects the stats table and validation messages.
func WithOutput(out io.Writer) Option {
	return func(o *Orchestrator) { o.out = out }
}

// WithStoreFactory swaps the workbook store constructor, used by tests.
func WithStoreFactory(factory func(path string) interfaces.WorkbookStore) Option {
	return func(o *Orchestrator) { o.newStore = factory }
}

// NewOrchestrator creates an orchestrator for the given account.
func NewOrchestrator(account interfaces.Account, client interfaces.HTTPClient, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		account: account,
		client:  client,
		out:     os.Stdout,
		newStore: func(path string) interfaces.WorkbookStore {
			return workbook.NewStore(path)
		},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// productChildren holds the nine sub-entity services of one product,
// synthesized from a product ID and a workbook store.
type productChildren struct {
	itemGroups      *services.ItemGroupService
	parameterGroups *services.ParameterGroupService
	parameters      []*services.ParameterService
	templates       *services.TemplateService
	items           *services.ItemService
}

func (o *Orchestrator) children(store interfaces.WorkbookStore, productID string, collector *stats.Collector) *productChildren {
	children := &productChildren{
		itemGroups: services.NewItemGroupService(
			o.client, productID, tabs.NewManager(tabs.ItemGroupsSpec(), store), collector),
		parameterGroups: services.NewParameterGroupService(
			o.client, productID, tabs.NewManager(tabs.ParameterGroupsSpec(), store), collector),
		templates: services.NewTemplateService(
			o.client, productID, tabs.NewManager(tabs.TemplatesSpec(), store), collector),
		items: services.NewItemService(
			o.client, o.account, productID, tabs.NewManager(tabs.ItemsSpec(), store), collector),
	}
	for _, scope := range parameterScopes {
		children.parameters = append(children.parameters, services.NewParameterService(
			o.client, productID, scope, tabs.NewManager(tabs.ParameterSpec(scope), store), collector))
	}
	return children
}

// SyncProduct validates the workbook and pushes it to the platform. A
// workbook whose product is unknown to the platform (or force) runs the
// ordered create pipeline; otherwise the flat update pipeline.
func (o *Orchestrator) SyncProduct(ctx context.Context, path string, dryRun, force bool) error {
	collector := stats.NewCollector(productTabs...)
	messages := stats.NewErrorMessages()
	store := o.newStore(path)
	product := services.NewProductService(o.client, path, store, collector, messages)

	if !product.ValidateDefinition() {
		o.printMessages(messages)
		o.record("sync-product", "failed", path)
		return errors.NewValidationError("product definition is not valid")
	}
	if dryRun {
		fmt.Fprintln(o.out, "Product definition is valid")
		return nil
	}

	current, exists, err := product.Retrieve(ctx)
	if err != nil {
		o.record("sync-product", "failed", path)
		return errors.NewSyncError("failed to check the product on the platform", err)
	}

	if !exists || force {
		err = o.createProduct(ctx, store, product, collector)
	} else {
		err = o.updateProduct(ctx, store, product, current.ID, collector)
	}
	if err != nil {
		o.record("sync-product", "failed", path)
		return errors.NewSyncError("product sync failed", err)
	}

	o.printStats(collector)
	if collector.HasErrors() {
		o.record("sync-product", "completed with errors", path)
		return errors.NewSyncError("sync completed with errors", nil)
	}
	o.record("sync-product", "succeeded", path)
	return nil
}

// createProduct runs the ordered create pipeline: product, settings, the
// two group sheets, the scoped parameters (consuming the group ID map),
// templates (content rewrite), and finally items (group and parameter
// maps).
func (o *Orchestrator) createProduct(ctx context.Context, store interfaces.WorkbookStore, product *services.ProductService, collector *stats.Collector) error {
	created, err := product.Create(ctx)
	if err != nil {
		// Recorded on the General tab; nothing dependent can proceed.
		return nil
	}
	if err := product.CreateSettings(ctx, created.ID); err != nil {
		return err
	}

	children := o.children(store, created.ID, collector)
	parameterGroups, err := children.parameterGroups.Create(ctx)
	if err != nil {
		return err
	}
	itemGroups, err := children.itemGroups.Create(ctx)
	if err != nil {
		return err
	}

	allParameters := make(map[string]string)
	var itemParameters map[string]string
	for _, parameters := range children.parameters {
		if err := parameters.SetNewParameterGroups(parameterGroups); err != nil {
			return err
		}
		ids, err := parameters.Create(ctx)
		if err != nil {
			return err
		}
		for oldID, newID := range ids {
			allParameters[oldID] = newID
		}
		if parameters.Scope() == models.ScopeItem {
			itemParameters = ids
		}
	}

	if err := children.templates.SetNewParameters(allParameters); err != nil {
		return err
	}
	if err := children.templates.Create(ctx); err != nil {
		return err
	}

	if err := children.items.SetNewItemGroups(itemGroups); err != nil {
		return err
	}
	if err := children.items.SetNewParameters(itemParameters); err != nil {
		return err
	}
	return children.items.Create(ctx)
}

// updateProduct runs the flat update pipeline. Only the settings
// subdocument of the product itself is touched.
func (o *Orchestrator) updateProduct(ctx context.Context, store interfaces.WorkbookStore, product *services.ProductService, productID string, collector *stats.Collector) error {
	if err := product.UpdateSettings(ctx, productID); err != nil {
		return err
	}
	children := o.children(store, productID, collector)
	if err := children.itemGroups.Update(ctx); err != nil {
		return err
	}
	if err := children.parameterGroups.Update(ctx); err != nil {
		return err
	}
	for _, parameters := range children.parameters {
		if err := parameters.Update(ctx); err != nil {
			return err
		}
	}
	if err := children.templates.Update(ctx); err != nil {
		return err
	}
	return children.items.Update(ctx)
}

// SyncPriceList validates the workbook, creates or updates the price list,
// then updates the price-list items unconditionally.
func (o *Orchestrator) SyncPriceList(ctx context.Context, path string) error {
	collector := stats.NewCollector(models.SheetGeneral, models.SheetPriceItems)
	messages := stats.NewErrorMessages()
	store := o.newStore(path)
	service := services.NewPriceListService(o.client, store, collector, messages)

	if !service.ValidateDefinition() {
		o.printMessages(messages)
		o.record("sync-price-list", "failed", path)
		return errors.NewValidationError("price list definition is not valid")
	}

	priceList, exists, err := service.Retrieve(ctx)
	if err != nil {
		o.record("sync-price-list", "failed", path)
		return errors.NewSyncError("failed to check the price list on the platform", err)
	}

	if !exists {
		// A create failure is recorded on the General tab and leaves the ID
		// empty, which skips the item phase below.
		_ = service.Create(ctx, priceList)
	} else if err := service.Update(ctx, priceList); err != nil {
		o.record("sync-price-list", "failed", path)
		return errors.NewSyncError("price list sync failed", err)
	}

	if priceList.ID != "" {
		items := services.NewPriceListItemService(
			o.client, o.account, priceList.ID, tabs.NewManager(tabs.PriceItemsSpec(), store), collector)
		if err := items.Update(ctx); err != nil {
			o.record("sync-price-list", "failed", path)
			return errors.NewSyncError("price list sync failed", err)
		}
	}

	o.printStats(collector)
	if collector.HasErrors() {
		o.record("sync-price-list", "completed with errors", path)
		return errors.NewSyncError("sync completed with errors", nil)
	}
	o.record("sync-price-list", "succeeded", path)
	return nil
}

// ExportProduct writes a product and all its sub-entities into a fresh
// workbook named after the product ID. Export requires an operations
// account.
func (o *Orchestrator) ExportProduct(ctx context.Context, id, outDir string) error {
	if o.account.Type != interfaces.AccountOperations {
		return errors.NewAccountTypeError("product export requires an operations account")
	}

	path := filepath.Join(outDir, id+".xlsx")
	store := o.newStore(path)
	if err := store.Create(); err != nil {
		return errors.NewGenericError("failed to create the workbook", err)
	}

	collector := stats.NewCollector()
	messages := stats.NewErrorMessages()
	product := services.NewProductService(o.client, path, store, collector, messages)
	if err := product.Export(ctx, id); err != nil {
		var notFound *api.ResourceNotFoundError
		if stderrors.As(err, &notFound) {
			return errors.NewNotFoundError(fmt.Sprintf("product %s not found", id))
		}
		return errors.NewSyncError("product export failed", err)
	}

	children := o.children(store, id, collector)
	if err := children.itemGroups.Export(ctx); err != nil {
		return errors.NewSyncError("product export failed", err)
	}
	if err := children.parameterGroups.Export(ctx); err != nil {
		return errors.NewSyncError("product export failed", err)
	}
	for _, parameters := range children.parameters {
		if err := parameters.Export(ctx); err != nil {
			return errors.NewSyncError("product export failed", err)
		}
	}
	if err := children.templates.Export(ctx); err != nil {
		return errors.NewSyncError("product export failed", err)
	}
	if err := children.items.Export(ctx); err != nil {
		return errors.NewSyncError("product export failed", err)
	}

	o.record("export-product", "succeeded", id)
	fmt.Fprintf(o.out, "Exported product %s to %s\n", id, path)
	return nil
}

// ExportPriceList writes a price list and its lines into a fresh workbook
// named after the price list ID. Export requires an operations account.
func (o *Orchestrator) ExportPriceList(ctx context.Context, id, outDir string) error {
	if o.account.Type != interfaces.AccountOperations {
		return errors.NewAccountTypeError("price list export requires an operations account")
	}

	path := filepath.Join(outDir, id+".xlsx")
	store := o.newStore(path)
	if err := store.Create(); err != nil {
		return errors.NewGenericError("failed to create the workbook", err)
	}

	collector := stats.NewCollector()
	messages := stats.NewErrorMessages()
	service := services.NewPriceListService(o.client, store, collector, messages)
	priceList, err := service.Export(ctx, id)
	if err != nil {
		var notFound *api.ResourceNotFoundError
		if stderrors.As(err, &notFound) {
			return errors.NewNotFoundError(fmt.Sprintf("price list %s not found", id))
		}
		return errors.NewSyncError("price list export failed", err)
	}

	items := services.NewPriceListItemService(
		o.client, o.account, id, tabs.NewManager(tabs.PriceItemsSpec(), store), collector)
	if err := items.Export(ctx, priceList); err != nil {
		return errors.NewSyncError("price list export failed", err)
	}

	o.record("export-price-list", "succeeded", id)
	fmt.Fprintf(o.out, "Exported price list %s to %s\n", id, path)
	return nil
}

func (o *Orchestrator) printStats(collector *stats.Collector) {
	w := tabwriter.NewWriter(o.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Tab\tSynced\tErrors\tSkipped\tTotal")
	for _, tab := range collector.Tabs() {
		counters := collector.Counters(tab)
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n",
			tab, counters.Synced, counters.Error, counters.Skipped, counters.Total)
	}
	w.Flush()
}

func (o *Orchestrator) printMessages(messages *stats.ErrorMessages) {
	for _, message := range messages.Messages() {
		if message.Item != "" {
			fmt.Fprintf(o.out, "%s: %s: %s\n", message.Section, message.Item, message.Text)
			continue
		}
		fmt.Fprintf(o.out, "%s: %s\n", message.Section, message.Text)
	}
}

func (o *Orchestrator) record(operation, status, details string) {
	if o.recorder == nil {
		return
	}
	_ = o.recorder.RecordRun(operation, time.Now(), status, details)
}
