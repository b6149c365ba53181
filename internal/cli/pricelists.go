package cli

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mptcli/cli/internal/api"
	clierrors "github.com/mptcli/cli/internal/errors"
	"github.com/mptcli/cli/internal/httpclient"
)

var priceListsCmd = &cobra.Command{
	Use:   "price-lists",
	Short: "Manage marketplace price lists",
}

var (
	priceListsListLimit  int
	priceListsListOffset int
)

var priceListsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the platform's price lists",
	RunE: func(cmd *cobra.Command, args []string) error {
		acct, err := activeAccount()
		if err != nil {
			return err
		}
		client := httpclient.NewClient(acct.Environment, acct.Token)
		service := api.NewService(client, "/catalog/price-lists")

		query := url.Values{}
		query.Set("limit", strconv.Itoa(priceListsListLimit))
		query.Set("offset", strconv.Itoa(priceListsListOffset))
		page, err := service.List(cmd.Context(), query)
		if err != nil {
			return clierrors.NewGenericError("failed to list price lists", err)
		}

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tProduct\tCurrency\tType")
		for _, data := range page.Data {
			id, _ := data["id"].(string)
			currency, _ := data["currency"].(string)
			kind, _ := data["type"].(string)
			productName := ""
			if product, ok := data["product"].(map[string]any); ok {
				productName, _ = product["name"].(string)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, productName, currency, kind)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Showing %d of %d price lists\n", len(page.Data), page.Meta.Total)
		return nil
	},
}

var priceListsExportOut string

var priceListsExportCmd = &cobra.Command{
	Use:   "export PRICE_LIST_ID",
	Short: "Export a price list into an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(priceListsExportOut, args[0]+".xlsx")
		if _, err := os.Stat(path); err == nil {
			confirmed, err := confirmAction(fmt.Sprintf("%s already exists, overwrite?", path))
			if err != nil || !confirmed {
				return clierrors.NewAbortedError("price list export aborted")
			}
		}

		orchestrator, cleanup, err := newOrchestrator(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer cleanup()
		return orchestrator.ExportPriceList(cmd.Context(), args[0], priceListsExportOut)
	},
}

var priceListsSyncCmd = &cobra.Command{
	Use:   "sync WORKBOOK",
	Short: "Push a price-list workbook to the platform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orchestrator, cleanup, err := newOrchestrator(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer cleanup()
		return orchestrator.SyncPriceList(cmd.Context(), args[0])
	},
}

func init() {
	priceListsListCmd.Flags().IntVar(&priceListsListLimit, "limit", 10, "page size")
	priceListsListCmd.Flags().IntVar(&priceListsListOffset, "offset", 0, "page offset")
	priceListsExportCmd.Flags().StringVar(&priceListsExportOut, "out", ".", "output directory")

	priceListsCmd.AddCommand(priceListsListCmd)
	priceListsCmd.AddCommand(priceListsExportCmd)
	priceListsCmd.AddCommand(priceListsSyncCmd)
	rootCmd.AddCommand(priceListsCmd)
}
