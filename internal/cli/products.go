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

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage marketplace products",
}

var (
	productsListLimit  int
	productsListOffset int
)

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the platform's products",
	RunE: func(cmd *cobra.Command, args []string) error {
		acct, err := activeAccount()
		if err != nil {
			return err
		}
		client := httpclient.NewClient(acct.Environment, acct.Token)
		service := api.NewService(client, "/catalog/products")

		query := url.Values{}
		query.Set("limit", strconv.Itoa(productsListLimit))
		query.Set("offset", strconv.Itoa(productsListOffset))
		page, err := service.List(cmd.Context(), query)
		if err != nil {
			return clierrors.NewGenericError("failed to list products", err)
		}

		out := cmd.OutOrStdout()
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tName\tStatus")
		for _, data := range page.Data {
			id, _ := data["id"].(string)
			name, _ := data["name"].(string)
			status, _ := data["status"].(string)
			fmt.Fprintf(w, "%s\t%s\t%s\n", id, name, status)
		}
		if err := w.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Showing %d of %d products\n", len(page.Data), page.Meta.Total)
		return nil
	},
}

var productsExportOut string

var productsExportCmd = &cobra.Command{
	Use:   "export PRODUCT_ID",
	Short: "Export a product into an Excel workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := filepath.Join(productsExportOut, args[0]+".xlsx")
		if _, err := os.Stat(path); err == nil {
			confirmed, err := confirmAction(fmt.Sprintf("%s already exists, overwrite?", path))
			if err != nil || !confirmed {
				return clierrors.NewAbortedError("product export aborted")
			}
		}

		orchestrator, cleanup, err := newOrchestrator(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer cleanup()
		return orchestrator.ExportProduct(cmd.Context(), args[0], productsExportOut)
	},
}

var (
	productsSyncDryRun bool
	productsSyncForce  bool
)

var productsSyncCmd = &cobra.Command{
	Use:   "sync WORKBOOK",
	Short: "Push a product workbook to the platform",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orchestrator, cleanup, err := newOrchestrator(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer cleanup()
		return orchestrator.SyncProduct(cmd.Context(), args[0], productsSyncDryRun, productsSyncForce)
	},
}

func init() {
	productsListCmd.Flags().IntVar(&productsListLimit, "limit", 10, "page size")
	productsListCmd.Flags().IntVar(&productsListOffset, "offset", 0, "page offset")
	productsExportCmd.Flags().StringVar(&productsExportOut, "out", ".", "output directory")
	productsSyncCmd.Flags().BoolVar(&productsSyncDryRun, "dry-run", false, "validate the workbook without pushing")
	productsSyncCmd.Flags().BoolVar(&productsSyncForce, "force-create", false, "run the create pipeline even if the product exists")

	productsCmd.AddCommand(productsListCmd)
	productsCmd.AddCommand(productsExportCmd)
	productsCmd.AddCommand(productsSyncCmd)
	rootCmd.AddCommand(productsCmd)
}
