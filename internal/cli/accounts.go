package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mptcli/cli/internal/account"
	clierrors "github.com/mptcli/cli/internal/errors"
)

const defaultEnvironment = "https://api.platform.softwareone.com/public/v1"

var accountsCmd = &cobra.Command{
	Use:   "accounts",
	Short: "Manage platform accounts",
}

var (
	accountsAddEnvironment string
	accountsAddToken       string
)

var accountsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a platform account from an API token and make it active",
	RunE: func(cmd *cobra.Command, args []string) error {
		environment := accountsAddEnvironment
		if environment == "" {
			environment = viper.GetString("environment")
		}
		if environment == "" {
			answer, err := provideInput("Platform environment URL:", defaultEnvironment)
			if err != nil {
				return clierrors.NewAbortedError("account setup aborted")
			}
			environment = answer
		}

		secret := accountsAddToken
		if secret == "" {
			answer, err := provideSensitiveInput("API token:")
			if err != nil {
				return clierrors.NewAbortedError("account setup aborted")
			}
			secret = answer
		}

		resolved, err := account.ResolveToken(cmd.Context(), environment, secret)
		if err != nil {
			var invalid *clierrors.InvalidTokenError
			if errors.As(err, &invalid) {
				return clierrors.NewValidationError(invalid.Error())
			}
			return clierrors.NewGenericError("failed to resolve the API token", err)
		}

		store, err := accountStore()
		if err != nil {
			return err
		}
		if err := store.Add(resolved); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added account %s (%s) and made it active\n", resolved.ID, resolved.Name)
		return nil
	},
}

var accountsListOutput string

var accountsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := accountStore()
		if err != nil {
			return err
		}
		accounts, err := store.List()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch accountsListOutput {
		case "yaml":
			raw, err := yaml.Marshal(accounts)
			if err != nil {
				return clierrors.NewGenericError("failed to encode accounts", err)
			}
			fmt.Fprint(out, string(raw))
			return nil
		case "json":
			raw, err := json.MarshalIndent(accounts, "", "  ")
			if err != nil {
				return clierrors.NewGenericError("failed to encode accounts", err)
			}
			fmt.Fprintln(out, string(raw))
			return nil
		}

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tName\tType\tEnvironment\tActive")
		for _, acct := range accounts {
			active := ""
			if acct.IsActive {
				active = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", acct.ID, acct.Name, acct.Type, acct.Environment, active)
		}
		return w.Flush()
	},
}

var accountsActivateCmd = &cobra.Command{
	Use:   "activate ACCOUNT_ID",
	Short: "Make a stored account the active one",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := accountStore()
		if err != nil {
			return err
		}
		activated, err := store.Activate(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Account %s (%s) is now active\n", activated.ID, activated.Name)
		return nil
	},
}

var accountsRemoveCmd = &cobra.Command{
	Use:   "remove ACCOUNT_ID",
	Short: "Remove a stored account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, err := confirmAction(fmt.Sprintf("Remove account %s?", args[0]))
		if err != nil || !confirmed {
			return clierrors.NewAbortedError("account removal aborted")
		}

		store, err := accountStore()
		if err != nil {
			return err
		}
		removed, err := store.Remove(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed account %s (%s)\n", removed.ID, removed.Name)
		return nil
	},
}

func init() {
	accountsAddCmd.Flags().StringVar(&accountsAddEnvironment, "environment", "", "platform environment URL")
	accountsAddCmd.Flags().StringVar(&accountsAddToken, "token", "", "platform API token")
	accountsListCmd.Flags().StringVar(&accountsListOutput, "output", "table", "output format: table, yaml or json")

	accountsCmd.AddCommand(accountsAddCmd)
	accountsCmd.AddCommand(accountsListCmd)
	accountsCmd.AddCommand(accountsActivateCmd)
	accountsCmd.AddCommand(accountsRemoveCmd)
	rootCmd.AddCommand(accountsCmd)
}
