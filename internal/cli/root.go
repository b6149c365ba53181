package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mptcli/cli/internal/account"
	"github.com/mptcli/cli/internal/httpclient"
	"github.com/mptcli/cli/internal/interfaces"
	"github.com/mptcli/cli/internal/state"
	"github.com/mptcli/cli/internal/sync"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "mpt",
		Short: "MPT CLI - Manage marketplace products and price lists",
		Long: `MPT is a command-line interface for operating a SaaS marketplace
platform. Products and price lists are edited as Excel workbooks and
synchronized with the platform's REST API: export pulls an entity into a
workbook, sync pushes per-row changes back.

Credentials are stored as local accounts; exactly one account is active at
a time and supplies the environment URL and API token for every call.`,
	}
)

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .mpt/mpt.yaml)")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Search for config in .mpt, in the working directory then home
		viper.AddConfigPath(".mpt")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".mpt"))
		}
		viper.SetConfigType("yaml")
		viper.SetConfigName("mpt")
	}

	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func accountsFilePath() (string, error) {
	if path := viper.GetString("accounts_file"); path != "" {
		return path, nil
	}
	return account.DefaultPath()
}

func historyFilePath() (string, error) {
	if path := viper.GetString("history_file"); path != "" {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".mpt", "history.db"), nil
}

func accountStore() (interfaces.AccountStore, error) {
	path, err := accountsFilePath()
	if err != nil {
		return nil, err
	}
	return account.NewManager(path), nil
}

func activeAccount() (interfaces.Account, error) {
	store, err := accountStore()
	if err != nil {
		return interfaces.Account{}, err
	}
	return store.Active()
}

// newOrchestrator builds a sync orchestrator for the active account. The
// returned cleanup closes the run-history database; a history failure never
// blocks the run itself.
func newOrchestrator(out io.Writer) (*sync.Orchestrator, func(), error) {
	acct, err := activeAccount()
	if err != nil {
		return nil, nil, err
	}
	client := httpclient.NewClient(acct.Environment, acct.Token)

	opts := []sync.Option{sync.WithOutput(out)}
	cleanup := func() {}
	if path, err := historyFilePath(); err == nil {
		recorder := state.NewRecorder()
		if err := recorder.Initialize(path); err == nil {
			opts = append(opts, sync.WithRecorder(recorder))
			cleanup = func() { recorder.Close() }
		}
	}
	return sync.NewOrchestrator(acct, client, opts...), cleanup, nil
}
