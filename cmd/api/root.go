package main

import (
	"banking-ledger/internal/config"

	"github.com/spf13/cobra"
)

var policyFile string

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Retail banking ledger: accounts, loans and their transactions",
	Long: `ledger serves the accounts and loans HTTP API. Without a subcommand it
runs serve. Configuration comes from the environment (APP_PORT, DB_DRIVER,
MYSQL_*, SQLITE_PATH, REDIS_ADDR, LOAN_*); --policy overrides the loan
bounds from a TOML file.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "TOML file overriding the loan policy bounds")
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if policyFile != "" {
		if err := cfg.LoadPolicyFile(policyFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
