package main

import (
	"fmt"
	"log"

	"banking-ledger/internal/infrastructure/db"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(migrateCmd)
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the ledger tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		gdb, err := db.OpenGorm(cfg.DBDriver, cfg.DSN(), cfg.Debug)
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		if err := db.Migrate(gdb); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Printf("migrate: done (%s)", cfg.DBDriver)
		return nil
	},
}
