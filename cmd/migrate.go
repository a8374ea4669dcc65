/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/esatkurtul80/AuditPro-sub000/internal/config"
	"github.com/esatkurtul80/AuditPro-sub000/internal/database"
	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long:  `Run schema migrations for the authoritative database and the local stores.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}

		localDB, err := database.OpenLocal(cfg.Local.DraftsPath)
		if err != nil {
			return fmt.Errorf("failed to open local store: %w", err)
		}
		if err := database.MigrateLocal(localDB); err != nil {
			return fmt.Errorf("failed to migrate local store: %w", err)
		}

		fmt.Println("Migrations completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)

	migrateCmd.Flags().String("config", "", "Config file path (default: config.yaml)")
}
