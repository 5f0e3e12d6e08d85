package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/recipe-catalog/backend/config"
	"github.com/pageza/recipe-catalog/backend/internal/database"
	"github.com/pageza/recipe-catalog/backend/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "catalogctl",
	Short: "Administer the recipe catalog database",
	Long: `catalogctl prepares the recipe catalog database.

It reads the same configuration as the API server: environment
variables, an optional .env file and Docker secrets.`,
	SilenceUsage: true,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the recipe schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, log, err := connect()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		return database.Migrate(db, log)
	},
}

var (
	seedFile  string
	seedReset bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample recipes into the catalog",
	Long: `Load sample recipes into the catalog.

Every record is validated before anything is written. Recipes whose name
already exists are skipped unless --reset clears the catalog first.

Examples:
  catalogctl seed
  catalogctl seed --file my-recipes.toml
  catalogctl seed --reset`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := embeddedSeed
		if seedFile != "" {
			var err error
			if data, err = os.ReadFile(seedFile); err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}
		}

		recipes, err := loadSeed(data)
		if err != nil {
			return err
		}

		db, log, err := connect()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()
		if err := database.Migrate(db, log); err != nil {
			return err
		}

		stats, err := seed(cmd.Context(), db, recipes, seedReset)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d recipes (%d skipped, %d removed)\n", stats.Inserted, stats.Skipped, stats.Removed)
		fmt.Fprintf(cmd.OutOrStdout(), "Catalog now holds %d recipes, %d vegetarian\n", stats.Total, stats.Vegetarian)
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "", "TOML seed file (default: built-in sample recipes)")
	seedCmd.Flags().BoolVar(&seedReset, "reset", false, "Delete every recipe before seeding")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
}

func connect() (*gorm.DB, *zap.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})
	db, err := database.Open(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	return db, log, nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
