package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/catalog"
	"github.com/jonathan/resume-tailor/internal/types"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create database tables and optionally seed the project catalog",
	RunE:  runMigrate,
}

var (
	migrateDatabaseURL string
	migrateSeedCatalog string
)

func init() {
	migrateCmd.Flags().StringVar(&migrateDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	migrateCmd.Flags().StringVar(&migrateSeedCatalog, "seed-catalog", "", "Path to project catalog JSON file to load into portfolio_projects")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = migrateDatabaseURL
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL required (set the environment variable or use --db-url)")
	}

	ctx := context.Background()

	// Parse the seed first so a bad file leaves the database untouched
	var seed []types.ProjectTemplate
	if migrateSeedCatalog != "" {
		seed, err = catalog.FileSource{Path: migrateSeedCatalog}.ListCandidateProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to load seed catalog: %w", err)
		}
	}

	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(os.Stdout, "Database schema is up to date\n")

	for i, p := range seed {
		if err := database.UpsertPortfolioProject(ctx, p, i); err != nil {
			return err
		}
	}
	if len(seed) > 0 {
		_, _ = fmt.Fprintf(os.Stdout, "Seeded %d catalog projects\n", len(seed))
	}
	return nil
}
