package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/observability"
	"github.com/jonathan/resume-tailor/internal/ranking"
	"github.com/jonathan/resume-tailor/internal/rendering"
	"github.com/jonathan/resume-tailor/internal/types"
	"github.com/jonathan/resume-tailor/schemas"
)

var rankPortfolioCmd = &cobra.Command{
	Use:   "rank-portfolio",
	Short: "Rank catalog projects by relevance to a structured job",
	Long: `Score every project in the catalog by the share of its technologies the job asks for and keep the top N.

The catalog is read from --catalog, or from the portfolio_projects table when a database URL is configured.`,
	RunE: runRankPortfolio,
}

var (
	rankJobFile     string
	rankCatalogFile string
	rankOutputFile  string
	rankMarkdown    string
	rankTopN        int
	rankDatabaseURL string
)

func init() {
	rankPortfolioCmd.Flags().StringVar(&rankJobFile, "job-json", "", "Path to StructuredJob JSON file")
	rankPortfolioCmd.Flags().StringVar(&rankCatalogFile, "catalog", "", "Path to project catalog JSON file")
	rankPortfolioCmd.Flags().StringVarP(&rankOutputFile, "out", "o", "", "Path to output JSON file (defaults to stdout)")
	rankPortfolioCmd.Flags().StringVar(&rankMarkdown, "markdown", "", "Path to write the ranked projects as markdown (optional)")
	rankPortfolioCmd.Flags().IntVar(&rankTopN, "top-n", ranking.DefaultTopN, "Number of projects to keep")
	rankPortfolioCmd.Flags().StringVar(&rankDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	_ = rankPortfolioCmd.MarkFlagRequired("job-json")

	rootCmd.AddCommand(rankPortfolioCmd)
}

func runRankPortfolio(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogPath = rankCatalogFile
	}
	if cmd.Flags().Changed("top-n") {
		cfg.PortfolioTopN = rankTopN
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = rankDatabaseURL
	}
	if cfg.PortfolioTopN < 0 {
		return fmt.Errorf("--top-n must not be negative")
	}

	var job types.StructuredJob
	if err := readJSONFile(rankJobFile, &job); err != nil {
		return err
	}

	ctx := context.Background()

	source := catalogSource(cfg, nil)
	if source == nil {
		database, err := openDatabase(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		if database == nil {
			return fmt.Errorf("either --catalog or a database URL is required")
		}
		defer database.Close()
		source = catalogSource(cfg, database)
	}

	candidates, err := source.ListCandidateProjects(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	portfolio := ranking.RankPortfolioN(candidates, &job, cfg.PortfolioTopN)

	if cfg.Verbose {
		observability.NewPrinter(os.Stderr).PrintPortfolio(portfolio)
	}

	if err := writeJSONOutput(rankOutputFile, portfolio, schemas.Portfolio); err != nil {
		return err
	}
	if rankMarkdown != "" {
		if err := writeOutput(rankMarkdown, []byte(rendering.FormatPortfolio(portfolio))); err != nil {
			return err
		}
	}
	if rankOutputFile != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Ranked %d of %d catalog projects\n", len(portfolio), len(candidates))
		_, _ = fmt.Fprintf(os.Stdout, "Output: %s\n", rankOutputFile)
	}
	return nil
}
