package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/db"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past runs of a session or print a stored artifact",
	Long: `List the most recent runs recorded for --session-id, or print one artifact of --run-id.

Artifact steps: structured_resume, structured_job, match_result, tailored_resume, portfolio, export_markdown.`,
	RunE: runHistory,
}

var (
	historySessionID   string
	historyRunID       string
	historyStep        string
	historyLimit       int
	historyDatabaseURL string
)

func init() {
	historyCmd.Flags().StringVar(&historySessionID, "session-id", "", "Session whose runs to list")
	historyCmd.Flags().StringVar(&historyRunID, "run-id", "", "Run whose artifact to print")
	historyCmd.Flags().StringVar(&historyStep, "step", db.StepExport, "Artifact step to print with --run-id")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum runs to list")
	historyCmd.Flags().StringVar(&historyDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if (historySessionID == "") == (historyRunID == "") {
		return fmt.Errorf("exactly one of --session-id or --run-id is required")
	}
	if historyLimit < 1 {
		return fmt.Errorf("--limit must be at least 1")
	}

	var runID uuid.UUID
	if historyRunID != "" {
		parsed, err := uuid.Parse(historyRunID)
		if err != nil {
			return fmt.Errorf("invalid run-id: %w", err)
		}
		runID = parsed
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = historyDatabaseURL
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL required (set the environment variable or use --db-url)")
	}

	ctx := context.Background()
	database, err := openDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if historyRunID != "" {
		return printArtifact(ctx, database, runID, historyStep)
	}

	runs, err := database.ListSessionRuns(ctx, historySessionID, historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintf(os.Stdout, "No runs recorded for session %s\n", historySessionID)
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "RUN\tSTARTED\tSTATUS\tSCORE\tJOB")
	for _, run := range runs {
		score := "-"
		if run.MatchScore != nil {
			score = fmt.Sprintf("%.0f%%", *run.MatchScore*100)
		}
		job := run.JobTitle
		if job == "" {
			job = run.JobURL
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", run.ID, run.CreatedAt.Format("2006-01-02 15:04"), run.Status, score, job)
	}
	return tw.Flush()
}

func printArtifact(ctx context.Context, database *db.DB, runID uuid.UUID, step string) error {
	run, err := database.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", runID)
	}

	content, err := database.GetArtifact(ctx, runID, step)
	if err != nil {
		return err
	}
	if content != nil {
		return writeOutput("", append(content, '\n'))
	}

	text, err := database.GetTextArtifact(ctx, runID, step)
	if err != nil {
		return err
	}
	if text == "" {
		return fmt.Errorf("no %s artifact for run %s", step, runID)
	}
	return writeOutput("", []byte(text))
}
