package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-tailor/internal/server"
	"github.com/jonathan/resume-tailor/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tailoring sessions over HTTP",
	Long: `Start the HTTP API. Clients upload a resume to create a session, then submit one or
more job postings to it. Progress can be streamed as server-sent events.

When a database is configured every run is persisted and the history routes are enabled.
Rate limits are read from RATE_LIMIT_* environment variables.`,
	RunE: runServe,
}

var (
	servePort        int
	serveDatabaseURL string
	serveCatalog     string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveCatalog, "catalog", "", "Path to project catalog JSON file (defaults to the database catalog)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if servePort < 1 || servePort > 65535 {
		return fmt.Errorf("--port must be between 1 and 65535")
	}

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogPath = serveCatalog
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sp, err := newServicePipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer sp.Close()

	srvCfg := server.Config{
		Port:      servePort,
		Pipeline:  sp.options,
		RateLimit: ratelimit.LoadConfig(),
	}
	if sp.database != nil {
		srvCfg.History = sp.database
	}
	return server.New(srvCfg).Start(ctx)
}
