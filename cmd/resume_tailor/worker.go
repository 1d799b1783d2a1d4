package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"github.com/jonathan/resume-tailor/internal/pipeline"
	"github.com/jonathan/resume-tailor/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Consume tailoring requests from RabbitMQ",
	Long: `Consume requests from the tailor_requests queue, run a full session for each and publish
status updates to the session_updates exchange with routing key session.<id>.

Resumes referenced by object key are downloaded from the configured S3 bucket.`,
	RunE: runWorker,
}

var (
	workerRabbitMQURL string
	workerConcurrency int
	workerS3Bucket    string
	workerDatabaseURL string
	workerCatalog     string
)

func init() {
	workerCmd.Flags().StringVar(&workerRabbitMQURL, "rabbitmq-url", "", "RabbitMQ URL (defaults to RABBITMQ_URL env var)")
	workerCmd.Flags().IntVar(&workerConcurrency, "concurrency", 3, "Maximum requests processed at once")
	workerCmd.Flags().StringVar(&workerS3Bucket, "s3-bucket", "", "Bucket holding uploaded resumes (defaults to S3_BUCKET env var)")
	workerCmd.Flags().StringVar(&workerDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	workerCmd.Flags().StringVar(&workerCatalog, "catalog", "", "Path to project catalog JSON file (defaults to the database catalog)")

	rootCmd.AddCommand(workerCmd)
}

func runWorker(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("rabbitmq-url") {
		cfg.RabbitMQURL = workerRabbitMQURL
	}
	if cmd.Flags().Changed("s3-bucket") {
		cfg.S3Bucket = workerS3Bucket
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = workerDatabaseURL
	}
	if cmd.Flags().Changed("catalog") {
		cfg.CatalogPath = workerCatalog
	}
	if cfg.RabbitMQURL == "" {
		return fmt.Errorf("RABBITMQ_URL required (set the environment variable or use --rabbitmq-url)")
	}
	if workerConcurrency < 1 {
		return fmt.Errorf("--concurrency must be at least 1")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sp, err := newServicePipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer sp.Close()

	var out io.Writer = io.Discard
	if cfg.Verbose {
		out = os.Stdout
	}
	opts := append(sp.options, pipeline.WithOutput(out))

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	defer conn.Close()

	publisher, err := worker.NewAMQPPublisher(conn)
	if err != nil {
		return err
	}

	var workerOpts []worker.Option
	if cfg.S3Bucket != "" {
		objects, err := newS3Source(ctx, cfg)
		if err != nil {
			return fmt.Errorf("failed to configure object storage: %w", err)
		}
		workerOpts = append(workerOpts, worker.WithObjects(objects, cfg.S3Bucket))
	}

	w := worker.New(pipeline.New(opts...), publisher, workerOpts...)

	log.Printf("Worker started. Waiting for messages on %s (concurrency %d)...", worker.RequestQueue, workerConcurrency)
	err = w.Consume(ctx, conn, workerConcurrency)
	if errors.Is(err, context.Canceled) {
		log.Printf("Worker stopped")
		return nil
	}
	return err
}
