package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/batch"
	"github.com/spigell/sourcer/internal/jobs"
	"github.com/spigell/sourcer/internal/logger"
	"github.com/spigell/sourcer/internal/sourcing"
)

var batchCmd = &cobra.Command{
	Use:   "batch <requests.yaml>",
	Short: "Run a batch of sourcing jobs with paced dispatch",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		runBatchCommand(args[0])
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntP("workers", "w", batch.DefaultWorkers, "jobs running in parallel")
	batchCmd.Flags().Duration("min-delay", batch.DefaultMinDelay, "minimum pause before each dispatch")
	batchCmd.Flags().Duration("max-delay", batch.DefaultMaxDelay, "maximum pause before each dispatch")
	batchCmd.Flags().String("artifact", "", "name of the results artifact (default batch_results.json)")

	viper.BindPFlag("batch.workers", batchCmd.Flags().Lookup("workers"))
	viper.BindPFlag("batch.min-delay", batchCmd.Flags().Lookup("min-delay"))
	viper.BindPFlag("batch.max-delay", batchCmd.Flags().Lookup("max-delay"))
	viper.BindPFlag("batch.artifact", batchCmd.Flags().Lookup("artifact"))
}

func runBatchCommand(path string) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	reqs, err := loadRequests(path)
	if err != nil {
		logger.Fatal("loading requests", zap.Error(err))
	}

	svc, cleanup, err := buildService(ctx, config, logger)
	defer cleanup()
	if err != nil {
		logger.Fatal("building the service", zap.Error(err))
	}

	runBatch(ctx, svc, config.Batch, reqs, logger)
}

// runBatch submits the requests and logs one line per job.
func runBatch(ctx context.Context, svc *sourcing.Service, cfg batch.Config, reqs []jobs.Request, logger *zap.Logger) *batch.Result {
	result := svc.SubmitBatch(ctx, reqs, cfg.Workers, cfg.MinDelay, cfg.MaxDelay)

	for _, resp := range result.Responses {
		fields := []zap.Field{
			zap.String("job_id", resp.JobID),
			zap.String("status", string(resp.Status)),
			zap.Int("found", resp.CandidatesFound),
			zap.Duration("elapsed", resp.ProcessingTime),
		}
		if resp.Error != "" {
			fields = append(fields, zap.String("error", resp.Error))
		}
		logger.Info("job result", fields...)
	}

	completed, failed := result.Counts()
	logger.Info("batch done",
		zap.Int("completed", completed),
		zap.Int("failed", failed),
		zap.String("artifact", result.Artifact),
	)
	if result.PersistErr != nil {
		logger.Error("batch results were not saved", zap.Error(result.PersistErr))
	}

	return result
}
