package cmd

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/logger"
	"github.com/spigell/sourcer/internal/scheduler"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run the configured batch on a cron schedule until interrupted",
	Run: func(cmd *cobra.Command, _ []string) {
		schedule(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scheduleCmd)

	scheduleCmd.Flags().StringP("spec", "s", "", "cron expression or descriptor such as @every 6h")
	scheduleCmd.Flags().StringP("requests", "r", "", "file with the batch requests")
	scheduleCmd.Flags().Bool("now", false, "also run the batch right away")

	viper.BindPFlag("schedule.spec", scheduleCmd.Flags().Lookup("spec"))
	viper.BindPFlag("schedule.requests", scheduleCmd.Flags().Lookup("requests"))
}

func schedule(cmd *cobra.Command) {
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

	if config.Schedule.Requests == "" {
		logger.Fatal("schedule.requests is required", zap.String("hint", "set --requests or schedule.requests in the config"))
	}

	svc, cleanup, err := buildService(ctx, config, logger)
	defer cleanup()
	if err != nil {
		logger.Fatal("building the service", zap.Error(err))
	}

	s, err := scheduler.New(config.Schedule.Spec, func(ctx context.Context) {
		// The file is read on every run so edits apply without a restart.
		reqs, err := loadRequests(config.Schedule.Requests)
		if err != nil {
			logger.Error("loading requests", zap.Error(err))
			return
		}
		runBatch(ctx, svc, config.Batch, reqs, logger)
	}, logger)
	if err != nil {
		logger.Fatal("creating the scheduler", zap.Error(err))
	}

	now, _ := cmd.Flags().GetBool("now")
	if err := s.Start(ctx, now); err != nil {
		logger.Fatal("starting the scheduler", zap.Error(err))
	}

	<-ctx.Done()
	logger.Info("shutting down", zap.String("reason", ctx.Err().Error()))
	s.Stop()
}
