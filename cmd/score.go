package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/candidate"
	"github.com/spigell/sourcer/internal/export"
	"github.com/spigell/sourcer/internal/logger"
	"github.com/spigell/sourcer/internal/scoring"
	"github.com/spigell/sourcer/internal/search"
)

var scoreCmd = &cobra.Command{
	Use:   "score <profiles.yaml>",
	Short: "Score profiles from a file against a job description without searching",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		score(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("jd-file", "f", "", "file with the job description")
	scoreCmd.Flags().String("jd", "", "job description text")
	scoreCmd.Flags().StringP("location", "l", "", "job location")
	scoreCmd.Flags().Bool("csv", false, "print CSV instead of JSON")
}

func score(cmd *cobra.Command, path string) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	scorer, err := newScorer(config.Scoring)
	if err != nil {
		logger.Fatal("invalid scoring weights", zap.Error(err))
	}

	jd, _ := cmd.Flags().GetString("jd")
	if file, _ := cmd.Flags().GetString("jd-file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			logger.Fatal("reading job description", zap.Error(err))
		}
		jd = string(data)
	}
	location, _ := cmd.Flags().GetString("location")

	raws, err := search.NewFile(path).Search(context.Background(), search.Query{})
	if err != nil {
		logger.Fatal("reading profiles", zap.Error(err))
	}

	list, errs := candidate.NormalizeAll(raws)
	for _, err := range errs {
		logger.Warn("skipping profile", zap.Error(err))
	}

	ranked := scorer.Rank(list, scoring.Job{Description: jd, Location: location})

	asCSV, _ := cmd.Flags().GetBool("csv")
	if asCSV {
		err = export.CSV(os.Stdout, ranked)
	} else {
		err = export.JSON(os.Stdout, ranked)
	}
	if err != nil {
		logger.Fatal("writing results", zap.Error(err))
	}

	logger.Debug(fmt.Sprintf("scored %d profiles", ranked.Len()))
}
