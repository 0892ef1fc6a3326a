package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/export"
	"github.com/spigell/sourcer/internal/jobs"
	"github.com/spigell/sourcer/internal/logger"
	"github.com/spigell/sourcer/internal/sourcing"
)

const (
	PromptReportByCompany = "Report by company"
	PromptSummary         = "Summary"
	PromptJSONToFile      = "Dump candidates to JSON file"
	PromptCSVToFile       = "Dump candidates to CSV file"
	PromptMarkContacted   = "Mark candidates as contacted"
	PromptExit            = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptReportByCompany, PromptSummary, PromptJSONToFile, PromptCSVToFile, PromptMarkContacted, PromptExit},
}

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Source candidates for a single job description",
	Run: func(cmd *cobra.Command, _ []string) {
		source(cmd)
	},
}

func init() {
	rootCmd.AddCommand(sourceCmd)

	sourceCmd.Flags().String("jd", "", "job description text")
	sourceCmd.Flags().StringP("jd-file", "f", "", "file with the job description")
	sourceCmd.Flags().StringP("location", "l", "", "job location")
	sourceCmd.Flags().String("company", "", "hiring company, its current employees are skipped")
	sourceCmd.Flags().IntP("max-candidates", "n", jobs.DefaultMaxCandidates, "maximum number of profiles to search")
	sourceCmd.Flags().Float64("min-score", jobs.DefaultMinScore, "minimum total score to keep a candidate")
	sourceCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for an action, print the summary and dump results")
	sourceCmd.Flags().StringP("contacted-file", "c", "", "file with already contacted profiles. Default is unset.")

	viper.BindPFlag("pipeline.contacted-file", sourceCmd.Flags().Lookup("contacted-file"))
}

func source(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the sourcer", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	req, err := requestFromFlags(cmd)
	if err != nil {
		logger.Fatal("building a request", zap.Error(err))
	}

	svc, cleanup, err := buildService(ctx, config, logger)
	defer cleanup()
	if err != nil {
		logger.Fatal("building the service", zap.Error(err))
	}

	resp := svc.SubmitJob(ctx, req)
	if resp.Status == jobs.StatusFailed {
		logger.Error("job failed", zap.String("job_id", resp.JobID), zap.String("error", resp.Error))
		return
	}

	logger.Info("job completed",
		zap.String("job_id", resp.JobID),
		zap.Int("searched", resp.CandidatesSearched),
		zap.Int("found", resp.CandidatesFound),
		zap.Int("top", resp.TopCandidates.Len()),
	)

	if resp.TopCandidates.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return
	}

	if cmd.Flag("auto-approve").Value.String() == "true" {
		for _, action := range []string{PromptSummary, PromptJSONToFile} {
			if err := handleAction(action, svc, logger, resp); err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(action, svc, logger, resp); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(action string, svc *sourcing.Service, logger *zap.Logger, resp *jobs.Response) error {
	switch action {
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	case PromptReportByCompany:
		pretty, _ := json.MarshalIndent(export.ReportByCompany(resp.TopCandidates), "", "  ")
		logger.Info(string(pretty), zap.Int("candidates count", resp.TopCandidates.Len()))
		return nil
	case PromptSummary:
		pretty, _ := json.MarshalIndent(export.Summarize(resp.TopCandidates), "", "  ")
		logger.Info(string(pretty), zap.String("job_id", resp.JobID))
		return nil
	case PromptJSONToFile:
		filename, err := export.ToTmpFile("candidates_*.json", resp, export.JSON)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptCSVToFile:
		filename, err := export.ToTmpFile("candidates_*.csv", resp.TopCandidates, export.CSVAny)
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	case PromptMarkContacted:
		return svc.MarkContacted(resp.JobID, resp.TopCandidates)
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func requestFromFlags(cmd *cobra.Command) (jobs.Request, error) {
	flags := cmd.Flags()

	jd, _ := flags.GetString("jd")
	if file, _ := flags.GetString("jd-file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return jobs.Request{}, fmt.Errorf("reading job description: %w", err)
		}
		jd = string(data)
	}

	req := jobs.NewRequest(strings.TrimSpace(jd))
	req.Location, _ = flags.GetString("location")
	req.Company, _ = flags.GetString("company")
	req.MaxCandidates, _ = flags.GetInt("max-candidates")
	req.MinScore, _ = flags.GetFloat64("min-score")

	if err := req.Validate(); err != nil {
		return jobs.Request{}, fmt.Errorf("%w (use --jd or --jd-file)", err)
	}

	return req, nil
}
