// Package sourcing is the entry point used by the command line: single jobs,
// batches and job lookups over one shared registry.
package sourcing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/artifact"
	"github.com/spigell/sourcer/internal/batch"
	"github.com/spigell/sourcer/internal/candidate"
	"github.com/spigell/sourcer/internal/filtering"
	"github.com/spigell/sourcer/internal/jobs"
	"github.com/spigell/sourcer/internal/pipeline"
	"github.com/spigell/sourcer/internal/scoring"
	"github.com/spigell/sourcer/internal/search"
)

type Options struct {
	Search   search.Client
	Scorer   *scoring.Scorer
	Composer pipeline.Composer
	Pipeline pipeline.Config

	// Store receives batch results. Nil disables persisting.
	Store    artifact.Store
	Artifact string
}

type Service struct {
	registry *jobs.Registry
	pipeline *pipeline.Pipeline
	store    artifact.Store
	artifact string
	contacts string
	logger   *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	registry := jobs.NewRegistry()

	return &Service{
		registry: registry,
		pipeline: pipeline.New(registry, opts.Search, opts.Scorer, opts.Composer, opts.Pipeline, logger),
		store:    opts.Store,
		artifact: opts.Artifact,
		contacts: opts.Pipeline.ContactedFile,
		logger:   logger,
	}
}

// SubmitJob runs one job to completion.
func (s *Service) SubmitJob(ctx context.Context, req jobs.Request) *jobs.Response {
	return s.pipeline.Run(ctx, req)
}

// SubmitBatch runs the requests with at most workers jobs in parallel and a
// random [minDelay, maxDelay] pause before each dispatch.
func (s *Service) SubmitBatch(ctx context.Context, reqs []jobs.Request, workers int, minDelay, maxDelay time.Duration) *batch.Result {
	orchestrator := batch.New(s.pipeline, s.store, batch.Config{
		Workers:  workers,
		MinDelay: minDelay,
		MaxDelay: maxDelay,
		Artifact: s.artifact,
	}, s.logger)

	return orchestrator.Run(ctx, reqs)
}

func (s *Service) GetJob(id string) (jobs.Record, bool) {
	return s.registry.Get(id)
}

func (s *Service) ListJobs() []jobs.Record {
	return s.registry.List()
}

// MarkContacted appends the candidates to the contacted-profiles file so
// later jobs skip them.
func (s *Service) MarkContacted(jobID string, list candidate.List) error {
	if s.contacts == "" {
		return fmt.Errorf("contacted file is not configured")
	}

	contacted, err := filtering.LoadContacted(s.contacts)
	if err != nil {
		return err
	}

	contacted.Append(filtering.NewContacted(list, jobID, s.registry.Now().UTC()))

	if err := contacted.Save(s.contacts); err != nil {
		return fmt.Errorf("saving contacted file: %w", err)
	}

	s.logger.Info("marked candidates as contacted", zap.Int("count", list.Len()), zap.String("file", s.contacts))
	return nil
}
