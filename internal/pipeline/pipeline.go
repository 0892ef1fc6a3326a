// Package pipeline runs a single sourcing job from search to outreach and
// records every state change in the job registry.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/candidate"
	"github.com/spigell/sourcer/internal/filtering"
	"github.com/spigell/sourcer/internal/jobs"
	"github.com/spigell/sourcer/internal/logger"
	"github.com/spigell/sourcer/internal/scoring"
	"github.com/spigell/sourcer/internal/search"
	"github.com/spigell/sourcer/internal/tracing"
)

// DefaultOutreachCount is how many top candidates receive a message.
const DefaultOutreachCount = 10

// ErrNoCandidates fails a job whose search returned nothing usable.
var ErrNoCandidates = errors.New("no candidates found")

type Config struct {
	OutreachCount    int      `mapstructure:"outreach-count"`
	ContactedFile    string   `mapstructure:"contacted-file"`
	ExcludeEmployers []string `mapstructure:"exclude-employers"`
}

// Composer drafts outreach for a candidate and never fails.
type Composer interface {
	Compose(ctx context.Context, c *candidate.Candidate, jobDescription string) *candidate.OutreachMessage
}

type Pipeline struct {
	registry *jobs.Registry
	search   search.Client
	scorer   *scoring.Scorer
	composer Composer
	cfg      Config
	logger   *zap.Logger
}

func New(registry *jobs.Registry, client search.Client, scorer *scoring.Scorer, composer Composer, cfg Config, log *zap.Logger) *Pipeline {
	if cfg.OutreachCount <= 0 {
		cfg.OutreachCount = DefaultOutreachCount
	}
	if scorer == nil {
		scorer = scoring.Default()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Pipeline{
		registry: registry,
		search:   client,
		scorer:   scorer,
		composer: composer,
		cfg:      cfg,
		logger:   logger.WithComponent(log, "pipeline"),
	}
}

// Register records req as a PENDING job.
func (p *Pipeline) Register(req jobs.Request) jobs.Record {
	return p.registry.Register(req)
}

// Run registers req and executes it.
func (p *Pipeline) Run(ctx context.Context, req jobs.Request) *jobs.Response {
	return p.Execute(ctx, p.Register(req))
}

// Abort fails a registered job that was never executed.
func (p *Pipeline) Abort(rec jobs.Record, cause error) *jobs.Response {
	resp := jobs.Failed(rec.ID, rec.CreatedAt, 0, cause)
	if err := p.registry.Abort(rec.ID, cause, resp); err != nil {
		p.logger.Warn("cannot mark job failed", zap.String(logger.FieldJobID, rec.ID), zap.Error(err))
	}
	return resp
}

// Execute drives a registered job to a terminal state. It always returns a
// response; failures are reported through its status.
func (p *Pipeline) Execute(ctx context.Context, rec jobs.Record) (resp *jobs.Response) {
	started := time.Now()
	log := logger.WithJob(p.logger, rec.ID)

	ctx, span := tracing.Start(ctx, "sourcing.job", attribute.String(logger.FieldJobID, rec.ID))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("job panicked: %v", r)
			tracing.RecordError(span, err, tracing.ErrorTypeInternal)
			resp = p.fail(log, rec, started, err)
		}
	}()

	if err := rec.Request.Validate(); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return p.fail(log, rec, started, err)
	}

	if err := p.registry.Start(rec.ID); err != nil {
		log.Error("cannot start job", zap.Error(err))
		return jobs.Failed(rec.ID, rec.CreatedAt, time.Since(started), err)
	}

	log.Info("job started", zap.String(logger.FieldStatus, string(jobs.StatusProcessing)))

	raws, err := p.find(ctx, rec.Request)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeSearch)
		return p.fail(log, rec, started, err)
	}

	list, err := p.normalize(log, raws)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeSearch)
		return p.fail(log, rec, started, err)
	}

	p.rank(ctx, list, rec.Request)

	filtered, err := p.filter(ctx, log, list, rec.Request)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return p.fail(log, rec, started, err)
	}

	top := filtered[:min(p.cfg.OutreachCount, len(filtered))]
	p.compose(ctx, top, rec.Request.JobDescription)

	resp = &jobs.Response{
		JobID:              rec.ID,
		Status:             jobs.StatusCompleted,
		CandidatesSearched: len(raws),
		CandidatesFound:    len(filtered),
		TopCandidates:      top,
		ProcessingTime:     time.Since(started),
		CreatedAt:          rec.CreatedAt,
	}

	if err := p.registry.Complete(rec.ID, resp); err != nil {
		log.Error("cannot complete job", zap.Error(err))
		resp.Status = jobs.StatusFailed
		resp.Error = err.Error()
		return resp
	}

	span.SetAttributes(
		attribute.Int("candidates_searched", resp.CandidatesSearched),
		attribute.Int("candidates_found", resp.CandidatesFound),
	)
	log.Info("job completed",
		zap.Int("searched", resp.CandidatesSearched),
		zap.Int("found", resp.CandidatesFound),
		zap.Duration("elapsed", resp.ProcessingTime),
	)

	return resp
}

func (p *Pipeline) find(ctx context.Context, req jobs.Request) ([]candidate.Raw, error) {
	ctx, span := tracing.Start(ctx, "sourcing.search")
	defer span.End()

	raws, err := p.search.Search(ctx, search.Query{
		JobDescription: req.JobDescription,
		Location:       req.Location,
		MaxResults:     req.MaxCandidates,
	})
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeSearch)
		return nil, fmt.Errorf("searching candidates: %w", err)
	}
	if len(raws) == 0 {
		return nil, ErrNoCandidates
	}

	span.SetAttributes(attribute.Int("results", len(raws)))
	return raws, nil
}

func (p *Pipeline) normalize(log *zap.Logger, raws []candidate.Raw) (candidate.List, error) {
	list, errs := candidate.NormalizeAll(raws)
	for _, err := range errs {
		log.Debug("skipping profile", zap.Error(err))
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %d profiles without usable data", ErrNoCandidates, len(raws))
	}

	return list, nil
}

func (p *Pipeline) rank(ctx context.Context, list candidate.List, req jobs.Request) {
	_, span := tracing.Start(ctx, "sourcing.score", attribute.Int("candidates", len(list)))
	defer span.End()

	p.scorer.ScoreAll(list, scoring.Job{Description: req.JobDescription, Location: req.Location})
	scoring.SortByScore(list)
}

func (p *Pipeline) filter(ctx context.Context, log *zap.Logger, list candidate.List, req jobs.Request) (candidate.List, error) {
	ctx, span := tracing.Start(ctx, "sourcing.filter")
	defer span.End()

	steps := p.filters(req)
	filtered, err := filtering.Run(ctx, log, steps, list)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, fmt.Errorf("filtering candidates: %w", err)
	}

	return filtered, nil
}

func (p *Pipeline) filters(req jobs.Request) []filtering.Filter {
	employers := append([]string{req.Company}, p.cfg.ExcludeEmployers...)

	return []filtering.Filter{
		filtering.NewMinScore(req.MinScore),
		filtering.NewContactedFile(p.cfg.ContactedFile),
		filtering.NewEmployers(employers...),
	}
}

func (p *Pipeline) compose(ctx context.Context, top candidate.List, jobDescription string) {
	if p.composer == nil {
		return
	}

	ctx, span := tracing.Start(ctx, "sourcing.compose", attribute.Int("candidates", len(top)))
	defer span.End()

	for _, c := range top {
		c.Outreach = p.composer.Compose(ctx, c, jobDescription)
	}
}

func (p *Pipeline) fail(log *zap.Logger, rec jobs.Record, started time.Time, cause error) *jobs.Response {
	resp := jobs.Failed(rec.ID, rec.CreatedAt, time.Since(started), cause)

	if err := p.registry.Abort(rec.ID, cause, resp); err != nil {
		log.Warn("cannot mark job failed", zap.Error(err))
	}

	log.Error("job failed", zap.String(logger.FieldStatus, string(jobs.StatusFailed)), zap.Error(cause))
	return resp
}
