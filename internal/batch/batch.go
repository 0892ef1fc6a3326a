// Package batch runs many sourcing jobs with paced dispatch and bounded parallelism.
package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/sourcer/internal/artifact"
	"github.com/spigell/sourcer/internal/export"
	"github.com/spigell/sourcer/internal/jobs"
	"github.com/spigell/sourcer/internal/logger"
	"github.com/spigell/sourcer/internal/utils"
)

const (
	DefaultWorkers  = 3
	DefaultMinDelay = 2 * time.Second
	DefaultMaxDelay = 5 * time.Second
)

// Runner executes single jobs. Register is called for every request before
// the first dispatch so each request owns a PENDING record from the start.
type Runner interface {
	Register(req jobs.Request) jobs.Record
	Execute(ctx context.Context, rec jobs.Record) *jobs.Response
	Abort(rec jobs.Record, cause error) *jobs.Response
}

type Config struct {
	Workers  int           `mapstructure:"workers"`
	MinDelay time.Duration `mapstructure:"min-delay"`
	MaxDelay time.Duration `mapstructure:"max-delay"`
	Artifact string        `mapstructure:"artifact"`
}

// Result holds one response per request in completion order. PersistErr is
// set when the responses could not be written to the artifact store.
type Result struct {
	Responses  []*jobs.Response `json:"responses"`
	Artifact   string           `json:"artifact,omitempty"`
	PersistErr error            `json:"-"`
}

// Counts returns the number of completed and failed jobs.
func (r *Result) Counts() (completed, failed int) {
	for _, resp := range r.Responses {
		if resp.Status == jobs.StatusCompleted {
			completed++
		} else {
			failed++
		}
	}
	return completed, failed
}

type Orchestrator struct {
	runner Runner
	store  artifact.Store
	cfg    Config
	logger *zap.Logger

	wait  func(ctx context.Context, d time.Duration) error
	float func() float64
}

// New creates an Orchestrator. A nil store disables persisting results.
func New(runner Runner, store artifact.Store, cfg Config, log *zap.Logger) *Orchestrator {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.MinDelay < 0 {
		cfg.MinDelay = 0
	}
	if cfg.MaxDelay < cfg.MinDelay {
		cfg.MaxDelay = cfg.MinDelay
	}
	if cfg.Artifact == "" {
		cfg.Artifact = artifact.DefaultName
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Orchestrator{
		runner: runner,
		store:  store,
		cfg:    cfg,
		logger: logger.WithComponent(log, "batch"),
		wait:   utils.WaitFor,
	}
}

// Run executes every request and never returns an error: failed jobs are
// reported through their response status. Before each dispatch the
// dispatcher waits a random delay in [MinDelay, MaxDelay], so submissions
// are paced regardless of the number of workers.
func (o *Orchestrator) Run(ctx context.Context, reqs []jobs.Request) *Result {
	records := make([]jobs.Record, 0, len(reqs))
	for _, req := range reqs {
		records = append(records, o.runner.Register(req))
	}

	var (
		mu        sync.Mutex
		responses = make([]*jobs.Response, 0, len(records))
	)
	collect := func(resp *jobs.Response) {
		mu.Lock()
		defer mu.Unlock()
		responses = append(responses, resp)
	}

	o.logger.Info("batch started",
		zap.Int("jobs", len(records)),
		zap.Int("workers", o.cfg.Workers),
		zap.Duration("min_delay", o.cfg.MinDelay),
		zap.Duration("max_delay", o.cfg.MaxDelay),
	)

	g := new(errgroup.Group)
	g.SetLimit(o.cfg.Workers)

	for i, rec := range records {
		delay := utils.Jitter(o.cfg.MinDelay, o.cfg.MaxDelay, o.float)

		if err := o.wait(ctx, delay); err != nil {
			cause := fmt.Errorf("batch cancelled before dispatch: %w", err)
			for _, rest := range records[i:] {
				collect(o.runner.Abort(rest, cause))
			}
			o.logger.Warn("batch cancelled", zap.Int("undispatched", len(records)-i), zap.Error(err))
			break
		}

		o.logger.Debug("dispatching job",
			zap.String(logger.FieldJobID, rec.ID),
			zap.Int("position", i+1),
			zap.Duration("delay", delay),
		)

		g.Go(func() error {
			collect(o.execute(ctx, rec))
			return nil
		})
	}

	_ = g.Wait()

	result := &Result{Responses: responses}
	o.persist(ctx, result)

	completed, failed := result.Counts()
	o.logger.Info("batch finished", zap.Int("completed", completed), zap.Int("failed", failed))

	return result
}

func (o *Orchestrator) execute(ctx context.Context, rec jobs.Record) (resp *jobs.Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = o.runner.Abort(rec, fmt.Errorf("job panicked: %v", r))
		}
	}()

	resp = o.runner.Execute(ctx, rec)
	if resp == nil {
		resp = o.runner.Abort(rec, errors.New("job returned no response"))
	}
	return resp
}

// persist writes all responses with a single Put.
func (o *Orchestrator) persist(ctx context.Context, result *Result) {
	if o.store == nil {
		return
	}

	var buf bytes.Buffer
	if err := export.JSON(&buf, result.Responses); err != nil {
		result.PersistErr = err
		o.logger.Error("encoding batch results", zap.Error(err))
		return
	}

	// The artifact is written even when the batch context was cancelled.
	location, err := o.store.Put(context.WithoutCancel(ctx), o.cfg.Artifact, buf.Bytes())
	if err != nil {
		result.PersistErr = fmt.Errorf("persisting batch results: %w", err)
		o.logger.Error("persisting batch results", zap.Error(err))
		return
	}

	result.Artifact = location
	o.logger.Info("batch results saved", zap.String("artifact", location))
}
