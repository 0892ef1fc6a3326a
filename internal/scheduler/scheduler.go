// Package scheduler triggers recurring sourcing batches on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Task is one scheduled run.
type Task func(ctx context.Context)

// Scheduler wraps robfig/cron. Runs of the task never overlap: a tick that
// fires while the previous run is still going is skipped.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	task   Task
	logger *zap.Logger

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// New creates a Scheduler. spec accepts standard five-field expressions and
// descriptors such as "@every 6h" or "@daily".
func New(spec string, task Task, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("parsing schedule %q: %w", spec, err)
	}

	return &Scheduler{
		cron:   cron.New(),
		spec:   spec,
		task:   task,
		logger: logger,
	}, nil
}

// Start registers the task and starts the cron loop. With immediate set the
// task also runs once right away.
func (s *Scheduler) Start(ctx context.Context, immediate bool) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunNow(ctx) }); err != nil {
		return fmt.Errorf("adding cron func: %w", err)
	}

	s.cron.Start()
	s.logger.Info("scheduler started", zap.String("spec", s.spec))

	if immediate && s.reserve() {
		go s.run(ctx)
	}

	return nil
}

// RunNow runs the task synchronously unless a run is already in progress.
// It reports whether the task ran.
func (s *Scheduler) RunNow(ctx context.Context) bool {
	if !s.reserve() {
		return false
	}
	return s.run(ctx)
}

// reserve claims the single run slot. The WaitGroup is incremented under the
// lock so Stop always observes a claimed run.
func (s *Scheduler) reserve() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Warn("previous run still in progress, skipping")
		return false
	}
	s.running = true
	s.wg.Add(1)

	return true
}

// run executes a reserved run and releases the slot.
func (s *Scheduler) run(ctx context.Context) bool {
	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		s.wg.Done()
	}()

	if ctx.Err() != nil {
		return false
	}

	s.logger.Info("scheduled run started")
	s.task(ctx)
	s.logger.Info("scheduled run finished")

	return true
}

// Stop stops the cron loop and waits for a run in progress.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.wg.Wait()
	s.logger.Info("scheduler stopped")
}
