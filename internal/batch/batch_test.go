package batch

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/artifact"
	"github.com/spigell/sourcer/internal/candidate"
	"github.com/spigell/sourcer/internal/jobs"
	"github.com/spigell/sourcer/internal/outreach"
	"github.com/spigell/sourcer/internal/pipeline"
	"github.com/spigell/sourcer/internal/scoring"
	"github.com/spigell/sourcer/internal/search"
)

type searchFunc func(ctx context.Context, q search.Query) ([]candidate.Raw, error)

func (f searchFunc) Search(ctx context.Context, q search.Query) ([]candidate.Raw, error) {
	return f(ctx, q)
}

type memoryStore struct {
	mu   sync.Mutex
	puts map[string][]byte
	err  error
}

func (m *memoryStore) Put(_ context.Context, name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.puts == nil {
		m.puts = map[string][]byte{}
	}
	m.puts[name] = data
	return "mem://" + name, nil
}

// fakeRunner counts concurrent executions.
type fakeRunner struct {
	registry *jobs.Registry
	active   atomic.Int32
	peak     atomic.Int32
	hold     time.Duration
	execute  func(rec jobs.Record) *jobs.Response
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{registry: jobs.NewRegistry()}
}

func (f *fakeRunner) Register(req jobs.Request) jobs.Record {
	return f.registry.Register(req)
}

func (f *fakeRunner) Execute(_ context.Context, rec jobs.Record) *jobs.Response {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		peak := f.peak.Load()
		if n <= peak || f.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	time.Sleep(f.hold)

	if f.execute != nil {
		return f.execute(rec)
	}

	_ = f.registry.Start(rec.ID)
	resp := &jobs.Response{JobID: rec.ID, Status: jobs.StatusCompleted, CreatedAt: rec.CreatedAt}
	_ = f.registry.Complete(rec.ID, resp)
	return resp
}

func (f *fakeRunner) Abort(rec jobs.Record, cause error) *jobs.Response {
	resp := jobs.Failed(rec.ID, rec.CreatedAt, 0, cause)
	_ = f.registry.Abort(rec.ID, cause, resp)
	return resp
}

func newOrchestrator(runner Runner, store *memoryStore, cfg Config) *Orchestrator {
	var s artifact.Store
	if store != nil {
		s = store
	}
	o := New(runner, s, cfg, zap.NewNop())
	o.wait = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }
	return o
}

func requests(descriptions ...string) []jobs.Request {
	reqs := make([]jobs.Request, 0, len(descriptions))
	for _, d := range descriptions {
		req := jobs.NewRequest(d)
		req.MinScore = 0
		reqs = append(reqs, req)
	}
	return reqs
}

func TestRunIsolatesFailingJob(t *testing.T) {
	registry := jobs.NewRegistry()
	client := searchFunc(func(_ context.Context, q search.Query) ([]candidate.Raw, error) {
		if strings.Contains(q.JobDescription, "broken") {
			return nil, errors.New("search timeout")
		}
		return []candidate.Raw{
			{"name": "Ada", "profile_url": "https://example.com/ada", "skills": []any{"Go"}},
		}, nil
	})
	p := pipeline.New(registry, client, scoring.Default(), outreach.New(nil, outreach.Config{}, nil), pipeline.Config{}, nil)

	store := &memoryStore{}
	o := newOrchestrator(p, store, Config{Workers: 2})

	result := o.Run(context.Background(), requests("Go engineer", "broken job", "Python engineer"))

	require.Len(t, result.Responses, 3)
	completed, failed := result.Counts()
	assert.Equal(t, 2, completed)
	assert.Equal(t, 1, failed)

	for _, resp := range result.Responses {
		if resp.Status == jobs.StatusFailed {
			assert.Contains(t, resp.Error, "search timeout")
			assert.Empty(t, resp.TopCandidates)
			assert.Zero(t, resp.CandidatesFound)
		}
	}

	for _, rec := range registry.List() {
		assert.True(t, rec.Status.IsTerminal(), "job %s left in %s", rec.ID, rec.Status)
	}

	require.NoError(t, result.PersistErr)
	assert.Equal(t, "mem://batch_results.json", result.Artifact)

	var persisted []map[string]any
	require.NoError(t, json.Unmarshal(store.puts["batch_results.json"], &persisted))
	assert.Len(t, persisted, 3)
}

func TestRunBoundsParallelism(t *testing.T) {
	runner := newFakeRunner()
	runner.hold = 20 * time.Millisecond

	o := newOrchestrator(runner, nil, Config{Workers: 2})
	result := o.Run(context.Background(), requests("a", "b", "c", "d", "e", "f"))

	assert.Len(t, result.Responses, 6)
	assert.LessOrEqual(t, runner.peak.Load(), int32(2))
	assert.Empty(t, result.Artifact)
}

func TestRunPacesDispatch(t *testing.T) {
	runner := newFakeRunner()

	var delays []time.Duration
	o := newOrchestrator(runner, nil, Config{MinDelay: time.Second, MaxDelay: 3 * time.Second})
	o.float = func() float64 { return 0.5 }
	o.wait = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}

	o.Run(context.Background(), requests("a", "b", "c"))

	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second}, delays)
}

func TestRunCancelledFailsUndispatched(t *testing.T) {
	runner := newFakeRunner()

	calls := 0
	o := newOrchestrator(runner, nil, Config{})
	o.wait = func(context.Context, time.Duration) error {
		calls++
		if calls == 3 {
			return context.Canceled
		}
		return nil
	}

	result := o.Run(context.Background(), requests("a", "b", "c", "d"))

	require.Len(t, result.Responses, 4)
	completed, failed := result.Counts()
	assert.Equal(t, 2, completed)
	assert.Equal(t, 2, failed)

	for _, rec := range runner.registry.List() {
		assert.True(t, rec.Status.IsTerminal())
	}
}

func TestRunRecoversRunnerPanics(t *testing.T) {
	runner := newFakeRunner()
	runner.execute = func(rec jobs.Record) *jobs.Response {
		if rec.Request.JobDescription == "boom" {
			panic("unexpected")
		}
		return nil
	}

	result := newOrchestrator(runner, nil, Config{}).Run(context.Background(), requests("boom", "nil"))

	require.Len(t, result.Responses, 2)
	_, failed := result.Counts()
	assert.Equal(t, 2, failed)
}

func TestRunReportsPersistError(t *testing.T) {
	store := &memoryStore{err: errors.New("disk full")}

	result := newOrchestrator(newFakeRunner(), store, Config{}).Run(context.Background(), requests("a"))

	assert.Len(t, result.Responses, 1)
	require.Error(t, result.PersistErr)
	assert.Contains(t, result.PersistErr.Error(), "disk full")
	assert.Empty(t, result.Artifact)
}

func TestRunEmptyBatch(t *testing.T) {
	store := &memoryStore{}
	result := newOrchestrator(newFakeRunner(), store, Config{}).Run(context.Background(), nil)

	assert.Empty(t, result.Responses)
	assert.JSONEq(t, `[]`, string(store.puts["batch_results.json"]))
}
