package jobs

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound          = errors.New("job not found")
	ErrInvalidTransition = errors.New("invalid job status transition")
)

// Registry owns every job record of a process. All methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	records map[string]*Record
	order   []string
	now     func() time.Time
	newID   func() string
}

func NewRegistry() *Registry {
	return &Registry{
		records: make(map[string]*Record),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Register stores a copy of req, with defaults applied, as a new PENDING job
// and returns its record.
func (r *Registry) Register(req Request) Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec := &Record{
		ID:        r.newID(),
		Status:    StatusPending,
		Request:   req.WithDefaults(),
		CreatedAt: r.now(),
	}
	r.records[rec.ID] = rec
	r.order = append(r.order, rec.ID)

	return *rec
}

// Start moves a job to PROCESSING.
func (r *Registry) Start(id string) error {
	return r.transition(id, StatusProcessing, func(rec *Record) {
		rec.StartedAt = r.now()
	})
}

// Complete moves a job to COMPLETED and attaches its response.
func (r *Registry) Complete(id string, resp *Response) error {
	return r.transition(id, StatusCompleted, func(rec *Record) {
		rec.FinishedAt = r.now()
		rec.Response = resp
	})
}

// Fail moves a job to FAILED. The response may be nil.
func (r *Registry) Fail(id string, cause error, resp *Response) error {
	return r.transition(id, StatusFailed, func(rec *Record) {
		rec.FinishedAt = r.now()
		if cause != nil {
			rec.Error = cause.Error()
		}
		rec.Response = resp
	})
}

// Abort fails a job that may never have started. A PENDING job is moved
// through PROCESSING first so FAILED is only ever entered from PROCESSING.
func (r *Registry) Abort(id string, cause error, resp *Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	now := r.now()
	if rec.Status == StatusPending {
		if err := step(rec, StatusProcessing); err != nil {
			return err
		}
		rec.StartedAt = now
	}

	if err := step(rec, StatusFailed); err != nil {
		return err
	}
	rec.FinishedAt = now
	if cause != nil {
		rec.Error = cause.Error()
	}
	rec.Response = resp

	return nil
}

func (r *Registry) transition(id string, next Status, apply func(rec *Record)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if err := step(rec, next); err != nil {
		return err
	}
	apply(rec)

	return nil
}

func step(rec *Record, next Status) error {
	if !rec.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rec.Status, next)
	}
	rec.Status = next
	return nil
}

// Get returns a copy of the record.
func (r *Registry) Get(id string) (Record, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[id]
	if !ok {
		return Record{}, false
	}
	return *rec, true
}

// List returns copies of every record in registration order.
func (r *Registry) List() []Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Record, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.records[id])
	}
	return out
}

// Now returns the registry clock reading.
func (r *Registry) Now() time.Time {
	return r.now()
}
