// Package jobs defines sourcing job requests, their lifecycle and the registry that owns them.
package jobs

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/spigell/sourcer/internal/candidate"
)

const (
	DefaultMaxCandidates = 25
	DefaultMinScore      = 6.0
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// validTransitions lists the states reachable from each state.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing},
	StatusProcessing: {StatusCompleted, StatusFailed},
	StatusCompleted:  {},
	StatusFailed:     {},
}

// IsTerminal reports whether no transition leaves the status.
func (s Status) IsTerminal() bool {
	next, ok := validTransitions[s]
	return ok && len(next) == 0
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Request is a single sourcing request. It is copied on submission and never mutated afterwards.
type Request struct {
	JobDescription string  `json:"job_description" yaml:"job_description"`
	Location       string  `json:"location,omitempty" yaml:"location"`
	Company        string  `json:"company,omitempty" yaml:"company"`
	MaxCandidates  int     `json:"max_candidates" yaml:"max_candidates"`
	MinScore       float64 `json:"min_score" yaml:"min_score"`
}

// NewRequest returns a request with default limits.
func NewRequest(jobDescription string) Request {
	return Request{
		JobDescription: jobDescription,
		MaxCandidates:  DefaultMaxCandidates,
		MinScore:       DefaultMinScore,
	}
}

// WithDefaults returns a copy of r with a zero MaxCandidates replaced by
// DefaultMaxCandidates.
func (r Request) WithDefaults() Request {
	if r.MaxCandidates == 0 {
		r.MaxCandidates = DefaultMaxCandidates
	}
	return r
}

// Validate checks the fields a job cannot run without.
func (r Request) Validate() error {
	if strings.TrimSpace(r.JobDescription) == "" {
		return fmt.Errorf("job description is required")
	}
	if r.MaxCandidates < 0 {
		return fmt.Errorf("max candidates must not be negative, got %d", r.MaxCandidates)
	}
	return nil
}

// Response is the outcome of a job.
type Response struct {
	JobID              string         `json:"job_id"`
	Status             Status         `json:"status"`
	CandidatesSearched int            `json:"candidates_searched"`
	CandidatesFound    int            `json:"candidates_found"`
	TopCandidates      candidate.List `json:"top_candidates"`
	ProcessingTime     time.Duration  `json:"-"`
	CreatedAt          time.Time      `json:"created_at"`
	Error              string         `json:"error,omitempty"`
}

func (r Response) MarshalJSON() ([]byte, error) {
	type plain Response
	top := r.TopCandidates
	if top == nil {
		top = candidate.List{}
	}
	p := plain(r)
	p.TopCandidates = top
	return json.Marshal(struct {
		plain
		ProcessingTime float64 `json:"processing_time"`
	}{plain: p, ProcessingTime: r.ProcessingTime.Seconds()})
}

// Failed builds a FAILED response carrying err.
func Failed(jobID string, createdAt time.Time, elapsed time.Duration, err error) *Response {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return &Response{
		JobID:          jobID,
		Status:         StatusFailed,
		TopCandidates:  candidate.List{},
		ProcessingTime: elapsed,
		CreatedAt:      createdAt,
		Error:          msg,
	}
}

// Record is the registry view of a job.
type Record struct {
	ID         string    `json:"job_id"`
	Status     Status    `json:"status"`
	Request    Request   `json:"request"`
	CreatedAt  time.Time `json:"created_at"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
	Error      string    `json:"error,omitempty"`
	Response   *Response `json:"response,omitempty"`
}
