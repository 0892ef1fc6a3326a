package ai

import (
	"context"
	"errors"
)

// ErrEmptyDraft is returned when a provider answered without usable text.
var ErrEmptyDraft = errors.New("drafting client returned an empty message")

// DraftRequest is what a drafting client needs to write a first-contact message.
type DraftRequest struct {
	// CandidateSummary is a plain-text digest of the profile.
	CandidateSummary string
	JobDescription   string
	// Tone names the register of the message: high, medium or low fit.
	Tone string
	// Opening is a suggested first line in the requested tone.
	Opening string
}

// Drafter writes outreach message bodies. Implementations may be slow and may fail.
type Drafter interface {
	Draft(ctx context.Context, req DraftRequest) (string, error)
}
