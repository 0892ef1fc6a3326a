// Package outreach composes personalized first-contact messages for ranked candidates.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/ai"
	"github.com/spigell/sourcer/internal/candidate"
)

const (
	DefaultDraftTimeout  = 30 * time.Second
	DefaultMaxDraftRunes = 1500

	fallbackPersonalization = 0.6
	maxHighlights           = 5
)

// Config tunes the composer.
type Config struct {
	DraftTimeout  time.Duration `mapstructure:"draft-timeout"`
	MaxDraftRunes int           `mapstructure:"max-draft-runes"`
}

// Composer builds outreach messages. It never fails: when the drafter is
// missing, slow or returns garbage the deterministic fallback is used.
type Composer struct {
	drafter ai.Drafter
	cfg     Config
	logger  *zap.Logger
	intn    func(n int) int
}

// New creates a Composer. drafter may be nil, in which case every message is a fallback.
func New(drafter ai.Drafter, cfg Config, logger *zap.Logger) *Composer {
	if cfg.DraftTimeout <= 0 {
		cfg.DraftTimeout = DefaultDraftTimeout
	}
	if cfg.MaxDraftRunes <= 0 {
		cfg.MaxDraftRunes = DefaultMaxDraftRunes
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Composer{
		drafter: drafter,
		cfg:     cfg,
		logger:  logger,
		intn:    rand.IntN,
	}
}

// Compose drafts a message for c. The candidate itself is not modified.
func (c *Composer) Compose(ctx context.Context, cand *candidate.Candidate, jobDescription string) *candidate.OutreachMessage {
	if cand == nil {
		cand = &candidate.Candidate{}
	}

	msg, err := c.draft(ctx, cand, jobDescription)
	if err != nil {
		c.logger.Warn("drafting outreach failed, using fallback message",
			zap.String("profile_url", cand.ProfileURL),
			zap.Error(err),
		)
		return Fallback(cand, jobDescription)
	}

	return msg
}

func (c *Composer) draft(ctx context.Context, cand *candidate.Candidate, jobDescription string) (*candidate.OutreachMessage, error) {
	if c.drafter == nil {
		return nil, errors.New("no drafting client configured")
	}

	attrs := NewAttributes(cand, jobDescription)
	tone := ToneFor(cand.TotalScore())
	options := openings[tone]

	ctx, cancel := context.WithTimeout(ctx, c.cfg.DraftTimeout)
	defer cancel()

	body, err := c.drafter.Draft(ctx, ai.DraftRequest{
		CandidateSummary: Summary(cand),
		JobDescription:   jobDescription,
		Tone:             toneGuidance[tone],
		Opening:          attrs.Render(options[c.intn(len(options))]),
	})
	if err != nil {
		return nil, fmt.Errorf("drafting message: %w", err)
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ai.ErrEmptyDraft
	}
	body = truncateDraft(body, c.cfg.MaxDraftRunes)

	text := body + "\n\n" + callsToAction[c.intn(len(callsToAction))]

	return &candidate.OutreachMessage{
		ProfileURL:           cand.ProfileURL,
		CandidateName:        cand.Name,
		Message:              text,
		PersonalizationScore: Personalization(text, cand),
		Highlights:           Highlights(cand),
		Tone:                 tone,
	}, nil
}

// Fallback builds the deterministic message used when drafting fails.
func Fallback(cand *candidate.Candidate, jobDescription string) *candidate.OutreachMessage {
	if cand == nil {
		cand = &candidate.Candidate{}
	}

	attrs := NewAttributes(cand, jobDescription)

	background := "your background in software engineering"
	if attrs.Company != DefaultCompany {
		background = "your work at " + attrs.Company
	}

	text := strings.ReplaceAll(attrs.Render(fallbackTemplate), "{background}", background)

	return &candidate.OutreachMessage{
		ProfileURL:           cand.ProfileURL,
		CandidateName:        cand.Name,
		Message:              text,
		PersonalizationScore: fallbackPersonalization,
		Highlights:           Highlights(cand),
		Tone:                 ToneFor(cand.TotalScore()),
		Fallback:             true,
	}
}

// truncateDraft cuts the draft at a sentence or word boundary below limit runes.
func truncateDraft(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}

	cut := string(runes[:limit])
	if i := strings.LastIndexAny(cut, ".!?"); i > len(cut)/2 {
		return cut[:i+1]
	}
	if i := strings.LastIndex(cut, " "); i > 0 {
		return strings.TrimSpace(cut[:i])
	}
	return cut
}
