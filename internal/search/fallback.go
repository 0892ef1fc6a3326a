package search

import (
	"context"

	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/candidate"
)

// Fallback retries an empty search with broader terms.
type Fallback struct {
	next   Client
	terms  []string
	logger *zap.Logger
}

// WithFallback wraps next. With no terms given, FallbackTerms are used.
func WithFallback(next Client, log *zap.Logger, terms ...string) *Fallback {
	if len(terms) == 0 {
		terms = FallbackTerms
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{next: next, terms: terms, logger: log}
}

func (f *Fallback) Search(ctx context.Context, q Query) ([]candidate.Raw, error) {
	results, err := f.next.Search(ctx, q)
	if err != nil || len(results) > 0 {
		return results, err
	}

	for _, term := range f.terms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		broader := q
		broader.Terms = term

		f.logger.Info("no profiles found, trying broader terms", zap.String("terms", term))

		results, err := f.next.Search(ctx, broader)
		if err != nil {
			f.logger.Warn("fallback search failed", zap.String("terms", term), zap.Error(err))
			continue
		}
		if len(results) > 0 {
			return results, nil
		}
	}

	return nil, nil
}
