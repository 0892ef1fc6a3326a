package filtering

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/candidate"
)

type minScoreFilter struct {
	toggle
	min float64
}

// NewMinScore keeps candidates whose total score is at least min.
func NewMinScore(min float64) Filter {
	return &minScoreFilter{min: min}
}

func (f *minScoreFilter) Name() string { return "min_score" }

func (f *minScoreFilter) Apply(_ context.Context, logger *zap.Logger, list candidate.List) (candidate.List, Step, error) {
	kept, dropped := keep(list, func(c *candidate.Candidate) bool {
		return c.TotalScore() >= f.min
	})

	if len(dropped) > 0 {
		logger.Debug("excluding candidates below minimum score",
			zap.Float64("min_score", f.min),
			zap.Strings("excluded_profiles", dropped),
		)
	}

	return kept, Step{Initial: list.Len(), Dropped: len(dropped), Left: kept.Len()}, nil
}

func (f *minScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"min_score": strconv.FormatFloat(f.min, 'f', -1, 64)},
	}
}
