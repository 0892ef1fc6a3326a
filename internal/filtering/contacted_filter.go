package filtering

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/candidate"
)

type contactedFilter struct {
	toggle
	path string
}

// NewContactedFile drops candidates listed in the contacted-profiles file.
func NewContactedFile(path string) Filter {
	return &contactedFilter{path: path}
}

func (f *contactedFilter) Name() string { return "contacted_file" }

func (f *contactedFilter) Apply(_ context.Context, logger *zap.Logger, list candidate.List) (candidate.List, Step, error) {
	if f.path == "" {
		return list, Step{Initial: list.Len(), Left: list.Len()}, nil
	}

	contacted, err := LoadContacted(f.path)
	if err != nil {
		return nil, Step{}, fmt.Errorf("getting contacted profiles from file: %w", err)
	}

	urls := contacted.URLs()
	kept, dropped := keep(list, func(c *candidate.Candidate) bool {
		_, seen := urls[c.ProfileURL]
		return !seen
	})

	if len(dropped) > 0 {
		logger.Info("excluding already contacted candidates",
			zap.String("path", f.path),
			zap.Strings("excluded_profiles", dropped),
		)
	}

	return kept, Step{Initial: list.Len(), Dropped: len(dropped), Left: kept.Len()}, nil
}

func (f *contactedFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
