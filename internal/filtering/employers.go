package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/candidate"
)

type employersFilter struct {
	toggle
	employers []string
}

// NewEmployers drops candidates currently employed by one of the given companies,
// typically the hiring company itself and partners.
func NewEmployers(employers ...string) Filter {
	f := &employersFilter{}
	for _, e := range employers {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			f.employers = append(f.employers, e)
		}
	}
	return f
}

func (f *employersFilter) Name() string { return "employers" }

func (f *employersFilter) Apply(_ context.Context, logger *zap.Logger, list candidate.List) (candidate.List, Step, error) {
	if len(f.employers) == 0 {
		return list, Step{Initial: list.Len(), Left: list.Len()}, nil
	}

	kept, dropped := keep(list, func(c *candidate.Candidate) bool {
		for _, employer := range c.Companies() {
			if employer.Current && f.excluded(employer.Name) {
				return false
			}
		}
		return true
	})

	if len(dropped) > 0 {
		logger.Info("excluding candidates by current employer",
			zap.Strings("excluded_employers", f.employers),
			zap.Strings("excluded_profiles", dropped),
		)
	}

	return kept, Step{Initial: list.Len(), Dropped: len(dropped), Left: kept.Len()}, nil
}

func (f *employersFilter) excluded(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, e := range f.employers {
		if name == e {
			return true
		}
	}
	return false
}

func (f *employersFilter) Status() Status {
	details := map[string]string{}
	if len(f.employers) > 0 {
		details["employers"] = strings.Join(f.employers, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
