// Package search finds raw candidate profiles for a job.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/spigell/sourcer/internal/candidate"
)

// Query describes a profile search.
type Query struct {
	// Terms overrides the terms derived from the job description.
	Terms          string
	JobDescription string
	Location       string
	MaxResults     int
}

// Client is a profile search collaborator.
type Client interface {
	Search(ctx context.Context, q Query) ([]candidate.Raw, error)
}

// SearchTerms returns the explicit terms or derives them from the job description.
func (q Query) SearchTerms() string {
	if t := strings.TrimSpace(q.Terms); t != "" {
		return t
	}
	return ExtractTerms(q.JobDescription, q.Location)
}

// Key is the cache key of the query.
func (q Query) Key() string {
	return fmt.Sprintf("%s | %s | %d", q.SearchTerms(), strings.TrimSpace(q.Location), q.MaxResults)
}

func limit(results []candidate.Raw, max int) []candidate.Raw {
	if max > 0 && len(results) > max {
		return results[:max]
	}
	return results
}
