// Package cache stores profile search results keyed by normalized query.
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/spigell/sourcer/internal/candidate"
)

// DefaultTTL is how long a stored result set stays valid after it was written.
const DefaultTTL = 24 * time.Hour

// ProfileCache maps a search query to the raw candidates it returned.
// A miss, including an expired entry, is reported with ok=false and a nil error.
type ProfileCache interface {
	Get(ctx context.Context, query string) (results []candidate.Raw, ok bool, err error)
	Put(ctx context.Context, query string, results []candidate.Raw) error
}

// NormalizeQuery case-folds the query and collapses whitespace.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(strings.ToLower(query)), " ")
}
