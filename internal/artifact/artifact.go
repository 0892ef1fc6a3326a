// Package artifact persists batch results as single, atomically written objects.
package artifact

import (
	"context"
)

// DefaultName is the object name of a batch result artifact.
const DefaultName = "batch_results.json"

// Store writes a whole artifact at once. Readers never observe a partial write.
// Put returns the location of the written object.
type Store interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}
