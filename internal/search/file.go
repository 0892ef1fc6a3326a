package search

import (
	"context"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spigell/sourcer/internal/candidate"
)

// FileClient serves profiles from a YAML or JSON fixture file.
// The file holds either a list of profiles or a map with a "candidates" list.
type FileClient struct {
	path string
}

func NewFile(path string) *FileClient {
	return &FileClient{path: path}
}

func (f *FileClient) Search(ctx context.Context, q Query) ([]candidate.Raw, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("reading profiles file: %w", err)
	}

	raws, err := decodeProfiles(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", f.path, err)
	}

	return limit(matching(raws, q.Location), q.MaxResults), nil
}

func decodeProfiles(data []byte) ([]candidate.Raw, error) {
	var list []candidate.Raw
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}

	var wrapped struct {
		Candidates []candidate.Raw `yaml:"candidates"`
	}
	if err := yaml.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}

	return wrapped.Candidates, nil
}

// matching keeps profiles whose location mentions the query location.
// Profiles without a location always match.
func matching(raws []candidate.Raw, location string) []candidate.Raw {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" {
		return raws
	}

	out := make([]candidate.Raw, 0, len(raws))
	for _, raw := range raws {
		got, _ := raw["location"].(string)
		got = strings.ToLower(got)
		if got == "" || strings.Contains(got, loc) || strings.Contains(loc, got) {
			out = append(out, raw)
		}
	}

	return out
}
