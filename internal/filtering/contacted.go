package filtering

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spigell/sourcer/internal/candidate"
)

// ContactedProfile is a candidate that already received outreach.
type ContactedProfile struct {
	ProfileURL  string    `json:"profile_url"`
	Name        string    `json:"name,omitempty"`
	JobID       string    `json:"job_id,omitempty"`
	ContactedAt time.Time `json:"contacted_at"`
}

// Contacted is the content of the contacted-profiles file.
type Contacted struct {
	Items []*ContactedProfile `json:"items"`
}

// LoadContacted reads the file at path. A missing file yields an empty list.
func LoadContacted(path string) (*Contacted, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Contacted{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading contacted profiles: %w", err)
	}

	var c Contacted
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing contacted profiles %q: %w", path, err)
	}
	return &c, nil
}

// NewContacted converts candidates into contacted entries.
func NewContacted(list candidate.List, jobID string, at time.Time) *Contacted {
	c := &Contacted{}
	for _, cand := range list {
		c.Items = append(c.Items, &ContactedProfile{
			ProfileURL:  cand.ProfileURL,
			Name:        cand.Name,
			JobID:       jobID,
			ContactedAt: at,
		})
	}
	return c
}

// Append adds entries that are not in the list yet.
func (c *Contacted) Append(other *Contacted) {
	seen := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		seen[item.ProfileURL] = struct{}{}
	}

	for _, item := range other.Items {
		if _, ok := seen[item.ProfileURL]; ok {
			continue
		}
		seen[item.ProfileURL] = struct{}{}
		c.Items = append(c.Items, item)
	}
}

// URLs returns the set of contacted profile urls.
func (c *Contacted) URLs() map[string]struct{} {
	urls := make(map[string]struct{}, len(c.Items))
	for _, item := range c.Items {
		urls[item.ProfileURL] = struct{}{}
	}
	return urls
}

// Save replaces the file at path with the current list.
func (c *Contacted) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".contacted-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing contacted profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
