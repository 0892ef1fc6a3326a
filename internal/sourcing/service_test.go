package sourcing

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/artifact"
	"github.com/spigell/sourcer/internal/filtering"
	"github.com/spigell/sourcer/internal/jobs"
	"github.com/spigell/sourcer/internal/outreach"
	"github.com/spigell/sourcer/internal/pipeline"
	"github.com/spigell/sourcer/internal/search"
)

const fixture = `
candidates:
  - name: Ada Lovelace
    profile_url: https://example.com/ada
    location: Mountain View, CA
    education: [PhD Computer Science, Stanford University]
    skills: [Python, PyTorch, Kubernetes]
    experience:
      - {title: Staff ML Engineer, company: Google, duration: 5 years}
      - {title: ML Engineer, company: Meta, duration: 4 years}
  - name: Grace Hopper
    profile_url: https://example.com/grace
    location: Arlington
    skills: [COBOL]
`

func newService(t *testing.T) (*Service, string) {
	t.Helper()
	dir := t.TempDir()

	profiles := filepath.Join(dir, "profiles.yaml")
	require.NoError(t, os.WriteFile(profiles, []byte(fixture), 0o600))

	svc := New(Options{
		Search:   search.NewFile(profiles),
		Composer: outreach.New(nil, outreach.Config{}, nil),
		Pipeline: pipeline.Config{ContactedFile: filepath.Join(dir, "contacted.json")},
		Store:    artifact.NewFile(dir),
	}, zap.NewNop())

	return svc, dir
}

func TestSubmitJobAndLookup(t *testing.T) {
	svc, _ := newService(t)

	req := jobs.NewRequest("Senior ML Engineer. Python, PyTorch.")
	req.MinScore = 0

	resp := svc.SubmitJob(context.Background(), req)
	require.Equal(t, jobs.StatusCompleted, resp.Status, resp.Error)
	require.Len(t, resp.TopCandidates, 2)
	assert.Equal(t, "Ada Lovelace", resp.TopCandidates[0].Name)

	rec, ok := svc.GetJob(resp.JobID)
	require.True(t, ok)
	assert.Equal(t, jobs.StatusCompleted, rec.Status)

	_, ok = svc.GetJob("missing")
	assert.False(t, ok)

	assert.Len(t, svc.ListJobs(), 1)
}

func TestSubmitBatchPersists(t *testing.T) {
	svc, dir := newService(t)

	reqs := []jobs.Request{jobs.NewRequest("Go engineer"), jobs.NewRequest(""), jobs.NewRequest("ML engineer")}
	for i := range reqs {
		reqs[i].MinScore = 0
	}

	result := svc.SubmitBatch(context.Background(), reqs, 2, 0, 0)

	require.Len(t, result.Responses, 3)
	completed, failed := result.Counts()
	assert.Equal(t, 2, completed)
	assert.Equal(t, 1, failed)

	require.NoError(t, result.PersistErr)
	assert.Equal(t, filepath.Join(dir, artifact.DefaultName), result.Artifact)
	assert.FileExists(t, result.Artifact)
	assert.Len(t, svc.ListJobs(), 3)
}

func TestMarkContactedExcludesFromLaterJobs(t *testing.T) {
	svc, dir := newService(t)

	req := jobs.NewRequest("ML engineer, Python")
	req.MinScore = 0

	first := svc.SubmitJob(context.Background(), req)
	require.Equal(t, jobs.StatusCompleted, first.Status)
	require.NoError(t, svc.MarkContacted(first.JobID, first.TopCandidates[:1]))

	contacted, err := filtering.LoadContacted(filepath.Join(dir, "contacted.json"))
	require.NoError(t, err)
	assert.Contains(t, contacted.URLs(), "https://example.com/ada")

	second := svc.SubmitJob(context.Background(), req)
	require.Equal(t, jobs.StatusCompleted, second.Status)
	assert.Equal(t, 1, second.CandidatesFound)
	assert.Equal(t, "https://example.com/grace", second.TopCandidates[0].ProfileURL)
}

func TestMarkContactedRequiresFile(t *testing.T) {
	svc := New(Options{}, nil)
	assert.Error(t, svc.MarkContacted("job", nil))
}
