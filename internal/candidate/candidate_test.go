package candidate

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeToleratesLooseShapes(t *testing.T) {
	t.Parallel()

	raw := Raw{
		"linkedin_url": " https://www.linkedin.com/in/ada ",
		"name":         "Ada Lovelace",
		"title":        "Staff ML Engineer",
		"skills":       "Python, TensorFlow; Kubernetes",
		"education": []any{
			map[string]any{"school": "Stanford University", "degree": "MS Computer Science"},
			"Cambridge",
		},
		"experience": []any{
			map[string]any{"title": "Staff ML Engineer", "company_name": "Google", "duration": 3},
			"Research Intern",
		},
	}

	c, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "https://www.linkedin.com/in/ada", c.ProfileURL)
	assert.Equal(t, "Staff ML Engineer", c.Headline)
	assert.Equal(t, []string{"Python", "TensorFlow", "Kubernetes"}, c.Skills)
	assert.Equal(t, []string{"Stanford University, MS Computer Science", "Cambridge"}, c.Education)
	require.Len(t, c.Experience, 2)
	assert.Equal(t, Experience{Title: "Staff ML Engineer", Company: "Google", Duration: "3"}, c.Experience[0])
	assert.Equal(t, "Research Intern", c.Experience[1].Title)
}

func TestNormalizeCoercesMalformedScalars(t *testing.T) {
	t.Parallel()

	c, err := Normalize(Raw{
		"profile_url": "https://www.linkedin.com/in/ada",
		"name":        "Ada",
		"location":    map[string]any{"city": "Mountain View", "country": "US"},
		"headline":    []any{"Staff ML Engineer", "Researcher"},
		"company":     map[string]any{"name": "Google"},
		"summary":     42,
		"skills":      true,
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", c.Name)
	assert.Equal(t, "Mountain View, US", c.Location)
	assert.Equal(t, "Staff ML Engineer, Researcher", c.Headline)
	assert.Equal(t, "Google", c.Company)
	assert.Equal(t, "42", c.Summary)
	assert.Empty(t, c.Skills)
}

func TestNormalizeIgnoresUnusableURLShape(t *testing.T) {
	t.Parallel()

	_, err := Normalize(Raw{"profile_url": map[string]any{}, "name": "Ada"})
	require.ErrorIs(t, err, ErrNoProfileURL)
}

func TestNormalizeRequiresURL(t *testing.T) {
	t.Parallel()

	_, err := Normalize(Raw{"name": "No Link"})
	require.ErrorIs(t, err, ErrNoProfileURL)
}

func TestNormalizeAllSkipsDuplicatesAndBroken(t *testing.T) {
	t.Parallel()

	list, errs := NormalizeAll([]Raw{
		{"profile_url": "a", "name": "first"},
		{"name": "broken"},
		{"profile_url": "a", "name": "again"},
		{"profile_url": "b"},
	})

	assert.Len(t, errs, 1)
	assert.Equal(t, []string{"a", "b"}, list.URLs())
	assert.Equal(t, "first", list.FindByURL("a").Name)
}

func TestWeightsValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, DefaultWeights().Validate())

	bad := DefaultWeights()
	bad.Skills = 0.5
	assert.Error(t, bad.Validate())

	negative := DefaultWeights()
	negative.Skills = -0.25
	negative.Education = 0.7
	assert.Error(t, negative.Validate())
}

func TestScoreBreakdownTotalIsDerived(t *testing.T) {
	t.Parallel()

	b := ScoreBreakdown{
		Education: 10, Trajectory: 10, Company: 10, Skills: 10, Location: 10, Tenure: 10,
		Weights: DefaultWeights(),
	}
	assert.InDelta(t, 10.0, b.Total(), 1e-9)

	b.Skills = 0
	assert.InDelta(t, 7.5, b.Total(), 1e-9)

	data, err := json.Marshal(b)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.InDelta(t, 7.5, decoded["total_score"], 1e-9)
	assert.InDelta(t, 0.0, decoded["skills_score"], 1e-9)
}

func TestCompaniesMarksCurrentEmployer(t *testing.T) {
	t.Parallel()

	c := &Candidate{
		Experience: []Experience{{Company: "Acme"}, {Company: "Initech"}},
	}
	assert.Equal(t, []Employer{{Name: "Acme", Current: true}, {Name: "Initech"}}, c.Companies())

	c.Company = "Initech"
	assert.Equal(t, []Employer{
		{Name: "Initech", Current: true},
		{Name: "Acme"},
		{Name: "Initech", Current: true},
	}, c.Companies())
}
