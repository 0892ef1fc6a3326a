package scoring

import (
	"testing"

	"github.com/spigell/sourcer/internal/candidate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ada() *candidate.Candidate {
	return &candidate.Candidate{
		ProfileURL: "https://www.linkedin.com/in/ada",
		Name:       "Ada Lovelace",
		Skills:     []string{"python", "pytorch"},
		Company:    "Google",
		Location:   "Mountain View",
		Education:  []string{"Stanford University"},
		Experience: []candidate.Experience{
			{Title: "Senior ML Engineer", Company: "Google", Duration: "3 years"},
		},
	}
}

func TestScoreEndToEndProfile(t *testing.T) {
	t.Parallel()

	b := Default().Score(ada(), "We need Python, PyTorch, Mountain View based engineers.")

	assert.GreaterOrEqual(t, b.Education, 9.0)
	assert.GreaterOrEqual(t, b.Company, 9.0)
	assert.GreaterOrEqual(t, b.Skills, 9.0)
	assert.Equal(t, 10.0, b.Location)
	assert.GreaterOrEqual(t, b.Tenure, 9.0)
	assert.GreaterOrEqual(t, b.Total(), 8.5)
}

func TestScoreEmptyCandidateUsesNeutralDefaults(t *testing.T) {
	t.Parallel()

	s := Default()
	b := s.Score(&candidate.Candidate{}, "Senior Python engineer in Seattle")

	w := s.Weights()
	expected := candidate.Round2(NeutralScore*(w.Education+w.Trajectory+w.Company+w.Skills+w.Tenure) +
		NeutralLocationScore*w.Location)

	assert.Equal(t, expected, b.Total())
	// education 5*.20 + trajectory 5*.20 + company 5*.15 + skills 5*.25
	// + location 6*.10 + tenure 5*.10 = 1.0 + 1.0 + .75 + 1.25 + .6 + .5 = 5.1
	assert.InDelta(t, 5.1, b.Total(), 1e-9)

	// a nil candidate is scored like an empty one
	assert.Equal(t, b, s.Score(nil, "Senior Python engineer in Seattle"))
}

func TestScoreIsIdempotentAndBounded(t *testing.T) {
	t.Parallel()

	s := Default()
	candidates := []*candidate.Candidate{
		ada(),
		{},
		{
			Name:      "Max",
			Headline:  "CTO and Head of Engineering",
			Company:   "Databricks",
			Location:  "Remote",
			Skills:    []string{"go", "kubernetes", "terraform", "aws", "python", "sql"},
			Education: []string{"MIT", "Some College of Engineering"},
			Experience: []candidate.Experience{
				{Title: "CTO", Company: "Databricks", Duration: "12 years"},
			},
		},
	}

	for _, c := range candidates {
		first := s.Score(c, "Python, Kubernetes, AWS; remote friendly")
		second := s.Score(c, "Python, Kubernetes, AWS; remote friendly")
		assert.Equal(t, first, second)

		for _, v := range []float64{first.Education, first.Trajectory, first.Company, first.Skills, first.Location, first.Tenure, first.Total()} {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 10.0)
		}
	}
}

func TestEducationScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		education []string
		expect    float64
	}{
		{name: "empty", education: nil, expect: 5.0},
		{name: "elite", education: []string{"Massachusetts Institute of Technology"}, expect: 9.5},
		{name: "elite word boundary", education: []string{"Summit Training Center"}, expect: 6.0},
		{name: "university", education: []string{"State University, BA History"}, expect: 7.5},
		{name: "university with tech degree", education: []string{"State University, BS Computer Science"}, expect: 8.5},
		{name: "best entry wins", education: []string{"Bootcamp", "Stanford"}, expect: 9.5},
		{name: "blank entries", education: []string{" "}, expect: 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, educationScore(tt.education))
		})
	}
}

func TestTrajectoryScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		c      *candidate.Candidate
		expect float64
	}{
		{name: "empty", c: &candidate.Candidate{}, expect: 5.0},
		{name: "no seniority", c: &candidate.Candidate{Headline: "Software Engineer"}, expect: 5.0},
		{name: "senior", c: &candidate.Candidate{Headline: "Senior Engineer"}, expect: 6.5},
		{name: "lead", c: &candidate.Candidate{Experience: []candidate.Experience{{Title: "Tech Lead"}}}, expect: 7.5},
		{name: "highest tier wins", c: &candidate.Candidate{
			Headline:   "Staff Engineer",
			Experience: []candidate.Experience{{Title: "VP Engineering"}},
		}, expect: 9.0},
		{name: "head is not headcount", c: &candidate.Candidate{Headline: "Headcount planner"}, expect: 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, trajectoryScore(tt.c))
		})
	}
}

func TestCompanyScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		c      *candidate.Candidate
		expect float64
	}{
		{name: "empty", c: &candidate.Candidate{}, expect: 5.0},
		{name: "top tech current", c: &candidate.Candidate{Company: "Google"}, expect: 9.5},
		{name: "top tech past", c: &candidate.Candidate{
			Company:    "Tiny Shop",
			Experience: []candidate.Experience{{Company: "Tiny Shop"}, {Company: "Netflix"}},
		}, expect: 9.0},
		{name: "ai current", c: &candidate.Candidate{Company: "Vision Analytics"}, expect: 8.0},
		{name: "corporate past", c: &candidate.Candidate{
			Company:    "Freelance",
			Experience: []candidate.Experience{{Company: "Freelance"}, {Company: "Initech LLC"}},
		}, expect: 6.0},
		{name: "unknown", c: &candidate.Candidate{Company: "Freelance"}, expect: 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, companyScore(tt.c))
		})
	}
}

func TestSkillsScore(t *testing.T) {
	t.Parallel()

	required := []string{"python", "kubernetes", "aws", "sql", "docker"}

	tests := []struct {
		name   string
		skills []string
		req    []string
		expect float64
	}{
		{name: "no jd skills", skills: []string{"python"}, req: nil, expect: 5.0},
		{name: "no candidate skills", skills: nil, req: required, expect: 5.0},
		{name: "most matched", skills: []string{"Python 3", "Kubernetes", "AWS Lambda", "SQL"}, req: required, expect: 9.5},
		{name: "some matched", skills: []string{"python", "docker"}, req: required, expect: 7.5},
		{name: "one matched", skills: []string{"sql"}, req: required, expect: 6.0},
		{name: "none matched", skills: []string{"excel"}, req: required, expect: 4.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, skillsScore(tt.skills, tt.req))
		})
	}
}

func TestLocationScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		location string
		job      Job
		expect   float64
	}{
		{name: "no candidate location", location: "", job: Job{Description: "Seattle"}, expect: 6.0},
		{name: "unknown job location", location: "Paris", job: Job{Description: "Go developer"}, expect: 6.0},
		{name: "exact city", location: "Seattle, WA", job: Job{Description: "Based in Seattle"}, expect: 10.0},
		{name: "same metro", location: "Palo Alto, CA", job: Job{Description: "Office in Mountain View"}, expect: 8.0},
		{name: "hint only", location: "Bellevue", job: Job{Description: "Go developer", Location: "Seattle, WA"}, expect: 8.0},
		{name: "remote friendly", location: "Denver", job: Job{Description: "Seattle or remote"}, expect: 6.0},
		{name: "mismatch", location: "Denver", job: Job{Description: "Seattle office"}, expect: 5.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, locationScore(tt.location, analyze(tt.job)))
		})
	}
}

func TestTenureScore(t *testing.T) {
	t.Parallel()

	exp := func(durations ...string) []candidate.Experience {
		out := make([]candidate.Experience, 0, len(durations))
		for _, d := range durations {
			out = append(out, candidate.Experience{Duration: d})
		}
		return out
	}

	tests := []struct {
		name       string
		experience []candidate.Experience
		expect     float64
	}{
		{name: "no experience", experience: nil, expect: 5.0},
		{name: "long tenure", experience: exp("3 years", "2 yrs"), expect: 9.5},
		{name: "medium tenure", experience: exp("2 years", "1 year"), expect: 7.0},
		{name: "unparseable counts as one year", experience: exp("a while"), expect: 5.5},
		{name: "calendar year is not a duration", experience: exp("2019 - 2021"), expect: 5.5},
		{name: "short tenure", experience: exp("6 months", "3 months"), expect: 3.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expect, tenureScore(tt.experience))
		})
	}
}

func TestRankIsStableDescending(t *testing.T) {
	t.Parallel()

	first := &candidate.Candidate{ProfileURL: "first"}
	strong := ada()
	second := &candidate.Candidate{ProfileURL: "second"}
	third := &candidate.Candidate{ProfileURL: "third"}

	ranked := Default().Rank(candidate.List{first, strong, second, third}, Job{Description: "Python, PyTorch, Mountain View"})

	require.Len(t, ranked, 4)
	assert.Equal(t, []string{strong.ProfileURL, "first", "second", "third"}, ranked.URLs())
	for _, c := range ranked {
		require.NotNil(t, c.Score)
	}
}

func TestNewRejectsInvalidWeights(t *testing.T) {
	t.Parallel()

	w := candidate.DefaultWeights()
	w.Tenure = 0.3

	_, err := New(w)
	assert.Error(t, err)

	s, err := New(candidate.DefaultWeights())
	require.NoError(t, err)
	assert.Equal(t, candidate.DefaultWeights(), s.Weights())
}

func TestConfidence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Confidence(&candidate.Candidate{}))
	assert.Equal(t, 1.0, Confidence(ada()))
	assert.Equal(t, 0.33, Confidence(&candidate.Candidate{Name: "A", Location: "B"}))
}
