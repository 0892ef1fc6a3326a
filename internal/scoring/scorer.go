// Package scoring implements the multi-factor candidate fit scorer.
package scoring

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/spigell/sourcer/internal/candidate"
)

// Neutral scores used when the candidate or the job carries no signal.
const (
	NeutralScore         = 5.0
	NeutralLocationScore = 6.0

	maxRoleYears = 60
)

var durationRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([a-zA-Z]*)`)

// Job is the scoring context of a sourcing request.
type Job struct {
	Description string
	// Location is an optional hint that is treated like a city named in the description.
	Location string
}

// jobProfile is the part of a job derived once per scoring run.
type jobProfile struct {
	skills []string
	cities []string
	remote bool
}

func analyze(job Job) jobProfile {
	jd := strings.ToLower(job.Description)

	p := jobProfile{
		remote: containsAny(jd, remoteKeywords),
	}

	for _, skill := range techSkills {
		if containsTerm(jd, skill) {
			p.skills = append(p.skills, skill)
		}
	}

	if hint := strings.ToLower(strings.TrimSpace(job.Location)); hint != "" {
		city := strings.TrimSpace(strings.Split(hint, ",")[0])
		if containsAny(city, remoteKeywords) {
			p.remote = true
		} else if city != "" {
			p.cities = append(p.cities, city)
		}
	}

	for _, city := range citiesIn(jd) {
		if !slices.Contains(p.cities, city) {
			p.cities = append(p.cities, city)
		}
	}

	return p
}

// Scorer computes fit scores with a fixed weight set. It holds no mutable state.
type Scorer struct {
	weights candidate.Weights
}

// New validates the weights and returns a Scorer.
func New(weights candidate.Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring weights: %w", err)
	}
	return &Scorer{weights: weights}, nil
}

// Default returns a Scorer with the default weights.
func Default() *Scorer {
	return &Scorer{weights: candidate.DefaultWeights()}
}

// Weights returns the weight set of the scorer.
func (s *Scorer) Weights() candidate.Weights {
	return s.weights
}

// Score scores a candidate against a job description. It never fails: absent
// data yields neutral sub-scores.
func (s *Scorer) Score(c *candidate.Candidate, jobDescription string) candidate.ScoreBreakdown {
	return s.ScoreFor(c, Job{Description: jobDescription})
}

// ScoreFor is Score with a full job context.
func (s *Scorer) ScoreFor(c *candidate.Candidate, job Job) candidate.ScoreBreakdown {
	return s.score(c, analyze(job))
}

func (s *Scorer) score(c *candidate.Candidate, job jobProfile) candidate.ScoreBreakdown {
	if c == nil {
		c = &candidate.Candidate{}
	}

	return candidate.ScoreBreakdown{
		Education:  educationScore(c.Education),
		Trajectory: trajectoryScore(c),
		Company:    companyScore(c),
		Skills:     skillsScore(c.Skills, job.skills),
		Location:   locationScore(c.Location, job),
		Tenure:     tenureScore(c.Experience),
		Weights:    s.weights,
	}
}

// ScoreAll sets Score and Confidence on every candidate.
func (s *Scorer) ScoreAll(list candidate.List, job Job) {
	profile := analyze(job)
	for _, c := range list {
		if c == nil {
			continue
		}
		breakdown := s.score(c, profile)
		c.Score = &breakdown
		c.Confidence = Confidence(c)
	}
}

// Rank scores the candidates and returns a new list sorted by total score,
// descending. Candidates with equal totals keep their input order.
func (s *Scorer) Rank(list candidate.List, job Job) candidate.List {
	s.ScoreAll(list, job)

	ranked := slices.Clone(list)
	SortByScore(ranked)
	return ranked
}

// SortByScore sorts in place by total score descending. The sort is stable.
func SortByScore(list candidate.List) {
	slices.SortStableFunc(list, func(a, b *candidate.Candidate) int {
		return cmp.Compare(b.TotalScore(), a.TotalScore())
	})
}

func educationScore(education []string) float64 {
	if len(education) == 0 {
		return NeutralScore
	}

	best := 0.0
	for _, entry := range education {
		e := strings.ToLower(strings.TrimSpace(entry))
		if e == "" {
			continue
		}

		score := 6.0
		switch {
		case containsAny(e, eliteInstitutions):
			score = 9.5
		case containsInstitution(e):
			score = 7.5
			if containsAny(e, technicalDegrees) {
				score = min(score+1.0, 10.0)
			}
		}

		best = max(best, score)
	}

	if best == 0 {
		return NeutralScore
	}
	return best
}

func containsInstitution(e string) bool {
	for _, pattern := range institutionPatterns {
		if strings.Contains(e, pattern) {
			return true
		}
	}
	return false
}

func trajectoryScore(c *candidate.Candidate) float64 {
	texts := c.Titles()
	if h := strings.TrimSpace(c.Headline); h != "" {
		texts = append(texts, h)
	}

	score := NeutralScore
	for _, text := range texts {
		text = strings.ToLower(text)
		for _, tier := range seniorityTiers {
			if containsAny(text, tier.keywords) {
				score = max(score, tier.score)
			}
		}
	}

	return score
}

func companyScore(c *candidate.Candidate) float64 {
	employers := c.Companies()
	if len(employers) == 0 {
		return NeutralScore
	}

	best := NeutralScore
	for _, employer := range employers {
		name := strings.ToLower(employer.Name)

		var current, past float64
		switch {
		case containsAny(name, topTechCompanies):
			current, past = 9.5, 9.0
		case containsAny(name, aiCompanyKeywords):
			current, past = 8.0, 7.5
		case containsAny(name, corporateSuffixes):
			current, past = 7.0, 6.0
		default:
			continue
		}

		if employer.Current {
			best = max(best, current)
		} else {
			best = max(best, past)
		}
	}

	return best
}

func skillsScore(skills, required []string) float64 {
	if len(required) == 0 {
		return NeutralScore
	}

	have := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			have = append(have, s)
		}
	}
	if len(have) == 0 {
		return NeutralScore
	}

	matched := 0
	for _, req := range required {
		for _, s := range have {
			if strings.Contains(s, req) || strings.Contains(req, s) {
				matched++
				break
			}
		}
	}

	ratio := float64(matched) / float64(len(required))
	switch {
	case ratio >= 0.7:
		return 9.5
	case ratio >= 0.4:
		return 7.5
	case ratio >= 0.2:
		return 6.0
	default:
		return 4.0
	}
}

func locationScore(location string, job jobProfile) float64 {
	loc := strings.ToLower(strings.TrimSpace(location))
	if loc == "" || len(job.cities) == 0 {
		return NeutralLocationScore
	}

	if containsAny(loc, job.cities) {
		return 10.0
	}

	if metro := metroOf(loc); metro != "" {
		for _, city := range job.cities {
			if metroOf(city) == metro {
				return 8.0
			}
		}
	}

	if job.remote || containsAny(loc, remoteKeywords) {
		return NeutralLocationScore
	}

	return NeutralScore
}

func tenureScore(experience []candidate.Experience) float64 {
	if len(experience) == 0 {
		return NeutralScore
	}

	avg := TotalYears(experience) / float64(len(experience))
	switch {
	case avg >= 2.5:
		return 9.5
	case avg >= 1.5:
		return 7.0
	case avg >= 1.0:
		return 5.5
	default:
		return 3.0
	}
}

// TotalYears sums the durations of all roles. A role whose duration cannot be
// parsed counts as one year; month durations are converted to years.
func TotalYears(experience []candidate.Experience) float64 {
	total := 0.0
	for _, exp := range experience {
		total += durationYears(exp.Duration)
	}
	return total
}

func durationYears(duration string) float64 {
	m := durationRe.FindStringSubmatch(duration)
	if m == nil {
		return 1
	}

	n, err := strconv.ParseFloat(m[1], 64)
	// a bare calendar year is not a duration
	if err != nil || n > maxRoleYears {
		return 1
	}

	if strings.HasPrefix(strings.ToLower(m[2]), "mo") {
		return n / 12
	}
	return n
}

// Confidence is the share of profile sections that carry data, in [0,1].
func Confidence(c *candidate.Candidate) float64 {
	if c == nil {
		return 0
	}

	present := []bool{
		strings.TrimSpace(c.Name) != "",
		strings.TrimSpace(c.Headline) != "" || len(c.Experience) > 0,
		strings.TrimSpace(c.Company) != "",
		strings.TrimSpace(c.Location) != "",
		len(c.Skills) > 0,
		len(c.Education) > 0,
	}

	n := 0
	for _, ok := range present {
		if ok {
			n++
		}
	}

	return candidate.Round2(float64(n) / float64(len(present)))
}
