// Package candidate holds the profile data model shared by scoring, outreach and the pipeline.
package candidate

import "strings"

// Experience is a single role. Order inside Candidate.Experience is significant:
// the first entry is the most recent one.
type Experience struct {
	Title    string `json:"title,omitempty" yaml:"title"`
	Company  string `json:"company,omitempty" yaml:"company"`
	Duration string `json:"duration,omitempty" yaml:"duration"`
}

// Candidate is a normalized profile. ProfileURL is its only identity.
type Candidate struct {
	ProfileURL string       `json:"profile_url"`
	Name       string       `json:"name,omitempty"`
	Headline   string       `json:"headline,omitempty"`
	Location   string       `json:"location,omitempty"`
	Company    string       `json:"company,omitempty"`
	Education  []string     `json:"education,omitempty"`
	Skills     []string     `json:"skills,omitempty"`
	Experience []Experience `json:"experience,omitempty"`
	Summary    string       `json:"summary,omitempty"`

	Score      *ScoreBreakdown  `json:"score,omitempty"`
	Confidence float64          `json:"confidence_score"`
	Outreach   *OutreachMessage `json:"outreach,omitempty"`
}

// OutreachMessage is the composed first-contact message for a candidate.
type OutreachMessage struct {
	ProfileURL           string   `json:"profile_url"`
	CandidateName        string   `json:"candidate_name"`
	Message              string   `json:"message"`
	PersonalizationScore float64  `json:"personalization_score"`
	Highlights           []string `json:"highlights,omitempty"`
	Tone                 string   `json:"tone,omitempty"`
	Fallback             bool     `json:"fallback"`
}

// TotalScore returns the weighted total or 0 when the candidate was not scored yet.
func (c *Candidate) TotalScore() float64 {
	if c == nil || c.Score == nil {
		return 0
	}
	return c.Score.Total()
}

// Titles returns the non-empty experience titles in order.
func (c *Candidate) Titles() []string {
	titles := make([]string, 0, len(c.Experience))
	for _, exp := range c.Experience {
		if t := strings.TrimSpace(exp.Title); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}

// Companies returns the current company followed by the experience companies.
func (c *Candidate) Companies() []Employer {
	employers := make([]Employer, 0, len(c.Experience)+1)
	current := strings.TrimSpace(c.Company)
	if current != "" {
		employers = append(employers, Employer{Name: current, Current: true})
	}

	for i, exp := range c.Experience {
		name := strings.TrimSpace(exp.Company)
		if name == "" {
			continue
		}
		// the most recent role is treated as current when no explicit company is set
		employers = append(employers, Employer{Name: name, Current: (current == "" && i == 0) || strings.EqualFold(name, current)})
	}

	return employers
}

// Employer is a company the candidate worked for.
type Employer struct {
	Name    string
	Current bool
}

// List is an ordered set of candidates as returned by discovery.
type List []*Candidate

// Len returns the count of candidates.
func (l List) Len() int {
	return len(l)
}

// FindByURL returns the candidate with the given profile url or nil.
func (l List) FindByURL(url string) *Candidate {
	for _, c := range l {
		if c.ProfileURL == url {
			return c
		}
	}
	return nil
}

// URLs returns the profile urls in order.
func (l List) URLs() []string {
	urls := make([]string, 0, len(l))
	for _, c := range l {
		urls = append(urls, c.ProfileURL)
	}
	return urls
}
