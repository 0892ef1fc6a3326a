package outreach

import (
	"fmt"
	"strings"

	"github.com/spigell/sourcer/internal/candidate"
)

// Personalization is the share of profile factors (name, company, skills,
// location, education) that the message mentions, rounded to two decimals.
func Personalization(message string, c *candidate.Candidate) float64 {
	if c == nil {
		return 0
	}

	text := strings.ToLower(message)
	mentions := func(values ...string) bool {
		for _, v := range values {
			v = strings.ToLower(strings.TrimSpace(v))
			if v != "" && strings.Contains(text, v) {
				return true
			}
		}
		return false
	}

	factors := []bool{
		mentions(firstName(c.Name)),
		mentions(currentCompany(c)),
		mentions(c.Skills...),
		mentions(city(c.Location)),
		mentions(educationTerms(c.Education)...),
	}

	matched := 0
	for _, ok := range factors {
		if ok {
			matched++
		}
	}

	return candidate.Round2(float64(matched) / float64(len(factors)))
}

func educationTerms(education []string) []string {
	terms := make([]string, 0, len(education))
	for _, e := range education {
		terms = append(terms, institution(e))
	}
	return terms
}

// Highlights lists up to five notable facts about a scored candidate.
func Highlights(c *candidate.Candidate) []string {
	if c == nil {
		return nil
	}

	var out []string
	if total := c.TotalScore(); total >= highToneThreshold {
		out = append(out, fmt.Sprintf("High fit score: %.1f/10", total))
	}
	if skills := topSkills(c.Skills, 3); len(skills) > 0 {
		out = append(out, "Key skills: "+strings.Join(skills, ", "))
	}
	if company := currentCompany(c); company != "" {
		out = append(out, "Currently at "+company)
	}
	if len(c.Education) > 0 {
		out = append(out, "Education: "+c.Education[0])
	}
	if c.Score != nil && c.Score.Skills >= 9 {
		out = append(out, "Excellent skills match")
	}
	if c.Score != nil && c.Score.Education >= 9 {
		out = append(out, "Strong educational background")
	}

	if len(out) > maxHighlights {
		out = out[:maxHighlights]
	}
	return out
}
