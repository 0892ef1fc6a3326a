package export

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/spigell/sourcer/internal/candidate"
)

const topEntries = 10

// Score bands of the distribution.
const (
	BandExcellent = "excellent (8-10)"
	BandGood      = "good (6-8)"
	BandFair      = "fair (4-6)"
	BandPoor      = "poor (0-4)"
)

type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Summary aggregates a candidate list.
type Summary struct {
	Total        int            `json:"total"`
	AverageScore float64        `json:"average_score"`
	TopScore     float64        `json:"top_score"`
	Distribution map[string]int `json:"score_distribution"`
	TopSkills    []Count        `json:"top_skills"`
	TopCompanies []Count        `json:"top_companies"`
	Locations    []Count        `json:"locations"`
}

func Summarize(list candidate.List) Summary {
	s := Summary{
		Distribution: map[string]int{BandExcellent: 0, BandGood: 0, BandFair: 0, BandPoor: 0},
	}

	skills := map[string]int{}
	companies := map[string]int{}
	locations := map[string]int{}

	var sum float64
	for _, c := range list {
		if c == nil {
			continue
		}
		s.Total++

		score := c.TotalScore()
		sum += score
		s.TopScore = max(s.TopScore, score)
		s.Distribution[band(score)]++

		for _, skill := range c.Skills {
			if skill = strings.TrimSpace(skill); skill != "" {
				skills[strings.ToLower(skill)]++
			}
		}
		if employers := c.Companies(); len(employers) > 0 {
			companies[employers[0].Name]++
		}
		if c.Location != "" {
			locations[c.Location]++
		}
	}

	if s.Total > 0 {
		s.AverageScore = candidate.Round2(sum / float64(s.Total))
	}

	s.TopSkills = top(skills, topEntries)
	s.TopCompanies = top(companies, topEntries)
	s.Locations = top(locations, topEntries)

	return s
}

func band(score float64) string {
	switch {
	case score >= 8:
		return BandExcellent
	case score >= 6:
		return BandGood
	case score >= 4:
		return BandFair
	default:
		return BandPoor
	}
}

// top sorts by count descending, then by name.
func top(counts map[string]int, n int) []Count {
	out := make([]Count, 0, len(counts))
	for name, count := range counts {
		out = append(out, Count{Name: name, Count: count})
	}

	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// ReportByCompany groups candidates by their current company.
func ReportByCompany(list candidate.List) map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, c := range list {
		if c == nil {
			continue
		}

		key := "unknown"
		if employers := c.Companies(); len(employers) > 0 {
			key = employers[0].Name
		}

		entry := map[string]string{
			"name":        c.Name,
			"url":         c.ProfileURL,
			"location":    c.Location,
			"total score": fmt.Sprintf("%.2f", c.TotalScore()),
		}
		if c.Outreach != nil {
			entry["personalization"] = fmt.Sprintf("%.2f", c.Outreach.PersonalizationScore)
		}

		report[key] = append(report[key], entry)
	}
	return report
}
