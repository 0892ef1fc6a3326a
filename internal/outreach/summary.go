package outreach

import (
	"fmt"
	"strings"

	"github.com/spigell/sourcer/internal/candidate"
	"github.com/spigell/sourcer/internal/scoring"
)

const maxSummaryRoles = 5

// Summary renders a plain-text digest of a profile for a drafting client.
// Years of experience are the sum of parsed role durations.
func Summary(c *candidate.Candidate) string {
	if c == nil {
		return ""
	}

	var b strings.Builder
	line := func(label, value string) {
		if value = strings.TrimSpace(value); value != "" {
			fmt.Fprintf(&b, "%s: %s\n", label, value)
		}
	}

	line("Name", c.Name)
	line("Headline", c.Headline)
	line("Current company", currentCompany(c))
	line("Location", c.Location)
	line("Skills", strings.Join(c.Skills, ", "))
	line("Education", strings.Join(c.Education, "; "))

	if len(c.Experience) > 0 {
		b.WriteString("Experience:\n")
		for i, exp := range c.Experience {
			if i == maxSummaryRoles {
				break
			}
			fmt.Fprintf(&b, "- %s\n", describeRole(exp))
		}
		fmt.Fprintf(&b, "Years of experience (approx.): %.1f\n", scoring.TotalYears(c.Experience))
	}

	line("About", c.Summary)

	if c.Score != nil {
		fmt.Fprintf(&b, "Fit score: %.1f/10\n", c.Score.Total())
	}

	return strings.TrimSpace(b.String())
}

func describeRole(exp candidate.Experience) string {
	parts := make([]string, 0, 3)
	if exp.Title != "" {
		parts = append(parts, exp.Title)
	}
	if exp.Company != "" {
		parts = append(parts, "at "+exp.Company)
	}
	s := strings.Join(parts, " ")
	if exp.Duration != "" {
		s += " (" + exp.Duration + ")"
	}
	return strings.TrimSpace(s)
}
