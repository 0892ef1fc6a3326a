package outreach

import (
	"strings"

	"github.com/spigell/sourcer/internal/candidate"
)

// Placeholder values used when a profile lacks the corresponding data.
const (
	DefaultFirstName = "there"
	DefaultCompany   = "your current company"
	DefaultRole      = "your current role"
	DefaultSkills    = "software development"
	DefaultLocation  = "your area"
	DefaultEducation = "your background"
	DefaultJobTitle  = "Software Engineer"
)

// jobTitles are matched against the job description in order.
var jobTitles = []string{
	"Senior Software Engineer",
	"Staff Software Engineer",
	"Machine Learning Engineer",
	"ML Engineer",
	"AI Engineer",
	"Data Scientist",
	"Data Engineer",
	"Backend Engineer",
	"Frontend Engineer",
	"Full Stack Engineer",
	"DevOps Engineer",
	"Site Reliability Engineer",
	"Engineering Manager",
	"Product Manager",
	"Software Engineer",
}

// Attributes is the fully populated set of values templates may reference.
// Every field holds either profile data or its documented placeholder.
type Attributes struct {
	FirstName string
	Company   string
	Role      string
	Skills    string
	Location  string
	Education string
	JobTitle  string
}

// NewAttributes derives the attribute bag of a candidate for a job.
func NewAttributes(c *candidate.Candidate, jobDescription string) Attributes {
	if c == nil {
		c = &candidate.Candidate{}
	}

	a := Attributes{
		FirstName: firstName(c.Name),
		Company:   currentCompany(c),
		Role:      currentRole(c),
		Skills:    strings.Join(topSkills(c.Skills, 3), ", "),
		Location:  city(c.Location),
		JobTitle:  JobTitle(jobDescription),
	}
	if len(c.Education) > 0 {
		a.Education = institution(c.Education[0])
	}

	a.FirstName = orDefault(a.FirstName, DefaultFirstName)
	a.Company = orDefault(a.Company, DefaultCompany)
	a.Role = orDefault(a.Role, DefaultRole)
	a.Skills = orDefault(a.Skills, DefaultSkills)
	a.Location = orDefault(a.Location, DefaultLocation)
	a.Education = orDefault(a.Education, DefaultEducation)

	return a
}

// Render replaces {placeholders} in tmpl with attribute values.
func (a Attributes) Render(tmpl string) string {
	return strings.NewReplacer(
		"{first_name}", a.FirstName,
		"{company}", a.Company,
		"{role}", a.Role,
		"{skills}", a.Skills,
		"{location}", a.Location,
		"{education}", a.Education,
		"{job_title}", a.JobTitle,
	).Replace(tmpl)
}

// JobTitle returns the first known title named in the job description.
func JobTitle(jobDescription string) string {
	jd := strings.ToLower(jobDescription)
	for _, title := range jobTitles {
		if strings.Contains(jd, strings.ToLower(title)) {
			return title
		}
	}
	return DefaultJobTitle
}

func firstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func currentCompany(c *candidate.Candidate) string {
	for _, e := range c.Companies() {
		if e.Current {
			return e.Name
		}
	}
	return ""
}

func currentRole(c *candidate.Candidate) string {
	if titles := c.Titles(); len(titles) > 0 {
		return titles[0]
	}
	return strings.TrimSpace(c.Headline)
}

func topSkills(skills []string, n int) []string {
	out := make([]string, 0, n)
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
		if len(out) == n {
			break
		}
	}
	return out
}

func city(location string) string {
	return strings.TrimSpace(strings.Split(location, ",")[0])
}

func institution(education string) string {
	return strings.TrimSpace(strings.Split(education, ",")[0])
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
