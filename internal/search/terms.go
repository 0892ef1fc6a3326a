package search

import (
	"strings"
)

const maxTermSkills = 5

// roleTerms are matched against the job description, most specific first.
var roleTerms = []string{
	"machine learning engineer", "ml engineer", "ai engineer", "data scientist",
	"data engineer", "research scientist", "backend engineer", "frontend engineer",
	"full stack engineer", "devops engineer", "site reliability engineer",
	"platform engineer", "mobile engineer", "engineering manager", "product manager",
	"software engineer", "software developer",
}

var skillTerms = []string{
	"python", "golang", "java", "javascript", "typescript", "rust", "c++", "scala",
	"react", "node.js", "kubernetes", "aws", "gcp", "azure", "pytorch", "tensorflow",
	"machine learning", "deep learning", "nlp", "llm", "computer vision", "spark", "sql",
}

var seniorityTerms = []string{"principal", "staff", "senior", "lead", "junior"}

// FallbackTerms are tried in order when a derived query finds nothing.
var FallbackTerms = []string{
	"software engineer",
	"machine learning engineer",
	"data scientist",
	"backend engineer",
	"full stack engineer",
}

// ExtractTerms builds a search query from a job description: seniority, role,
// up to five skills and the location. It falls back to the first words of the
// description when no known term is found.
func ExtractTerms(jobDescription, location string) string {
	jd := strings.ToLower(jobDescription)

	var terms []string
	for _, s := range seniorityTerms {
		if strings.Contains(jd, s) {
			terms = append(terms, s)
			break
		}
	}

	for _, role := range roleTerms {
		if strings.Contains(jd, role) {
			terms = append(terms, role)
			break
		}
	}

	skills := 0
	for _, skill := range skillTerms {
		if skills == maxTermSkills {
			break
		}
		if strings.Contains(jd, skill) {
			terms = append(terms, skill)
			skills++
		}
	}

	if len(terms) == 0 {
		words := strings.Fields(jd)
		if len(words) > 6 {
			words = words[:6]
		}
		terms = append(terms, words...)
	}

	if loc := strings.ToLower(strings.TrimSpace(location)); loc != "" {
		terms = append(terms, loc)
	}

	return strings.Join(terms, " ")
}
