package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/sourcer/internal/candidate"
)

func scored(name, company string, value float64, skills ...string) *candidate.Candidate {
	return &candidate.Candidate{
		Name:       name,
		ProfileURL: "https://example.com/" + name,
		Company:    company,
		Location:   "Berlin",
		Skills:     skills,
		Score: &candidate.ScoreBreakdown{
			Education:  value,
			Trajectory: value,
			Company:    value,
			Skills:     value,
			Location:   value,
			Tenure:     value,
			Weights:    candidate.DefaultWeights(),
		},
	}
}

func TestCSV(t *testing.T) {
	ada := scored("ada", "Google", 9, "Go", "Python")
	ada.Outreach = &candidate.OutreachMessage{Message: "Hi Ada,\nlet's talk, \"soon\""}

	list := candidate.List{ada, scored("bob", "", 5), nil}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, list))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, CSVHeader, records[0])
	assert.Equal(t, []string{"ada", "https://example.com/ada", "9.00", "Google", "Berlin", "Go|Python", "Hi Ada,\nlet's talk, \"soon\""}, records[1])
	assert.Equal(t, []string{"bob", "https://example.com/bob", "5.00", "", "Berlin", "", ""}, records[2])
}

func TestCSVAnyRejectsOtherTypes(t *testing.T) {
	assert.Error(t, CSVAny(&bytes.Buffer{}, "nope"))
	assert.NoError(t, CSVAny(&bytes.Buffer{}, candidate.List{}))
}

func TestJSONAndTmpFile(t *testing.T) {
	list := candidate.List{scored("ada", "Google", 8)}

	name, err := ToTmpFile("candidates_*.json", list, JSON)
	require.NoError(t, err)
	t.Cleanup(func() { os.Remove(name) })

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "ada", decoded[0]["name"])
}

func TestSummarize(t *testing.T) {
	list := candidate.List{
		scored("a", "Google", 9, "Go", "python"),
		scored("b", "Google", 7, "Python"),
		scored("c", "Meta", 5, "Rust"),
		scored("d", "", 2),
	}

	s := Summarize(list)
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 5.75, s.AverageScore)
	assert.Equal(t, 9.0, s.TopScore)
	assert.Equal(t, map[string]int{BandExcellent: 1, BandGood: 1, BandFair: 1, BandPoor: 1}, s.Distribution)
	assert.Equal(t, []Count{{"python", 2}, {"go", 1}, {"rust", 1}}, s.TopSkills)
	assert.Equal(t, []Count{{"Google", 2}, {"Meta", 1}}, s.TopCompanies)
	assert.Equal(t, []Count{{"Berlin", 4}}, s.Locations)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.AverageScore)
	assert.Empty(t, s.TopSkills)
}

func TestReportByCompany(t *testing.T) {
	ada := scored("ada", "Google", 9)
	ada.Outreach = &candidate.OutreachMessage{PersonalizationScore: 0.8}

	report := ReportByCompany(candidate.List{ada, scored("bob", "", 4)})
	require.Len(t, report["Google"], 1)
	assert.Equal(t, "0.80", report["Google"][0]["personalization"])
	assert.Equal(t, "9.00", report["Google"][0]["total score"])
	require.Len(t, report["unknown"], 1)
}
