package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spigell/sourcer/internal/candidate"
)

// CSVHeader is the fixed column order of candidate exports.
var CSVHeader = []string{"name", "profile_url", "total_score", "company", "location", "skills", "outreach_message"}

// CSV writes one row per candidate. Skills are joined with "|".
func CSV(w io.Writer, list candidate.List) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for _, c := range list {
		if c == nil {
			continue
		}
		if err := cw.Write(row(c)); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// CSVAny adapts CSV to ToTmpFile.
func CSVAny(w io.Writer, v any) error {
	list, ok := v.(candidate.List)
	if !ok {
		return fmt.Errorf("csv export needs a candidate list, got %T", v)
	}
	return CSV(w, list)
}

func row(c *candidate.Candidate) []string {
	company := ""
	if employers := c.Companies(); len(employers) > 0 {
		company = employers[0].Name
	}

	message := ""
	if c.Outreach != nil {
		message = c.Outreach.Message
	}

	return []string{
		c.Name,
		c.ProfileURL,
		strconv.FormatFloat(c.TotalScore(), 'f', 2, 64),
		company,
		c.Location,
		strings.Join(c.Skills, "|"),
		message,
	}
}
