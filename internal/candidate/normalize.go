package candidate

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Raw is a search-layer payload. Every field is optional and may be malformed.
type Raw map[string]any

// ErrNoProfileURL is returned for payloads without any identity.
var ErrNoProfileURL = errors.New("raw candidate has no profile url")

// Normalize turns a raw payload into a Candidate. Every field is read on its
// own and coerced to the expected shape, so a malformed field degrades to an
// empty value instead of dropping the profile. The only hard requirement is a
// profile url.
func Normalize(raw Raw) (*Candidate, error) {
	url := firstNonEmpty(
		scalarString(raw["profile_url"]),
		scalarString(raw["linkedin_url"]),
		scalarString(raw["url"]),
	)
	if url == "" {
		return nil, ErrNoProfileURL
	}

	c := &Candidate{
		ProfileURL: url,
		Name:       scalarString(raw["name"]),
		Headline:   firstNonEmpty(scalarString(raw["headline"]), scalarString(raw["title"])),
		Location:   scalarString(raw["location"]),
		Company:    scalarString(raw["company"]),
		Summary:    scalarString(raw["summary"]),
		Education:  stringList(raw["education"], "school", "institution", "name", "degree"),
		Skills:     stringList(raw["skills"], "name", "skill"),
		Experience: experienceList(raw["experience"]),
	}

	return c, nil
}

// scalarString coerces a loosely typed value into a single trimmed string.
// Maps contribute their most descriptive text field and lists are joined.
func scalarString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case bool, int, int32, int64, uint, uint32, uint64:
		return fmt.Sprint(val)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case map[string]any:
		if s := stringField(val, "name", "full", "text", "value", "title"); s != "" {
			return s
		}
		return joinFields(val, "city", "region", "state", "country")
	case []string:
		return strings.Join(stringList(val), ", ")
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := scalarString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	}
	return ""
}

// NormalizeAll normalizes the payloads, skipping entries that cannot be
// identified and duplicates of an already seen profile url.
func NormalizeAll(raws []Raw) (List, []error) {
	var (
		list List
		errs []error
		seen = make(map[string]struct{}, len(raws))
	)

	for i, raw := range raws {
		c, err := Normalize(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("candidate #%d: %w", i, err))
			continue
		}
		if _, ok := seen[c.ProfileURL]; ok {
			continue
		}
		seen[c.ProfileURL] = struct{}{}
		list = append(list, c)
	}

	return list, errs
}

func stringList(v any, keys ...string) []string {
	var out []string
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		for _, part := range strings.FieldsFunc(val, func(r rune) bool { return r == ',' || r == ';' || r == '\n' }) {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	case []string:
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range val {
			switch entry := item.(type) {
			case string:
				if s := strings.TrimSpace(entry); s != "" {
					out = append(out, s)
				}
			case map[string]any:
				if s := joinFields(entry, keys...); s != "" {
					out = append(out, s)
				}
			}
		}
	case map[string]any:
		if s := joinFields(val, keys...); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func experienceList(v any) []Experience {
	items, ok := v.([]any)
	if !ok {
		if m, isMap := v.(map[string]any); isMap {
			items = []any{m}
		} else {
			return nil
		}
	}

	out := make([]Experience, 0, len(items))
	for _, item := range items {
		switch entry := item.(type) {
		case string:
			if s := strings.TrimSpace(entry); s != "" {
				out = append(out, Experience{Title: s})
			}
		case map[string]any:
			var exp Experience
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				Result:           &exp,
				WeaklyTypedInput: true,
				TagName:          "yaml",
			})
			if err != nil || decoder.Decode(entry) != nil {
				continue
			}
			if exp.Company == "" {
				exp.Company = stringField(entry, "company_name", "employer")
			}
			if exp.Title == "" {
				exp.Title = stringField(entry, "position", "role")
			}
			exp.Title = strings.TrimSpace(exp.Title)
			exp.Company = strings.TrimSpace(exp.Company)
			exp.Duration = strings.TrimSpace(exp.Duration)
			if exp != (Experience{}) {
				out = append(out, exp)
			}
		}
	}
	return out
}

func joinFields(m map[string]any, keys ...string) string {
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		if s := stringField(m, key); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

func stringField(m map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := m[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
