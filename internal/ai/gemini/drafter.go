package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/sourcer/internal/ai"
	"github.com/spigell/sourcer/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed prompt.md
var systemTemplate string

const (
	defaultMaxLogLength     = 200
	maxUserInstructionRunes = 500
	maxSingleLineRunes      = 120
	defaultTone             = "Warm and professional"
)

// PromptOverrides are user preferences injected into the system instruction.
type PromptOverrides struct {
	Sender           string
	Company          string
	Tone             string
	Keywords         string
	UserInstructions string
}

// Drafter implements ai.Drafter on top of a Gemini generator.
type Drafter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
	overrides PromptOverrides
}

var _ ai.Drafter = (*Drafter)(nil)

func NewDrafter(generator contentGenerator, maxLogLength int, logger *zap.Logger) *Drafter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Drafter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (d *Drafter) SetPromptOverrides(o PromptOverrides) {
	d.overrides = o
}

func (d *Drafter) Draft(ctx context.Context, req ai.DraftRequest) (string, error) {
	if strings.TrimSpace(req.CandidateSummary) == "" {
		return "", fmt.Errorf("candidate summary is required")
	}

	system := buildSystemPrompt(d.overrides, req.Tone)
	message := buildMessage(req)

	d.logger.Debug("gemini draft request",
		zap.Int("prompt_length", utf8.RuneCountInString(message)),
		zap.String("prompt_preview", utils.TruncateForLog(message, d.maxLogLen)),
	)

	raw, err := d.generator.GenerateContent(ctx, system, message)
	if err != nil {
		return "", err
	}

	d.logger.Debug("gemini draft response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, d.maxLogLen)),
	)

	return parseResponse(raw)
}

func buildSystemPrompt(o PromptOverrides, tone string) string {
	if t := sanitizeLine(o.Tone); t != "" {
		tone = t
	}
	if strings.TrimSpace(tone) == "" {
		tone = defaultTone
	}

	r := strings.NewReplacer(
		"{{SENDER}}", valueOrNone(sanitizeLine(o.Sender)),
		"{{COMPANY}}", valueOrNone(sanitizeLine(o.Company)),
		"{{TONE}}", sanitizeLine(tone),
		"{{KEYWORDS}}", valueOrNone(sanitizeKeywords(o.Keywords)),
		"{{USER_INSTRUCTIONS}}", instructionsBlock(o.UserInstructions),
	)

	return r.Replace(systemTemplate)
}

func buildMessage(req ai.DraftRequest) string {
	var b strings.Builder
	b.WriteString("[Inputs]\n")
	b.WriteString("Candidate profile:\n")
	b.WriteString(strings.TrimSpace(req.CandidateSummary))
	b.WriteString("\n\nJob description:\n")
	b.WriteString(strings.TrimSpace(req.JobDescription))
	if opening := strings.TrimSpace(req.Opening); opening != "" {
		b.WriteString("\n\nSuggested opening line (rephrase freely):\n")
		b.WriteString(opening)
	}
	return b.String()
}

func parseResponse(raw string) (string, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return "", fmt.Errorf("parse gemini response: %w", err)
	}

	message, _ := data["message"].(string)
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ai.ErrEmptyDraft
	}

	return message, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

// sanitizeLine collapses whitespace and neutralizes square brackets so user
// input cannot open a new prompt section.
func sanitizeLine(s string) string {
	s = strings.NewReplacer("[", "(", "]", ")").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return truncateRunes(s, maxSingleLineRunes)
}

func sanitizeKeywords(s string) string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = sanitizeLine(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, ", ")
}

func instructionsBlock(s string) string {
	s = strings.NewReplacer("[", "(", "]", ")").Replace(strings.TrimSpace(s))
	s = truncateRunes(s, maxUserInstructionRunes)

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, "  - "+line)
		}
	}

	if len(lines) == 0 {
		return "  - none"
	}
	return strings.Join(lines, "\n")
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func valueOrNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
