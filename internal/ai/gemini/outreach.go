package gemini

import (
	"context"
	"errors"
	"strings"

	_ "embed"

	"github.com/octosourcer/octosourcer/internal/ai"
	"github.com/octosourcer/octosourcer/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt_outreach.md
var outreachPromptTemplate string

const outreachSystemInstruction = "You are a recruiter writing brief, honest, personalized outreach messages. You respond with the message text only."

// OutreachWriter implements ai.OutreachWriter on top of Gemini.
type OutreachWriter struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewOutreachWriter creates the writer.
func NewOutreachWriter(generator contentGenerator, logger *zap.Logger, maxLogLength int) *OutreachWriter {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OutreachWriter{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// WriteOutreach generates the personalized message for one candidate.
func (w *OutreachWriter) WriteOutreach(ctx context.Context, req ai.OutreachRequest) (string, error) {
	if strings.TrimSpace(req.Username) == "" {
		return "", errors.New("candidate username is required")
	}

	replacements := map[string]string{
		"{{JOB_TITLE}}":      orNone(req.JobTitle),
		"{{DOMAIN}}":         orNone(req.Domain),
		"{{USERNAME}}":       req.Username,
		"{{NAME}}":           orNone(req.Name),
		"{{BIO}}":            orNone(req.Bio),
		"{{MATCHED_SKILLS}}": orNone(strings.Join(req.MatchedSkills, ", ")),
		"{{TOP_REPO}}":       orNone(req.TopRepoName),
	}

	prompt := outreachPromptTemplate
	for placeholder, value := range replacements {
		prompt = strings.ReplaceAll(prompt, placeholder, value)
	}

	w.logger.Debug("outreach request",
		zap.String("username", req.Username),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, w.maxLogLen)),
	)

	raw, err := w.generator.GenerateContent(ctx, outreachSystemInstruction, prompt)
	if err != nil {
		return "", err
	}

	message := strings.TrimSpace(extractJSON(raw))
	if message == "" {
		return "", errors.New("model returned an empty message")
	}

	return message, nil
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}
