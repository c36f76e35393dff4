package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/octosourcer/octosourcer/internal/ai"
	"github.com/octosourcer/octosourcer/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt_skills.md
var skillsPromptTemplate string

const (
	defaultMaxLogLength = 200

	systemInstruction = "You are a precise technical recruiting assistant. You respond with valid JSON matching the requested schema and nothing else."
)

// contentGenerator is the part of Generator the assistants need.
type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

// SemanticMatcher implements ai.SemanticMatcher on top of Gemini.
type SemanticMatcher struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewSemanticMatcher creates the matcher.
func NewSemanticMatcher(generator contentGenerator, logger *zap.Logger, maxLogLength int) *SemanticMatcher {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SemanticMatcher{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// MatchSkills asks the model which required skills the candidate's skills
// satisfy. The response is filtered back against the original required set:
// skills the model invents are dropped and skills it leaves unaccounted for
// are conservatively marked missing.
func (m *SemanticMatcher) MatchSkills(ctx context.Context, requiredSkills, candidateSkills []string) (*ai.SkillMatch, error) {
	if len(requiredSkills) == 0 {
		return &ai.SkillMatch{}, nil
	}

	prompt, err := buildSkillsPrompt(requiredSkills, candidateSkills)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("semantic skill match request",
		zap.Int("required_count", len(requiredSkills)),
		zap.Int("candidate_count", len(candidateSkills)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, m.maxLogLen)),
	)

	raw, err := m.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	m.logger.Debug("semantic skill match response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, m.maxLogLen)),
	)

	data, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	matched := filterToRequired(coerceStringSlice(data["matched_skills"]), requiredSkills)

	match := &ai.SkillMatch{
		Matched: matched,
		Missing: subtractSkills(requiredSkills, matched),
		Raw:     raw,
	}

	return match, nil
}

func buildSkillsPrompt(requiredSkills, candidateSkills []string) (string, error) {
	requiredJSON, err := json.Marshal(requiredSkills)
	if err != nil {
		return "", fmt.Errorf("marshal required skills: %w", err)
	}

	candidateJSON, err := json.Marshal(candidateSkills)
	if err != nil {
		return "", fmt.Errorf("marshal candidate skills: %w", err)
	}

	prompt := strings.ReplaceAll(skillsPromptTemplate, "{{REQUIRED_SKILLS}}", string(requiredJSON))
	prompt = strings.ReplaceAll(prompt, "{{CANDIDATE_SKILLS}}", string(candidateJSON))
	return prompt, nil
}

// filterToRequired keeps only model answers that are genuinely in the
// required set, returning them in their original required spelling.
func filterToRequired(answers, required []string) []string {
	canonical := make(map[string]string, len(required))
	for _, skill := range required {
		canonical[strings.ToLower(strings.TrimSpace(skill))] = skill
	}

	seen := make(map[string]struct{}, len(answers))
	result := make([]string, 0, len(answers))
	for _, answer := range answers {
		key := strings.ToLower(strings.TrimSpace(answer))
		original, ok := canonical[key]
		if !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, original)
	}
	return result
}

func subtractSkills(all, matched []string) []string {
	matchedSet := make(map[string]struct{}, len(matched))
	for _, skill := range matched {
		matchedSet[strings.ToLower(skill)] = struct{}{}
	}

	result := make([]string, 0, len(all))
	for _, skill := range all {
		if _, ok := matchedSet[strings.ToLower(skill)]; !ok {
			result = append(result, skill)
		}
	}
	return result
}
