package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/octosourcer/octosourcer/internal/ai"
	"github.com/octosourcer/octosourcer/internal/utils"
	"go.uber.org/zap"
)

//go:embed prompt_domain.md
var domainPromptTemplate string

// DomainAssessor implements ai.DomainAssessor on top of Gemini.
type DomainAssessor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewDomainAssessor creates the assessor.
func NewDomainAssessor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *DomainAssessor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DomainAssessor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// AssessDomain asks the model how many of the repositories are relevant to
// the domain. Counts outside [0, len(repoDescriptions)] are rejected as an
// invalid response so callers can apply their conservative fallback.
func (a *DomainAssessor) AssessDomain(ctx context.Context, domain string, repoDescriptions []string) (*ai.DomainAssessment, error) {
	domain = strings.TrimSpace(domain)
	if domain == "" {
		return nil, fmt.Errorf("domain must not be empty")
	}
	if len(repoDescriptions) == 0 {
		return &ai.DomainAssessment{Reasoning: "no repositories to assess"}, nil
	}

	prompt := strings.ReplaceAll(domainPromptTemplate, "{{DOMAIN}}", domain)
	prompt = strings.ReplaceAll(prompt, "{{REPOSITORIES}}", strings.Join(repoDescriptions, "\n"))

	a.logger.Debug("domain relevance request",
		zap.String("domain", domain),
		zap.Int("repo_count", len(repoDescriptions)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)

	raw, err := a.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("domain relevance response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, a.maxLogLen)),
	)

	data, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	relevant, ok := coerceInt(data["relevant_repo_count"])
	if !ok {
		return nil, fmt.Errorf("invalid relevant_repo_count in response")
	}

	total := len(repoDescriptions)
	if relevant < 0 || relevant > total {
		return nil, fmt.Errorf("relevant_repo_count %d outside [0, %d]", relevant, total)
	}

	return &ai.DomainAssessment{
		RelevantRepoCount: relevant,
		TotalRepoCount:    total,
		Reasoning:         coerceString(data["reasoning"]),
		Raw:               raw,
	}, nil
}
