package ranking

import (
	"context"
	"strings"

	"github.com/octosourcer/octosourcer/internal/ai"
	"go.uber.org/zap"
)

// SkillMatcher matches required skills against a candidate's skills in two
// phases: exact case-insensitive string matching first, then a single
// semantic batch for whatever remains. The semantic phase is optional and
// fails closed: on any failure the remaining skills are marked missing, never
// dropped.
type SkillMatcher struct {
	semantic ai.SemanticMatcher
	logger   *zap.Logger
}

// NewSkillMatcher creates the matcher. A nil semantic matcher disables the
// second phase.
func NewSkillMatcher(semantic ai.SemanticMatcher, logger *zap.Logger) *SkillMatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SkillMatcher{semantic: semantic, logger: logger}
}

// Match partitions requiredSkills into matched and missing. The two return
// slices always cover the required set exactly.
func (m *SkillMatcher) Match(ctx context.Context, requiredSkills, candidateSkills []string) (matched, missing []string) {
	matched = make([]string, 0, len(requiredSkills))

	remaining := make([]string, 0, len(requiredSkills))
	for _, required := range requiredSkills {
		if containsFold(candidateSkills, required) {
			matched = append(matched, required)
		} else {
			remaining = append(remaining, required)
		}
	}

	if len(remaining) == 0 {
		return matched, nil
	}

	if m.semantic == nil || len(candidateSkills) == 0 {
		return matched, remaining
	}

	result, err := m.semantic.MatchSkills(ctx, remaining, candidateSkills)
	if err != nil {
		// Conservative fallback: everything the exact phase could not
		// account for stays missing.
		m.logger.Warn("semantic skill matching failed",
			zap.Int("remaining_skills", len(remaining)),
			zap.Error(err),
		)
		return matched, remaining
	}

	// Defensive against model hallucination: accept only answers that are
	// genuinely in the remaining set and mark the unaccounted rest missing.
	for _, skill := range result.Matched {
		if containsFold(remaining, skill) && !containsFold(matched, skill) {
			matched = append(matched, skill)
		}
	}
	for _, skill := range remaining {
		if !containsFold(matched, skill) {
			missing = append(missing, skill)
		}
	}

	return matched, missing
}

func containsFold(haystack []string, needle string) bool {
	for _, candidate := range haystack {
		if strings.EqualFold(strings.TrimSpace(candidate), strings.TrimSpace(needle)) {
			return true
		}
	}
	return false
}
