// Package ai defines the contracts for the semantic text service the scoring
// core depends on. Implementations live in subpackages; the core is tested
// against deterministic fakes.
package ai

import "context"

// SkillMatch is the outcome of a semantic skill-matching request. Matched and
// Missing always partition the originally required skill set.
type SkillMatch struct {
	Matched []string
	Missing []string
	Raw     string
}

// DomainAssessment reports how many of a candidate's repositories are
// relevant to a free-text job domain.
type DomainAssessment struct {
	RelevantRepoCount int
	TotalRepoCount    int
	Reasoning         string
	Raw               string
}

// OutreachRequest carries the context for a personalized outreach message.
type OutreachRequest struct {
	JobTitle      string
	Domain        string
	Username      string
	Name          string
	Bio           string
	MatchedSkills []string
	TopRepoName   string
}

// SemanticMatcher matches required skills against candidate skills beyond
// exact string equality.
type SemanticMatcher interface {
	MatchSkills(ctx context.Context, requiredSkills, candidateSkills []string) (*SkillMatch, error)
}

// DomainAssessor classifies repository relevance for a job domain.
type DomainAssessor interface {
	AssessDomain(ctx context.Context, domain string, repoDescriptions []string) (*DomainAssessment, error)
}

// OutreachWriter generates a personalized outreach message.
type OutreachWriter interface {
	WriteOutreach(ctx context.Context, req OutreachRequest) (string, error)
}
