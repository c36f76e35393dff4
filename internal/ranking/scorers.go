package ranking

import (
	"context"
	"fmt"

	"github.com/octosourcer/octosourcer/internal/ai"
	"github.com/octosourcer/octosourcer/internal/github"
	"go.uber.org/zap"
)

// SkillScorer scores required-skill coverage as a pure percentage. An empty
// required list is trivially satisfied and scores a perfect 100.
type SkillScorer struct{}

func (SkillScorer) Score(matched, required []string) float64 {
	if len(required) == 0 {
		return 100.0
	}
	return float64(len(matched)) / float64(len(required)) * 100.0
}

// ExperienceScorer measures accumulated tenure: account age (40%), total
// stars across the visible top repos (30%) and a repo-count proxy (30%).
type ExperienceScorer struct{}

// Score returns the 0-100 experience score and a reasoning string.
func (ExperienceScorer) Score(candidate *github.Candidate) (float64, string) {
	age := accountAgeScore(candidate.AccountAgeDays)
	stars := starScore(candidate.TotalStars())
	repos := repoQualityScore(candidate)

	score := age*0.4 + stars*0.3 + repos*0.3
	years := float64(candidate.AccountAgeDays) / 365.0
	reasoning := fmt.Sprintf(
		"%.1f years on GitHub (%.0f), %d stars across top repos (%.0f), %d visible repos (%.0f)",
		years, age, candidate.TotalStars(), stars, len(candidate.TopRepos), repos,
	)

	return score, reasoning
}

func accountAgeScore(days int) float64 {
	years := float64(days) / 365.0
	switch {
	case years < 1:
		return years * 30
	case years < 3:
		return 30 + (years-1)/2*30
	case years < 5:
		return 60 + (years-3)/2*20
	default:
		score := 80 + (years-5)*5
		if score > 100 {
			score = 100
		}
		return score
	}
}

func starScore(stars int) float64 {
	s := float64(stars)
	switch {
	case stars <= 10:
		return s / 10 * 25
	case stars <= 100:
		return 25 + (s-10)/90*25
	case stars <= 1000:
		return 50 + (s-100)/900*30
	default:
		score := 80 + (s-1000)/4000*20
		if score > 100 {
			score = 100
		}
		return score
	}
}

// repoQualityScore is a heuristic proxy: only the top five repos are visible,
// so a candidate with exactly five cannot be distinguished from one with five
// hundred. Five visible repos count as "at least moderate" and average star
// quality scales the rest. A documented approximation inherited from the data
// source's truncation.
func repoQualityScore(candidate *github.Candidate) float64 {
	visible := len(candidate.TopRepos)
	if visible == 0 {
		return 0
	}

	base := float64(visible) * 10
	if visible >= github.MaxTopRepos {
		base = 50
	}

	avgStars := float64(candidate.TotalStars()) / float64(visible)
	bonus := avgStars
	if bonus > 50 {
		bonus = 50
	}

	score := base + bonus
	if score > 100 {
		score = 100
	}
	return score
}

// ActivityScorer measures current engagement: followers (40%), contribution
// count (40%) and visible repo count (20%). It shares inputs with
// ExperienceScorer but answers a different question, so the bands differ.
type ActivityScorer struct{}

// Score returns the 0-100 activity score and a reasoning string.
func (ActivityScorer) Score(candidate *github.Candidate) (float64, string) {
	followers := followerScore(candidate.Followers)
	contributions := contributionScore(candidate.Contributions)
	repos := visibleRepoScore(len(candidate.TopRepos))

	score := followers*0.4 + contributions*0.4 + repos*0.2
	reasoning := fmt.Sprintf(
		"%d followers (%.0f), %d contributions (%.0f), %d visible repos (%.0f)",
		candidate.Followers, followers, candidate.Contributions, contributions, len(candidate.TopRepos), repos,
	)

	return score, reasoning
}

func followerScore(followers int) float64 {
	f := float64(followers)
	switch {
	case followers <= 10:
		return f / 10 * 20
	case followers <= 100:
		return 20 + (f-10)/90*30
	case followers <= 1000:
		return 50 + (f-100)/900*30
	default:
		score := 80 + (f-1000)/4000*20
		if score > 100 {
			score = 100
		}
		return score
	}
}

func contributionScore(contributions int) float64 {
	c := float64(contributions)
	switch {
	case contributions <= 0:
		return 0
	case contributions <= 100:
		return c / 100 * 30
	case contributions <= 500:
		return 30 + (c-100)/400*30
	case contributions <= 2000:
		return 60 + (c-500)/1500*25
	default:
		score := 85 + (c-2000)/2000*15
		if score > 100 {
			score = 100
		}
		return score
	}
}

func visibleRepoScore(visible int) float64 {
	score := float64(visible) * 20
	if score > 100 {
		score = 100
	}
	return score
}

// DomainScorer scores repository relevance to the job's domain via the
// injected assessor. It fails closed: any assessment failure scores zero with
// the failure recorded in the reasoning, never an error.
type DomainScorer struct {
	assessor ai.DomainAssessor
	logger   *zap.Logger
}

// NewDomainScorer creates the scorer. A nil assessor is allowed and scores
// every candidate zero.
func NewDomainScorer(assessor ai.DomainAssessor, logger *zap.Logger) *DomainScorer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DomainScorer{assessor: assessor, logger: logger}
}

// Score returns relevant/total*100 for the candidate's repos against the
// domain.
func (s *DomainScorer) Score(ctx context.Context, domain string, candidate *github.Candidate) (float64, string) {
	if domain == "" {
		return 0, "no domain specified"
	}
	if len(candidate.TopRepos) == 0 {
		return 0, "no repositories to assess"
	}
	if s.assessor == nil {
		return 0, "domain assessment unavailable"
	}

	descriptions := make([]string, 0, len(candidate.TopRepos))
	for _, repo := range candidate.TopRepos {
		descriptions = append(descriptions, fmt.Sprintf("%s: %s", repo.Name, repo.Description))
	}

	assessment, err := s.assessor.AssessDomain(ctx, domain, descriptions)
	if err != nil {
		s.logger.Warn("domain assessment failed",
			zap.String("username", candidate.Username),
			zap.Error(err),
		)
		return 0, fmt.Sprintf("domain assessment failed: %v", err)
	}

	if assessment.TotalRepoCount == 0 {
		return 0, assessment.Reasoning
	}

	score := float64(assessment.RelevantRepoCount) / float64(assessment.TotalRepoCount) * 100.0
	return score, assessment.Reasoning
}
