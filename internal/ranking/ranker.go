// Package ranking implements the 0-100 composite ranking engine: five
// independent scorers, a weighted total and a deterministically ordered
// ranked list.
package ranking

import (
	"context"
	"errors"
	"sort"

	"github.com/octosourcer/octosourcer/internal/github"
	"github.com/octosourcer/octosourcer/internal/job"
	"github.com/octosourcer/octosourcer/internal/skills"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultConcurrency = 4

// ScoreBreakdown explains a ranked candidate's component scores.
type ScoreBreakdown struct {
	MatchedSkills       []string
	MissingSkills       []string
	ExperienceReasoning string
	ActivityReasoning   string
	DomainReasoning     string
}

// RankedCandidate carries a candidate with its final rank and component
// scores. Fields are set once; the Ranker rebuilds instances rather than
// mutating them when assigning ranks.
type RankedCandidate struct {
	Candidate       *github.Candidate
	Rank            int
	TotalScore      float64
	SkillScore      float64
	ExperienceScore float64
	ActivityScore   float64
	DomainScore     float64
	Breakdown       ScoreBreakdown
}

// Ranker orchestrates the five scorers into a weighted composite and a
// ranked list. Per-candidate scoring is independent, so it fans out across a
// bounded worker group.
type Ranker struct {
	weights     ScoreWeights
	matcher     *SkillMatcher
	domain      *DomainScorer
	detector    *skills.Detector
	skill       SkillScorer
	experience  ExperienceScorer
	activity    ActivityScorer
	logger      *zap.Logger
	concurrency int
}

// NewRanker wires the ranking engine. The detector is optional; when present
// its detected skill names extend the candidate's language list for skill
// matching.
func NewRanker(weights ScoreWeights, matcher *SkillMatcher, domain *DomainScorer, detector *skills.Detector, logger *zap.Logger, concurrency int) *Ranker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	if matcher == nil {
		matcher = NewSkillMatcher(nil, logger)
	}
	if domain == nil {
		domain = NewDomainScorer(nil, logger)
	}

	return &Ranker{
		weights:     weights,
		matcher:     matcher,
		domain:      domain,
		detector:    detector,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Rank scores every candidate against the job, sorts by total score with
// follower count as the documented tie-breaker, and assigns ranks 1..N.
// A sparse or malformed candidate scores low rather than failing the batch;
// only whole-batch problems (nil inputs, cancellation) return an error.
func (r *Ranker) Rank(ctx context.Context, requirement *job.Requirement, candidates *github.Candidates) ([]*RankedCandidate, error) {
	if requirement == nil {
		return nil, errors.New("job requirement is required")
	}
	if candidates == nil {
		return nil, errors.New("candidates are required")
	}

	weights := r.weights
	if requirement.Domain == "" {
		weights = weights.withoutDomain()
	}

	results := make([]*RankedCandidate, candidates.Len())

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.concurrency)

	for i, candidate := range candidates.Items {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			results[i] = r.scoreCandidate(groupCtx, requirement, candidate, weights)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].TotalScore != results[j].TotalScore {
			return results[i].TotalScore > results[j].TotalScore
		}
		return results[i].Candidate.Followers > results[j].Candidate.Followers
	})

	// Rebuild with final ranks instead of mutating the scored values.
	ranked := make([]*RankedCandidate, len(results))
	for i, result := range results {
		withRank := *result
		withRank.Rank = i + 1
		ranked[i] = &withRank
	}

	r.logger.Info("ranking finished",
		zap.Int("candidates", len(ranked)),
		zap.Bool("domain_scoring", requirement.Domain != ""),
	)

	return ranked, nil
}

func (r *Ranker) scoreCandidate(ctx context.Context, requirement *job.Requirement, candidate *github.Candidate, weights ScoreWeights) *RankedCandidate {
	candidateSkills := r.candidateSkills(candidate)

	matched, missing := r.matcher.Match(ctx, requirement.RequiredSkills, candidateSkills)

	skillScore := r.skill.Score(matched, requirement.RequiredSkills)
	experienceScore, experienceReasoning := r.experience.Score(candidate)
	activityScore, activityReasoning := r.activity.Score(candidate)

	domainScore := 0.0
	domainReasoning := "no domain specified"
	if requirement.Domain != "" {
		domainScore, domainReasoning = r.domain.Score(ctx, requirement.Domain, candidate)
	}

	total := skillScore*weights.Skills +
		experienceScore*weights.Experience +
		activityScore*weights.Activity +
		domainScore*weights.Domain

	r.logger.Debug("candidate scored",
		zap.String("username", candidate.Username),
		zap.Float64("total", total),
		zap.Float64("skill", skillScore),
		zap.Float64("experience", experienceScore),
		zap.Float64("activity", activityScore),
		zap.Float64("domain", domainScore),
	)

	return &RankedCandidate{
		Candidate:       candidate,
		TotalScore:      total,
		SkillScore:      skillScore,
		ExperienceScore: experienceScore,
		ActivityScore:   activityScore,
		DomainScore:     domainScore,
		Breakdown: ScoreBreakdown{
			MatchedSkills:       matched,
			MissingSkills:       missing,
			ExperienceReasoning: experienceReasoning,
			ActivityReasoning:   activityReasoning,
			DomainReasoning:     domainReasoning,
		},
	}
}

// candidateSkills is the pool the matcher works against: repo languages plus
// detected skill names when a detector is wired in.
func (r *Ranker) candidateSkills(candidate *github.Candidate) []string {
	pool := make([]string, 0, len(candidate.Languages))
	pool = append(pool, candidate.Languages...)

	if r.detector != nil {
		for _, detection := range r.detector.Detect(candidate.Bio, candidate.TopRepos, candidate.StarredTopics) {
			if !containsFold(pool, detection.Skill) {
				pool = append(pool, detection.Skill)
			}
		}
	}

	return pool
}
