// Package ensemble combines skill, location and activity signals into a
// single 0-1 candidate score with a fixed weight vector.
package ensemble

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/octosourcer/octosourcer/internal/github"
	"github.com/octosourcer/octosourcer/internal/match"
	"github.com/octosourcer/octosourcer/internal/skills"
	"go.uber.org/zap"
)

// Component keys in the signal-contribution breakdown.
const (
	ContributionSkillMatch    = "skill_match"
	ContributionLocationMatch = "location_match"
	ContributionActivity      = "activity"
)

// Weights is the ensemble weight vector. The components should sum to 1.0;
// unlike the ranking engine this is a constructor-time warning rather than a
// hard failure.
type Weights struct {
	SkillMatch    float64
	LocationMatch float64
	Activity      float64
}

// DefaultWeights returns the fixed production weight vector.
func DefaultWeights() Weights {
	return Weights{SkillMatch: 0.5, LocationMatch: 0.3, Activity: 0.2}
}

func (w Weights) sum() float64 { return w.SkillMatch + w.LocationMatch + w.Activity }

// CandidateScore is the scored outcome for one candidate. The signal
// contributions record each weighted term and sum to the total.
type CandidateScore struct {
	Username            string
	TotalScore          float64
	SkillMatchScore     float64
	LocationMatchScore  float64
	ActivityScore       float64
	DetectedSkills      []*skills.SkillConfidence
	SignalContributions map[string]float64
}

// Scorer scores candidates against required skills and a search location.
type Scorer struct {
	weights  Weights
	parser   *match.LocationParser
	detector *skills.Detector
	logger   *zap.Logger
}

// NewScorer wires the scorer with its collaborators. A weight vector that
// does not sum to 1.0 (within 0.01) is logged and kept as configured.
func NewScorer(parser *match.LocationParser, detector *skills.Detector, weights Weights, logger *zap.Logger) *Scorer {
	if logger == nil {
		logger = zap.NewNop()
	}

	if math.Abs(weights.sum()-1.0) > 0.01 {
		logger.Warn("ensemble weights do not sum to 1.0",
			zap.Float64("skill_match", weights.SkillMatch),
			zap.Float64("location_match", weights.LocationMatch),
			zap.Float64("activity", weights.Activity),
			zap.Float64("sum", weights.sum()),
		)
	}

	return &Scorer{
		weights:  weights,
		parser:   parser,
		detector: detector,
		logger:   logger,
	}
}

// ScoreCandidate computes the weighted ensemble score. A sparse candidate is
// never an error; missing evidence scores zero on the affected component.
func (s *Scorer) ScoreCandidate(candidate *github.Candidate, requiredSkills []string, searchLocation *match.LocationHierarchy) (*CandidateScore, error) {
	if candidate == nil {
		return nil, errors.New("candidate is required")
	}

	detected := s.detector.Detect(candidate.Bio, candidate.TopRepos, candidate.StarredTopics)

	skillScore := s.skillMatchScore(detected, requiredSkills)
	locationScore := s.locationMatchScore(candidate, searchLocation)
	activityScore := activityScore(candidate)

	contributions := map[string]float64{
		ContributionSkillMatch:    skillScore * s.weights.SkillMatch,
		ContributionLocationMatch: locationScore * s.weights.LocationMatch,
		ContributionActivity:      activityScore * s.weights.Activity,
	}

	total := 0.0
	for _, contribution := range contributions {
		total += contribution
	}

	return &CandidateScore{
		Username:            candidate.Username,
		TotalScore:          total,
		SkillMatchScore:     skillScore,
		LocationMatchScore:  locationScore,
		ActivityScore:       activityScore,
		DetectedSkills:      detected,
		SignalContributions: contributions,
	}, nil
}

// RankCandidates scores every candidate, drops the ones below minScore and
// orders the rest by total score descending. Ties break on ascending username
// so identical inputs always produce identical order. This deliberately
// differs from the ranking engine, which breaks ties on follower count.
func (s *Scorer) RankCandidates(candidates []*github.Candidate, requiredSkills []string, searchLocation *match.LocationHierarchy, minScore float64) []*CandidateScore {
	scored := make([]*CandidateScore, 0, len(candidates))
	for _, candidate := range candidates {
		score, err := s.ScoreCandidate(candidate, requiredSkills, searchLocation)
		if err != nil {
			s.logger.Warn("skipping candidate", zap.Error(err))
			continue
		}
		if score.TotalScore < minScore {
			continue
		}
		scored = append(scored, score)
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].TotalScore != scored[j].TotalScore {
			return scored[i].TotalScore > scored[j].TotalScore
		}
		return scored[i].Username < scored[j].Username
	})

	return scored
}

// skillMatchScore multiplies coverage of the required skills by the average
// confidence of the matched ones, so breadth and depth both matter. With no
// required skills it degrades to the average confidence of everything
// detected.
func (s *Scorer) skillMatchScore(detected []*skills.SkillConfidence, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		if len(detected) == 0 {
			return 0.0
		}
		sum := 0.0
		for _, skill := range detected {
			sum += skill.Confidence
		}
		return sum / float64(len(detected))
	}

	byName := make(map[string]*skills.SkillConfidence, len(detected))
	for _, skill := range detected {
		byName[strings.ToLower(skill.Skill)] = skill
	}

	matchedCount := 0
	confidenceSum := 0.0
	for _, required := range requiredSkills {
		canonical := strings.ToLower(s.detector.Aliases().NormalizeSkill(required))
		if skill, ok := byName[canonical]; ok {
			matchedCount++
			confidenceSum += skill.Confidence
		}
	}

	if matchedCount == 0 {
		return 0.0
	}

	coverage := float64(matchedCount) / float64(len(requiredSkills))
	avgConfidence := confidenceSum / float64(matchedCount)

	score := coverage * avgConfidence
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// locationMatchScore returns the hierarchical match confidence directly; the
// tier values already encode how specific the match is. No search constraint,
// or a remote search, matches every candidate fully.
func (s *Scorer) locationMatchScore(candidate *github.Candidate, searchLocation *match.LocationHierarchy) float64 {
	if searchLocation == nil || searchLocation.MatchedVia == match.ViaRemote {
		return 1.0
	}

	candidateLocation, err := s.parser.ParseLocation(candidate.Location)
	if err != nil {
		s.logger.Warn("parsing candidate location failed",
			zap.String("username", candidate.Username),
			zap.String("location", candidate.Location),
			zap.Error(err),
		)
		return 0.0
	}

	_, confidence := s.parser.HierarchicalMatch(searchLocation, candidateLocation)
	return confidence
}

// activityScore blends repo count (50%, linear to 100), followers (30%,
// linear to 1000) and account recency (20%).
func activityScore(candidate *github.Candidate) float64 {
	repoScore := float64(candidate.PublicRepos) / 100.0
	if repoScore > 1.0 {
		repoScore = 1.0
	}

	followerScore := float64(candidate.Followers) / 1000.0
	if followerScore > 1.0 {
		followerScore = 1.0
	}

	return repoScore*0.5 + followerScore*0.3 + recencyScore(candidate.AccountAgeDays)*0.2
}

// recencyScore rewards newer accounts: full marks under a year, a linear
// decay to 0.8 through year five, then a slower decay with a 0.5 floor.
func recencyScore(accountAgeDays int) float64 {
	years := float64(accountAgeDays) / 365.0
	switch {
	case years < 1:
		return 1.0
	case years <= 5:
		return 1.0 - 0.2*(years-1)/4
	default:
		score := 0.8 - 0.05*(years-5)
		if score < 0.5 {
			score = 0.5
		}
		return score
	}
}
