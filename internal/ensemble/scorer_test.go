package ensemble

import (
	"math"
	"testing"

	"github.com/octosourcer/octosourcer/internal/github"
	"github.com/octosourcer/octosourcer/internal/match"
	"github.com/octosourcer/octosourcer/internal/skills"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestScorer(t *testing.T, weights Weights, logger *zap.Logger) *Scorer {
	t.Helper()

	geo, err := match.LoadGeoData("")
	if err != nil {
		t.Fatalf("loading geo data: %v", err)
	}
	aliases, err := skills.LoadAliases("")
	if err != nil {
		t.Fatalf("loading aliases: %v", err)
	}

	return NewScorer(match.NewLocationParser(geo), skills.NewDetector(aliases, 0, 0), weights, logger)
}

func TestNewScorerWarnsOnBadWeights(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	newTestScorer(t, Weights{SkillMatch: 0.5, LocationMatch: 0.5, Activity: 0.5}, zap.New(core))

	if logs.FilterMessage("ensemble weights do not sum to 1.0").Len() != 1 {
		t.Fatal("expected a warning about the weight sum")
	}
}

func TestNewScorerAcceptsDefaultWeights(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	newTestScorer(t, DefaultWeights(), zap.New(core))

	if logs.Len() != 0 {
		t.Fatalf("unexpected warnings: %v", logs.All())
	}
}

func TestScoreCandidateNil(t *testing.T) {
	s := newTestScorer(t, DefaultWeights(), zap.NewNop())

	if _, err := s.ScoreCandidate(nil, nil, nil); err == nil {
		t.Fatal("expected an error for a nil candidate")
	}
}

func TestScoreCandidateComponents(t *testing.T) {
	s := newTestScorer(t, DefaultWeights(), zap.NewNop())

	candidate := &github.Candidate{
		Username:       "gopher",
		PublicRepos:    50,
		Followers:      500,
		AccountAgeDays: 3 * 365,
		TopRepos: []github.Repository{
			{Name: "svc", Stars: 10, Dependencies: []string{"golang"}},
		},
	}

	score, err := s.ScoreCandidate(candidate, []string{"golang", "rust"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// One of two required skills matched at dependency-graph confidence.
	wantSkill := 0.5 * 0.85
	if math.Abs(score.SkillMatchScore-wantSkill) > 1e-9 {
		t.Fatalf("skill score = %v, want %v", score.SkillMatchScore, wantSkill)
	}

	// No search constraint matches fully.
	if score.LocationMatchScore != 1.0 {
		t.Fatalf("location score = %v, want 1.0", score.LocationMatchScore)
	}

	wantActivity := 0.5*0.5 + 0.5*0.3 + 0.9*0.2
	if math.Abs(score.ActivityScore-wantActivity) > 1e-9 {
		t.Fatalf("activity score = %v, want %v", score.ActivityScore, wantActivity)
	}

	var total float64
	for _, contribution := range score.SignalContributions {
		total += contribution
	}
	if math.Abs(total-score.TotalScore) > 1e-9 {
		t.Fatalf("contributions sum to %v, total is %v", total, score.TotalScore)
	}
}

func TestScoreCandidateNoRequiredSkills(t *testing.T) {
	s := newTestScorer(t, DefaultWeights(), zap.NewNop())

	candidate := &github.Candidate{
		Username: "gopher",
		TopRepos: []github.Repository{
			{Name: "svc", Stars: 10, Dependencies: []string{"golang", "python"}},
		},
	}

	score, err := s.ScoreCandidate(candidate, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Average confidence of everything detected.
	if math.Abs(score.SkillMatchScore-0.85) > 1e-9 {
		t.Fatalf("skill score = %v, want 0.85", score.SkillMatchScore)
	}
}

func TestScoreCandidateLocation(t *testing.T) {
	s := newTestScorer(t, DefaultWeights(), zap.NewNop())

	geo, err := match.LoadGeoData("")
	if err != nil {
		t.Fatalf("loading geo data: %v", err)
	}
	parser := match.NewLocationParser(geo)

	search, err := parser.ParseLocation("Chennai, Tamil Nadu, India")
	if err != nil {
		t.Fatalf("parsing search location: %v", err)
	}
	remote, err := parser.ParseLocation("remote")
	if err != nil {
		t.Fatalf("parsing remote: %v", err)
	}

	tests := []struct {
		name     string
		location string
		search   *match.LocationHierarchy
		want     float64
	}{
		{name: "same city", location: "Madras", search: search, want: 1.0},
		{name: "same state", location: "Coimbatore, Tamil Nadu", search: search, want: 0.7},
		{name: "no overlap", location: "Paris", search: search, want: 0.0},
		{name: "remote search matches everyone", location: "Paris", search: remote, want: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := &github.Candidate{Username: "x", Location: tt.location}
			score, err := s.ScoreCandidate(candidate, nil, tt.search)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if score.LocationMatchScore != tt.want {
				t.Fatalf("location score = %v, want %v", score.LocationMatchScore, tt.want)
			}
		})
	}
}

func TestRankCandidatesOrderAndFilter(t *testing.T) {
	s := newTestScorer(t, DefaultWeights(), zap.NewNop())

	strong := func(username string) *github.Candidate {
		return &github.Candidate{
			Username:    username,
			PublicRepos: 100,
			Followers:   1000,
			TopRepos: []github.Repository{
				{Name: "svc", Stars: 10, Dependencies: []string{"golang"}},
			},
		}
	}

	candidates := []*github.Candidate{
		strong("beta"),
		strong("alpha"),
		{Username: "empty"},
	}

	ranked := s.RankCandidates(candidates, []string{"golang"}, nil, 0.5)

	if len(ranked) != 2 {
		t.Fatalf("expected the empty candidate filtered out, got %d results", len(ranked))
	}

	// Equal totals break ties on ascending username.
	if ranked[0].Username != "alpha" || ranked[1].Username != "beta" {
		t.Fatalf("unexpected order: %q, %q", ranked[0].Username, ranked[1].Username)
	}
}

func TestRecencyScore(t *testing.T) {
	tests := []struct {
		days int
		want float64
	}{
		{days: 100, want: 1.0},
		{days: 3 * 365, want: 0.9},
		{days: 5 * 365, want: 0.8},
		{days: 10 * 365, want: 0.55},
		{days: 30 * 365, want: 0.5},
	}

	for _, tt := range tests {
		if got := recencyScore(tt.days); math.Abs(got-tt.want) > 1e-9 {
			t.Fatalf("recencyScore(%d) = %v, want %v", tt.days, got, tt.want)
		}
	}
}
