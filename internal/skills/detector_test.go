package skills

import (
	"errors"
	"math"
	"testing"

	"github.com/octosourcer/octosourcer/internal/github"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	return NewDetector(loadTestAliases(t), 0, 0)
}

func findSkill(t *testing.T, detected []*SkillConfidence, name string) *SkillConfidence {
	t.Helper()
	for _, skill := range detected {
		if skill.Skill == name {
			return skill
		}
	}
	t.Fatalf("skill %q not detected in %d results", name, len(detected))
	return nil
}

func TestDetectDependencyGraphIsAuthoritative(t *testing.T) {
	d := newTestDetector(t)

	repos := []github.Repository{{
		Name:         "service",
		Stars:        10,
		Dependencies: []string{"django"},
		Topics:       []string{"django"},
	}}

	detected := d.Detect("", repos, nil)
	skill := findSkill(t, detected, "Django")

	// A dependency-graph hit pins the confidence to its own weight; weaker
	// corroborating signals never boost it.
	if skill.Confidence != 0.85 {
		t.Fatalf("expected confidence 0.85, got %v", skill.Confidence)
	}
	if !skill.PrimaryDetection {
		t.Fatal("expected a primary detection")
	}
	if len(skill.Signals) != 2 {
		t.Fatalf("expected both signals recorded, got %v", skill.Signals)
	}
}

func TestDetectEnsembleBoost(t *testing.T) {
	d := newTestDetector(t)

	repos := []github.Repository{{
		Name:      "service",
		Stars:     5,
		Languages: []string{"Go"},
	}}

	detected := d.Detect("", repos, []string{"golang"})
	skill := findSkill(t, detected, "Go")

	// repository_language (0.5) + starred_repos (0.35), boosted 1.15x for
	// the second corroborating signal.
	want := (0.5 + 0.35) * 1.15
	if math.Abs(skill.Confidence-want) > 1e-9 {
		t.Fatalf("expected confidence %v, got %v", want, skill.Confidence)
	}
	if skill.PrimaryDetection {
		t.Fatal("ensemble detection must not be primary")
	}
}

func TestDetectConfidenceCappedAtOne(t *testing.T) {
	d := newTestDetector(t)

	repos := []github.Repository{{
		Name:   "react-dashboard",
		Stars:  50,
		Topics: []string{"react"},
	}}

	detected := d.Detect("React developer", repos, []string{"react"})
	skill := findSkill(t, detected, "React")

	if skill.Confidence != 1.0 {
		t.Fatalf("expected the cap at 1.0, got %v", skill.Confidence)
	}
}

func TestDetectFiltersWeakEvidence(t *testing.T) {
	d := newTestDetector(t)

	// A lone starred-repo topic (0.35) stays below the minimum confidence.
	detected := d.Detect("", nil, []string{"kafka"})
	if len(detected) != 0 {
		t.Fatalf("expected no detections, got %d", len(detected))
	}
}

func TestDetectRepeatedTopicAccumulates(t *testing.T) {
	d := newTestDetector(t)

	repos := []github.Repository{
		{Name: "one", Stars: 3, Topics: []string{"rust"}},
		{Name: "two", Stars: 2, Topics: []string{"rust"}},
	}

	detected := d.Detect("", repos, nil)
	skill := findSkill(t, detected, "Rust")

	// Base 0.65 plus one 0.2 increment, single signal so no boost.
	if math.Abs(skill.Confidence-0.85) > 1e-9 {
		t.Fatalf("expected confidence 0.85, got %v", skill.Confidence)
	}
}

func TestDetectTruncatesToTopStarredRepos(t *testing.T) {
	d := NewDetector(loadTestAliases(t), 1, 0)

	repos := []github.Repository{
		{Name: "small", Stars: 1, Topics: []string{"kafka"}},
		{Name: "big", Stars: 100, Topics: []string{"rust"}},
	}

	detected := d.Detect("", repos, nil)
	if len(detected) != 1 || detected[0].Skill != "Rust" {
		t.Fatalf("expected only the top-starred repo to contribute, got %+v", detected)
	}
}

func TestDetectDeterministicOrdering(t *testing.T) {
	d := newTestDetector(t)

	repos := []github.Repository{{
		Name:         "poly",
		Stars:        1,
		Dependencies: []string{"golang", "python"},
	}}

	first := d.Detect("", repos, nil)
	second := d.Detect("", repos, nil)

	if len(first) != 2 || first[0].Skill != "Go" || first[1].Skill != "Python" {
		t.Fatalf("expected ties broken by name, got %+v", first)
	}
	for i := range first {
		if first[i].Skill != second[i].Skill || first[i].Confidence != second[i].Confidence {
			t.Fatal("repeated detection over the same profile must be identical")
		}
	}
}

func TestDetectBioMentions(t *testing.T) {
	d := newTestDetector(t)

	detected := d.Detect("Python and Django backend engineer", nil, nil)

	findSkill(t, detected, "Python")
	django := findSkill(t, detected, "Django")
	if django.SignalWeights[SignalBioMention] != 0.55 {
		t.Fatalf("unexpected bio weight: %v", django.SignalWeights)
	}
}

func TestNewSkillConfidenceInvariants(t *testing.T) {
	valid := map[string]float64{SignalBioMention: 0.55}
	primary := map[string]float64{SignalDependencyGraph: 0.85}

	if _, err := NewSkillConfidence("Go", 0.55, valid, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name       string
		skill      string
		confidence float64
		weights    map[string]float64
		primary    bool
	}{
		{name: "empty skill", skill: " ", confidence: 0.5, weights: valid},
		{name: "confidence above one", skill: "Go", confidence: 1.2, weights: valid},
		{name: "no signals", skill: "Go", confidence: 0.5, weights: nil},
		{name: "primary flag without dependency signal", skill: "Go", confidence: 0.5, weights: valid, primary: true},
		{name: "dependency signal without primary flag", skill: "Go", confidence: 0.85, weights: primary},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSkillConfidence(tt.skill, tt.confidence, tt.weights, tt.primary); !errors.Is(err, ErrInvalidSkillConfidence) {
				t.Fatalf("expected ErrInvalidSkillConfidence, got %v", err)
			}
		})
	}
}
