package github

import (
	"reflect"
	"testing"
)

func TestNewCandidateOrdersAndTruncatesRepos(t *testing.T) {
	repos := []Repository{
		{Name: "tiny", Stars: 1},
		{Name: "huge", Stars: 500},
		{Name: "mid", Stars: 50},
		{Name: "big", Stars: 100},
		{Name: "small", Stars: 5},
		{Name: "medium", Stars: 70},
	}

	c := NewCandidate("dev", Candidate{TopRepos: repos})

	if len(c.TopRepos) != MaxTopRepos {
		t.Fatalf("expected %d repos, got %d", MaxTopRepos, len(c.TopRepos))
	}

	want := []string{"huge", "big", "medium", "mid", "small"}
	for i, name := range want {
		if c.TopRepos[i].Name != name {
			t.Fatalf("position %d: got %q, want %q", i, c.TopRepos[i].Name, name)
		}
	}

	if c.TotalStars() != 500+100+70+50+5 {
		t.Fatalf("unexpected total stars: %d", c.TotalStars())
	}
}

func TestNewCandidateFloorsNegativeCounters(t *testing.T) {
	c := NewCandidate("dev", Candidate{
		Followers:      -3,
		PublicRepos:    -1,
		AccountAgeDays: -100,
		Contributions:  -5,
		TopRepos:       []Repository{{Name: "r", Stars: -2, Forks: -1}},
	})

	if c.Followers != 0 || c.PublicRepos != 0 || c.AccountAgeDays != 0 || c.Contributions != 0 {
		t.Fatalf("negative counters not floored: %+v", c)
	}
	if c.TopRepos[0].Stars != 0 || c.TopRepos[0].Forks != 0 {
		t.Fatalf("negative repo counters not floored: %+v", c.TopRepos[0])
	}
}

func TestNewCandidateDeduplicatesLanguages(t *testing.T) {
	c := NewCandidate("dev", Candidate{
		Languages: []string{"Go", "go", " Python ", "", "Rust", "rust"},
	})

	if !reflect.DeepEqual(c.Languages, []string{"Go", "Python", "Rust"}) {
		t.Fatalf("unexpected languages: %v", c.Languages)
	}
}

func TestCandidatesFindByUsername(t *testing.T) {
	candidates := &Candidates{Items: []*Candidate{
		{Username: "Alice"},
		{Username: "bob"},
	}}

	if found := candidates.FindByUsername("alice"); found == nil || found.Username != "Alice" {
		t.Fatalf("expected a case-insensitive hit, got %+v", found)
	}
	if found := candidates.FindByUsername("carol"); found != nil {
		t.Fatalf("expected nil for an unknown username, got %+v", found)
	}
}

func TestCandidatesReportByLocation(t *testing.T) {
	candidates := &Candidates{Items: []*Candidate{
		{Username: "a", Location: "Berlin"},
		{Username: "b", Location: "Berlin"},
		{Username: "c", Location: "  "},
	}}

	report := candidates.ReportByLocation()

	if !reflect.DeepEqual(report["Berlin"], []string{"a", "b"}) {
		t.Fatalf("unexpected report: %v", report)
	}
	if !reflect.DeepEqual(report["(not set)"], []string{"c"}) {
		t.Fatalf("missing locations must be grouped: %v", report)
	}
}
