package outreach

import (
	"context"
	"errors"
	"testing"

	"github.com/octosourcer/octosourcer/internal/ai"
	"github.com/octosourcer/octosourcer/internal/github"
	"github.com/octosourcer/octosourcer/internal/job"
	"github.com/octosourcer/octosourcer/internal/ranking"

	"go.uber.org/zap"
)

type fakeWriter struct {
	text     string
	err      error
	requests []ai.OutreachRequest
}

func (f *fakeWriter) WriteOutreach(_ context.Context, req ai.OutreachRequest) (string, error) {
	f.requests = append(f.requests, req)
	return f.text, f.err
}

func rankedCandidate(username string, rank int) *ranking.RankedCandidate {
	return &ranking.RankedCandidate{
		Candidate: &github.Candidate{
			Username: username,
			TopRepos: []github.Repository{{Name: username + "-repo"}},
		},
		Rank: rank,
		Breakdown: ranking.ScoreBreakdown{
			MatchedSkills: []string{"Go"},
		},
	}
}

func TestForCandidatesGeneratesMessages(t *testing.T) {
	writer := &fakeWriter{text: "personalized hello"}
	g := New(writer, zap.NewNop(), "")

	requirement := &job.Requirement{Title: "Backend Engineer", Domain: "fintech"}
	ranked := []*ranking.RankedCandidate{
		rankedCandidate("alice", 1),
		rankedCandidate("bob", 2),
		rankedCandidate("carol", 3),
	}

	messages := g.ForCandidates(context.Background(), requirement, ranked, 2)

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	for i, message := range messages {
		if message.Fallback {
			t.Fatalf("message %d unexpectedly used the fallback", i)
		}
		if message.Text != "personalized hello" {
			t.Fatalf("unexpected text: %q", message.Text)
		}
	}

	if len(writer.requests) != 2 {
		t.Fatalf("expected 2 writer calls, got %d", len(writer.requests))
	}
	first := writer.requests[0]
	if first.Username != "alice" || first.JobTitle != "Backend Engineer" || first.TopRepoName != "alice-repo" {
		t.Fatalf("unexpected request: %+v", first)
	}
}

func TestForCandidatesFallsBackOnError(t *testing.T) {
	writer := &fakeWriter{err: errors.New("model unavailable")}
	g := New(writer, zap.NewNop(), "custom fallback")

	messages := g.ForCandidates(context.Background(), &job.Requirement{}, []*ranking.RankedCandidate{
		rankedCandidate("alice", 1),
	}, 1)

	if len(messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(messages))
	}
	if !messages[0].Fallback || messages[0].Text != "custom fallback" {
		t.Fatalf("unexpected message: %+v", messages[0])
	}
}

func TestForCandidatesNilWriter(t *testing.T) {
	g := New(nil, zap.NewNop(), "")

	messages := g.ForCandidates(context.Background(), &job.Requirement{}, []*ranking.RankedCandidate{
		rankedCandidate("alice", 1),
	}, 0)

	if len(messages) != 1 || !messages[0].Fallback {
		t.Fatalf("expected the fallback for every candidate, got %+v", messages)
	}
	if messages[0].Text != defaultFallbackMessage {
		t.Fatalf("expected the default fallback text, got %q", messages[0].Text)
	}
}
