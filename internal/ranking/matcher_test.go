package ranking

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/octosourcer/octosourcer/internal/ai"

	"go.uber.org/zap"
)

type fakeSemantic struct {
	result *ai.SkillMatch
	err    error
	calls  [][]string
}

func (f *fakeSemantic) MatchSkills(_ context.Context, requiredSkills, _ []string) (*ai.SkillMatch, error) {
	f.calls = append(f.calls, requiredSkills)
	return f.result, f.err
}

func TestMatchExactPhaseSkipsSemantic(t *testing.T) {
	semantic := &fakeSemantic{}
	m := NewSkillMatcher(semantic, zap.NewNop())

	matched, missing := m.Match(context.Background(), []string{"python"}, []string{"Python", "Go"})

	if !reflect.DeepEqual(matched, []string{"python"}) || len(missing) != 0 {
		t.Fatalf("got matched %v, missing %v", matched, missing)
	}
	if len(semantic.calls) != 0 {
		t.Fatal("semantic matcher must not be called when the exact phase covers everything")
	}
}

func TestMatchSemanticHandlesRemainder(t *testing.T) {
	semantic := &fakeSemantic{result: &ai.SkillMatch{Matched: []string{"Kubernetes"}}}
	m := NewSkillMatcher(semantic, zap.NewNop())

	matched, missing := m.Match(context.Background(),
		[]string{"Go", "Kubernetes", "Rust"},
		[]string{"go", "container orchestration"},
	)

	if !reflect.DeepEqual(matched, []string{"Go", "Kubernetes"}) {
		t.Fatalf("unexpected matched: %v", matched)
	}
	if !reflect.DeepEqual(missing, []string{"Rust"}) {
		t.Fatalf("unexpected missing: %v", missing)
	}

	// Only the remainder goes to the semantic phase.
	if len(semantic.calls) != 1 || !reflect.DeepEqual(semantic.calls[0], []string{"Kubernetes", "Rust"}) {
		t.Fatalf("unexpected semantic calls: %v", semantic.calls)
	}
}

func TestMatchIgnoresHallucinatedSkills(t *testing.T) {
	semantic := &fakeSemantic{result: &ai.SkillMatch{Matched: []string{"Blockchain", "Rust"}}}
	m := NewSkillMatcher(semantic, zap.NewNop())

	matched, missing := m.Match(context.Background(), []string{"Rust"}, []string{"systems programming"})

	if !reflect.DeepEqual(matched, []string{"Rust"}) {
		t.Fatalf("unexpected matched: %v", matched)
	}
	if len(missing) != 0 {
		t.Fatalf("unexpected missing: %v", missing)
	}
}

func TestMatchFailsClosedOnSemanticError(t *testing.T) {
	semantic := &fakeSemantic{err: errors.New("model unavailable")}
	m := NewSkillMatcher(semantic, zap.NewNop())

	matched, missing := m.Match(context.Background(), []string{"Go", "Rust"}, []string{"go"})

	if !reflect.DeepEqual(matched, []string{"Go"}) {
		t.Fatalf("unexpected matched: %v", matched)
	}
	if !reflect.DeepEqual(missing, []string{"Rust"}) {
		t.Fatalf("unexpected missing: %v", missing)
	}
}

func TestMatchWithoutSemanticMatcher(t *testing.T) {
	m := NewSkillMatcher(nil, zap.NewNop())

	matched, missing := m.Match(context.Background(), []string{"Go", "Rust"}, []string{"go"})

	if !reflect.DeepEqual(matched, []string{"Go"}) || !reflect.DeepEqual(missing, []string{"Rust"}) {
		t.Fatalf("got matched %v, missing %v", matched, missing)
	}
}

func TestMatchEmptyCandidateSkills(t *testing.T) {
	semantic := &fakeSemantic{result: &ai.SkillMatch{Matched: []string{"Go"}}}
	m := NewSkillMatcher(semantic, zap.NewNop())

	matched, missing := m.Match(context.Background(), []string{"Go"}, nil)

	if len(matched) != 0 || !reflect.DeepEqual(missing, []string{"Go"}) {
		t.Fatalf("got matched %v, missing %v", matched, missing)
	}
	if len(semantic.calls) != 0 {
		t.Fatal("semantic matcher must not be called without candidate skills")
	}
}
