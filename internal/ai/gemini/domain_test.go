package gemini

import (
	"context"
	"testing"

	"go.uber.org/zap"
)

func TestAssessDomain(t *testing.T) {
	generator := &stubGenerator{
		response: `{"relevant_repo_count": 2, "reasoning": "two repos deal with payments"}`,
	}
	a := NewDomainAssessor(generator, zap.NewNop(), 0)

	assessment, err := a.AssessDomain(context.Background(), "fintech", []string{
		"payments: a payment gateway",
		"dotfiles: my dotfiles",
		"ledger: double-entry bookkeeping",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if assessment.RelevantRepoCount != 2 || assessment.TotalRepoCount != 3 {
		t.Fatalf("unexpected counts: %+v", assessment)
	}
	if assessment.Reasoning != "two repos deal with payments" {
		t.Fatalf("unexpected reasoning: %q", assessment.Reasoning)
	}
}

func TestAssessDomainEmptyDomain(t *testing.T) {
	a := NewDomainAssessor(&stubGenerator{}, zap.NewNop(), 0)

	if _, err := a.AssessDomain(context.Background(), "  ", []string{"x"}); err == nil {
		t.Fatal("expected an error for an empty domain")
	}
}

func TestAssessDomainNoRepositories(t *testing.T) {
	generator := &stubGenerator{}
	a := NewDomainAssessor(generator, zap.NewNop(), 0)

	assessment, err := a.AssessDomain(context.Background(), "fintech", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if assessment.RelevantRepoCount != 0 || assessment.TotalRepoCount != 0 {
		t.Fatalf("unexpected assessment: %+v", assessment)
	}
	if generator.calls != 0 {
		t.Fatal("no model call expected without repositories")
	}
}

func TestAssessDomainRejectsOutOfRangeCount(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "count above total", response: `{"relevant_repo_count": 5}`},
		{name: "negative count", response: `{"relevant_repo_count": -1}`},
		{name: "fractional count", response: `{"relevant_repo_count": 1.5}`},
		{name: "missing count", response: `{"reasoning": "unsure"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewDomainAssessor(&stubGenerator{response: tt.response}, zap.NewNop(), 0)
			if _, err := a.AssessDomain(context.Background(), "fintech", []string{"a", "b"}); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
