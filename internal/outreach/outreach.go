// Package outreach turns ranked candidates into personalized outreach
// messages, with a fixed fallback when generation fails.
package outreach

import (
	"context"

	"github.com/octosourcer/octosourcer/internal/ai"
	"github.com/octosourcer/octosourcer/internal/job"
	"github.com/octosourcer/octosourcer/internal/ranking"
	"go.uber.org/zap"
)

const defaultFallbackMessage = "Hi! We came across your GitHub profile and think you could be a strong fit for a role we are hiring for. Would you be open to a short conversation?"

// Message is a generated outreach message for one candidate.
type Message struct {
	Username string
	Text     string
	// Fallback marks messages that used the static fallback text because
	// generation failed or was unavailable.
	Fallback bool
}

// Generator produces outreach messages for the top ranked candidates.
type Generator struct {
	writer   ai.OutreachWriter
	logger   *zap.Logger
	fallback string
}

// New creates a Generator. A nil writer always falls back; an empty fallback
// uses the built-in default.
func New(writer ai.OutreachWriter, logger *zap.Logger, fallback string) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if fallback == "" {
		fallback = defaultFallbackMessage
	}
	return &Generator{writer: writer, logger: logger, fallback: fallback}
}

// ForCandidates generates messages for the first topN ranked candidates.
// Generation failures never abort the batch; the affected candidate gets the
// fallback text.
func (g *Generator) ForCandidates(ctx context.Context, requirement *job.Requirement, ranked []*ranking.RankedCandidate, topN int) []Message {
	if topN <= 0 || topN > len(ranked) {
		topN = len(ranked)
	}

	messages := make([]Message, 0, topN)
	for _, candidate := range ranked[:topN] {
		messages = append(messages, g.forCandidate(ctx, requirement, candidate))
	}
	return messages
}

func (g *Generator) forCandidate(ctx context.Context, requirement *job.Requirement, ranked *ranking.RankedCandidate) Message {
	candidate := ranked.Candidate

	if g.writer == nil {
		return Message{Username: candidate.Username, Text: g.fallback, Fallback: true}
	}

	request := ai.OutreachRequest{
		JobTitle:      requirement.Title,
		Domain:        requirement.Domain,
		Username:      candidate.Username,
		Name:          candidate.Name,
		Bio:           candidate.Bio,
		MatchedSkills: ranked.Breakdown.MatchedSkills,
	}
	if len(candidate.TopRepos) > 0 {
		request.TopRepoName = candidate.TopRepos[0].Name
	}

	text, err := g.writer.WriteOutreach(ctx, request)
	if err != nil {
		g.logger.Warn("outreach generation failed, using fallback message",
			zap.String("username", candidate.Username),
			zap.Error(err),
		)
		return Message{Username: candidate.Username, Text: g.fallback, Fallback: true}
	}

	return Message{Username: candidate.Username, Text: text}
}
