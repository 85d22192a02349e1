// Package chat answers budgeting questions. The default responder is a
// fixed keyword lookup; a chat-completions backend can replace it.
package chat

import (
	"context"
	"strings"

	"budgetit-server/src/logger"

	"go.uber.org/zap"
)

// Responder produces a reply to one user message.
type Responder interface {
	Respond(ctx context.Context, message string) (string, error)
	// Name labels the backend in logs and metrics.
	Name() string
}

type cannedReply struct {
	keyword string
	reply   string
}

// Checked in order; the first keyword found wins.
var cannedReplies = []cannedReply{
	{"food", "Based on your spending patterns, you've spent ₹8,400 on food this week. Consider meal prep to save 30% on food costs!"},
	{"laptop", "To save for a laptop, I recommend setting aside ₹3,500 weekly. With your current spending, you could afford a ₹56,000 laptop in 16 weeks."},
	{"budget", "Your current weekly budget utilization is 85%. You're doing great! Consider reducing entertainment expenses by 10% to boost savings."},
}

const defaultReply = "I'm here to help with your budgeting needs! Ask me about your expenses, savings goals, or budget optimization."

// StaticLookup answers from a fixed table of canned replies.
type StaticLookup struct{}

func (StaticLookup) Name() string { return "static" }

func (StaticLookup) Respond(_ context.Context, message string) (string, error) {
	lower := strings.ToLower(message)
	for _, c := range cannedReplies {
		if strings.Contains(lower, c.keyword) {
			return c.reply, nil
		}
	}
	return defaultReply, nil
}

// Fallback answers from primary and falls back to secondary when primary
// fails or returns an empty reply.
type Fallback struct {
	primary   Responder
	secondary Responder
}

func WithFallback(primary, secondary Responder) *Fallback {
	return &Fallback{primary: primary, secondary: secondary}
}

func (f *Fallback) Name() string { return f.primary.Name() }

func (f *Fallback) Respond(ctx context.Context, message string) (string, error) {
	reply, _, err := f.RespondWithSource(ctx, message)
	return reply, err
}

// RespondWithSource also reports which backend produced the reply.
func (f *Fallback) RespondWithSource(ctx context.Context, message string) (string, string, error) {
	reply, err := f.primary.Respond(ctx, message)
	if err == nil && strings.TrimSpace(reply) != "" {
		return reply, f.primary.Name(), nil
	}
	if err != nil {
		logger.Get().Warn("chat backend failed, using fallback",
			zap.String("backend", f.primary.Name()),
			zap.Error(err),
		)
	}
	reply, err = f.secondary.Respond(ctx, message)
	return reply, f.secondary.Name(), err
}
