package services

import (
	"context"
	"fmt"

	"budgetit-server/src/chat"
	"budgetit-server/src/metrics"
	"budgetit-server/src/models"
)

type ChatService struct {
	responder chat.Responder
	clock     Clock
}

type sourcedResponder interface {
	RespondWithSource(ctx context.Context, message string) (string, string, error)
}

func (s *ChatService) Respond(ctx context.Context, p models.Principal, message string) (*models.ChatReply, error) {
	if err := requirePrincipal(p); err != nil {
		return nil, err
	}

	var reply, source string
	var err error
	if sr, ok := s.responder.(sourcedResponder); ok {
		reply, source, err = sr.RespondWithSource(ctx, message)
	} else {
		reply, err = s.responder.Respond(ctx, message)
		source = s.responder.Name()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to generate chat reply: %w", err)
	}

	metrics.RecordChatReply(source)
	return &models.ChatReply{Response: reply, Timestamp: s.clock.now()}, nil
}
