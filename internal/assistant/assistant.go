// Package assistant answers dormitory questions through one interface with
// a configurable backend: canned topics, a hosted chat completion API, or
// the hosted API with the caller's own rows appended as context.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Eursukkul/dormmate-service/config"
	"github.com/google/uuid"
)

const (
	BackendStatic     = "static"
	BackendRemote     = "remote"
	BackendContextual = "contextual"
)

// Apology replaces the reply when a backend fails.
const Apology = "Sorry, I couldn't reach the assistant right now. Please try again in a moment."

const systemPrompt = `You are DormMate's help desk assistant for a student dormitory.
Only answer questions about the dormitory: rooms and room assignments, the mess menu and meal timings, attendance check-in and check-out, complaints, hostel registration and fees.
If a question is about anything else, politely say you can only help with dormitory matters.
Keep answers short and friendly.`

var ErrEmptyMessage = errors.New("message is empty")

type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

type Request struct {
	Message string
	History []Message
	// UserID is uuid.Nil for anonymous callers.
	UserID uuid.UUID
}

type Assistant interface {
	Reply(ctx context.Context, req Request) (string, error)
	Backend() string
}

// New builds the backend named by cfg.Backend. src is only used by the
// contextual backend and may be nil otherwise.
func New(cfg config.ChatConfig, src Source) (Assistant, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendStatic, "":
		return NewStatic(), nil
	case BackendRemote:
		return NewRemote(cfg), nil
	case BackendContextual:
		if src == nil {
			return nil, fmt.Errorf("contextual assistant needs a data source")
		}
		return NewContextual(NewRemote(cfg), src), nil
	default:
		return nil, fmt.Errorf("unknown chat backend %q", cfg.Backend)
	}
}

func normalize(req Request) (string, error) {
	msg := strings.TrimSpace(req.Message)
	if msg == "" {
		return "", ErrEmptyMessage
	}
	return msg, nil
}
