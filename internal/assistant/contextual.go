package assistant

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
)

// Source reads the rows the contextual backend quotes back to the model,
// already rendered as short plain-text blocks.
type Source interface {
	MyRoom(ctx context.Context, userID uuid.UUID) (string, error)
	WeeklyMenu(ctx context.Context) (string, error)
	Bookings(ctx context.Context, userID uuid.UUID) (string, error)
}

type section struct {
	title    string
	keywords []string
	personal bool
	load     func(ctx context.Context, src Source, userID uuid.UUID) (string, error)
}

var sections = []section{
	{
		title:    "Your room",
		keywords: []string{"room", "roommate"},
		personal: true,
		load: func(ctx context.Context, src Source, id uuid.UUID) (string, error) {
			return src.MyRoom(ctx, id)
		},
	},
	{
		title:    "Mess menu this week",
		keywords: []string{"mess", "food", "menu", "breakfast", "lunch", "dinner", "snacks"},
		load: func(ctx context.Context, src Source, _ uuid.UUID) (string, error) {
			return src.WeeklyMenu(ctx)
		},
	},
	{
		title:    "Your room assignments",
		keywords: []string{"booking", "assignment", "payment"},
		personal: true,
		load: func(ctx context.Context, src Source, id uuid.UUID) (string, error) {
			return src.Bookings(ctx, id)
		},
	},
}

type contextual struct {
	remote *Remote
	src    Source
}

// NewContextual looks for topic keywords in the question, loads the
// matching rows for the caller and sends them along with the system prompt.
func NewContextual(r *Remote, src Source) Assistant {
	return &contextual{remote: r, src: src}
}

func (c *contextual) Backend() string { return BackendContextual }

func (c *contextual) Reply(ctx context.Context, req Request) (string, error) {
	msg, err := normalize(req)
	if err != nil {
		return "", err
	}
	return c.remote.complete(ctx, c.prompt(ctx, strings.ToLower(msg), req.UserID), req)
}

// prompt appends one block per matched section. A section that fails to
// load is left out; the model still answers without it.
func (c *contextual) prompt(ctx context.Context, q string, userID uuid.UUID) string {
	var b strings.Builder
	b.WriteString(systemPrompt)
	for _, s := range sections {
		if s.personal && userID == uuid.Nil {
			continue
		}
		if !matchesAny(q, s.keywords) {
			continue
		}
		text, err := s.load(ctx, c.src, userID)
		if err != nil {
			log.Printf("[Assistant] load %q: %v", s.title, err)
			continue
		}
		if text == "" {
			continue
		}
		b.WriteString("\n\n")
		b.WriteString(s.title)
		b.WriteString(":\n")
		b.WriteString(text)
	}
	return b.String()
}

func matchesAny(q string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
