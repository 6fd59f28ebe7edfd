package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Eursukkul/dormmate-service/config"
	"github.com/google/uuid"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic_Topics(t *testing.T) {
	a := NewStatic()
	cases := []struct {
		q    string
		want string
	}{
		{"What are the mess timings?", topics[0].answer},
		{"WHEN IS DINNER", topics[0].answer},
		{"what's on the menu", topics[1].answer},
		{"who is my roommate", topics[2].answer},
		{"how do I book a room", topics[3].answer},
		{"I will be late tonight", topics[4].answer},
		{"hi", topics[8].answer},
		{"tell me about this weather", fallback},
	}
	for _, tc := range cases {
		t.Run(tc.q, func(t *testing.T) {
			got, err := a.Reply(context.Background(), Request{Message: tc.q})
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStatic_Empty(t *testing.T) {
	_, err := NewStatic().Reply(context.Background(), Request{Message: "   "})
	assert.ErrorIs(t, err, ErrEmptyMessage)
}

// completionServer answers chat completions with reply and records the
// last request.
func completionServer(t *testing.T, reply string, status int) (*httptest.Server, *openai.ChatCompletionRequest) {
	t.Helper()
	var got openai.ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream failed","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(openai.ChatCompletionResponse{
			ID: "chatcmpl-1",
			Choices: []openai.ChatCompletionChoice{{
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: reply},
				FinishReason: openai.FinishReasonStop,
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &got
}

func chatConfig(baseURL string) config.ChatConfig {
	return config.ChatConfig{
		Backend:     BackendRemote,
		BaseURL:     baseURL + "/v1",
		APIKey:      "test-key",
		Model:       "llama-3.1-8b-instant",
		Temperature: 0.7,
		Timeout:     5 * time.Second,
	}
}

func TestRemote_Reply(t *testing.T) {
	srv, got := completionServer(t, "Breakfast is at 7.", http.StatusOK)
	a := NewRemote(chatConfig(srv.URL))

	reply, err := a.Reply(context.Background(), Request{
		Message: "When is breakfast?",
		History: []Message{{Role: "user", Content: "hello"}, {Role: "assistant", Content: "Hi!"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "Breakfast is at 7.", reply)
	assert.Equal(t, "llama-3.1-8b-instant", got.Model)
	assert.InDelta(t, 0.7, got.Temperature, 0.001)
	require.Len(t, got.Messages, 4)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, systemPrompt, got.Messages[0].Content)
	assert.Equal(t, openai.ChatMessageRoleAssistant, got.Messages[2].Role)
	assert.Equal(t, "When is breakfast?", got.Messages[3].Content)
}

func TestRemote_UpstreamError(t *testing.T) {
	srv, _ := completionServer(t, "", http.StatusInternalServerError)
	a := NewRemote(chatConfig(srv.URL))

	_, err := a.Reply(context.Background(), Request{Message: "hello"})

	assert.Error(t, err)
}

type fakeSource struct {
	room, menu, bookings string
	err                  error
	calls                []string
}

func (f *fakeSource) MyRoom(ctx context.Context, userID uuid.UUID) (string, error) {
	f.calls = append(f.calls, "room")
	return f.room, f.err
}
func (f *fakeSource) WeeklyMenu(ctx context.Context) (string, error) {
	f.calls = append(f.calls, "menu")
	return f.menu, nil
}
func (f *fakeSource) Bookings(ctx context.Context, userID uuid.UUID) (string, error) {
	f.calls = append(f.calls, "bookings")
	return f.bookings, nil
}

func TestContextual_AppendsMatchedSections(t *testing.T) {
	srv, got := completionServer(t, "You are in A-101.", http.StatusOK)
	src := &fakeSource{room: "Room A-101 on floor 1.", menu: "monday lunch: Dal, Rice"}
	a := NewContextual(NewRemote(chatConfig(srv.URL)), src)

	reply, err := a.Reply(context.Background(), Request{Message: "Which room am I in?", UserID: uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, "You are in A-101.", reply)
	assert.Equal(t, []string{"room"}, src.calls)
	system := got.Messages[0].Content
	assert.True(t, strings.HasPrefix(system, systemPrompt))
	assert.Contains(t, system, "Your room:\nRoom A-101 on floor 1.")
	assert.NotContains(t, system, "Mess menu")
}

func TestContextual_AnonymousSkipsPersonalRows(t *testing.T) {
	srv, got := completionServer(t, "ok", http.StatusOK)
	src := &fakeSource{room: "secret", menu: "monday lunch: Dal, Rice"}
	a := NewContextual(NewRemote(chatConfig(srv.URL)), src)

	_, err := a.Reply(context.Background(), Request{Message: "room and menu please"})

	require.NoError(t, err)
	assert.Equal(t, []string{"menu"}, src.calls)
	assert.NotContains(t, got.Messages[0].Content, "secret")
	assert.Contains(t, got.Messages[0].Content, "monday lunch: Dal, Rice")
}

func TestContextual_SourceErrorStillAnswers(t *testing.T) {
	srv, got := completionServer(t, "ok", http.StatusOK)
	src := &fakeSource{err: errors.New("db down")}
	a := NewContextual(NewRemote(chatConfig(srv.URL)), src)

	reply, err := a.Reply(context.Background(), Request{Message: "my room?", UserID: uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, "ok", reply)
	assert.Equal(t, systemPrompt, got.Messages[0].Content)
}

func TestNew_SelectsBackend(t *testing.T) {
	a, err := New(config.ChatConfig{Backend: "static"}, nil)
	require.NoError(t, err)
	assert.Equal(t, BackendStatic, a.Backend())

	a, err = New(chatConfig("http://localhost"), nil)
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, a.Backend())

	_, err = New(config.ChatConfig{Backend: BackendContextual}, nil)
	assert.Error(t, err)

	_, err = New(config.ChatConfig{Backend: "oracle"}, nil)
	assert.Error(t, err)
}
