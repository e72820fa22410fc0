// Package session sequences conversation turns with an AI assistant and
// attaches a heuristic interpretation to every assistant turn.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qcpilot/qcpilot/internal/interpret"
)

// Provider is the completion boundary. The live implementation is the
// Gemini client; tests substitute stubs.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ErrorTurnText is the fixed assistant message appended when the provider fails.
const ErrorTurnText = "Sorry, I encountered an error while processing your request. Please try again."

// Turn is one entry in a session transcript. Assistant turns always carry
// an interpretation; user turns never do.
type Turn struct {
	Role           string            `json:"role"`
	Text           string            `json:"text"`
	CreatedAt      time.Time         `json:"created_at"`
	Interpretation *interpret.Result `json:"interpretation,omitempty"`
}

// Context carries the grounding inputs for an assistant turn request.
type Context struct {
	SystemPrompt string
	Guidelines   string
}

// Session is an append-only transcript of user/assistant turns. Requests are
// not serialized against each other: concurrent completions land in arrival
// order. The mutex only keeps the slice itself safe.
type Session struct {
	ID       uuid.UUID
	provider Provider
	interp   *interpret.Interpreter
	logger   *slog.Logger
	timeout  time.Duration

	mu    sync.Mutex
	turns []Turn
}

func New(provider Provider, interp *interpret.Interpreter, logger *slog.Logger, timeout time.Duration) *Session {
	return &Session{
		ID:       uuid.New(),
		provider: provider,
		interp:   interp,
		logger:   logger,
		timeout:  timeout,
	}
}

// AppendUserTurn appends a user turn and returns a copy of the transcript.
func (s *Session) AppendUserTurn(text string) []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, Turn{
		Role:      RoleUser,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	return s.snapshotLocked()
}

// Turns returns a copy of the transcript.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() []Turn {
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// RequestAssistantTurn calls the provider with the conversation so far and
// appends the interpreted assistant turn. Provider failures are not
// propagated: the session degrades to a fixed error turn with zero
// confidence and no sources.
func (s *Session) RequestAssistantTurn(ctx context.Context, sc Context) Turn {
	prompt := buildChatPrompt(sc.SystemPrompt, sc.Guidelines, s.Turns())

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.provider.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("chat completion failed",
			"session_id", s.ID,
			"error", err,
		)
		return s.append(Turn{
			Role:      RoleAssistant,
			Text:      ErrorTurnText,
			CreatedAt: time.Now().UTC(),
			Interpretation: &interpret.Result{
				Suggestion: ErrorTurnText,
				Confidence: 0,
				Sources:    []string{},
			},
		})
	}

	// Chat responses use the always-random confidence path.
	res := s.interp.Interpret(raw, sc.Guidelines)
	return s.append(Turn{
		Role:           RoleAssistant,
		Text:           raw,
		CreatedAt:      time.Now().UTC(),
		Interpretation: &res,
	})
}

func (s *Session) append(turn Turn) Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turns = append(s.turns, turn)
	return turn
}
