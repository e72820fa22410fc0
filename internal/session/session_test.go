package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/qcpilot/qcpilot/internal/interpret"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubProvider returns a canned completion or error and records prompts.
type stubProvider struct {
	reply   string
	err     error
	prompts []string
}

func (p *stubProvider) Generate(ctx context.Context, prompt string) (string, error) {
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

func fixedRand(n int) int { return 0 }

func newTestSession(p Provider) *Session {
	return New(p, interpret.NewWithRand(fixedRand), discardLogger(), 5*time.Second)
}

func TestAppendUserTurn(t *testing.T) {
	s := newTestSession(&stubProvider{})

	turns := s.AppendUserTurn("hello")
	if len(turns) != 1 {
		t.Fatalf("expected 1 turn, got %d", len(turns))
	}
	if turns[0].Role != RoleUser || turns[0].Text != "hello" {
		t.Errorf("unexpected turn %+v", turns[0])
	}
	if turns[0].Interpretation != nil {
		t.Error("user turns must not carry an interpretation")
	}
	if turns[0].CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestRequestAssistantTurn_Success(t *testing.T) {
	p := &stubProvider{reply: "Based on the guidelines, this looks compliant with policy."}
	s := newTestSession(p)

	s.AppendUserTurn("is this review ok?")
	turn := s.RequestAssistantTurn(context.Background(), Context{
		SystemPrompt: RaterSystemPrompt,
		Guidelines:   "QC rules apply here.",
	})

	if turn.Role != RoleAssistant {
		t.Errorf("expected assistant role, got %q", turn.Role)
	}
	if turn.Text != p.reply {
		t.Errorf("expected raw completion as text, got %q", turn.Text)
	}
	if turn.Interpretation == nil {
		t.Fatal("assistant turn must carry an interpretation")
	}
	// Default-confidence path with pinned rand.
	if turn.Interpretation.Confidence != 85 {
		t.Errorf("expected confidence 85, got %d", turn.Interpretation.Confidence)
	}
	// "guidelines" in text and "QC" in guidelines both attribute sources.
	joined := strings.Join(turn.Interpretation.Sources, "|")
	if !strings.Contains(joined, "QC Flagging Rules v3.0") {
		t.Errorf("expected QC source, got %v", turn.Interpretation.Sources)
	}

	if len(s.Turns()) != 2 {
		t.Errorf("expected 2 turns in transcript, got %d", len(s.Turns()))
	}
}

func TestRequestAssistantTurn_PromptShape(t *testing.T) {
	p := &stubProvider{reply: "ok"}
	s := newTestSession(p)

	s.AppendUserTurn("first question")
	s.RequestAssistantTurn(context.Background(), Context{
		SystemPrompt: "You are a QC assistant.",
		Guidelines:   "QC Flagging Rules require authenticity checks.",
	})

	if len(p.prompts) != 1 {
		t.Fatalf("expected 1 provider call, got %d", len(p.prompts))
	}
	prompt := p.prompts[0]

	if !strings.HasPrefix(prompt, "You are a QC assistant.") {
		t.Errorf("prompt must start with the system prompt:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Available Guidelines:\nQC Flagging Rules require authenticity checks.") {
		t.Errorf("prompt missing guidelines block:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Conversation History:\nUser: first question") {
		t.Errorf("prompt missing rendered history:\n%s", prompt)
	}
	if !strings.Contains(prompt, "Include confidence score and relevant sources") {
		t.Errorf("prompt missing closing instruction:\n%s", prompt)
	}
}

func TestRequestAssistantTurn_OmitsEmptyGuidelines(t *testing.T) {
	p := &stubProvider{reply: "ok"}
	s := newTestSession(p)

	s.AppendUserTurn("hi")
	s.RequestAssistantTurn(context.Background(), Context{SystemPrompt: "sys"})

	if strings.Contains(p.prompts[0], "Available Guidelines") {
		t.Errorf("guidelines block must be omitted when empty:\n%s", p.prompts[0])
	}
}

func TestRequestAssistantTurn_RendersAssistantTurnsInHistory(t *testing.T) {
	p := &stubProvider{reply: "second answer"}
	s := newTestSession(p)

	s.AppendUserTurn("q1")
	s.RequestAssistantTurn(context.Background(), Context{SystemPrompt: "sys"})
	s.AppendUserTurn("q2")
	s.RequestAssistantTurn(context.Background(), Context{SystemPrompt: "sys"})

	// The stub returned "second answer" for the first request too.
	last := p.prompts[len(p.prompts)-1]
	if !strings.Contains(last, "User: q1\nAssistant: second answer\nUser: q2") {
		t.Errorf("history not rendered as User:/Assistant: lines:\n%s", last)
	}
}

func TestRequestAssistantTurn_ProviderFailure(t *testing.T) {
	p := &stubProvider{err: errors.New("rate limited")}
	s := newTestSession(p)

	s.AppendUserTurn("hello")
	turn := s.RequestAssistantTurn(context.Background(), Context{SystemPrompt: "sys"})

	if turn.Text != ErrorTurnText {
		t.Errorf("expected fixed error text, got %q", turn.Text)
	}
	if turn.Interpretation == nil {
		t.Fatal("error turn must still carry an interpretation")
	}
	if turn.Interpretation.Confidence != 0 {
		t.Errorf("expected confidence 0, got %d", turn.Interpretation.Confidence)
	}
	if len(turn.Interpretation.Sources) != 0 {
		t.Errorf("expected empty sources, got %v", turn.Interpretation.Sources)
	}

	// The degraded turn is still appended to the transcript.
	if len(s.Turns()) != 2 {
		t.Errorf("expected 2 turns, got %d", len(s.Turns()))
	}
}

func TestManager_CreateAndGet(t *testing.T) {
	m := NewManager(&stubProvider{reply: "ok"}, interpret.NewWithRand(fixedRand), discardLogger(), time.Second)

	s := m.Create()
	if got := m.Get(s.ID); got != s {
		t.Errorf("expected to get back the created session")
	}

	other := m.Create()
	if other.ID == s.ID {
		t.Error("expected distinct session ids")
	}
}
