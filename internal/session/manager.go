package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/qcpilot/qcpilot/internal/interpret"
)

// Manager holds live chat sessions in memory. Sessions are independent;
// the map is the only shared state.
type Manager struct {
	provider Provider
	interp   *interpret.Interpreter
	logger   *slog.Logger
	timeout  time.Duration

	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
}

func NewManager(provider Provider, interp *interpret.Interpreter, logger *slog.Logger, timeout time.Duration) *Manager {
	return &Manager{
		provider: provider,
		interp:   interp,
		logger:   logger,
		timeout:  timeout,
		sessions: make(map[uuid.UUID]*Session),
	}
}

// Create starts a new session and registers it.
func (m *Manager) Create() *Session {
	s := New(m.provider, m.interp, m.logger, m.timeout)
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get returns the session with the given id, or nil.
func (m *Manager) Get(id uuid.UUID) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[id]
}
