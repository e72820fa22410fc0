package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one persisted conversation turn. Message types: user | ai | system.
type ChatMessage struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	ProjectID   *uuid.UUID     `json:"project_id,omitempty"`
	SessionID   uuid.UUID      `json:"session_id"`
	MessageType string         `json:"message_type"`
	Message     string         `json:"message"`
	Confidence  *int           `json:"confidence,omitempty"`
	Sources     []string       `json:"sources"`
	Metadata    map[string]any `json:"metadata"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ListChatMessages returns a session's transcript in creation order.
func (s *Store) ListChatMessages(ctx context.Context, sessionID uuid.UUID) ([]ChatMessage, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, project_id, session_id, message_type, message, confidence, sources, metadata, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("query chat messages: %w", err)
	}
	defer rows.Close()

	var messages []ChatMessage
	for rows.Next() {
		var m ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.ProjectID, &m.SessionID, &m.MessageType, &m.Message, &m.Confidence, &m.Sources, &m.Metadata, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan chat message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

func (s *Store) CreateChatMessage(ctx context.Context, m ChatMessage) (uuid.UUID, error) {
	id := uuid.New()
	if m.Sources == nil {
		m.Sources = []string{}
	}
	if m.Metadata == nil {
		m.Metadata = map[string]any{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_messages (id, user_id, project_id, session_id, message_type, message, confidence, sources, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now())`,
		id, m.UserID, m.ProjectID, m.SessionID, m.MessageType, m.Message, m.Confidence, m.Sources, m.Metadata,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert chat message: %w", err)
	}
	return id, nil
}
