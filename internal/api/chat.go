package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/qcpilot/qcpilot/internal/guidelines"
	"github.com/qcpilot/qcpilot/internal/session"
	"github.com/qcpilot/qcpilot/internal/store"
)

func (s *Server) createSession(w http.ResponseWriter, r *http.Request) {
	sess := s.sessions.Create()
	s.logger.Info("chat session created", "session_id", sess.ID)
	respondJSON(w, http.StatusCreated, map[string]string{"session_id": sess.ID.String()})
}

func (s *Server) listSessionMessages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	sess := s.sessions.Get(id)
	if sess == nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID.String(),
		"messages":   sess.Turns(),
	})
}

type postMessageRequest struct {
	Message      string `json:"message"`
	UserID       string `json:"user_id"`
	ProjectID    string `json:"project_id"`
	AnalysisType string `json:"analysis_type"`
}

func (s *Server) postSessionMessage(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid session id")
		return
	}
	sess := s.sessions.Get(id)
	if sess == nil {
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	var req postMessageRequest
	if err := decodeJSON(r, &req); err != nil || req.Message == "" {
		respondError(w, http.StatusBadRequest, "message is required")
		return
	}

	projectID := uuid.Nil
	if req.ProjectID != "" {
		projectID, err = uuid.Parse(req.ProjectID)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid project id")
			return
		}
	}

	analysisType := req.AnalysisType
	if analysisType == "" {
		analysisType = session.AnalysisTypeQC
	}

	sess.AppendUserTurn(req.Message)
	turn := sess.RequestAssistantTurn(r.Context(), session.Context{
		SystemPrompt: systemPromptFor(analysisType),
		Guidelines:   s.resolveGuidelines(r.Context(), projectID, analysisType),
	})

	s.persistExchange(r.Context(), sess.ID, req, turn)

	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sess.ID.String(),
		"message":    turn,
	})
}

// persistExchange writes the user message and the assistant reply to the
// chat log. Persistence is best effort: a write failure never fails the
// request, the live transcript is in memory.
func (s *Server) persistExchange(ctx context.Context, sessionID uuid.UUID, req postMessageRequest, turn session.Turn) {
	if s.store == nil {
		return
	}

	userID := uuid.Nil
	if req.UserID != "" {
		if parsed, err := uuid.Parse(req.UserID); err == nil {
			userID = parsed
		}
	}
	var projectID *uuid.UUID
	if req.ProjectID != "" {
		if parsed, err := uuid.Parse(req.ProjectID); err == nil {
			projectID = &parsed
		}
	}

	if _, err := s.store.CreateChatMessage(ctx, store.ChatMessage{
		UserID:      userID,
		ProjectID:   projectID,
		SessionID:   sessionID,
		MessageType: "user",
		Message:     req.Message,
	}); err != nil {
		s.logger.Warn("failed to persist user message", "session_id", sessionID, "error", err)
	}

	msg := store.ChatMessage{
		UserID:      userID,
		ProjectID:   projectID,
		SessionID:   sessionID,
		MessageType: "ai",
		Message:     turn.Text,
	}
	if turn.Interpretation != nil {
		confidence := turn.Interpretation.Confidence
		msg.Confidence = &confidence
		msg.Sources = turn.Interpretation.Sources
	}
	if _, err := s.store.CreateChatMessage(ctx, msg); err != nil {
		s.logger.Warn("failed to persist ai message", "session_id", sessionID, "error", err)
	}
}

// resolveGuidelines prefers the organization's indexed knowledge-base
// document for the given project, falling back to the seed guidelines for
// the analysis type.
func (s *Server) resolveGuidelines(ctx context.Context, projectID uuid.UUID, analysisType string) string {
	_, seed := guidelines.ForAnalysisType(analysisType)
	if s.store == nil {
		return seed
	}

	orgID := uuid.Nil
	if projectID != uuid.Nil {
		if project, err := s.store.GetProject(ctx, projectID); err == nil {
			orgID = project.OrganizationID
		}
	}

	content, err := s.store.LatestIndexedContent(ctx, orgID)
	if err != nil {
		return seed
	}
	return content
}

func systemPromptFor(analysisType string) string {
	if analysisType == session.AnalysisTypeRater {
		return session.RaterSystemPrompt
	}
	return session.QCSystemPrompt
}
