package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/qcpilot/qcpilot/internal/session"
)

type analysisRequest struct {
	Content      string `json:"content"`
	AnalysisType string `json:"analysis_type"`
	ProjectID    string `json:"project_id"`
}

func (r analysisRequest) projectID() uuid.UUID {
	id, err := uuid.Parse(r.ProjectID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// analyzeRating runs the one-shot rating analysis over submitted content.
func (s *Server) analyzeRating(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := decodeJSON(r, &req); err != nil || req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	analysisType := req.AnalysisType
	if analysisType == "" {
		analysisType = session.AnalysisTypeRater
	}

	res := s.analyzer.AnalyzeRating(r.Context(), req.Content,
		systemPromptFor(analysisType),
		s.resolveGuidelines(r.Context(), req.projectID(), analysisType),
	)
	respondJSON(w, http.StatusOK, res)
}

// analyzeDetailed runs the detailed rater/QC analysis. This is the path
// that honors confidence statements in the completion text.
func (s *Server) analyzeDetailed(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := decodeJSON(r, &req); err != nil || req.Content == "" {
		respondError(w, http.StatusBadRequest, "content is required")
		return
	}

	analysisType := req.AnalysisType
	if analysisType != session.AnalysisTypeRater && analysisType != session.AnalysisTypeQC {
		analysisType = session.AnalysisTypeQC
	}

	res := s.analyzer.AnalyzeDetailed(r.Context(), req.Content, analysisType,
		systemPromptFor(analysisType),
		s.resolveGuidelines(r.Context(), req.projectID(), analysisType),
	)
	respondJSON(w, http.StatusOK, res)
}
