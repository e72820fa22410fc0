package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/qcpilot/qcpilot/internal/events"
	"github.com/qcpilot/qcpilot/internal/store"
)

// mountEntityRoutes wires the CRUD surface over the QC entities. All routes
// assume the bearer auth middleware has already run.
func (s *Server) mountEntityRoutes(r chi.Router) {
	r.Route("/organizations", func(r chi.Router) {
		r.Get("/", s.listOrganizations)
		r.Post("/", s.createOrganization)
		r.Get("/{id}", s.getOrganization)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", s.listUsers)
		r.Post("/", s.createUser)
		r.Get("/{id}", s.getUser)
		r.Patch("/{id}/status", s.updateUserStatus)
	})
	r.Get("/raters", s.listRaters)

	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.listProjects)
		r.Post("/", s.createProject)
		r.Get("/{id}", s.getProject)
		r.Patch("/{id}/status", s.updateProjectStatus)
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.listTasks)
		r.Post("/", s.createTask)
		r.Get("/search", s.searchTasks)
		r.Get("/{id}", s.getTask)
		r.Patch("/{id}/status", s.updateTaskStatus)
		r.Post("/{id}/assign", s.assignTask)
	})

	r.Route("/ratings", func(r chi.Router) {
		r.Get("/", s.listRatings)
		r.Post("/", s.createRating)
		r.Get("/{id}", s.getRating)
		r.Patch("/{id}/status", s.updateRatingStatus)
	})

	r.Route("/qc-reviews", func(r chi.Router) {
		r.Get("/", s.listQCReviews)
		r.Get("/{id}", s.getQCReview)
		r.Patch("/{id}/status", s.updateQCReviewStatus)
	})

	r.Route("/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Post("/", s.createDocument)
		r.Get("/search", s.searchDocuments)
	})

	r.Route("/performance", func(r chi.Router) {
		r.Get("/", s.listRaterPerformance)
		r.Put("/", s.upsertRaterPerformance)
	})
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		respondError(w, http.StatusServiceUnavailable, "database not configured")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional uuid query parameter; absent or malformed
// values skip the filter.
func queryID(r *http.Request, key string) uuid.UUID {
	id, err := uuid.Parse(r.URL.Query().Get(key))
	if err != nil {
		return uuid.Nil
	}
	return id
}

type statusUpdateRequest struct {
	Status          string `json:"status"`
	ResolutionNotes string `json:"resolution_notes"`
}

func decodeStatus(w http.ResponseWriter, r *http.Request) (statusUpdateRequest, bool) {
	var req statusUpdateRequest
	if err := decodeJSON(r, &req); err != nil || req.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return req, false
	}
	return req, true
}

// Organizations

func (s *Server) listOrganizations(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	orgs, err := s.store.ListOrganizations(r.Context())
	if err != nil {
		s.logger.Error("failed to list organizations", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list organizations")
		return
	}
	respondJSON(w, http.StatusOK, orgs)
}

func (s *Server) createOrganization(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var req struct {
		Name     string         `json:"name"`
		Domain   string         `json:"domain"`
		Settings map[string]any `json:"settings"`
	}
	if err := decodeJSON(r, &req); err != nil || req.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	id, err := s.store.CreateOrganization(r.Context(), req.Name, req.Domain, req.Settings)
	if err != nil {
		s.logger.Error("failed to create organization", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create organization")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) getOrganization(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	org, err := s.store.GetOrganization(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "organization not found")
		return
	}
	respondJSON(w, http.StatusOK, org)
}

// Users

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	users, err := s.store.ListUsers(r.Context(), queryID(r, "organization_id"), r.URL.Query().Get("role"))
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (s *Server) listRaters(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	raters, err := s.store.ListRaters(r.Context(), queryID(r, "organization_id"))
	if err != nil {
		s.logger.Error("failed to list raters", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list raters")
		return
	}
	respondJSON(w, http.StatusOK, raters)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var u store.User
	if err := decodeJSON(r, &u); err != nil || u.Email == "" || u.Role == "" {
		respondError(w, http.StatusBadRequest, "email and role are required")
		return
	}
	if u.Status == "" {
		u.Status = "active"
	}
	id, err := s.store.CreateUser(r.Context(), u)
	if err != nil {
		s.logger.Error("failed to create user", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create user")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "user not found")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (s *Server) updateUserStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeStatus(w, r)
	if !ok {
		return
	}
	if err := s.store.UpdateUserStatus(r.Context(), id, req.Status); err != nil {
		s.logger.Error("failed to update user status", "user_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update user status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// Projects

func (s *Server) listProjects(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	projects, err := s.store.ListProjects(r.Context(), queryID(r, "organization_id"))
	if err != nil {
		s.logger.Error("failed to list projects", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list projects")
		return
	}
	respondJSON(w, http.StatusOK, projects)
}

func (s *Server) createProject(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var p store.Project
	if err := decodeJSON(r, &p); err != nil || p.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	if p.Status == "" {
		p.Status = "draft"
	}
	id, err := s.store.CreateProject(r.Context(), p)
	if err != nil {
		s.logger.Error("failed to create project", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create project")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) getProject(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	project, err := s.store.GetProject(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "project not found")
		return
	}
	respondJSON(w, http.StatusOK, project)
}

func (s *Server) updateProjectStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeStatus(w, r)
	if !ok {
		return
	}
	if err := s.store.UpdateProjectStatus(r.Context(), id, req.Status); err != nil {
		s.logger.Error("failed to update project status", "project_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update project status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// Tasks

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	tasks, err := s.store.ListTasks(r.Context(), store.TaskFilter{
		ProjectID:  queryID(r, "project_id"),
		AssignedTo: queryID(r, "assigned_to"),
		Status:     r.URL.Query().Get("status"),
		Priority:   r.URL.Query().Get("priority"),
	})
	if err != nil {
		s.logger.Error("failed to list tasks", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

func (s *Server) createTask(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var t store.Task
	if err := decodeJSON(r, &t); err != nil || t.Content == "" || t.ProjectID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "project_id and content are required")
		return
	}
	if t.Status == "" {
		t.Status = "pending"
	}
	if t.Priority == "" {
		t.Priority = "medium"
	}
	id, err := s.store.CreateTask(r.Context(), t)
	if err != nil {
		s.logger.Error("failed to create task", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create task")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	task, err := s.store.GetTask(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "task not found")
		return
	}
	respondJSON(w, http.StatusOK, task)
}

func (s *Server) updateTaskStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeStatus(w, r)
	if !ok {
		return
	}
	if err := s.store.UpdateTaskStatus(r.Context(), id, req.Status); err != nil {
		s.logger.Error("failed to update task status", "task_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update task status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (s *Server) assignTask(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		UserID string `json:"user_id"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "user_id is required")
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid user id")
		return
	}
	if err := s.store.AssignTask(r.Context(), id, userID); err != nil {
		s.logger.Error("failed to assign task", "task_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to assign task")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

func (s *Server) searchTasks(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	tasks, err := s.store.SearchTasks(r.Context(), q, queryID(r, "project_id"))
	if err != nil {
		s.logger.Error("failed to search tasks", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to search tasks")
		return
	}
	respondJSON(w, http.StatusOK, tasks)
}

// Ratings

func (s *Server) listRatings(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	ratings, err := s.store.ListRatings(r.Context(), queryID(r, "task_id"), queryID(r, "rater_id"))
	if err != nil {
		s.logger.Error("failed to list ratings", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list ratings")
		return
	}
	respondJSON(w, http.StatusOK, ratings)
}

// createRating persists the rating and announces it on the bus so the
// processor picks it up for automated QC analysis.
func (s *Server) createRating(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var rating store.Rating
	if err := decodeJSON(r, &rating); err != nil || rating.TaskID == uuid.Nil || rating.RaterID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "task_id and rater_id are required")
		return
	}
	if rating.Status == "" {
		rating.Status = "submitted"
	}

	id, err := s.store.CreateRating(r.Context(), rating)
	if err != nil {
		s.logger.Error("failed to create rating", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create rating")
		return
	}

	task, err := s.store.GetTask(r.Context(), rating.TaskID)
	if err == nil && s.events != nil {
		if err := s.events.Publish(events.SubjectRatingSubmitted, events.RatingSubmittedEvent{
			RatingID:  id.String(),
			TaskID:    task.ID.String(),
			ProjectID: task.ProjectID.String(),
			RaterID:   rating.RaterID.String(),
		}); err != nil {
			s.logger.Warn("failed to publish rating submitted", "rating_id", id, "error", err)
		}
	}

	respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) getRating(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	rating, err := s.store.GetRating(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "rating not found")
		return
	}
	respondJSON(w, http.StatusOK, rating)
}

func (s *Server) updateRatingStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeStatus(w, r)
	if !ok {
		return
	}
	if err := s.store.UpdateRatingStatus(r.Context(), id, req.Status); err != nil {
		s.logger.Error("failed to update rating status", "rating_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update rating status")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// QC reviews

func (s *Server) listQCReviews(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	reviews, err := s.store.ListQCReviews(r.Context(), r.URL.Query().Get("status"), r.URL.Query().Get("priority"))
	if err != nil {
		s.logger.Error("failed to list qc reviews", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list qc reviews")
		return
	}
	respondJSON(w, http.StatusOK, reviews)
}

func (s *Server) getQCReview(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	review, err := s.store.GetQCReview(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "qc review not found")
		return
	}
	respondJSON(w, http.StatusOK, review)
}

func (s *Server) updateQCReviewStatus(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	req, ok := decodeStatus(w, r)
	if !ok {
		return
	}
	if err := s.store.UpdateQCReviewStatus(r.Context(), id, req.Status, req.ResolutionNotes); err != nil {
		s.logger.Error("failed to update qc review", "review_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to update qc review")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// Knowledge base documents

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	docs, err := s.store.ListDocuments(r.Context(), queryID(r, "organization_id"))
	if err != nil {
		s.logger.Error("failed to list documents", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var d store.Document
	if err := decodeJSON(r, &d); err != nil || d.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}
	id, err := s.store.CreateDocument(r.Context(), d)
	if err != nil {
		s.logger.Error("failed to create document", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to create document")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (s *Server) searchDocuments(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	q := r.URL.Query().Get("q")
	if q == "" {
		respondError(w, http.StatusBadRequest, "q is required")
		return
	}
	docs, err := s.store.SearchDocuments(r.Context(), q, queryID(r, "organization_id"))
	if err != nil {
		s.logger.Error("failed to search documents", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to search documents")
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

// Rater performance

func (s *Server) listRaterPerformance(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	perf, err := s.store.ListRaterPerformance(r.Context(), queryID(r, "user_id"), queryID(r, "project_id"))
	if err != nil {
		s.logger.Error("failed to list rater performance", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to list rater performance")
		return
	}
	respondJSON(w, http.StatusOK, perf)
}

func (s *Server) upsertRaterPerformance(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	var p store.RaterPerformance
	if err := decodeJSON(r, &p); err != nil || p.UserID == uuid.Nil || p.ProjectID == uuid.Nil {
		respondError(w, http.StatusBadRequest, "user_id and project_id are required")
		return
	}
	if p.Date.IsZero() {
		p.Date = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if err := s.store.UpsertRaterPerformance(r.Context(), p); err != nil {
		s.logger.Error("failed to upsert rater performance", "user_id", p.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "failed to upsert rater performance")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
