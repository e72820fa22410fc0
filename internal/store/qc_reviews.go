package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QCReview statuses: pending | in_review | resolved | escalated.
// Priorities: low | medium | high | urgent. ReviewerID is nil while a
// machine-flagged review waits for a human to pick it up.
type QCReview struct {
	ID              uuid.UUID  `json:"id"`
	RatingID        uuid.UUID  `json:"rating_id"`
	ReviewerID      *uuid.UUID `json:"qc_reviewer_id,omitempty"`
	RiskScore       float64    `json:"risk_score"`
	FlagReason      string     `json:"flag_reason,omitempty"`
	Evidence        []string   `json:"evidence"`
	Priority        string     `json:"priority"`
	Status          string     `json:"status"`
	ResolutionNotes string     `json:"resolution_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

const qcReviewColumns = `id, rating_id, qc_reviewer_id, risk_score, COALESCE(flag_reason, ''), evidence, priority, status, COALESCE(resolution_notes, ''), created_at, updated_at`

func scanQCReview(row interface{ Scan(...any) error }) (QCReview, error) {
	var r QCReview
	err := row.Scan(&r.ID, &r.RatingID, &r.ReviewerID, &r.RiskScore, &r.FlagReason, &r.Evidence, &r.Priority, &r.Status, &r.ResolutionNotes, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// ListQCReviews returns the review queue, optionally filtered by status
// and/or priority.
func (s *Store) ListQCReviews(ctx context.Context, status, priority string) ([]QCReview, error) {
	query := `SELECT ` + qcReviewColumns + ` FROM qc_reviews`
	var args []any
	var where []string
	if status != "" {
		args = append(args, status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if priority != "" {
		args = append(args, priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	query += whereClause(where) + " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query qc reviews: %w", err)
	}
	defer rows.Close()

	var reviews []QCReview
	for rows.Next() {
		r, err := scanQCReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan qc review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (s *Store) GetQCReview(ctx context.Context, id uuid.UUID) (*QCReview, error) {
	r, err := scanQCReview(s.pool.QueryRow(ctx, `SELECT `+qcReviewColumns+` FROM qc_reviews WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get qc review: %w", err)
	}
	return &r, nil
}

func (s *Store) CreateQCReview(ctx context.Context, r QCReview) (uuid.UUID, error) {
	id := uuid.New()
	if r.Evidence == nil {
		r.Evidence = []string{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO qc_reviews (id, rating_id, qc_reviewer_id, risk_score, flag_reason, evidence, priority, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, now(), now())`,
		id, r.RatingID, r.ReviewerID, r.RiskScore, r.FlagReason, r.Evidence, r.Priority, r.Status,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert qc review: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateQCReviewStatus(ctx context.Context, id uuid.UUID, status, resolutionNotes string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE qc_reviews SET status = $1, resolution_notes = NULLIF($2, ''), updated_at = now()
		WHERE id = $3`,
		status, resolutionNotes, id,
	)
	return err
}
