package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Rating statuses: draft | submitted | reviewed | approved | rejected.
type Rating struct {
	ID               uuid.UUID      `json:"id"`
	TaskID           uuid.UUID      `json:"task_id"`
	RaterID          uuid.UUID      `json:"rater_id"`
	RatingData       map[string]any `json:"rating_data"`
	ConfidenceScore  *int           `json:"confidence_score,omitempty"`
	TimeSpentSeconds *int           `json:"time_spent_seconds,omitempty"`
	Comments         string         `json:"comments,omitempty"`
	Status           string         `json:"status"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

const ratingColumns = `id, task_id, rater_id, rating_data, confidence_score, time_spent_seconds, COALESCE(comments, ''), status, created_at, updated_at`

func scanRating(row interface{ Scan(...any) error }) (Rating, error) {
	var r Rating
	err := row.Scan(&r.ID, &r.TaskID, &r.RaterID, &r.RatingData, &r.ConfidenceScore, &r.TimeSpentSeconds, &r.Comments, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	return r, err
}

// ListRatings returns ratings, optionally filtered by task and/or rater.
func (s *Store) ListRatings(ctx context.Context, taskID, raterID uuid.UUID) ([]Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings`
	var args []any
	var where []string
	if taskID != uuid.Nil {
		args = append(args, taskID)
		where = append(where, fmt.Sprintf("task_id = $%d", len(args)))
	}
	if raterID != uuid.Nil {
		args = append(args, raterID)
		where = append(where, fmt.Sprintf("rater_id = $%d", len(args)))
	}
	query += whereClause(where) + " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ratings: %w", err)
	}
	defer rows.Close()

	var ratings []Rating
	for rows.Next() {
		r, err := scanRating(rows)
		if err != nil {
			return nil, fmt.Errorf("scan rating: %w", err)
		}
		ratings = append(ratings, r)
	}
	return ratings, rows.Err()
}

func (s *Store) GetRating(ctx context.Context, id uuid.UUID) (*Rating, error) {
	r, err := scanRating(s.pool.QueryRow(ctx, `SELECT `+ratingColumns+` FROM ratings WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get rating: %w", err)
	}
	return &r, nil
}

func (s *Store) CreateRating(ctx context.Context, r Rating) (uuid.UUID, error) {
	id := uuid.New()
	if r.RatingData == nil {
		r.RatingData = map[string]any{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO ratings (id, task_id, rater_id, rating_data, confidence_score, time_spent_seconds, comments, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, ''), $8, now(), now())`,
		id, r.TaskID, r.RaterID, r.RatingData, r.ConfidenceScore, r.TimeSpentSeconds, r.Comments, r.Status,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert rating: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateRatingStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE ratings SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	return err
}
