package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RaterPerformance is one rater's daily rollup for a project.
type RaterPerformance struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	ProjectID      uuid.UUID `json:"project_id"`
	Date           time.Time `json:"date"`
	TotalTasks     int       `json:"total_tasks"`
	CompletedTasks int       `json:"completed_tasks"`
	AccuracyScore  *float64  `json:"accuracy_score,omitempty"`
	FlagsCount     int       `json:"flags_count"`
	FeedbackCount  int       `json:"feedback_count"`
	RiskScore      *float64  `json:"risk_score,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

const performanceColumns = `id, user_id, project_id, date, total_tasks, completed_tasks, accuracy_score, flags_count, feedback_count, risk_score, created_at`

// ListRaterPerformance returns daily rollups, optionally filtered by rater
// and/or project, newest first.
func (s *Store) ListRaterPerformance(ctx context.Context, userID, projectID uuid.UUID) ([]RaterPerformance, error) {
	query := `SELECT ` + performanceColumns + ` FROM rater_performance`
	var args []any
	var where []string
	if userID != uuid.Nil {
		args = append(args, userID)
		where = append(where, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if projectID != uuid.Nil {
		args = append(args, projectID)
		where = append(where, fmt.Sprintf("project_id = $%d", len(args)))
	}
	query += whereClause(where) + " ORDER BY date DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query rater performance: %w", err)
	}
	defer rows.Close()

	var perf []RaterPerformance
	for rows.Next() {
		var p RaterPerformance
		if err := rows.Scan(&p.ID, &p.UserID, &p.ProjectID, &p.Date, &p.TotalTasks, &p.CompletedTasks, &p.AccuracyScore, &p.FlagsCount, &p.FeedbackCount, &p.RiskScore, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan rater performance: %w", err)
		}
		perf = append(perf, p)
	}
	return perf, rows.Err()
}

// UpsertRaterPerformance writes one day's rollup, replacing any existing
// row for the same rater, project, and date.
func (s *Store) UpsertRaterPerformance(ctx context.Context, p RaterPerformance) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO rater_performance (id, user_id, project_id, date, total_tasks, completed_tasks, accuracy_score, flags_count, feedback_count, risk_score, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (user_id, project_id, date) DO UPDATE SET
			total_tasks = EXCLUDED.total_tasks,
			completed_tasks = EXCLUDED.completed_tasks,
			accuracy_score = EXCLUDED.accuracy_score,
			flags_count = EXCLUDED.flags_count,
			feedback_count = EXCLUDED.feedback_count,
			risk_score = EXCLUDED.risk_score`,
		uuid.New(), p.UserID, p.ProjectID, p.Date, p.TotalTasks, p.CompletedTasks, p.AccuracyScore, p.FlagsCount, p.FeedbackCount, p.RiskScore,
	)
	if err != nil {
		return fmt.Errorf("upsert rater performance: %w", err)
	}
	return nil
}
