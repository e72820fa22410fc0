package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task statuses: pending | assigned | in_progress | completed | flagged | escalated.
// Priorities: low | medium | high | urgent.
type Task struct {
	ID          uuid.UUID      `json:"id"`
	ProjectID   uuid.UUID      `json:"project_id"`
	Title       string         `json:"title,omitempty"`
	Content     string         `json:"content"`
	ContentType string         `json:"content_type"`
	Metadata    map[string]any `json:"metadata"`
	Priority    string         `json:"priority"`
	Status      string         `json:"status"`
	AssignedTo  *uuid.UUID     `json:"assigned_to,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// TaskFilter narrows ListTasks. Zero values skip the corresponding filter.
type TaskFilter struct {
	ProjectID  uuid.UUID
	AssignedTo uuid.UUID
	Status     string
	Priority   string
}

const taskColumns = `id, project_id, COALESCE(title, ''), content, content_type, metadata, priority, status, assigned_to, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var t Task
	err := row.Scan(&t.ID, &t.ProjectID, &t.Title, &t.Content, &t.ContentType, &t.Metadata, &t.Priority, &t.Status, &t.AssignedTo, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

func (s *Store) ListTasks(ctx context.Context, f TaskFilter) ([]Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	var where []string
	if f.ProjectID != uuid.Nil {
		args = append(args, f.ProjectID)
		where = append(where, fmt.Sprintf("project_id = $%d", len(args)))
	}
	if f.AssignedTo != uuid.Nil {
		args = append(args, f.AssignedTo)
		where = append(where, fmt.Sprintf("assigned_to = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, f.Priority)
		where = append(where, fmt.Sprintf("priority = $%d", len(args)))
	}
	query += whereClause(where) + " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *Store) GetTask(ctx context.Context, id uuid.UUID) (*Task, error) {
	t, err := scanTask(s.pool.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

func (s *Store) CreateTask(ctx context.Context, t Task) (uuid.UUID, error) {
	id := uuid.New()
	if t.Metadata == nil {
		t.Metadata = map[string]any{}
	}
	if t.ContentType == "" {
		t.ContentType = "text"
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO tasks (id, project_id, title, content, content_type, metadata, priority, status, assigned_to, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, now(), now())`,
		id, t.ProjectID, t.Title, t.Content, t.ContentType, t.Metadata, t.Priority, t.Status, t.AssignedTo,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert task: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE tasks SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	return err
}

// AssignTask assigns a task to a user and moves it to the assigned status.
func (s *Store) AssignTask(ctx context.Context, id, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE tasks SET assigned_to = $1, status = 'assigned', updated_at = now() WHERE id = $2`,
		userID, id,
	)
	return err
}

// SearchTasks matches the query against task titles and content.
func (s *Store) SearchTasks(ctx context.Context, query string, projectID uuid.UUID) ([]Task, error) {
	sql := `SELECT ` + taskColumns + ` FROM tasks WHERE (title ILIKE $1 OR content ILIKE $1)`
	args := []any{"%" + query + "%"}
	if projectID != uuid.Nil {
		args = append(args, projectID)
		sql += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	sql += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
