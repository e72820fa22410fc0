package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Project types: rater | qc | hybrid. Statuses: draft | active | paused | archived.
type Project struct {
	ID                uuid.UUID `json:"id"`
	OrganizationID    uuid.UUID `json:"organization_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Type              string    `json:"type"`
	Status            string    `json:"status"`
	GuidelinesVersion string    `json:"guidelines_version,omitempty"`
	CreatedBy         uuid.UUID `json:"created_by"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

const projectColumns = `id, organization_id, name, COALESCE(description, ''), type, status, COALESCE(guidelines_version, ''), created_by, created_at, updated_at`

func scanProject(row interface{ Scan(...any) error }) (Project, error) {
	var p Project
	err := row.Scan(&p.ID, &p.OrganizationID, &p.Name, &p.Description, &p.Type, &p.Status, &p.GuidelinesVersion, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (s *Store) ListProjects(ctx context.Context, orgID uuid.UUID) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	var args []any
	if orgID != uuid.Nil {
		query += ` WHERE organization_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (s *Store) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	p, err := scanProject(s.pool.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (s *Store) CreateProject(ctx context.Context, p Project) (uuid.UUID, error) {
	id := uuid.New()
	_, err := s.pool.Exec(ctx, `
		INSERT INTO projects (id, organization_id, name, description, type, status, guidelines_version, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''), $8, now(), now())`,
		id, p.OrganizationID, p.Name, p.Description, p.Type, p.Status, p.GuidelinesVersion, p.CreatedBy,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert project: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateProjectStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE projects SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	return err
}
