package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User roles and statuses match the dashboard vocabulary.
// Roles: admin | qc_reviewer | rater | manager.
// Statuses: active | inactive | suspended | flagged.
type User struct {
	ID             uuid.UUID      `json:"id"`
	OrganizationID uuid.UUID      `json:"organization_id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Role           string         `json:"role"`
	Status         string         `json:"status"`
	Metadata       map[string]any `json:"metadata"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

const userColumns = `id, organization_id, email, name, role, status, metadata, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.OrganizationID, &u.Email, &u.Name, &u.Role, &u.Status, &u.Metadata, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// ListUsers returns users, optionally scoped to an organization or role.
// Pass uuid.Nil / "" to skip a filter.
func (s *Store) ListUsers(ctx context.Context, orgID uuid.UUID, role string) ([]User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	var args []any
	var where []string
	if orgID != uuid.Nil {
		args = append(args, orgID)
		where = append(where, fmt.Sprintf("organization_id = $%d", len(args)))
	}
	if role != "" {
		args = append(args, role)
		where = append(where, fmt.Sprintf("role = $%d", len(args)))
	}
	query += whereClause(where) + " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListRaters returns users with the rater role, optionally scoped to an organization.
func (s *Store) ListRaters(ctx context.Context, orgID uuid.UUID) ([]User, error) {
	return s.ListUsers(ctx, orgID, "rater")
}

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (s *Store) CreateUser(ctx context.Context, u User) (uuid.UUID, error) {
	id := uuid.New()
	if u.Metadata == nil {
		u.Metadata = map[string]any{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (id, organization_id, email, name, role, status, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		id, u.OrganizationID, u.Email, u.Name, u.Role, u.Status, u.Metadata,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert user: %w", err)
	}
	return id, nil
}

func (s *Store) UpdateUserStatus(ctx context.Context, id uuid.UUID, status string) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE users SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	return err
}

func whereClause(conditions []string) string {
	if len(conditions) == 0 {
		return ""
	}
	out := " WHERE " + conditions[0]
	for _, c := range conditions[1:] {
		out += " AND " + c
	}
	return out
}
