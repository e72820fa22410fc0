package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Organization struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Domain    string         `json:"domain,omitempty"`
	Settings  map[string]any `json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (s *Store) ListOrganizations(ctx context.Context) ([]Organization, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, COALESCE(domain, ''), settings, created_at, updated_at
		FROM organizations
		ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	var orgs []Organization
	for rows.Next() {
		var o Organization
		if err := rows.Scan(&o.ID, &o.Name, &o.Domain, &o.Settings, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, o)
	}
	return orgs, rows.Err()
}

func (s *Store) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	var o Organization
	err := s.pool.QueryRow(ctx, `
		SELECT id, name, COALESCE(domain, ''), settings, created_at, updated_at
		FROM organizations WHERE id = $1`, id,
	).Scan(&o.ID, &o.Name, &o.Domain, &o.Settings, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return &o, nil
}

func (s *Store) CreateOrganization(ctx context.Context, name, domain string, settings map[string]any) (uuid.UUID, error) {
	id := uuid.New()
	if settings == nil {
		settings = map[string]any{}
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO organizations (id, name, domain, settings, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, now(), now())`,
		id, name, domain, settings,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert organization: %w", err)
	}
	return id, nil
}
