package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document statuses: processing | indexed | error.
type Document struct {
	ID             uuid.UUID `json:"id"`
	OrganizationID uuid.UUID `json:"organization_id"`
	Name           string    `json:"name"`
	FileType       string    `json:"file_type"`
	Content        string    `json:"content,omitempty"`
	Version        string    `json:"version"`
	Status         string    `json:"status"`
	Tags           []string  `json:"tags"`
	UploadedBy     uuid.UUID `json:"uploaded_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const documentColumns = `id, organization_id, name, file_type, COALESCE(content, ''), version, status, tags, uploaded_by, created_at, updated_at`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var d Document
	err := row.Scan(&d.ID, &d.OrganizationID, &d.Name, &d.FileType, &d.Content, &d.Version, &d.Status, &d.Tags, &d.UploadedBy, &d.CreatedAt, &d.UpdatedAt)
	return d, err
}

func (s *Store) ListDocuments(ctx context.Context, orgID uuid.UUID) ([]Document, error) {
	query := `SELECT ` + documentColumns + ` FROM knowledge_base_documents`
	var args []any
	if orgID != uuid.Nil {
		query += ` WHERE organization_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *Store) CreateDocument(ctx context.Context, d Document) (uuid.UUID, error) {
	id := uuid.New()
	if d.Tags == nil {
		d.Tags = []string{}
	}
	if d.Status == "" {
		d.Status = "processing"
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO knowledge_base_documents (id, organization_id, name, file_type, content, version, status, tags, uploaded_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, now(), now())`,
		id, d.OrganizationID, d.Name, d.FileType, d.Content, d.Version, d.Status, d.Tags, d.UploadedBy,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

// SearchDocuments matches the query against document names and content.
func (s *Store) SearchDocuments(ctx context.Context, query string, orgID uuid.UUID) ([]Document, error) {
	sql := `SELECT ` + documentColumns + ` FROM knowledge_base_documents WHERE (name ILIKE $1 OR content ILIKE $1)`
	args := []any{"%" + query + "%"}
	if orgID != uuid.Nil {
		args = append(args, orgID)
		sql += fmt.Sprintf(" AND organization_id = $%d", len(args))
	}
	sql += " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// LatestIndexedContent returns the content of the most recently indexed
// guideline document for an organization. Returns an error when none exists;
// callers fall back to the seed guidelines.
func (s *Store) LatestIndexedContent(ctx context.Context, orgID uuid.UUID) (string, error) {
	query := `
		SELECT COALESCE(content, '') FROM knowledge_base_documents
		WHERE status = 'indexed'`
	var args []any
	if orgID != uuid.Nil {
		query += ` AND organization_id = $1`
		args = append(args, orgID)
	}
	query += ` ORDER BY created_at DESC LIMIT 1`

	var content string
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&content); err != nil {
		return "", fmt.Errorf("latest indexed document: %w", err)
	}
	return content, nil
}
