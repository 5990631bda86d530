// Package db provides PostgreSQL storage for profiles, source documents
// and generated letters.
package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/career-docs/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// -----------------------------------------------------------------------------
// Profile Methods
// -----------------------------------------------------------------------------

// CreateProfile inserts a new candidate profile and returns it
func (db *DB) CreateProfile(ctx context.Context, name, summary, email, phone string) (*Profile, error) {
	var p Profile
	err := db.pool.QueryRow(ctx,
		`INSERT INTO profiles (name, summary, email, phone)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, name, summary, email, phone, created_at, updated_at`,
		name, summary, email, phone,
	).Scan(&p.ID, &p.Name, &p.Summary, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &p, nil
}

// GetProfile retrieves a profile by its UUID
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, summary, email, phone, created_at, updated_at
		 FROM profiles WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.Summary, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &p, nil
}

// ListProfiles retrieves recent profiles
func (db *DB) ListProfiles(ctx context.Context, limit int) ([]Profile, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, summary, email, phone, created_at, updated_at
		 FROM profiles ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		var p Profile
		if err := rows.Scan(&p.ID, &p.Name, &p.Summary, &p.Email, &p.Phone, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// UpdateProfile updates the mutable fields of a profile
func (db *DB) UpdateProfile(ctx context.Context, id uuid.UUID, name, summary, email, phone string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE profiles SET name = $1, summary = $2, email = $3, phone = $4, updated_at = NOW()
		 WHERE id = $5`,
		name, summary, email, phone, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// DeleteProfile deletes a profile and its documents and letters (via cascade)
func (db *DB) DeleteProfile(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM profiles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile not found: %s", id)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Document Methods
// -----------------------------------------------------------------------------

// AddDocument stores a source document under a profile
func (db *DB) AddDocument(ctx context.Context, profileID uuid.UUID, name string, docType types.DocumentType, content string) (*DocumentRecord, error) {
	var d DocumentRecord
	err := db.pool.QueryRow(ctx,
		`INSERT INTO documents (profile_id, name, doc_type, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, profile_id, name, doc_type, content, created_at`,
		profileID, name, string(docType), content,
	).Scan(&d.ID, &d.ProfileID, &d.Name, &d.DocType, &d.Content, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to add document: %w", err)
	}
	return &d, nil
}

// GetDocument retrieves a document by its UUID
func (db *DB) GetDocument(ctx context.Context, id uuid.UUID) (*DocumentRecord, error) {
	var d DocumentRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, profile_id, name, doc_type, content, created_at
		 FROM documents WHERE id = $1`,
		id,
	).Scan(&d.ID, &d.ProfileID, &d.Name, &d.DocType, &d.Content, &d.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return &d, nil
}

// ListDocuments retrieves all documents for a profile, oldest first so the
// corpus order is stable across runs
func (db *DB) ListDocuments(ctx context.Context, profileID uuid.UUID) ([]DocumentRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, profile_id, name, doc_type, content, created_at
		 FROM documents WHERE profile_id = $1 ORDER BY created_at ASC`,
		profileID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var docs []DocumentRecord
	for rows.Next() {
		var d DocumentRecord
		if err := rows.Scan(&d.ID, &d.ProfileID, &d.Name, &d.DocType, &d.Content, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, nil
}

// DeleteDocument deletes a document by its UUID
func (db *DB) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("document not found: %s", id)
	}
	return nil
}

// -----------------------------------------------------------------------------
// Letter Methods
// -----------------------------------------------------------------------------

// CreateLetter creates a letter record in pending status and returns its ID
func (db *DB) CreateLetter(ctx context.Context, profileID uuid.UUID, kind, language, jobTitle, jobDescription string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO letters (profile_id, kind, language, job_title, job_description, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		profileID, kind, language, jobTitle, jobDescription, StatusPending,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create letter: %w", err)
	}
	return id, nil
}

// UpdateLetterStatus transitions a letter to a new lifecycle status
func (db *DB) UpdateLetterStatus(ctx context.Context, letterID uuid.UUID, status string) error {
	if !ValidStatus(status) {
		return fmt.Errorf("invalid letter status: %q", status)
	}
	_, err := db.pool.Exec(ctx,
		`UPDATE letters SET status = $1 WHERE id = $2`,
		status, letterID,
	)
	if err != nil {
		return fmt.Errorf("failed to update letter status: %w", err)
	}
	return nil
}

// SaveLetterInventory stores the sanitized fact inventory as JSONB
func (db *DB) SaveLetterInventory(ctx context.Context, letterID uuid.UUID, inv types.FactInventory) error {
	jsonBytes, err := json.Marshal(inv)
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`UPDATE letters SET inventory = $1 WHERE id = $2`,
		jsonBytes, letterID,
	)
	if err != nil {
		return fmt.Errorf("failed to save letter inventory: %w", err)
	}
	return nil
}

// CompleteLetter stores the final generated text and marks the letter complete
func (db *DB) CompleteLetter(ctx context.Context, letterID uuid.UUID, content string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE letters SET status = $1, content = $2, completed_at = NOW() WHERE id = $3`,
		StatusComplete, content, letterID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete letter: %w", err)
	}
	return nil
}

// FailLetter marks a letter as failed with an error message
func (db *DB) FailLetter(ctx context.Context, letterID uuid.UUID, errorMsg string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE letters SET status = $1, error_message = $2, completed_at = NOW() WHERE id = $3`,
		StatusFailed, errorMsg, letterID,
	)
	if err != nil {
		return fmt.Errorf("failed to fail letter: %w", err)
	}
	return nil
}

// GetLetter retrieves a letter by its UUID, including the stored inventory
func (db *DB) GetLetter(ctx context.Context, letterID uuid.UUID) (*Letter, error) {
	var l Letter
	var inventoryBytes []byte
	var content *string

	err := db.pool.QueryRow(ctx,
		`SELECT id, profile_id, kind, language, job_title, job_description, status,
		        inventory, content, error_message, created_at, completed_at
		 FROM letters WHERE id = $1`,
		letterID,
	).Scan(&l.ID, &l.ProfileID, &l.Kind, &l.Language, &l.JobTitle, &l.JobDescription, &l.Status,
		&inventoryBytes, &content, &l.ErrorMessage, &l.CreatedAt, &l.CompletedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get letter: %w", err)
	}

	if content != nil {
		l.Content = *content
	}
	if len(inventoryBytes) > 0 {
		var inv types.FactInventory
		if err := json.Unmarshal(inventoryBytes, &inv); err == nil {
			l.Inventory = &inv
		}
	}

	return &l, nil
}

// LetterFilters holds optional filters for listing letters
type LetterFilters struct {
	ProfileID uuid.UUID
	Status    string
	Kind      string
	Limit     int
}

// ListLetters retrieves letter summaries with optional filters, newest first.
// Content and inventory are omitted from the listing (large fields).
func (db *DB) ListLetters(ctx context.Context, filters LetterFilters) ([]Letter, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, profile_id, kind, language, job_title, job_description, status,
		       error_message, created_at, completed_at
		FROM letters WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.ProfileID != uuid.Nil {
		query += fmt.Sprintf(" AND profile_id = $%d", argNum)
		args = append(args, filters.ProfileID)
		argNum++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}
	if filters.Kind != "" {
		query += fmt.Sprintf(" AND kind = $%d", argNum)
		args = append(args, filters.Kind)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list letters: %w", err)
	}
	defer rows.Close()

	var letters []Letter
	for rows.Next() {
		var l Letter
		if err := rows.Scan(&l.ID, &l.ProfileID, &l.Kind, &l.Language, &l.JobTitle, &l.JobDescription, &l.Status,
			&l.ErrorMessage, &l.CreatedAt, &l.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan letter: %w", err)
		}
		letters = append(letters, l)
	}
	return letters, nil
}

// DeleteLetter deletes a letter by its UUID
func (db *DB) DeleteLetter(ctx context.Context, letterID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM letters WHERE id = $1`, letterID)
	if err != nil {
		return fmt.Errorf("failed to delete letter: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("letter not found: %s", letterID)
	}
	return nil
}

// Documents converts stored document records into the pipeline's document
// type, preserving storage order.
func Documents(records []DocumentRecord) []types.Document {
	docs := make([]types.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, types.Document{
			Name:    r.Name,
			Type:    r.DocType,
			Content: r.Content,
		})
	}
	return docs
}
