package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/career-docs/internal/types"
)

// Profile represents a candidate profile record
type Profile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Summary   string    `json:"summary,omitempty"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DocumentRecord represents a stored source document
type DocumentRecord struct {
	ID        uuid.UUID          `json:"id"`
	ProfileID uuid.UUID          `json:"profile_id"`
	Name      string             `json:"name"`
	DocType   types.DocumentType `json:"doc_type"`
	Content   string             `json:"content"`
	CreatedAt time.Time          `json:"created_at"`
}

// Letter status constants, matching the generation run lifecycle.
const (
	StatusPending          = "pending"
	StatusExtracting       = "extracting"
	StatusExtractionOK     = "extraction_ok"
	StatusExtractionFailed = "extraction_failed_soft"
	StatusGenerating       = "generating"
	StatusStreaming        = "streaming"
	StatusComplete         = "complete"
	StatusFailed           = "failed"
)

// letterStatuses is the closed set of values the status column accepts.
var letterStatuses = map[string]bool{
	StatusPending:          true,
	StatusExtracting:       true,
	StatusExtractionOK:     true,
	StatusExtractionFailed: true,
	StatusGenerating:       true,
	StatusStreaming:        true,
	StatusComplete:         true,
	StatusFailed:           true,
}

// ValidStatus reports whether s is a known letter status value.
func ValidStatus(s string) bool {
	return letterStatuses[s]
}

// Letter represents a generated document record. Inventory holds the
// sanitized fact inventory that grounded the generation, stored as JSONB.
type Letter struct {
	ID             uuid.UUID            `json:"id"`
	ProfileID      uuid.UUID            `json:"profile_id"`
	Kind           string               `json:"kind"`
	Language       string               `json:"language"`
	JobTitle       string               `json:"job_title"`
	JobDescription string               `json:"job_description"`
	Status         string               `json:"status"`
	Inventory      *types.FactInventory `json:"inventory,omitempty"`
	Content        string               `json:"content,omitempty"`
	ErrorMessage   *string              `json:"error_message,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
	CompletedAt    *time.Time           `json:"completed_at,omitempty"`
}
