package types

import "strings"

// DocumentType categorizes a candidate document.
type DocumentType string

const (
	// DocumentCV is a resume or curriculum vitae.
	DocumentCV DocumentType = "cv"
	// DocumentExperience is a supporting experience write-up.
	DocumentExperience DocumentType = "experience"
	// DocumentOther covers interview transcripts and any other material.
	DocumentOther DocumentType = "other"
)

// ParseDocumentType normalizes a raw type string to a DocumentType.
// Unknown values fall back to DocumentOther.
func ParseDocumentType(raw string) DocumentType {
	switch DocumentType(strings.ToLower(strings.TrimSpace(raw))) {
	case DocumentCV:
		return DocumentCV
	case DocumentExperience:
		return DocumentExperience
	default:
		return DocumentOther
	}
}

// Document is an immutable candidate document owned by the caller.
type Document struct {
	Name    string       `json:"name"`
	Type    DocumentType `json:"type"`
	Content string       `json:"content"`
}

// Profile holds the candidate fields the pipeline consumes. Contact fields
// are carried for letter headers only; Name and Summary feed the corpus.
type Profile struct {
	Name    string `json:"name"`
	Summary string `json:"summary"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}
