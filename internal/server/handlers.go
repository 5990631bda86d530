package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-docs/internal/aggregate"
	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/facts"
	"github.com/jonathan/career-docs/internal/generate"
	"github.com/jonathan/career-docs/internal/pipeline"
	"github.com/jonathan/career-docs/internal/schemas"
	"github.com/jonathan/career-docs/internal/types"
	"github.com/jonathan/career-docs/internal/verify"
)

// DocumentPayload is an inline source document in a request body
type DocumentPayload struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content"`
}

// GenerateRequest represents the request body for /generate and
// /generate/stream. Source material comes either from a stored profile
// (profile_id) or inline (profile + documents).
type GenerateRequest struct {
	ProfileID          string            `json:"profile_id,omitempty"`
	Kind               string            `json:"kind,omitempty"`
	Language           string            `json:"language,omitempty"`
	JobTitle           string            `json:"job_title"`
	JobDescription     string            `json:"job_description"`
	CustomInstructions string            `json:"custom_instructions,omitempty"`
	Profile            *ProfilePayload   `json:"profile,omitempty"`
	Documents          []DocumentPayload `json:"documents,omitempty"`
}

// ProfilePayload is an inline candidate profile in a request body
type ProfilePayload struct {
	Name    string `json:"name"`
	Summary string `json:"summary,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// GenerateResponse represents the response for a synchronous /generate
type GenerateResponse struct {
	LetterID  string              `json:"letter_id,omitempty"`
	Status    string              `json:"status"`
	Inventory types.FactInventory `json:"inventory"`
	Content   string              `json:"content"`
	Warnings  []verify.Violation  `json:"warnings,omitempty"`
}

// ExtractRequest represents the request body for /extract
type ExtractRequest struct {
	ProfileID string            `json:"profile_id,omitempty"`
	Profile   *ProfilePayload   `json:"profile,omitempty"`
	Documents []DocumentPayload `json:"documents,omitempty"`
}

// ExtractResponse represents the response for /extract
type ExtractResponse struct {
	Inventory types.FactInventory `json:"inventory"`
	FactCount int                 `json:"fact_count"`
	Degraded  bool                `json:"degraded"`
}

// resolveSources turns a request into the pipeline's profile and document
// inputs. A stored profile and its documents are fetched concurrently.
func (s *Server) resolveSources(r *http.Request, profileID string, inline *ProfilePayload, docs []DocumentPayload) (types.Profile, []types.Document, uuid.UUID, error) {
	if profileID != "" {
		id, err := uuid.Parse(profileID)
		if err != nil {
			return types.Profile{}, nil, uuid.Nil, &ErrValidation{Field: "profile_id", Message: "invalid UUID"}
		}
		if s.db == nil {
			return types.Profile{}, nil, uuid.Nil, &ErrValidation{Field: "profile_id", Message: "no database configured"}
		}

		var stored *db.Profile
		var records []db.DocumentRecord
		g, gCtx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			var err error
			stored, err = s.db.GetProfile(gCtx, id)
			return err
		})
		g.Go(func() error {
			var err error
			records, err = s.db.ListDocuments(gCtx, id)
			return err
		})
		if err := g.Wait(); err != nil {
			return types.Profile{}, nil, uuid.Nil, err
		}
		if stored == nil {
			return types.Profile{}, nil, uuid.Nil, &ErrProfileNotFound{ProfileID: id}
		}

		profile := types.Profile{
			Name:    stored.Name,
			Summary: stored.Summary,
			Email:   stored.Email,
			Phone:   stored.Phone,
		}
		return profile, db.Documents(records), id, nil
	}

	var profile types.Profile
	if inline != nil {
		profile = types.Profile{
			Name:    inline.Name,
			Summary: inline.Summary,
			Email:   inline.Email,
			Phone:   inline.Phone,
		}
	}
	documents := make([]types.Document, 0, len(docs))
	for _, d := range docs {
		documents = append(documents, types.Document{
			Name:    d.Name,
			Type:    types.ParseDocumentType(d.Type),
			Content: d.Content,
		})
	}
	return profile, documents, uuid.Nil, nil
}

func (s *Server) pipelineOptions(req GenerateRequest, profile types.Profile, documents []types.Document, profileID uuid.UUID) pipeline.RunOptions {
	opts := pipeline.RunOptions{
		Client:             s.client,
		Kind:               generate.DocKind(req.Kind),
		Language:           generate.Language(req.Language),
		Profile:            profile,
		Documents:          documents,
		JobTitle:           req.JobTitle,
		JobDescription:     req.JobDescription,
		CustomInstructions: req.CustomInstructions,
	}
	// Letters are only persisted for stored profiles; ad-hoc requests
	// have nothing to attach them to.
	if profileID != uuid.Nil {
		opts.Database = s.db
		opts.ProfileID = profileID
	}
	return opts
}

// handleGenerate runs the full pipeline synchronously and returns the
// finished artifact.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.JobTitle == "" || req.JobDescription == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_title and job_description are required")
		return
	}

	profile, documents, profileID, err := s.resolveSources(r, req.ProfileID, req.Profile, req.Documents)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	result, err := pipeline.Run(r.Context(), s.pipelineOptions(req, profile, documents, profileID))
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	resp := GenerateResponse{
		Status:    string(result.State),
		Inventory: result.Inventory,
		Content:   result.Content,
		Warnings:  result.Violations,
	}
	if result.LetterID != uuid.Nil {
		resp.LetterID = result.LetterID.String()
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGenerateStream runs the pipeline and streams state transitions and
// text chunks via SSE. Provider failures after the first byte arrive as a
// terminal error event.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.JobTitle == "" || req.JobDescription == "" {
		s.errorResponse(w, http.StatusBadRequest, "job_title and job_description are required")
		return
	}

	profile, documents, profileID, err := s.resolveSources(r, req.ProfileID, req.Profile, req.Documents)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := s.pipelineOptions(req, profile, documents, profileID)
	opts.OnProgress = sse.WriteState
	opts.OnChunk = sse.WriteChunk

	result, err := pipeline.Run(r.Context(), opts)
	if err != nil {
		log.Printf("Streaming generation failed: %v", err)
		sse.WriteError(err.Error())
		return
	}

	letterID := ""
	if result.LetterID != uuid.Nil {
		letterID = result.LetterID.String()
	}
	sse.WriteComplete(letterID, string(result.State))
}

// handleExtract runs document aggregation and fact extraction without
// generation, for inspecting the inventory a profile would produce.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	profile, documents, _, err := s.resolveSources(r, req.ProfileID, req.Profile, req.Documents)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	corpus := aggregate.BuildCorpus(profile, documents)
	inventory, softErr := facts.NewExtractor(s.client).Extract(r.Context(), corpus)
	if softErr != nil {
		log.Printf("Extraction degraded: %v", softErr)
	} else if err := schemas.ValidateInventory(inventory); err != nil {
		// Diagnostic only; the sanitizer already bounded the inventory.
		log.Printf("Warning: inventory failed schema validation: %v", err)
	}

	s.jsonResponse(w, http.StatusOK, ExtractResponse{
		Inventory: inventory,
		FactCount: inventory.FactCount(),
		Degraded:  softErr != nil,
	})
}
