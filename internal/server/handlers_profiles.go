package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/types"
)

// ProfileRequest represents the request body for profile create/update
type ProfileRequest struct {
	Name    string `json:"name"`
	Summary string `json:"summary,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// DocumentRequest represents the request body for adding a document
type DocumentRequest struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content"`
}

func (s *Server) parseIDParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	idStr := r.PathValue("id")
	if idStr == "" {
		s.errorResponse(w, http.StatusBadRequest, name+" ID is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+name+" ID format")
		return uuid.Nil, false
	}
	return id, true
}

// handleCreateProfile creates a new candidate profile
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	profile, err := s.db.CreateProfile(r.Context(), req.Name, req.Summary, req.Email, req.Phone)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, profile)
}

// handleListProfiles lists recent profiles
func (s *Server) handleListProfiles(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	profiles, err := s.db.ListProfiles(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profiles == nil {
		profiles = []db.Profile{}
	}
	s.jsonResponse(w, http.StatusOK, profiles)
}

// handleGetProfile returns a profile by ID
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseIDParam(w, r, "profile")
	if !ok {
		return
	}

	profile, err := s.db.GetProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "Profile not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, profile)
}

// handleUpdateProfile updates a profile's fields
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseIDParam(w, r, "profile")
	if !ok {
		return
	}

	var req ProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	if err := s.db.UpdateProfile(r.Context(), id, req.Name, req.Summary, req.Email, req.Phone); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "updated"})
}

// handleDeleteProfile deletes a profile and its documents and letters
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseIDParam(w, r, "profile")
	if !ok {
		return
	}

	if err := s.db.DeleteProfile(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleAddDocument stores a source document under a profile
func (s *Server) handleAddDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseIDParam(w, r, "profile")
	if !ok {
		return
	}

	var req DocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.errorResponse(w, http.StatusBadRequest, "name is required")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.errorResponse(w, http.StatusBadRequest, "content is required")
		return
	}

	doc, err := s.db.AddDocument(r.Context(), id, req.Name, types.ParseDocumentType(req.Type), req.Content)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, doc)
}

// handleListDocuments lists a profile's documents
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseIDParam(w, r, "profile")
	if !ok {
		return
	}

	docs, err := s.db.ListDocuments(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if docs == nil {
		docs = []db.DocumentRecord{}
	}
	s.jsonResponse(w, http.StatusOK, docs)
}

// handleDeleteDocument deletes a document by ID
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseIDParam(w, r, "document")
	if !ok {
		return
	}

	if err := s.db.DeleteDocument(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleListLetters lists letters with optional profile_id, status and
// kind filters
func (s *Server) handleListLetters(w http.ResponseWriter, r *http.Request) {
	filters := db.LetterFilters{
		Status: r.URL.Query().Get("status"),
		Kind:   r.URL.Query().Get("kind"),
	}
	if v := r.URL.Query().Get("profile_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid profile_id format")
			return
		}
		filters.ProfileID = id
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			filters.Limit = n
		}
	}

	letters, err := s.db.ListLetters(r.Context(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if letters == nil {
		letters = []db.Letter{}
	}
	s.jsonResponse(w, http.StatusOK, letters)
}

// handleGetLetter returns a letter by ID, including content and the
// inventory that grounded it
func (s *Server) handleGetLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseIDParam(w, r, "letter")
	if !ok {
		return
	}

	letter, err := s.db.GetLetter(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if letter == nil {
		s.errorResponse(w, http.StatusNotFound, "Letter not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, letter)
}

// handleDeleteLetter deletes a letter by ID
func (s *Server) handleDeleteLetter(w http.ResponseWriter, r *http.Request) {
	id, ok := s.parseIDParam(w, r, "letter")
	if !ok {
		return
	}

	if err := s.db.DeleteLetter(r.Context(), id); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}
