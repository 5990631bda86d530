package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/types"
)

// loadDocuments reads document files given as "path" or "kind:path",
// where kind is cv, experience or other. Unknown kinds fall back to other.
func loadDocuments(specs []string) ([]types.Document, error) {
	docs := make([]types.Document, 0, len(specs))
	for _, spec := range specs {
		kind := ""
		path := spec
		if before, after, found := strings.Cut(spec, ":"); found && isKnownKind(before) {
			kind = before
			path = after
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", path, err)
		}

		docs = append(docs, types.Document{
			Name:    filepath.Base(path),
			Type:    types.ParseDocumentType(kind),
			Content: string(data),
		})
	}
	return docs, nil
}

func isKnownKind(s string) bool {
	switch s {
	case "cv", "experience", "other":
		return true
	}
	return false
}

// loadStoredProfile fetches a profile and its documents from the database.
func loadStoredProfile(ctx context.Context, database *db.DB, profileID string) (types.Profile, []types.Document, uuid.UUID, error) {
	id, err := uuid.Parse(profileID)
	if err != nil {
		return types.Profile{}, nil, uuid.Nil, fmt.Errorf("invalid profile_id format: %w", err)
	}

	stored, err := database.GetProfile(ctx, id)
	if err != nil {
		return types.Profile{}, nil, uuid.Nil, err
	}
	if stored == nil {
		return types.Profile{}, nil, uuid.Nil, fmt.Errorf("profile not found: %s", id)
	}

	records, err := database.ListDocuments(ctx, id)
	if err != nil {
		return types.Profile{}, nil, uuid.Nil, err
	}

	profile := types.Profile{
		Name:    stored.Name,
		Summary: stored.Summary,
		Email:   stored.Email,
		Phone:   stored.Phone,
	}
	return profile, db.Documents(records), id, nil
}

// requireAPIKey resolves the API key from the flag/config value or the
// GEMINI_API_KEY environment variable.
func requireAPIKey(fromConfig string) (string, error) {
	if fromConfig != "" {
		return fromConfig, nil
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("GEMINI_API_KEY environment variable or --api-key flag is required")
}
