// Package pipeline orchestrates a full generation run: aggregate the
// candidate's documents, extract the fact inventory, then stream the
// claim-constrained artifact.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/career-docs/internal/aggregate"
	"github.com/jonathan/career-docs/internal/db"
	"github.com/jonathan/career-docs/internal/facts"
	"github.com/jonathan/career-docs/internal/generate"
	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/observability"
	"github.com/jonathan/career-docs/internal/schemas"
	"github.com/jonathan/career-docs/internal/types"
	"github.com/jonathan/career-docs/internal/verify"
)

// State is the lifecycle state of a generation run.
type State string

// Run lifecycle states. Extraction failure is soft: the run continues on
// the degraded document-only path. Generation failure is terminal.
const (
	StatePending          State = "PENDING"
	StateExtracting       State = "EXTRACTING"
	StateExtractionOK     State = "EXTRACTION_OK"
	StateExtractionFailed State = "EXTRACTION_FAILED_SOFT"
	StateGenerating       State = "GENERATING"
	StateStreaming        State = "STREAMING"
	StateComplete         State = "COMPLETE"
	StateFailed           State = "FAILED"
)

// dbStatus maps a run state to its letters.status column value.
func dbStatus(s State) string {
	switch s {
	case StatePending:
		return db.StatusPending
	case StateExtracting:
		return db.StatusExtracting
	case StateExtractionOK:
		return db.StatusExtractionOK
	case StateExtractionFailed:
		return db.StatusExtractionFailed
	case StateGenerating:
		return db.StatusGenerating
	case StateStreaming:
		return db.StatusStreaming
	case StateComplete:
		return db.StatusComplete
	default:
		return db.StatusFailed
	}
}

// ProgressEvent is emitted at every state transition.
type ProgressEvent struct {
	State     State                `json:"state"`
	Message   string               `json:"message,omitempty"`
	Inventory *types.FactInventory `json:"inventory,omitempty"`
}

// ProgressCallback receives state transitions as the run advances.
type ProgressCallback func(event ProgressEvent)

// ChunkCallback receives each text increment as it streams in.
type ChunkCallback func(text string)

// RunOptions holds everything needed for one generation run.
type RunOptions struct {
	Client             llm.Client
	Kind               generate.DocKind
	Language           generate.Language
	Profile            types.Profile
	Documents          []types.Document
	JobTitle           string
	JobDescription     string
	CustomInstructions string

	// Database is optional; when set the run persists a letter record.
	Database  *db.DB
	ProfileID uuid.UUID

	Verbose    bool
	OnProgress ProgressCallback
	OnChunk    ChunkCallback
}

// Result is the final outcome of a completed run.
type Result struct {
	State      State
	Inventory  types.FactInventory
	Content    string
	LetterID   uuid.UUID
	Violations []verify.Violation
}

func emitProgress(opts *RunOptions, state State, message string, inv *types.FactInventory) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{State: state, Message: message, Inventory: inv})
	}
}

// Run executes the pipeline. It returns an error only for terminal
// failures: invalid input, a stream that could not start, or a mid-stream
// provider error. Extraction failure is absorbed into the degraded path
// and reported through the EXTRACTION_FAILED_SOFT state.
func Run(ctx context.Context, opts RunOptions) (*Result, error) {
	result := &Result{State: StatePending}
	emitProgress(&opts, StatePending, "run accepted", nil)

	// Create the letter record upfront so a crash mid-run leaves a trace.
	if opts.Database != nil {
		letterID, err := opts.Database.CreateLetter(ctx, opts.ProfileID,
			string(opts.Kind), string(opts.Language), opts.JobTitle, opts.JobDescription)
		if err != nil {
			log.Printf("[Pipeline] Warning: failed to create letter record: %v", err)
		} else {
			result.LetterID = letterID
		}
	}

	transition := func(state State, message string, inv *types.FactInventory) {
		result.State = state
		emitProgress(&opts, state, message, inv)
		if opts.Database != nil && result.LetterID != uuid.Nil {
			if err := opts.Database.UpdateLetterStatus(ctx, result.LetterID, dbStatus(state)); err != nil {
				log.Printf("[Pipeline] Warning: failed to persist status %s: %v", state, err)
			}
		}
	}

	// Step 1: aggregate documents and extract the fact inventory.
	transition(StateExtracting, "extracting facts from documents", nil)
	corpus := aggregate.BuildCorpus(opts.Profile, opts.Documents)

	extractor := facts.NewExtractor(opts.Client)
	inventory, softErr := extractor.Extract(ctx, corpus)
	result.Inventory = inventory

	if softErr != nil {
		log.Printf("[Pipeline] Fact extraction failed, continuing without inventory: %v", softErr)
		transition(StateExtractionFailed, "extraction failed, using documents directly", &inventory)
	} else {
		transition(StateExtractionOK, fmt.Sprintf("extracted %d facts", inventory.FactCount()), &inventory)
		// The sanitizer is the trust boundary; a schema miss here means a
		// sanitization bug, so it is logged rather than failing the run.
		if err := schemas.ValidateInventory(inventory); err != nil {
			log.Printf("[Pipeline] Warning: inventory failed schema validation: %v", err)
		}
	}
	if opts.Verbose {
		observability.NewPrinter(os.Stdout).PrintInventory(inventory)
	}

	// Persist the inventory concurrently with prompt construction; the
	// generation call never waits on storage.
	g, gCtx := errgroup.WithContext(ctx)
	if opts.Database != nil && result.LetterID != uuid.Nil {
		letterID := result.LetterID
		g.Go(func() error {
			if err := opts.Database.SaveLetterInventory(gCtx, letterID, inventory); err != nil {
				log.Printf("[Pipeline] Warning: failed to persist inventory: %v", err)
			}
			return nil
		})
	}

	// Step 2: start the claim-constrained generation stream.
	transition(StateGenerating, "starting generation", nil)
	gen := generate.New(opts.Client)
	input := generate.Input{
		Kind:               opts.Kind,
		Language:           opts.Language,
		Profile:            opts.Profile,
		Documents:          opts.Documents,
		Inventory:          inventory,
		JobTitle:           opts.JobTitle,
		JobDescription:     opts.JobDescription,
		CustomInstructions: opts.CustomInstructions,
	}

	stream, err := gen.Generate(ctx, input)
	if err != nil {
		transition(StateFailed, err.Error(), nil)
		failLetter(ctx, &opts, result, err)
		_ = g.Wait()
		return result, err
	}

	// Step 3: relay the stream. The first increment flips the run to
	// STREAMING; a terminal error chunk fails the whole run.
	var content []byte
	for chunk := range stream {
		if chunk.Err != nil {
			transition(StateFailed, chunk.Err.Error(), nil)
			failLetter(ctx, &opts, result, chunk.Err)
			_ = g.Wait()
			return result, fmt.Errorf("generation stream failed: %w", chunk.Err)
		}
		if result.State != StateStreaming {
			transition(StateStreaming, "streaming output", nil)
		}
		content = append(content, chunk.Text...)
		if opts.OnChunk != nil {
			opts.OnChunk(chunk.Text)
		}
	}
	result.Content = string(content)

	_ = g.Wait()

	// Post-generation diagnostics are warnings, never failures.
	result.Violations = append(
		verify.CheckNumbers(result.Content, inventory, opts.Documents, opts.JobDescription),
		verify.CheckCredentials(result.Content, inventory)...,
	)
	for _, v := range result.Violations {
		log.Printf("[Pipeline] Claim warning (%s): %s", v.Type, v.Details)
	}
	if opts.Verbose {
		observability.NewPrinter(os.Stdout).PrintViolations(result.Violations)
	}

	if opts.Database != nil && result.LetterID != uuid.Nil {
		if err := opts.Database.CompleteLetter(ctx, result.LetterID, result.Content); err != nil {
			log.Printf("[Pipeline] Warning: failed to store letter content: %v", err)
		}
	}

	result.State = StateComplete
	emitProgress(&opts, StateComplete, "run complete", nil)
	return result, nil
}

func failLetter(ctx context.Context, opts *RunOptions, result *Result, cause error) {
	if opts.Database != nil && result.LetterID != uuid.Nil {
		if err := opts.Database.FailLetter(ctx, result.LetterID, cause.Error()); err != nil {
			log.Printf("[Pipeline] Warning: failed to record letter failure: %v", err)
		}
	}
}
