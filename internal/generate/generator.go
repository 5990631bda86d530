package generate

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/career-docs/internal/llm"
)

// validate is the shared validator instance for generation inputs.
var validate = validator.New()

// Generator runs the claim-constrained generation call.
type Generator struct {
	client llm.Client
}

// New creates a Generator backed by the given client.
func New(client llm.Client) *Generator {
	return &Generator{client: client}
}

// Validate checks an input before any model call. Input errors are
// rejected upfront; nothing downstream ever sees a half-valid request.
func (in *Input) Validate() error {
	in.Normalize()

	if err := validate.Struct(in); err != nil {
		return &InputError{Message: "request failed validation", Cause: err}
	}

	// The generator needs at least one evidence source: the inventory, a
	// document, or the profile summary for the degraded path.
	if in.Inventory.IsEmpty() && !hasContent(in) {
		return &InputError{Message: "no documents or profile summary to generate from"}
	}
	return nil
}

func hasContent(in *Input) bool {
	if strings.TrimSpace(in.Profile.Summary) != "" {
		return true
	}
	for _, doc := range in.Documents {
		if strings.TrimSpace(doc.Content) != "" {
			return true
		}
	}
	return false
}

// Generate starts the streamed generation call and returns its chunk
// channel. Errors before the first byte are returned directly; provider
// failures mid-stream arrive as a terminal error chunk on the channel,
// because a success framing cannot be retracted once bytes have been sent.
// The inventory inside in must be finalized before this is called; every
// claim in the output is gated on it.
func (g *Generator) Generate(ctx context.Context, in Input) (<-chan llm.Chunk, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	system, user := BuildPrompt(in)

	stream, err := g.client.GenerateStream(ctx, system, user, llm.TierAdvanced)
	if err != nil {
		return nil, &GenerationError{Message: "could not start stream", Cause: err}
	}
	return stream, nil
}

// GenerateText runs Generate and collects the full artifact into a string.
// Partial output is discarded on mid-stream failure; callers that need the
// partial text should consume Generate directly.
func (g *Generator) GenerateText(ctx context.Context, in Input) (string, error) {
	stream, err := g.Generate(ctx, in)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for chunk := range stream {
		if chunk.Err != nil {
			return "", &GenerationError{Message: "stream aborted", Cause: chunk.Err}
		}
		sb.WriteString(chunk.Text)
	}
	return sb.String(), nil
}
