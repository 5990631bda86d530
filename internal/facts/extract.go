package facts

import (
	"context"
	"strings"

	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/prompts"
	"github.com/jonathan/career-docs/internal/types"
)

// Extractor runs the fact-extraction model call against an aggregated
// document corpus.
type Extractor struct {
	client llm.Client
}

// NewExtractor creates an Extractor backed by the given client.
func NewExtractor(client llm.Client) *Extractor {
	return &Extractor{client: client}
}

// Extract invokes the extraction model on the corpus and sanitizes the
// result. The returned inventory is always structurally valid. A non-nil
// error is a soft-failure signal (provider error or unparseable output)
// for state tracking; callers proceed with the returned empty inventory
// regardless. An empty or whitespace-only corpus short-circuits: the model
// is never invoked on empty input.
func (e *Extractor) Extract(ctx context.Context, corpus string) (types.FactInventory, error) {
	if strings.TrimSpace(corpus) == "" {
		return types.EmptyInventory(), nil
	}

	system := prompts.Extraction.MustGet("system")
	prompt := prompts.Format(prompts.Extraction.MustGet("user"), map[string]string{
		"Corpus": corpus,
	})

	raw, err := e.client.GenerateJSON(ctx, system, prompt, llm.TierStandard)
	if err != nil {
		return types.EmptyInventory(), &APICallError{Message: "fact extraction", Cause: err}
	}

	return parseInventory(raw)
}
