package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-docs/internal/llm"
	"github.com/jonathan/career-docs/internal/types"
)

// fakeStreamClient implements llm.Client, replaying scripted chunks.
type fakeStreamClient struct {
	chunks     []llm.Chunk
	startErr   error
	lastSystem string
	lastPrompt string
	calls      int
}

func (f *fakeStreamClient) GenerateJSON(_ context.Context, _, _ string, _ llm.ModelTier) (string, error) {
	return "", errors.New("not used")
}

func (f *fakeStreamClient) GenerateStream(_ context.Context, system, prompt string, _ llm.ModelTier) (<-chan llm.Chunk, error) {
	f.calls++
	f.lastSystem = system
	f.lastPrompt = prompt
	if f.startErr != nil {
		return nil, f.startErr
	}
	out := make(chan llm.Chunk, len(f.chunks))
	for _, c := range f.chunks {
		out <- c
	}
	close(out)
	return out, nil
}

func (f *fakeStreamClient) GetModel(_ llm.ModelTier) string { return "fake-model" }
func (f *fakeStreamClient) Close() error                    { return nil }

func TestValidate_InputErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing job description", func(in *Input) { in.JobDescription = "" }},
		{"whitespace job description", func(in *Input) { in.JobDescription = "   " }},
		{"missing job title", func(in *Input) { in.JobTitle = "" }},
		{"unknown language", func(in *Input) { in.Language = "fr" }},
		{"unknown kind", func(in *Input) { in.Kind = "novella" }},
		{"no evidence sources at all", func(in *Input) {
			in.Inventory = types.EmptyInventory()
			in.Documents = nil
			in.Profile = types.Profile{}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := sampleInput()
			tt.mutate(&in)

			err := in.Validate()

			require.Error(t, err)
			var inputErr *InputError
			assert.ErrorAs(t, err, &inputErr)
		})
	}
}

func TestValidate_RejectsBeforeModelCall(t *testing.T) {
	client := &fakeStreamClient{}
	g := New(client)

	in := sampleInput()
	in.JobDescription = ""

	_, err := g.Generate(context.Background(), in)

	require.Error(t, err)
	assert.Equal(t, 0, client.calls, "invalid input must never reach the provider")
}

func TestGenerate_RelaysChunks(t *testing.T) {
	client := &fakeStreamClient{chunks: []llm.Chunk{
		{Text: "Dear hiring manager,"},
		{Text: " I have deployed Docker"},
		{Text: " containers at Acme Corp."},
	}}
	g := New(client)

	stream, err := g.Generate(context.Background(), sampleInput())
	require.NoError(t, err)

	var got []string
	for chunk := range stream {
		require.NoError(t, chunk.Err)
		got = append(got, chunk.Text)
	}
	assert.Len(t, got, 3)
	assert.Equal(t, "Dear hiring manager,", got[0])

	// The composite prompt was actually sent.
	assert.Contains(t, client.lastSystem, "NON-NEGOTIABLE CLAIM RULES")
	assert.Contains(t, client.lastPrompt, "Platform Engineer")
}

func TestGenerate_UpfrontProviderError(t *testing.T) {
	client := &fakeStreamClient{startErr: errors.New("quota exhausted")}
	g := New(client)

	_, err := g.Generate(context.Background(), sampleInput())

	require.Error(t, err)
	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestGenerate_MidStreamErrorIsTerminalChunk(t *testing.T) {
	client := &fakeStreamClient{chunks: []llm.Chunk{
		{Text: "partial output"},
		{Err: errors.New("connection reset")},
	}}
	g := New(client)

	stream, err := g.Generate(context.Background(), sampleInput())
	require.NoError(t, err)

	first, ok := <-stream
	require.True(t, ok)
	assert.Equal(t, "partial output", first.Text)
	require.NoError(t, first.Err)

	second, ok := <-stream
	require.True(t, ok)
	assert.Error(t, second.Err)

	// Terminal: nothing after the error chunk.
	_, ok = <-stream
	assert.False(t, ok)
}

func TestGenerateText_CollectsStream(t *testing.T) {
	client := &fakeStreamClient{chunks: []llm.Chunk{
		{Text: "Hello "},
		{Text: "world"},
	}}
	g := New(client)

	text, err := g.GenerateText(context.Background(), sampleInput())

	require.NoError(t, err)
	assert.Equal(t, "Hello world", text)
}

func TestGenerateText_StreamErrorPropagates(t *testing.T) {
	client := &fakeStreamClient{chunks: []llm.Chunk{
		{Text: "partial"},
		{Err: errors.New("boom")},
	}}
	g := New(client)

	_, err := g.GenerateText(context.Background(), sampleInput())

	require.Error(t, err)
	var genErr *GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestGenerate_EmptyInventoryUsesDocumentFallback(t *testing.T) {
	client := &fakeStreamClient{chunks: []llm.Chunk{{Text: "ok"}}}
	g := New(client)

	in := sampleInput()
	in.Inventory = types.EmptyInventory()

	stream, err := g.Generate(context.Background(), in)
	require.NoError(t, err)
	for range stream {
	}

	assert.Contains(t, client.lastPrompt, "No verified fact inventory could be extracted")
}
