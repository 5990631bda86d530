package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/career-docs/internal/llm"
)

// fakeClient scripts the extraction and generation model calls.
type fakeClient struct {
	extractResponse string
	extractErr      error
	streamChunks    []llm.Chunk
	streamStartErr  error
}

func (f *fakeClient) GenerateJSON(ctx context.Context, system, prompt string, tier llm.ModelTier) (string, error) {
	if f.extractErr != nil {
		return "", f.extractErr
	}
	return f.extractResponse, nil
}

func (f *fakeClient) GenerateStream(ctx context.Context, system, prompt string, tier llm.ModelTier) (<-chan llm.Chunk, error) {
	if f.streamStartErr != nil {
		return nil, f.streamStartErr
	}
	ch := make(chan llm.Chunk, len(f.streamChunks))
	for _, chunk := range f.streamChunks {
		ch <- chunk
	}
	close(ch)
	return ch, nil
}

func (f *fakeClient) GetModel(tier llm.ModelTier) string { return "fake-model" }
func (f *fakeClient) Close() error                       { return nil }

func testServer(client llm.Client) *Server {
	return newServer(nil, client)
}

func happyClient() *fakeClient {
	return &fakeClient{
		extractResponse: `{"skills": [{"skill": "Docker", "source": "cv.txt", "context": "deployed services", "confidence": "demonstrated"}], "achievements": [], "credentials": [], "companies": ["Acme Corp"]}`,
		streamChunks:    []llm.Chunk{{Text: "Dear "}, {Text: "Hiring Manager,"}},
	}
}

func generateBody() string {
	return `{
		"kind": "cover_letter",
		"language": "en",
		"job_title": "Platform Engineer",
		"job_description": "We need Kubernetes expertise.",
		"profile": {"name": "Jane Doe", "summary": "Backend engineer"},
		"documents": [{"name": "cv.txt", "type": "cv", "content": "Deployed services with Docker at Acme Corp."}]
	}`
}

func TestHandleHealth(t *testing.T) {
	s := testServer(happyClient())
	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestHandleGenerate_MissingFields(t *testing.T) {
	s := testServer(happyClient())

	tests := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"missing job title", `{"job_description": "desc"}`},
		{"missing job description", `{"job_title": "title"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/generate", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.routes().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleGenerate_InvalidJSON(t *testing.T) {
	s := testServer(happyClient())
	req := httptest.NewRequest("POST", "/generate", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerate_HappyPath(t *testing.T) {
	s := testServer(happyClient())
	req := httptest.NewRequest("POST", "/generate", strings.NewReader(generateBody()))
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "COMPLETE", resp.Status)
	assert.Equal(t, "Dear Hiring Manager,", resp.Content)
	assert.Len(t, resp.Inventory.Skills, 1)
	assert.Empty(t, resp.LetterID, "no letter is persisted without a stored profile")
}

func TestHandleGenerate_ExtractionFailureDegrades(t *testing.T) {
	client := happyClient()
	client.extractErr = errors.New("provider down")
	s := testServer(client)

	req := httptest.NewRequest("POST", "/generate", strings.NewReader(generateBody()))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "COMPLETE", resp.Status)
	assert.Empty(t, resp.Inventory.Skills)
	assert.NotNil(t, resp.Inventory.Skills, "inventory lists serialize as [] even when empty")
}

func TestHandleGenerate_UpfrontStreamFailure(t *testing.T) {
	client := happyClient()
	client.streamStartErr = errors.New("model unavailable")
	s := testServer(client)

	req := httptest.NewRequest("POST", "/generate", strings.NewReader(generateBody()))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleGenerate_InvalidProfileID(t *testing.T) {
	s := testServer(happyClient())
	body := `{"profile_id": "not-a-uuid", "job_title": "x", "job_description": "y"}`

	req := httptest.NewRequest("POST", "/generate", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerateStream_EventSequence(t *testing.T) {
	s := testServer(happyClient())
	req := httptest.NewRequest("POST", "/generate/stream", strings.NewReader(generateBody()))
	rec := httptest.NewRecorder()

	s.routes().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Contains(t, body, `"state":"EXTRACTING"`)
	assert.Contains(t, body, `"state":"EXTRACTION_OK"`)
	assert.Contains(t, body, `"state":"STREAMING"`)
	assert.Contains(t, body, "event: chunk\ndata: {\"text\":\"Dear \"}")
	assert.Contains(t, body, "event: complete\n")

	// The inventory is delivered with the extraction state, before chunks.
	stateIdx := strings.Index(body, `"state":"EXTRACTION_OK"`)
	chunkIdx := strings.Index(body, "event: chunk")
	assert.Less(t, stateIdx, chunkIdx)
	assert.Contains(t, body[stateIdx:chunkIdx], `"skill":"Docker"`)
}

func TestHandleGenerateStream_MidStreamErrorEvent(t *testing.T) {
	client := happyClient()
	client.streamChunks = []llm.Chunk{
		{Text: "Dear"},
		{Err: errors.New("connection reset")},
	}
	s := testServer(client)

	req := httptest.NewRequest("POST", "/generate/stream", strings.NewReader(generateBody()))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.Contains(t, body, "event: chunk\ndata: {\"text\":\"Dear\"}")
	assert.Contains(t, body, "event: error\n")
	assert.NotContains(t, body, "event: complete\n")
}

func TestHandleExtract(t *testing.T) {
	s := testServer(happyClient())
	body := `{
		"profile": {"name": "Jane Doe"},
		"documents": [{"name": "cv.txt", "type": "cv", "content": "Deployed services with Docker."}]
	}`

	req := httptest.NewRequest("POST", "/extract", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.FactCount)
	assert.False(t, resp.Degraded)
}

func TestHandleExtract_DegradedOnProviderError(t *testing.T) {
	client := happyClient()
	client.extractErr = errors.New("quota exhausted")
	s := testServer(client)

	body := `{"documents": [{"name": "cv.txt", "content": "some content"}]}`
	req := httptest.NewRequest("POST", "/extract", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Degraded)
	assert.Equal(t, 0, resp.FactCount)
}

func TestHandleExtract_EmptyCorpus(t *testing.T) {
	s := testServer(happyClient())
	body := `{"documents": [{"name": "cv.txt", "content": "   "}]}`

	req := httptest.NewRequest("POST", "/extract", strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.routes().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ExtractResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.FactCount)
	assert.False(t, resp.Degraded, "an empty corpus is not a failure")
}
