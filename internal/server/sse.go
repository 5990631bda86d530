package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jonathan/career-docs/internal/pipeline"
)

// SSEWriter helps write Server-Sent Events
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	return &SSEWriter{w: w, flusher: flusher}, nil
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteState sends a run state transition. The inventory rides along on
// the extraction states so clients can render it before prose arrives.
func (s *SSEWriter) WriteState(event pipeline.ProgressEvent) {
	s.WriteEvent("state", event) //nolint:errcheck
}

// WriteChunk sends one text increment of the streamed artifact
func (s *SSEWriter) WriteChunk(text string) {
	s.WriteEvent("chunk", map[string]string{"text": text}) //nolint:errcheck
}

// WriteError sends a terminal error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent("error", map[string]string{"error": message}) //nolint:errcheck
}

// WriteComplete sends a completion event
func (s *SSEWriter) WriteComplete(letterID, status string) {
	s.WriteEvent("complete", map[string]string{ //nolint:errcheck
		"letter_id": letterID,
		"status":    status,
	})
}
