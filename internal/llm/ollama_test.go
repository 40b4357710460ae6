package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Ollama client:
// - Complete posts model, prompt, stream=false and temperature to /api/generate
// - a 200 response returns the "response" field
// - 404 / "model not found" maps to ErrModelUnavailable
// - other error statuses map to ErrRequestFailed
// - a closed server maps to ErrUnreachable
// - a slow server maps to ErrRequestFailed via the client timeout
// - Answer converts each failure into the matching in-band message
// - Answer reports an empty response explicitly
// - NewCompleter selects providers and rejects unknown names

func TestOllamaClient_Complete(t *testing.T) {
	t.Parallel()

	var got generateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(generateResponse{Response: "It parses code."})
	}))
	defer server.Close()

	client := NewOllamaClient(Config{Endpoint: server.URL + "/", Model: "llama3", Temperature: 0.3})

	resp, err := client.Complete(context.Background(), "explain")
	require.NoError(t, err)
	assert.Equal(t, "It parses code.", resp)

	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "explain", got.Prompt)
	assert.False(t, got.Stream)
	assert.InDelta(t, 0.3, got.Options.Temperature, 1e-9)
}

func TestOllamaClient_ModelNotFound(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(generateResponse{Error: "model 'codellama:7b' not found"})
	}))
	defer server.Close()

	client := NewOllamaClient(Config{Endpoint: server.URL})

	_, err := client.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrModelUnavailable)

	var svcErr *ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.Equal(t, DefaultModel, svcErr.Model)

	msg := Answer(context.Background(), client, "hi")
	assert.Contains(t, msg, "Error querying Ollama:")
	assert.Contains(t, msg, "Ensure model `codellama:7b` is listed in `ollama list`")
}

func TestOllamaClient_ServerError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := NewOllamaClient(Config{Endpoint: server.URL}).Complete(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrRequestFailed)
	assert.Contains(t, err.Error(), "500")
}

func TestOllamaClient_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	endpoint := server.URL
	server.Close()

	client := NewOllamaClient(Config{Endpoint: endpoint})

	_, err := client.Complete(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrUnreachable)

	msg := Answer(context.Background(), client, "hi")
	assert.Contains(t, msg, "Error: Ollama server not running at 127.0.0.1:")
	assert.Contains(t, msg, "Start it with `ollama serve`.")
}

func TestOllamaClient_Timeout(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	client := NewOllamaClient(Config{Endpoint: server.URL, Timeout: 50 * time.Millisecond})

	_, err := client.Complete(context.Background(), "hi")
	assert.ErrorIs(t, err, ErrRequestFailed)
}

func TestAnswer_UnexpectedAndEmpty(t *testing.T) {
	t.Parallel()

	invalid := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer invalid.Close()

	msg := Answer(context.Background(), NewOllamaClient(Config{Endpoint: invalid.URL}), "hi")
	assert.Contains(t, msg, "Unexpected error querying Ollama:")

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(generateResponse{})
	}))
	defer empty.Close()

	msg = Answer(context.Background(), NewOllamaClient(Config{Endpoint: empty.URL}), "hi")
	assert.Equal(t, "Error: No response from Ollama", msg)
}

func TestNewCompleter(t *testing.T) {
	t.Parallel()

	c, err := NewCompleter(Config{Provider: "ollama"})
	require.NoError(t, err)
	assert.IsType(t, &OllamaClient{}, c)

	c, err = NewCompleter(Config{Provider: "none"})
	require.NoError(t, err)
	resp, err := c.Complete(context.Background(), "anything")
	require.NoError(t, err)
	assert.Contains(t, resp, "disabled")

	_, err = NewCompleter(Config{Provider: "openai"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}
