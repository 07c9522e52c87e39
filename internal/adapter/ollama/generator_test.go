package ollama

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"council-rag/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestGenerator_Generate(t *testing.T) {
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		resp := chatResponse{Done: true}
		resp.Message.Content = `{"answer":"Le conseil a voté le budget.","citations":[],"fallback":false,"reason":""}`
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	gen := NewGenerator(server.URL, "mistral", server.Client(), testLogger())

	messages := []domain.Message{
		{Role: "system", Content: "instructions"},
		{Role: "user", Content: "question"},
	}
	resp, err := gen.Generate(context.Background(), messages, 512)

	require.NoError(t, err)
	assert.True(t, resp.Done)
	assert.Contains(t, resp.Text, "budget")

	assert.Equal(t, "mistral", gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.Len(t, gotReq.Messages, 2)
	assert.Equal(t, float64(512), gotReq.Options["num_predict"])
	assert.Equal(t, generationTemperature, gotReq.Options["temperature"])
}

func TestGenerator_Generate_BadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	gen := NewGenerator(server.URL, "mistral", server.Client(), testLogger())

	_, err := gen.Generate(context.Background(), []domain.Message{{Role: "user", Content: "q"}}, 0)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
