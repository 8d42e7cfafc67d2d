package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"order-chatbot/internal/core/ai/ollama"
	"order-chatbot/internal/infrastructure/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *ollama.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return ollama.NewClient(&config.OllamaConfig{
		URL:             srv.URL,
		Model:           "mistral",
		Temperature:     0.7,
		Timeout:         5 * time.Second,
		ClassifyTimeout: 2 * time.Second,
	})
}

func TestGenerate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "mistral", req["model"])
		assert.Equal(t, false, req["stream"])

		json.NewEncoder(w).Encode(map[string]interface{}{
			"response": "Hello! What would you like to order?\nCustomer:",
			"done":     true,
		})
	})

	got, err := client.Generate(context.Background(), "some prompt")
	require.NoError(t, err)
	// 殘留的停止 token 要被去掉
	assert.Equal(t, "Hello! What would you like to order?", got)
}

func TestGenerateServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	})

	_, err := client.Generate(context.Background(), "some prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestGenerateEmptyResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"response": "", "done": true})
	})

	_, err := client.Generate(context.Background(), "some prompt")
	require.Error(t, err)
}

func TestClassifyYesNo(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   bool
	}{
		{name: "yes answer", answer: "yes", want: true},
		{name: "yes with trailing text", answer: "Yes, the customer agreed.", want: true},
		{name: "no answer", answer: "no", want: false},
		{name: "unclear answer treated as no", answer: "the customer seems unsure", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				json.NewEncoder(w).Encode(map[string]interface{}{"response": tt.answer, "done": true})
			})

			got, err := client.ClassifyYesNo(context.Background(), "Correct?", "sure thing")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyYesNoTransportError(t *testing.T) {
	client := ollama.NewClient(&config.OllamaConfig{
		URL:     "http://127.0.0.1:1",
		Model:   "mistral",
		Timeout: time.Second,
	})

	got, err := client.ClassifyYesNo(context.Background(), "Correct?", "yes")
	require.Error(t, err)
	assert.False(t, got)
}
