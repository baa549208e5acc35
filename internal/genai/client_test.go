package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dt-pm-tools/ticket2task/internal/config"
)

func TestGenerateSendsConstrainedRequest(t *testing.T) {
	var captured map[string]any

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": `{"content":"t","description":"d"}`}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	client := NewClient(config.GenAIConfig{Endpoint: ts.URL, APIKey: "test-key", Model: "test-model"})

	schema := json.RawMessage(`{"type":"object"}`)
	out, err := client.Generate(context.Background(), "extract the task", schema)
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"t","description":"d"}`, string(out))

	assert.Equal(t, "test-model", captured["model"])
	assert.Equal(t, float64(0), captured["temperature"], "sampling must be deterministic")

	format, ok := captured["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
	spec, ok := format["json_schema"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "task", spec["name"])
	assert.Equal(t, true, spec["strict"])
	assert.NotNil(t, spec["schema"])

	messages, ok := captured["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	msg := messages[0].(map[string]any)
	assert.Equal(t, "user", msg["role"])
	assert.Equal(t, "extract the task", msg["content"])
}

func TestGenerateBackendError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	client := NewClient(config.GenAIConfig{Endpoint: ts.URL, APIKey: "k", Model: "m"})

	_, err := client.Generate(context.Background(), "x", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestGenerateEmptyChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer ts.Close()

	client := NewClient(config.GenAIConfig{Endpoint: ts.URL, APIKey: "k", Model: "m"})

	_, err := client.Generate(context.Background(), "x", json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty choices")
}
