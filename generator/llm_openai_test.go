package generator

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func completionBody(content string) string {
	b, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "gpt-3.5-turbo",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
	return string(b)
}

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAILLM {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	llm, err := NewOpenAILLMFromConfig(&LLMSettings{
		Provider: "openai",
		Model:    "gpt-3.5-turbo",
		APIKey:   "sk-test",
		BaseURL:  srv.URL + "/v1",
	})
	require.NoError(t, err)
	return llm
}

func TestNewOpenAILLMFromConfigValidates(t *testing.T) {
	_, err := NewOpenAILLMFromConfig(nil)
	require.Error(t, err)
	_, err = NewOpenAILLMFromConfig(&LLMSettings{Model: "m"})
	require.Error(t, err)
	_, err = NewOpenAILLMFromConfig(&LLMSettings{APIKey: "k"})
	require.Error(t, err)
}

func TestOpenAICompleteSendsMessages(t *testing.T) {
	var (
		payload map[string]any
		path    string
		auth    string
	)
	llm := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&payload)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completionBody(validReply)))
	})

	req, err := Normalize(FieldSet{{Name: "kitchen", Value: TextValue("Large modern kitchen")}}, "")
	require.NoError(t, err)
	out, err := llm.Complete(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, validReply, out)

	require.True(t, strings.HasSuffix(path, "/chat/completions"), path)
	require.Equal(t, "Bearer sk-test", auth)
	require.Equal(t, "gpt-3.5-turbo", payload["model"])
	require.InDelta(t, 0.7, payload["temperature"], 1e-9)
	msgs, ok := payload["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 2)
	first := msgs[0].(map[string]any)
	second := msgs[1].(map[string]any)
	require.Equal(t, "system", first["role"])
	require.Equal(t, SystemInstruction, first["content"])
	require.Equal(t, "user", second["role"])
	require.Contains(t, second["content"], "kitchen:\nLarge modern kitchen")
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	llm := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	})
	_, err := llm.Complete(context.Background(), GenerationRequest{Model: "m", Sections: []Section{{Label: "a", Content: "b"}}})
	require.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOpenAICompleteDoesNotRetryServerErrors(t *testing.T) {
	var calls int32
	llm := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	})
	_, err := llm.Complete(context.Background(), GenerationRequest{Model: "m", Sections: []Section{{Label: "a", Content: "b"}}})
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
