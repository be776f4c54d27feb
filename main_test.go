package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"property_brochure_writer/config"
	"property_brochure_writer/generator"
	"property_brochure_writer/logger"
)

func TestBuildLLM(t *testing.T) {
	llm, err := buildLLM(config.Config{LLM: config.LLMConfig{Provider: config.ProviderMock}})
	require.NoError(t, err)
	require.IsType(t, generator.MockLLM{}, llm)

	llm, err = buildLLM(config.Config{LLM: config.LLMConfig{Provider: config.ProviderOpenAI, APIKey: "sk-test"}})
	require.NoError(t, err)
	openaiLLM, ok := llm.(*generator.OpenAILLM)
	require.True(t, ok)
	require.Equal(t, generator.DefaultModel, openaiLLM.Model)

	_, err = buildLLM(config.Config{LLM: config.LLMConfig{Provider: "bard"}})
	require.Error(t, err)
}

func TestRunOnceWritesHTML(t *testing.T) {
	dir := t.TempDir()
	fieldsPath := filepath.Join(dir, "fields.json")
	outPath := filepath.Join(dir, "brochure.html")
	require.NoError(t, os.WriteFile(fieldsPath, []byte(`{"entrance":"Oak door","study":"Built-in shelving","bedrooms":4}`), 0o600))

	agent, err := generator.NewAgent(generator.MockLLM{}, "", nil)
	require.NoError(t, err)

	require.NoError(t, runOnce(context.Background(), agent, logger.Nop(), fieldsPath, outPath))

	page, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Contains(t, string(page), "<h1>Welcome Home</h1>")
	require.Contains(t, string(page), "<li>entrance: Oak door</li>")
}

func TestRunOnceRejectsEmptyFields(t *testing.T) {
	fieldsPath := filepath.Join(t.TempDir(), "fields.json")
	require.NoError(t, os.WriteFile(fieldsPath, []byte(`{"kitchen":"  "}`), 0o600))

	agent, err := generator.NewAgent(generator.MockLLM{}, "", nil)
	require.NoError(t, err)

	err = runOnce(context.Background(), agent, logger.Nop(), fieldsPath, "")
	require.ErrorIs(t, err, generator.ErrNoValidInput)
}

func TestBuildLLMMakesOneCallRegardlessOfMaxRetries(t *testing.T) {
	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"error":{"message":"busy","type":"server_error"}}`))
	}))
	t.Cleanup(upstream.Close)

	llm, err := buildLLM(config.Config{LLM: config.LLMConfig{
		Provider:   config.ProviderOpenAI,
		APIKey:     "sk-test",
		BaseURL:    upstream.URL + "/v1",
		MaxRetries: 3,
	}})
	require.NoError(t, err)

	req, err := generator.Normalize(generator.FieldSet{{Name: "kitchen", Value: generator.TextValue("Large")}}, "")
	require.NoError(t, err)
	_, err = llm.Complete(context.Background(), req)
	require.Error(t, err)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}
