package ollama_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiranshivaraju/shopfloor/internal/ai/ollama"
	"github.com/kiranshivaraju/shopfloor/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_GenerateInspectionList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req struct {
			Model  string `json:"model"`
			Prompt string `json:"prompt"`
			Format string `json:"format"`
			Stream bool   `json:"stream"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3", req.Model)
		assert.Equal(t, "winter prep", req.Prompt)
		assert.Equal(t, "json", req.Format)
		assert.False(t, req.Stream)

		_ = json.NewEncoder(w).Encode(map[string]string{
			"response": `{"categories":[{"title":"Cold Weather","items":["Battery Test","Antifreeze"]}]}`,
		})
	}))
	defer srv.Close()

	p := ollama.NewProvider(config.OllamaConfig{BaseURL: srv.URL, Model: "llama3"})
	categories, err := p.GenerateInspectionList(context.Background(), "winter prep")
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, []string{"Battery Test", "Antifreeze"}, categories[0].Items)
}
