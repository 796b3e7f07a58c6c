package vllm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kiranshivaraju/shopfloor/internal/ai/vllm"
	"github.com/kiranshivaraju/shopfloor/internal/config"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProvider_EstimateLaborHours(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"hours\": null}"}}]}`))
	}))
	defer srv.Close()

	p := vllm.NewProvider(config.VLLMConfig{BaseURL: srv.URL, Model: "mistral"})
	hours, err := p.EstimateLaborHours(context.Background(), "odd noise", models.JobTypeDiagnosis)
	require.NoError(t, err)
	assert.Nil(t, hours)
}
