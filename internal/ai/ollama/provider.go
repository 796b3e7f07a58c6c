package ollama

import (
	"context"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/shopfloor/internal/ai/llm"
	"github.com/kiranshivaraju/shopfloor/internal/config"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// Provider implements models.AIProvider using Ollama.
type Provider struct {
	cfg  config.OllamaConfig
	http *http.Client
}

func NewProvider(cfg config.OllamaConfig) *Provider {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Provider{cfg: cfg, http: &http.Client{}}
}

func (p *Provider) Name() string { return "ollama" }

type generateRequest struct {
	Model  string `json:"model"`
	System string `json:"system,omitempty"`
	Prompt string `json:"prompt"`
	Format string `json:"format,omitempty"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Complete implements llm.Completer.
func (p *Provider) Complete(ctx context.Context, system, user string) (string, error) {
	var resp generateResponse
	err := llm.PostJSON(ctx, p.http, p.cfg.BaseURL+"/api/generate", nil, generateRequest{
		Model:  p.cfg.Model,
		System: system,
		Prompt: user,
		Format: "json",
	}, &resp)
	if err != nil {
		return "", err
	}
	return resp.Response, nil
}

func (p *Provider) EstimateLaborHours(ctx context.Context, complaint string, jobType models.JobType) (*float64, error) {
	return llm.EstimateLaborHours(ctx, p, complaint, jobType)
}

func (p *Provider) GenerateInspectionList(ctx context.Context, prompt string) ([]models.InspectionCategory, error) {
	return llm.GenerateInspectionList(ctx, p, prompt)
}

var _ models.AIProvider = (*Provider)(nil)
