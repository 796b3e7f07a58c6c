package vllm

import (
	"context"

	"github.com/kiranshivaraju/shopfloor/internal/ai/llm"
	"github.com/kiranshivaraju/shopfloor/internal/ai/openai"
	"github.com/kiranshivaraju/shopfloor/internal/config"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// Provider implements models.AIProvider using vLLM's OpenAI-compatible server.
type Provider struct {
	chat *openai.ChatClient
}

func NewProvider(cfg config.VLLMConfig) *Provider {
	return &Provider{chat: openai.NewChatClient(cfg.BaseURL, "", cfg.Model)}
}

func (p *Provider) Name() string { return "vllm" }

func (p *Provider) EstimateLaborHours(ctx context.Context, complaint string, jobType models.JobType) (*float64, error) {
	return llm.EstimateLaborHours(ctx, p.chat, complaint, jobType)
}

func (p *Provider) GenerateInspectionList(ctx context.Context, prompt string) ([]models.InspectionCategory, error) {
	return llm.GenerateInspectionList(ctx, p.chat, prompt)
}

var _ models.AIProvider = (*Provider)(nil)
