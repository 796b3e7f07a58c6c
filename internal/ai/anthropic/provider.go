package anthropic

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/shopfloor/internal/ai/llm"
	"github.com/kiranshivaraju/shopfloor/internal/config"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

const (
	apiVersion = "2023-06-01"
	maxTokens  = 1024
)

// Provider implements models.AIProvider using the Anthropic Messages API.
type Provider struct {
	cfg  config.AnthropicConfig
	http *http.Client
}

func NewProvider(cfg config.AnthropicConfig) *Provider {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Provider{cfg: cfg, http: &http.Client{}}
}

func (p *Provider) Name() string { return "anthropic" }

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Complete implements llm.Completer.
func (p *Provider) Complete(ctx context.Context, system, user string) (string, error) {
	headers := map[string]string{
		"x-api-key":         p.cfg.APIKey,
		"anthropic-version": apiVersion,
	}

	var resp messagesResponse
	err := llm.PostJSON(ctx, p.http, p.cfg.BaseURL+"/v1/messages", headers, messagesRequest{
		Model:     p.cfg.Model,
		MaxTokens: maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: user}},
	}, &resp)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("%w: no text content", llm.ErrInvalidResponse)
	}
	return b.String(), nil
}

func (p *Provider) EstimateLaborHours(ctx context.Context, complaint string, jobType models.JobType) (*float64, error) {
	return llm.EstimateLaborHours(ctx, p, complaint, jobType)
}

func (p *Provider) GenerateInspectionList(ctx context.Context, prompt string) ([]models.InspectionCategory, error) {
	return llm.GenerateInspectionList(ctx, p, prompt)
}

var _ models.AIProvider = (*Provider)(nil)
