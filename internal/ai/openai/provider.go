package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/shopfloor/internal/ai/llm"
	"github.com/kiranshivaraju/shopfloor/internal/config"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// ChatClient speaks the OpenAI chat completions protocol. vLLM exposes the
// same endpoint, so it is shared by both providers.
type ChatClient struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewChatClient returns a client for baseURL. apiKey may be empty for
// self-hosted servers.
func NewChatClient(baseURL, apiKey, model string) *ChatClient {
	return &ChatClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete implements llm.Completer.
func (c *ChatClient) Complete(ctx context.Context, system, user string) (string, error) {
	headers := map[string]string{}
	if c.apiKey != "" {
		headers["Authorization"] = "Bearer " + c.apiKey
	}

	var resp chatResponse
	err := llm.PostJSON(ctx, c.http, c.baseURL+"/v1/chat/completions", headers, chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}, &resp)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", llm.ErrInvalidResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

// Provider implements models.AIProvider using the OpenAI API.
type Provider struct {
	chat *ChatClient
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return &Provider{chat: NewChatClient(cfg.BaseURL, cfg.APIKey, cfg.Model)}
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) EstimateLaborHours(ctx context.Context, complaint string, jobType models.JobType) (*float64, error) {
	return llm.EstimateLaborHours(ctx, p.chat, complaint, jobType)
}

func (p *Provider) GenerateInspectionList(ctx context.Context, prompt string) ([]models.InspectionCategory, error) {
	return llm.GenerateInspectionList(ctx, p.chat, prompt)
}

var _ models.AIProvider = (*Provider)(nil)
