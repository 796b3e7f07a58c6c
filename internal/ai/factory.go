package ai

import (
	"context"
	"fmt"

	"github.com/kiranshivaraju/shopfloor/internal/ai/anthropic"
	"github.com/kiranshivaraju/shopfloor/internal/ai/ollama"
	"github.com/kiranshivaraju/shopfloor/internal/ai/openai"
	"github.com/kiranshivaraju/shopfloor/internal/ai/vllm"
	"github.com/kiranshivaraju/shopfloor/internal/config"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// NewProvider constructs the appropriate AI provider based on config.
// Called once at server startup.
func NewProvider(cfg config.AIConfig) (models.AIProvider, error) {
	switch cfg.Provider {
	case "none":
		return Disabled{}, nil
	case "ollama":
		return ollama.NewProvider(cfg.Ollama), nil
	case "vllm":
		return vllm.NewProvider(cfg.VLLM), nil
	case "openai":
		return openai.NewProvider(cfg.OpenAI), nil
	case "anthropic":
		return anthropic.NewProvider(cfg.Anthropic), nil
	default:
		return nil, fmt.Errorf("unknown AI provider %q: must be one of none, ollama, vllm, openai, anthropic", cfg.Provider)
	}
}

// Disabled is the provider used when AI_PROVIDER=none. Every call fails with
// ErrProviderDisabled so callers take their deterministic fallback.
type Disabled struct{}

func (Disabled) Name() string { return "none" }

func (Disabled) EstimateLaborHours(context.Context, string, models.JobType) (*float64, error) {
	return nil, ErrProviderDisabled
}

func (Disabled) GenerateInspectionList(context.Context, string) ([]models.InspectionCategory, error) {
	return nil, ErrProviderDisabled
}

var _ models.AIProvider = Disabled{}
