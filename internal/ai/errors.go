package ai

import "github.com/kiranshivaraju/shopfloor/internal/ai/llm"

var (
	ErrProviderUnavailable = llm.ErrProviderUnavailable
	ErrProviderDisabled    = llm.ErrProviderDisabled
	ErrInferenceTimeout    = llm.ErrInferenceTimeout
	ErrInvalidResponse     = llm.ErrInvalidResponse
)
