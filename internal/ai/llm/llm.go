// Package llm holds what the AI providers share: sentinel errors, prompts,
// response parsing, and the JSON-over-HTTP transport.
package llm

import (
	"context"
	"errors"

	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

var (
	ErrProviderUnavailable = errors.New("ai provider unavailable")
	ErrProviderDisabled    = errors.New("ai provider disabled")
	ErrInferenceTimeout    = errors.New("ai inference timeout")
	ErrInvalidResponse     = errors.New("ai provider returned invalid response")
)

// Completer sends one system+user prompt pair and returns the raw model text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// EstimateLaborHours asks c for a labor estimate and parses the answer.
func EstimateLaborHours(ctx context.Context, c Completer, complaint string, jobType models.JobType) (*float64, error) {
	text, err := c.Complete(ctx, LaborSystemPrompt, LaborUserPrompt(complaint, jobType))
	if err != nil {
		return nil, err
	}
	return ParseLaborHours(text)
}

// GenerateInspectionList asks c for checklist categories and parses the answer.
func GenerateInspectionList(ctx context.Context, c Completer, prompt string) ([]models.InspectionCategory, error) {
	text, err := c.Complete(ctx, InspectionSystemPrompt, prompt)
	if err != nil {
		return nil, err
	}
	return ParseCategories(text)
}
