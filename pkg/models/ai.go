// Package models contains shared data models used across the shopfloor codebase.
package models

import "context"

// AIProvider is the interface all text-generation integrations implement.
// Never call specific AI providers directly — always inject this interface.
type AIProvider interface {
	// EstimateLaborHours suggests billable hours for a single job.
	// A nil result with a nil error means the model declined to answer.
	EstimateLaborHours(ctx context.Context, complaint string, jobType JobType) (*float64, error)
	// GenerateInspectionList builds checklist categories from a free-text prompt.
	GenerateInspectionList(ctx context.Context, prompt string) ([]InspectionCategory, error)
	// Name returns the provider identifier (e.g., "ollama", "openai").
	Name() string
}

// InspectionCategory is one AI-generated checklist category.
type InspectionCategory struct {
	Title string   `json:"title"`
	Items []string `json:"items"`
}
