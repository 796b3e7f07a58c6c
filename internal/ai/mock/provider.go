package mock

import (
	"context"

	"github.com/kiranshivaraju/shopfloor/internal/ai"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// MockProvider satisfies models.AIProvider for testing.
type MockProvider struct {
	Name_        string
	EstimateFunc func(ctx context.Context, complaint string, jobType models.JobType) (*float64, error)
	GenerateFunc func(ctx context.Context, prompt string) ([]models.InspectionCategory, error)
}

func (m *MockProvider) Name() string { return m.Name_ }

func (m *MockProvider) EstimateLaborHours(ctx context.Context, complaint string, jobType models.JobType) (*float64, error) {
	if m.EstimateFunc != nil {
		return m.EstimateFunc(ctx, complaint, jobType)
	}
	return nil, nil
}

func (m *MockProvider) GenerateInspectionList(ctx context.Context, prompt string) ([]models.InspectionCategory, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return nil, nil
}

// NewMockProvider returns a MockProvider with sensible default responses.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock",
		EstimateFunc: func(_ context.Context, _ string, _ models.JobType) (*float64, error) {
			h := 1.5
			return &h, nil
		},
		GenerateFunc: func(_ context.Context, _ string) ([]models.InspectionCategory, error) {
			return []models.InspectionCategory{
				{Title: "Lights", Items: []string{"Headlights", "Brake Lights"}},
				{Title: "Fluids", Items: []string{"Coolant Level", "Brake Fluid"}},
			}, nil
		},
	}
}

// NewFailingProvider returns a MockProvider that always returns the given error.
func NewFailingProvider(err error) *MockProvider {
	return &MockProvider{
		Name_: "mock-failing",
		EstimateFunc: func(_ context.Context, _ string, _ models.JobType) (*float64, error) {
			return nil, err
		},
		GenerateFunc: func(_ context.Context, _ string) ([]models.InspectionCategory, error) {
			return nil, err
		},
	}
}

// NewTimeoutProvider returns a MockProvider that blocks until context is cancelled.
func NewTimeoutProvider() *MockProvider {
	return &MockProvider{
		Name_: "mock-timeout",
		EstimateFunc: func(ctx context.Context, _ string, _ models.JobType) (*float64, error) {
			<-ctx.Done()
			return nil, ai.ErrInferenceTimeout
		},
		GenerateFunc: func(ctx context.Context, _ string) ([]models.InspectionCategory, error) {
			<-ctx.Done()
			return nil, ai.ErrInferenceTimeout
		},
	}
}

var _ models.AIProvider = (*MockProvider)(nil)
