package ai

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// Service wraps a provider with the inference timeout and turns every
// failure into an absent result. Nothing returned from here is an error:
// AI output is advisory and the callers always have a fallback.
type Service struct {
	provider models.AIProvider
	timeout  time.Duration
}

// NewService creates a Service. A nil provider behaves like Disabled.
func NewService(provider models.AIProvider, timeout time.Duration) *Service {
	if provider == nil {
		provider = Disabled{}
	}
	return &Service{provider: provider, timeout: timeout}
}

// ProviderName reports the configured provider.
func (s *Service) ProviderName() string { return s.provider.Name() }

// EstimateLaborHours returns the provider's estimate, or nil when the
// provider is disabled, fails, times out, or declines to answer.
func (s *Service) EstimateLaborHours(ctx context.Context, complaint string, jobType models.JobType) *float64 {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	hours, err := s.provider.EstimateLaborHours(ctx, complaint, jobType)
	if err != nil {
		s.logFailure("labor estimate", err, "job_type", string(jobType))
		return nil
	}
	return hours
}

// GenerateInspectionList returns provider-built checklist categories, or nil
// on any failure. Categories without a title or items are dropped.
func (s *Service) GenerateInspectionList(ctx context.Context, prompt string) []models.InspectionCategory {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	categories, err := s.provider.GenerateInspectionList(ctx, prompt)
	if err != nil {
		s.logFailure("inspection list", err)
		return nil
	}

	out := make([]models.InspectionCategory, 0, len(categories))
	for _, c := range categories {
		if c.Title == "" || len(c.Items) == 0 {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Service) logFailure(call string, err error, attrs ...any) {
	if errors.Is(err, ErrProviderDisabled) {
		return
	}
	args := append([]any{"call", call, "provider", s.provider.Name(), "error", err}, attrs...)
	slog.Warn("ai call failed, using fallback", args...)
}
