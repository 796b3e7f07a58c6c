package ai_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kiranshivaraju/shopfloor/internal/ai"
	"github.com/kiranshivaraju/shopfloor/internal/ai/mock"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_EstimateLaborHours(t *testing.T) {
	svc := ai.NewService(mock.NewMockProvider(), time.Second)

	hours := svc.EstimateLaborHours(context.Background(), "replace wheel bearing", models.JobTypeRepair)
	require.NotNil(t, hours)
	assert.InDelta(t, 1.5, *hours, 0.001)
	assert.Equal(t, "mock", svc.ProviderName())
}

func TestService_EstimateLaborHours_FailureIsAbsorbed(t *testing.T) {
	svc := ai.NewService(mock.NewFailingProvider(ai.ErrProviderUnavailable), time.Second)

	assert.Nil(t, svc.EstimateLaborHours(context.Background(), "x", models.JobTypeRepair))
	assert.Nil(t, svc.GenerateInspectionList(context.Background(), "x"))
}

func TestService_TimeoutIsAbsorbed(t *testing.T) {
	svc := ai.NewService(mock.NewTimeoutProvider(), 20*time.Millisecond)

	start := time.Now()
	assert.Nil(t, svc.EstimateLaborHours(context.Background(), "x", models.JobTypeRepair))
	assert.Nil(t, svc.GenerateInspectionList(context.Background(), "x"))
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestService_NilProviderIsDisabled(t *testing.T) {
	svc := ai.NewService(nil, time.Second)

	assert.Equal(t, "none", svc.ProviderName())
	assert.Nil(t, svc.EstimateLaborHours(context.Background(), "x", models.JobTypeRepair))
	assert.Nil(t, svc.GenerateInspectionList(context.Background(), "x"))
}

func TestService_ZeroTimeoutStillCalls(t *testing.T) {
	svc := ai.NewService(mock.NewMockProvider(), 0)
	assert.NotNil(t, svc.EstimateLaborHours(context.Background(), "x", models.JobTypeRepair))
}

func TestService_GenerateInspectionList_DropsEmptyCategories(t *testing.T) {
	p := &mock.MockProvider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) ([]models.InspectionCategory, error) {
			return []models.InspectionCategory{
				{Title: "", Items: []string{"orphan"}},
				{Title: "Empty", Items: nil},
				{Title: "Lights", Items: []string{"Headlights"}},
			}, nil
		},
	}
	svc := ai.NewService(p, time.Second)

	got := svc.GenerateInspectionList(context.Background(), "lights")
	require.Len(t, got, 1)
	assert.Equal(t, "Lights", got[0].Title)
}

func TestService_GenerateInspectionList_AllEmptyIsNil(t *testing.T) {
	p := &mock.MockProvider{
		Name_: "mock",
		GenerateFunc: func(_ context.Context, _ string) ([]models.InspectionCategory, error) {
			return []models.InspectionCategory{{Title: "Empty"}}, nil
		},
	}
	svc := ai.NewService(p, time.Second)

	assert.Nil(t, svc.GenerateInspectionList(context.Background(), "x"))
}

func TestService_PassesArguments(t *testing.T) {
	var gotComplaint string
	var gotType models.JobType
	p := &mock.MockProvider{
		Name_: "mock",
		EstimateFunc: func(ctx context.Context, complaint string, jobType models.JobType) (*float64, error) {
			_, hasDeadline := ctx.Deadline()
			if !hasDeadline {
				return nil, errors.New("expected deadline")
			}
			gotComplaint, gotType = complaint, jobType
			h := 3.0
			return &h, nil
		},
	}
	svc := ai.NewService(p, time.Second)

	hours := svc.EstimateLaborHours(context.Background(), "no start", models.JobTypeDiagnosis)
	require.NotNil(t, hours)
	assert.Equal(t, "no start", gotComplaint)
	assert.Equal(t, models.JobTypeDiagnosis, gotType)
}
