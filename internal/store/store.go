package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")
var ErrInvalidTransition = errors.New("invalid line status transition")
var ErrIdempotencyMismatch = errors.New("idempotency key reused for a different work order")

// Store is the data access interface. All database operations go through here.
type Store interface {
	Ping(ctx context.Context) error
	GetDefaultTenant(ctx context.Context) (*models.Tenant, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error

	InsertWorkOrderLines(ctx context.Context, batch LineBatch) (*BatchResult, error)
	GetWorkOrderLine(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.WorkOrderLine, error)
	ListWorkOrderLines(ctx context.Context, tenantID uuid.UUID, workOrderID uuid.UUID) ([]*models.WorkOrderLine, error)
	UpdateWorkOrderLineStatus(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, status models.LineStatus, opts ...LineUpdateOption) (*models.WorkOrderLine, error)

	UpsertInspection(ctx context.Context, session *models.InspectionSession) error
	GetInspection(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.InspectionSession, error)
}

// LineBatch is one Writer submission. All lines are inserted in a single
// transaction or not at all.
type LineBatch struct {
	ID             uuid.UUID
	TenantID       uuid.UUID
	WorkOrderID    uuid.UUID
	IdempotencyKey string
	CreatedAt      time.Time
	Lines          []*models.WorkOrderLine
}

// BatchResult holds the persisted lines. Replayed is set when the batch's
// idempotency key was seen before and the earlier lines were returned instead.
type BatchResult struct {
	BatchID  uuid.UUID
	Lines    []*models.WorkOrderLine
	Replayed bool
}

var validTransitions = map[models.LineStatus][]models.LineStatus{
	models.LineStatusAwaiting:   {models.LineStatusInProgress, models.LineStatusOnHold},
	models.LineStatusInProgress: {models.LineStatusPaused, models.LineStatusOnHold, models.LineStatusCompleted},
	models.LineStatusPaused:     {models.LineStatusInProgress, models.LineStatusOnHold},
	models.LineStatusOnHold:     {models.LineStatusAwaiting, models.LineStatusInProgress},
}

// CanTransition reports whether a line may move from one status to another.
func CanTransition(from, to models.LineStatus) bool {
	for _, a := range validTransitions[from] {
		if a == to {
			return true
		}
	}
	return false
}

type lineUpdateParams struct {
	HoldReason     *string
	AssignedTechID *uuid.UUID
}

type LineUpdateOption func(*lineUpdateParams)

func WithHoldReason(reason string) LineUpdateOption {
	return func(p *lineUpdateParams) {
		p.HoldReason = &reason
	}
}

func WithAssignedTech(id uuid.UUID) LineUpdateOption {
	return func(p *lineUpdateParams) {
		p.AssignedTechID = &id
	}
}
