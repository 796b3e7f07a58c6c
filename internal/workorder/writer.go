// Package workorder turns job lists and inspection findings into persisted
// work-order lines.
package workorder

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/internal/joborder"
	"github.com/kiranshivaraju/shopfloor/internal/labor"
	"github.com/kiranshivaraju/shopfloor/internal/store"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// maxIdempotencyKey bounds the caller-supplied key.
const maxIdempotencyKey = 255

// LineStore is the slice of store.Store the Writer needs.
type LineStore interface {
	InsertWorkOrderLines(ctx context.Context, batch store.LineBatch) (*store.BatchResult, error)
	GetWorkOrderLine(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) (*models.WorkOrderLine, error)
	ListWorkOrderLines(ctx context.Context, tenantID uuid.UUID, workOrderID uuid.UUID) ([]*models.WorkOrderLine, error)
	UpdateWorkOrderLineStatus(ctx context.Context, id uuid.UUID, tenantID uuid.UUID, status models.LineStatus, opts ...store.LineUpdateOption) (*models.WorkOrderLine, error)
}

// LaborEstimator picks the hours recorded on each new line.
type LaborEstimator interface {
	Estimate(ctx context.Context, complaint string, jobType models.JobType, in labor.Input) labor.Estimate
}

// WriteRequest is one batch of jobs for a work order. VehicleType and
// Sections feed the structural labor estimate when AI has no answer.
type WriteRequest struct {
	TenantID       uuid.UUID
	WorkOrderID    uuid.UUID
	VehicleID      uuid.UUID
	Jobs           []models.JobInput
	IdempotencyKey string
	VehicleType    models.VehicleType
	Sections       []models.InspectionSection
}

// WriteResult holds the lines in priority order.
type WriteResult struct {
	BatchID  uuid.UUID               `json:"batch_id"`
	Lines    []*models.WorkOrderLine `json:"lines"`
	Replayed bool                    `json:"replayed"`
}

// Writer creates work-order lines from job inputs.
type Writer struct {
	store     LineStore
	estimator LaborEstimator
	now       func() time.Time
}

func NewWriter(st LineStore, estimator LaborEstimator) *Writer {
	return &Writer{store: st, estimator: estimator, now: func() time.Time { return time.Now().UTC() }}
}

// Write validates, sorts, estimates and persists req as one batch. Nothing
// is written unless every job is valid; a store failure fails the whole batch.
func (w *Writer) Write(ctx context.Context, req WriteRequest) (*WriteResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	sorted := joborder.Sort(req.Jobs)
	in := labor.Input{VehicleType: req.VehicleType, Sections: req.Sections}
	now := w.now()

	batch := store.LineBatch{
		ID:             uuid.New(),
		TenantID:       req.TenantID,
		WorkOrderID:    req.WorkOrderID,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      now,
		Lines:          make([]*models.WorkOrderLine, 0, len(sorted)),
	}
	for i, job := range sorted {
		est := w.estimator.Estimate(ctx, job.Complaint, job.JobType, in)
		batch.Lines = append(batch.Lines, &models.WorkOrderLine{
			ID:          uuid.New(),
			TenantID:    req.TenantID,
			WorkOrderID: req.WorkOrderID,
			VehicleID:   req.VehicleID,
			Position:    i,
			Complaint:   job.Complaint,
			Cause:       job.Cause,
			JobType:     job.JobType,
			LaborHours:  est.Hours,
			Status:      models.LineStatusAwaiting,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	res, err := w.store.InsertWorkOrderLines(ctx, batch)
	if errors.Is(err, store.ErrIdempotencyMismatch) {
		return nil, apperr.Conflict("write work order lines", err.Error())
	}
	if err != nil {
		return nil, apperr.Dependency("write work order lines",
			fmt.Errorf("batch of %d lines for work order %s: %w", len(batch.Lines), req.WorkOrderID, err))
	}

	return &WriteResult{BatchID: res.BatchID, Lines: res.Lines, Replayed: res.Replayed}, nil
}

func validateRequest(req WriteRequest) error {
	const op = "write work order lines"
	if req.TenantID == uuid.Nil {
		return apperr.Validation(op, "tenant_id", "is required")
	}
	if req.WorkOrderID == uuid.Nil {
		return apperr.Validation(op, "work_order_id", "is required")
	}
	if req.VehicleID == uuid.Nil {
		return apperr.Validation(op, "vehicle_id", "is required")
	}
	if len(req.Jobs) == 0 {
		return apperr.Validation(op, "jobs", "must contain at least one job")
	}
	if len(req.IdempotencyKey) > maxIdempotencyKey || strings.TrimSpace(req.IdempotencyKey) != req.IdempotencyKey {
		return apperr.Validation(op, "idempotency_key", "must be at most 255 characters without surrounding spaces")
	}
	for i, job := range req.Jobs {
		if err := joborder.Validate(job); err != nil {
			var ae *apperr.Error
			if errors.As(err, &ae) {
				return apperr.Validation(op, fmt.Sprintf("jobs[%d].%s", i, ae.Field), ae.Msg)
			}
			return err
		}
	}
	return nil
}

// List returns a work order's lines in creation order.
func (w *Writer) List(ctx context.Context, tenantID, workOrderID uuid.UUID) ([]*models.WorkOrderLine, error) {
	lines, err := w.store.ListWorkOrderLines(ctx, tenantID, workOrderID)
	if err != nil {
		return nil, apperr.Dependency("list work order lines", err)
	}
	return lines, nil
}

// StatusChange is a requested line transition. HoldReason is required when
// moving to on_hold.
type StatusChange struct {
	Status         models.LineStatus
	HoldReason     *string
	AssignedTechID *uuid.UUID
}

// UpdateStatus moves one line through the status lifecycle.
func (w *Writer) UpdateStatus(ctx context.Context, tenantID, lineID uuid.UUID, change StatusChange) (*models.WorkOrderLine, error) {
	const op = "update line status"
	switch change.Status {
	case models.LineStatusAwaiting, models.LineStatusInProgress, models.LineStatusPaused,
		models.LineStatusOnHold, models.LineStatusCompleted:
	default:
		return nil, apperr.Validation(op, "status", fmt.Sprintf("unknown status %q", change.Status))
	}

	var opts []store.LineUpdateOption
	if change.Status == models.LineStatusOnHold {
		if change.HoldReason == nil || strings.TrimSpace(*change.HoldReason) == "" {
			return nil, apperr.Validation(op, "hold_reason", "is required when placing a line on hold")
		}
		opts = append(opts, store.WithHoldReason(strings.TrimSpace(*change.HoldReason)))
	}
	if change.AssignedTechID != nil {
		opts = append(opts, store.WithAssignedTech(*change.AssignedTechID))
	}

	line, err := w.store.UpdateWorkOrderLineStatus(ctx, lineID, tenantID, change.Status, opts...)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, apperr.NotFound(op, err)
	case errors.Is(err, store.ErrInvalidTransition):
		return nil, apperr.Conflict(op, err.Error())
	case err != nil:
		return nil, apperr.Dependency(op, err)
	}
	return line, nil
}
