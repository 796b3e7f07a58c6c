package handler

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/api/response"
	"github.com/kiranshivaraju/shopfloor/internal/workorder"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// LineWriter creates, lists and transitions work-order lines.
type LineWriter interface {
	Write(ctx context.Context, req workorder.WriteRequest) (*workorder.WriteResult, error)
	List(ctx context.Context, tenantID, workOrderID uuid.UUID) ([]*models.WorkOrderLine, error)
	UpdateStatus(ctx context.Context, tenantID, lineID uuid.UUID, change workorder.StatusChange) (*models.WorkOrderLine, error)
}

// writeBatch answers 201 for a new batch and 200 for a replayed one.
func writeBatch(w http.ResponseWriter, res *workorder.WriteResult) {
	if res.Replayed {
		response.JSON(w, res)
		return
	}
	response.Created(w, res)
}

// NewWriteLinesHandler returns an http.HandlerFunc for POST /api/v1/work-orders/{workOrderID}/lines.
// A repeated Idempotency-Key returns the lines of the first request.
func NewWriteLinesHandler(lw LineWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}
		workOrderID, ok := pathID(w, r, "workOrderID", "INVALID_WORK_ORDER_ID")
		if !ok {
			return
		}

		var req struct {
			VehicleID   string                     `json:"vehicle_id"`
			VehicleType models.VehicleType         `json:"vehicle_type"`
			Sections    []models.InspectionSection `json:"sections"`
			Jobs        []jobRequest               `json:"jobs"`
		}
		if !decode(w, r, &req) {
			return
		}
		vehicleID, ok := optionalID(w, req.VehicleID, "vehicle_id")
		if !ok {
			return
		}

		res, err := lw.Write(r.Context(), workorder.WriteRequest{
			TenantID:       tenantID,
			WorkOrderID:    workOrderID,
			VehicleID:      derefID(vehicleID),
			Jobs:           toJobs(req.Jobs),
			IdempotencyKey: r.Header.Get(IdempotencyHeader),
			VehicleType:    models.ParseVehicleType(string(req.VehicleType)),
			Sections:       req.Sections,
		})
		if err != nil {
			response.AppError(w, err)
			return
		}
		writeBatch(w, res)
	}
}

// NewListLinesHandler returns an http.HandlerFunc for GET /api/v1/work-orders/{workOrderID}/lines.
func NewListLinesHandler(lw LineWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}
		workOrderID, ok := pathID(w, r, "workOrderID", "INVALID_WORK_ORDER_ID")
		if !ok {
			return
		}

		lines, err := lw.List(r.Context(), tenantID, workOrderID)
		if err != nil {
			response.AppError(w, err)
			return
		}
		if lines == nil {
			lines = []*models.WorkOrderLine{}
		}
		response.JSON(w, map[string]any{"lines": lines})
	}
}

// NewLineStatusHandler returns an http.HandlerFunc for PATCH /api/v1/work-order-lines/{lineID}/status.
func NewLineStatusHandler(lw LineWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}
		lineID, ok := pathID(w, r, "lineID", "INVALID_LINE_ID")
		if !ok {
			return
		}

		var req struct {
			Status         models.LineStatus `json:"status"`
			HoldReason     *string           `json:"hold_reason"`
			AssignedTechID string            `json:"assigned_tech_id"`
		}
		if !decode(w, r, &req) {
			return
		}
		techID, ok := optionalID(w, req.AssignedTechID, "assigned_tech_id")
		if !ok {
			return
		}

		line, err := lw.UpdateStatus(r.Context(), tenantID, lineID, workorder.StatusChange{
			Status:         req.Status,
			HoldReason:     req.HoldReason,
			AssignedTechID: techID,
		})
		if err != nil {
			response.AppError(w, err)
			return
		}
		response.JSON(w, line)
	}
}
