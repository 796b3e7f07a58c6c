package handler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/api/response"
	"github.com/kiranshivaraju/shopfloor/internal/export"
	"github.com/kiranshivaraju/shopfloor/internal/workorder"
)

// Quoter prices an inspection session.
type Quoter interface {
	QuoteInspection(ctx context.Context, tenantID, sessionID uuid.UUID) (*workorder.Quote, error)
}

// InspectionLineWriter turns an inspection's findings into work-order lines.
type InspectionLineWriter interface {
	WriteFromInspection(ctx context.Context, req workorder.LinesFromInspectionRequest) (*workorder.WriteResult, error)
}

// NewQuoteHandler returns an http.HandlerFunc for GET /api/v1/inspections/{inspectionID}/quote.
func NewQuoteHandler(q Quoter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "inspectionID", "INVALID_INSPECTION_ID")
		if !ok {
			return
		}

		quote, err := q.QuoteInspection(r.Context(), tenantID, id)
		if err != nil {
			response.AppError(w, err)
			return
		}
		response.JSON(w, quote)
	}
}

// NewQuoteXLSXHandler returns an http.HandlerFunc for GET /api/v1/inspections/{inspectionID}/quote.xlsx.
// The workbook is rendered to memory first so a failure still yields a JSON error.
func NewQuoteXLSXHandler(q Quoter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "inspectionID", "INVALID_INSPECTION_ID")
		if !ok {
			return
		}

		quote, err := q.QuoteInspection(r.Context(), tenantID, id)
		if err != nil {
			response.AppError(w, err)
			return
		}

		var buf bytes.Buffer
		title := fmt.Sprintf("Inspection quote %s (%s)", id, quote.VehicleType)
		if err := export.WriteQuote(&buf, title, quote.Lines, time.Now().UTC()); err != nil {
			slog.Error("render quote workbook failed", "error", err, "inspection_id", id)
			response.Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to render quote", nil)
			return
		}

		w.Header().Set("Content-Type", export.ContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="quote-%s.xlsx"`, id))
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Warn("write quote workbook failed", "error", err, "inspection_id", id)
		}
	}
}

// NewLinesFromInspectionHandler returns an http.HandlerFunc for
// POST /api/v1/inspections/{inspectionID}/lines. Ids omitted from the body
// fall back to those recorded on the session.
func NewLinesFromInspectionHandler(lw InspectionLineWriter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "inspectionID", "INVALID_INSPECTION_ID")
		if !ok {
			return
		}

		var req struct {
			WorkOrderID string `json:"work_order_id"`
			VehicleID   string `json:"vehicle_id"`
		}
		if r.ContentLength != 0 && !decode(w, r, &req) {
			return
		}
		workOrderID, ok := optionalID(w, req.WorkOrderID, "work_order_id")
		if !ok {
			return
		}
		vehicleID, ok := optionalID(w, req.VehicleID, "vehicle_id")
		if !ok {
			return
		}

		res, err := lw.WriteFromInspection(r.Context(), workorder.LinesFromInspectionRequest{
			TenantID:       tenantID,
			SessionID:      id,
			WorkOrderID:    derefID(workOrderID),
			VehicleID:      derefID(vehicleID),
			IdempotencyKey: r.Header.Get(IdempotencyHeader),
		})
		if err != nil {
			response.AppError(w, err)
			return
		}
		writeBatch(w, res)
	}
}

func derefID(id *uuid.UUID) uuid.UUID {
	if id == nil {
		return uuid.Nil
	}
	return *id
}
