package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/shopfloor/internal/api/response"
	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/internal/inspection"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// Inspections is the session lifecycle the inspection handlers drive.
type Inspections interface {
	Create(ctx context.Context, p inspection.CreateParams) (*models.InspectionSession, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*models.InspectionSession, error)
	Replace(ctx context.Context, tenantID, id uuid.UUID, sections []models.InspectionSection, status string) (*models.InspectionSession, error)
	UpdateItems(ctx context.Context, tenantID, id uuid.UUID, updates []inspection.ItemUpdate) (*models.InspectionSession, error)
}

// ChecklistGenerator builds checklist categories from a prompt. An empty
// result means no suggestion was available.
type ChecklistGenerator interface {
	GenerateInspectionList(ctx context.Context, prompt string) []models.InspectionCategory
}

// NewCreateInspectionHandler returns an http.HandlerFunc for POST /api/v1/inspections.
func NewCreateInspectionHandler(svc Inspections) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}

		var req struct {
			VehicleType models.VehicleType `json:"vehicle_type"`
			VehicleID   string             `json:"vehicle_id"`
			WorkOrderID string             `json:"work_order_id"`
			Prompt      string             `json:"prompt"`
		}
		if !decode(w, r, &req) {
			return
		}
		vehicleID, ok := optionalID(w, req.VehicleID, "vehicle_id")
		if !ok {
			return
		}
		workOrderID, ok := optionalID(w, req.WorkOrderID, "work_order_id")
		if !ok {
			return
		}

		session, err := svc.Create(r.Context(), inspection.CreateParams{
			TenantID:    tenantID,
			VehicleType: models.ParseVehicleType(string(req.VehicleType)),
			VehicleID:   vehicleID,
			WorkOrderID: workOrderID,
			Prompt:      strings.TrimSpace(req.Prompt),
		})
		if err != nil {
			response.AppError(w, err)
			return
		}
		response.Created(w, session)
	}
}

// NewGetInspectionHandler returns an http.HandlerFunc for GET /api/v1/inspections/{inspectionID}.
func NewGetInspectionHandler(svc Inspections) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := tenant(w, r)
		if !ok {
			return
		}
		id, ok := pathID(w, r, "inspectionID", "INVALID_INSPECTION_ID")
		if !ok {
			return
		}

		session, err := svc.Get(r.Context(), tenantID, id)
		if err != nil {
			response.AppError(w, err)
			return
		}
		response.JSON(w, session)
	}
}

// NewReplaceInspectionHandler returns an http.HandlerFunc for PUT /api/v1/inspections/{inspectionID}.
func NewReplaceInspectionHandler(svc Inspections) http.HandlerFunc {
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
			Sections []models.InspectionSection `json:"sections"`
			Status   string                     `json:"status"`
		}
		if !decode(w, r, &req) {
			return
		}
		if req.Sections == nil {
			response.AppError(w, apperr.Validation("replace inspection", "sections", "is required"))
			return
		}

		session, err := svc.Replace(r.Context(), tenantID, id, req.Sections, req.Status)
		if err != nil {
			response.AppError(w, err)
			return
		}
		response.JSON(w, session)
	}
}

// NewUpdateItemsHandler returns an http.HandlerFunc for PATCH /api/v1/inspections/{inspectionID}/items.
// The batch is applied all or nothing.
func NewUpdateItemsHandler(svc Inspections) http.HandlerFunc {
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
			Updates []inspection.ItemUpdate `json:"updates"`
		}
		if !decode(w, r, &req) {
			return
		}
		if len(req.Updates) == 0 {
			response.AppError(w, apperr.Validation("update inspection", "updates", "must contain at least one update"))
			return
		}

		session, err := svc.UpdateItems(r.Context(), tenantID, id, req.Updates)
		if err != nil {
			response.AppError(w, err)
			return
		}
		response.JSON(w, session)
	}
}

// NewGenerateInspectionHandler returns an http.HandlerFunc for POST /api/v1/inspections/generate.
// When no provider answers the categories list is empty rather than an error.
func NewGenerateInspectionHandler(gen ChecklistGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Prompt string `json:"prompt"`
		}
		if !decode(w, r, &req) {
			return
		}
		prompt := strings.TrimSpace(req.Prompt)
		if prompt == "" {
			response.AppError(w, apperr.Validation("generate inspection", "prompt", "is required"))
			return
		}

		categories := gen.GenerateInspectionList(r.Context(), prompt)
		if categories == nil {
			categories = []models.InspectionCategory{}
		}
		response.JSON(w, map[string]any{
			"categories": categories,
			"sections":   inspection.FromCategories(categories),
		})
	}
}
