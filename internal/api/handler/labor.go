package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/kiranshivaraju/shopfloor/internal/api/response"
	"github.com/kiranshivaraju/shopfloor/internal/apperr"
	"github.com/kiranshivaraju/shopfloor/internal/joborder"
	"github.com/kiranshivaraju/shopfloor/internal/labor"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// LaborEstimator picks hours for a single job.
type LaborEstimator interface {
	Estimate(ctx context.Context, complaint string, jobType models.JobType, in labor.Input) labor.Estimate
}

// NewLaborEstimateHandler returns an http.HandlerFunc for POST /api/v1/labor/estimate.
// The estimate always succeeds; Source reports whether it came from AI, the
// cache or the structural default.
func NewLaborEstimateHandler(est LaborEstimator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Complaint   string                     `json:"complaint"`
			JobType     string                     `json:"job_type"`
			VehicleType models.VehicleType         `json:"vehicle_type"`
			Sections    []models.InspectionSection `json:"sections"`
		}
		if !decode(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Complaint) == "" && len(req.Sections) == 0 {
			response.AppError(w, apperr.Validation("estimate labor", "complaint", "complaint or sections is required"))
			return
		}

		jobType := joborder.ParseJobType(req.JobType)
		e := est.Estimate(r.Context(), req.Complaint, jobType, labor.Input{
			VehicleType: models.ParseVehicleType(string(req.VehicleType)),
			Sections:    req.Sections,
		})
		response.JSON(w, map[string]any{
			"hours":  e.Hours,
			"source": e.Source,
			"axles":  labor.CountAxles(req.Sections),
		})
	}
}
