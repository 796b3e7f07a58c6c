package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	mw "github.com/kiranshivaraju/shopfloor/internal/api/middleware"
	"github.com/kiranshivaraju/shopfloor/internal/api/response"
	"github.com/kiranshivaraju/shopfloor/pkg/models"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	Auth      *mw.Auth
	RateLimit *mw.RateLimit

	HealthHandler http.HandlerFunc

	SortJobsHandler      http.HandlerFunc
	LaborEstimateHandler http.HandlerFunc

	CreateInspectionHandler   http.HandlerFunc
	GetInspectionHandler      http.HandlerFunc
	ReplaceInspectionHandler  http.HandlerFunc
	UpdateItemsHandler        http.HandlerFunc
	GenerateInspectionHandler http.HandlerFunc
	QuoteHandler              http.HandlerFunc
	QuoteXLSXHandler          http.HandlerFunc
	LinesFromInspection       http.HandlerFunc

	WriteLinesHandler http.HandlerFunc
	ListLinesHandler  http.HandlerFunc
	LineStatusHandler http.HandlerFunc

	CreateKeyHandler http.HandlerFunc
	ListKeysHandler  http.HandlerFunc
	RevokeKeyHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Authenticate)
		r.Use(deps.RateLimit.Limit)

		// Computation only; nothing is persisted.
		r.Post("/api/v1/jobs/sort", orNotImplemented(deps.SortJobsHandler))
		r.Post("/api/v1/labor/estimate", orNotImplemented(deps.LaborEstimateHandler))
		r.Post("/api/v1/inspections/generate", orNotImplemented(deps.GenerateInspectionHandler))

		r.Get("/api/v1/inspections/{inspectionID}", orNotImplemented(deps.GetInspectionHandler))
		r.Get("/api/v1/inspections/{inspectionID}/quote", orNotImplemented(deps.QuoteHandler))
		r.Get("/api/v1/inspections/{inspectionID}/quote.xlsx", orNotImplemented(deps.QuoteXLSXHandler))
		r.Get("/api/v1/work-orders/{workOrderID}/lines", orNotImplemented(deps.ListLinesHandler))

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope(models.ScopeWrite))

			r.Post("/api/v1/inspections", orNotImplemented(deps.CreateInspectionHandler))
			r.Put("/api/v1/inspections/{inspectionID}", orNotImplemented(deps.ReplaceInspectionHandler))
			r.Patch("/api/v1/inspections/{inspectionID}/items", orNotImplemented(deps.UpdateItemsHandler))
			r.Post("/api/v1/inspections/{inspectionID}/lines", orNotImplemented(deps.LinesFromInspection))

			r.Post("/api/v1/work-orders/{workOrderID}/lines", orNotImplemented(deps.WriteLinesHandler))
			r.Patch("/api/v1/work-order-lines/{lineID}/status", orNotImplemented(deps.LineStatusHandler))
		})

		// Admin routes
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireScope(models.ScopeAdmin))

			r.Post("/api/v1/admin/keys", orNotImplemented(deps.CreateKeyHandler))
			r.Get("/api/v1/admin/keys", orNotImplemented(deps.ListKeysHandler))
			r.Delete("/api/v1/admin/keys/{keyID}", orNotImplemented(deps.RevokeKeyHandler))
		})
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
