// Package handler holds the HTTP handlers of the shopfloor API. Handlers
// depend on small interfaces so they can be tested without infrastructure.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	mw "github.com/kiranshivaraju/shopfloor/internal/api/middleware"
	"github.com/kiranshivaraju/shopfloor/internal/api/response"
)

// maxBodyBytes caps request bodies. Inspection sections are the largest payload.
const maxBodyBytes = 1 << 20

// IdempotencyHeader carries the caller's batch key on line writes.
const IdempotencyHeader = "Idempotency-Key"

// tenant returns the authenticated tenant, writing a 401 when it is missing.
func tenant(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	tenantID, ok := mw.GetTenantID(r)
	if !ok {
		response.Error(w, http.StatusUnauthorized, "INVALID_TOKEN", "Missing tenant", nil)
	}
	return tenantID, ok
}

// decode reads a JSON body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "BODY_TOO_LARGE", "Request body too large", nil)
			return false
		}
		response.Error(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid JSON body", nil)
		return false
	}
	return true
}

// pathID parses a UUID route parameter, writing a 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.Error(w, http.StatusBadRequest, code, "Invalid "+name+" format", nil)
		return uuid.Nil, false
	}
	return id, true
}

// optionalID parses an optional UUID body field. Empty means unset.
func optionalID(w http.ResponseWriter, raw, field string) (*uuid.UUID, bool) {
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "VALIDATION_ERROR", field+" must be a UUID",
			map[string]string{"field": field})
		return nil, false
	}
	return &id, true
}
