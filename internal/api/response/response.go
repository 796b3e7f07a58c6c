package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kiranshivaraju/shopfloor/internal/apperr"
)

type envelope struct {
	Data any `json:"data"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func JSON(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, envelope{Data: data})
}

func Created(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusCreated, envelope{Data: data})
}

func Error(w http.ResponseWriter, status int, code, message string, details any) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    code,
		Message: message,
		Details: details,
	}})
}

// AppError writes err using the status its apperr kind maps to. Dependency
// and unclassified errors are logged and their text withheld from the client.
func AppError(w http.ResponseWriter, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		slog.Error("unhandled error", "error", err)
		Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
		return
	}

	switch ae.Kind {
	case apperr.KindValidation:
		var details any
		if ae.Field != "" {
			details = map[string]string{"field": ae.Field}
		}
		Error(w, http.StatusBadRequest, "VALIDATION_ERROR", ae.Error(), details)
	case apperr.KindNotFound:
		Error(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	case apperr.KindConflict:
		Error(w, http.StatusConflict, "CONFLICT", ae.Error(), nil)
	case apperr.KindDependency:
		slog.Error("dependency failure", "op", ae.Op, "error", ae.Err)
		Error(w, http.StatusBadGateway, "DEPENDENCY_ERROR", "A backing service failed; nothing was saved", nil)
	default:
		slog.Error("unhandled error", "error", err)
		Error(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred", nil)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("encode response failed", "error", err)
	}
}
