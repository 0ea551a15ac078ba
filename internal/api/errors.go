package api

import (
	"errors"
	"net/http"

	"github.com/forgeplay/analytics/internal/catalog"
	"github.com/forgeplay/analytics/internal/dashboard"
	"github.com/forgeplay/analytics/internal/middleware"
)

// Error codes returned in the response envelope.
const (
	CodeBadRequest        = "bad_request"
	CodeInvalidRange      = "invalid_range"
	CodeNotFound          = "not_found"
	CodeForbidden         = "forbidden"
	CodeMethodNotAllowed  = "method_not_allowed"
	CodeAggregationFailed = "aggregation_failed"
	CodeInternalError     = "internal_error"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

// WriteError writes a JSON error envelope and records the error code on the
// response writer so the logging middleware can pick it up.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	middleware.SetResponseErrorCode(w, code)
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

// writeServiceError maps dashboard errors onto HTTP statuses. Sentinel errors
// produced before aggregation starts keep their specific codes; anything that
// failed mid-aggregation is reported as a bad gateway.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dashboard.ErrInvalidRange):
		WriteError(w, http.StatusBadRequest, CodeInvalidRange, "range must be a day count between 1 and 365, or \"all\"")
	case errors.Is(err, dashboard.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		WriteError(w, http.StatusNotFound, CodeNotFound, "resource not found")
	case errors.Is(err, dashboard.ErrForbidden):
		WriteError(w, http.StatusForbidden, CodeForbidden, "caller does not own this resource")
	default:
		var aggErr *dashboard.AggregationError
		if errors.As(err, &aggErr) {
			WriteError(w, http.StatusBadGateway, CodeAggregationFailed, "analytics aggregation failed")
			return
		}
		WriteError(w, http.StatusInternalServerError, CodeInternalError, "internal server error")
	}
}
