package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog/hlog"

	"github.com/wadjakorntonsri/portfolio-admin/pkg/core/domain"
)

// ErrorResponse is the body of every non-2xx API response
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details any) {
	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// respondError maps service errors onto status codes. Storage failures are
// reported without their cause; the cause is logged.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, r, http.StatusUnprocessableEntity, "validation_failed", verr.Error(),
			map[string]any{"missing": verr.Missing})
	case errors.Is(err, domain.ErrUnknownContentType),
		errors.Is(err, domain.ErrUnknownSection),
		errors.Is(err, domain.ErrRecordNotFound):
		writeError(w, r, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, domain.ErrMissingID):
		writeError(w, r, http.StatusBadRequest, "bad_request", err.Error(), nil)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal", "storage operation failed", nil)
	}
}

func decodeError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, http.StatusBadRequest, "invalid_body", "Invalid request body: "+err.Error(), nil)
}
