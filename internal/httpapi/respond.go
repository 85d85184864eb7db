package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/inkpost/inkpost/internal/domain"

	"github.com/go-playground/validator/v10"
)

// envelope is the wire shape every endpoint uses: success plus either data or
// a human-readable error.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (h *Handler) respond(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error("response encoding failed", "error", err)
	}
}

func (h *Handler) ok(w http.ResponseWriter, data any) {
	h.respond(w, http.StatusOK, envelope{Success: true, Data: data})
}

func (h *Handler) created(w http.ResponseWriter, data any) {
	h.respond(w, http.StatusCreated, envelope{Success: true, Data: data})
}

// fail maps the domain error taxonomy onto status codes. Anything unmatched
// is an internal failure and its detail stays in the log, not the response.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var verr validator.ValidationErrors
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.As(err, &verr), errors.Is(err, domain.ErrInvalid):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
		message = "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
		message = "not allowed"
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
		message = err.Error()
	default:
		h.log.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	h.respond(w, status, envelope{Success: false, Error: message})
}

func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrInvalid
	}
	return h.validate.Struct(dst)
}
