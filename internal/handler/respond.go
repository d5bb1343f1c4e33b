package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/fleetpanel/fleetpanel-go/internal/auth"
	"github.com/fleetpanel/fleetpanel-go/internal/guard"
	"github.com/fleetpanel/fleetpanel-go/internal/metrics"
	"github.com/fleetpanel/fleetpanel-go/internal/repository"
	"github.com/fleetpanel/fleetpanel-go/internal/service"
)

const noResponseMessage = "No response from server. Please check your connection."

var errBodyTooLarge = errors.New("request body too large")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func errorResponse(msg string) map[string]string {
	return map[string]string{"error": msg}
}

// decodeJSON reads a JSON body of at most limit bytes into dst and writes the
// error response itself when it fails.
func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse(errBodyTooLarge.Error()))
			return false
		}
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid request body"))
		return false
	}
	return true
}

func isValidationError(err error) bool {
	return errors.Is(err, service.ErrEmailRequired) ||
		errors.Is(err, service.ErrPasswordRequired) ||
		errors.Is(err, service.ErrNameRequired) ||
		errors.Is(err, service.ErrInvalidRole) ||
		errors.Is(err, service.ErrIDRequired) ||
		errors.Is(err, service.ErrMakeRequired) ||
		errors.Is(err, service.ErrModelRequired) ||
		errors.Is(err, service.ErrLicensePlateRequired) ||
		errors.Is(err, service.ErrInvalidStatus) ||
		errors.Is(err, service.ErrInvalidYear) ||
		errors.Is(err, service.ErrUserIDRequired)
}

// writeError maps a service or backend error to a response. A backend 401
// ends the session and sends the browser to the login page.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *repository.APIError

	switch {
	case errors.Is(err, repository.ErrUnauthorized):
		if ac, ok := auth.FromContext(r.Context()); ok {
			ac.Evict(metrics.EvictUnauthorized)
		}
		slog.Info("backend rejected session", "path", r.URL.Path)
		http.Redirect(w, r, guard.LoginPath, http.StatusSeeOther)
	case isValidationError(err):
		writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
	case errors.As(err, &apiErr):
		writeJSON(w, apiErr.Status, errorResponse(apiErr.Message))
	case errors.Is(err, repository.ErrNoResponse):
		writeJSON(w, http.StatusBadGateway, errorResponse(noResponseMessage))
	case errors.Is(err, repository.ErrUnexpectedShape), errors.Is(err, repository.ErrMissingToken),
		errors.Is(err, service.ErrUnknownRole):
		slog.Error("unexpected backend response", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusBadGateway, errorResponse("unexpected response from server"))
	default:
		slog.Error("request failed", "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
	}
}

// NotFound handles unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse("not found"))
}
