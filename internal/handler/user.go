package handler

import (
	"net/http"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/service"
	"github.com/go-chi/chi/v5"
)

// UserHandler handles HTTP requests for account screens.
type UserHandler struct {
	service *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleList handles GET /admin/users requests.
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleCreate handles POST /admin/users requests.
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.UserRequest
	if !decodeJSON(w, r, 1<<20, &req) {
		return
	}

	user, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleUpdate handles PUT /admin/users/{id} requests.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.UserRequest
	if !decodeJSON(w, r, 1<<20, &req) {
		return
	}

	user, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDelete handles DELETE /admin/users/{id} requests.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleVehicles handles GET /admin/users/{id}/vehicles requests.
func (h *UserHandler) HandleVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.service.Vehicles(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// HandleProfile handles GET /user/profile requests.
func (h *UserHandler) HandleProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Profile(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleMyVehicles handles GET /user/vehicles requests.
func (h *UserHandler) HandleMyVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.service.MyVehicles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}
