package handler

import (
	"net/http"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/service"
	"github.com/go-chi/chi/v5"
)

// VehicleHandler handles HTTP requests for the vehicle and assignment screens.
type VehicleHandler struct {
	service *service.VehicleService
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(svc *service.VehicleService) *VehicleHandler {
	return &VehicleHandler{service: svc}
}

// HandleList handles GET /admin/vehicles requests.
func (h *VehicleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicles)
}

// HandleGet handles GET /admin/vehicles/{id} requests.
func (h *VehicleHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	vehicle, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// HandleCreate handles POST /admin/vehicles requests.
func (h *VehicleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.VehicleRequest
	if !decodeJSON(w, r, 1<<20, &req) {
		return
	}

	vehicle, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, vehicle)
}

// HandleUpdate handles PUT /admin/vehicles/{id} requests.
func (h *VehicleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.VehicleRequest
	if !decodeJSON(w, r, 1<<20, &req) {
		return
	}

	vehicle, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, vehicle)
}

// HandleDelete handles DELETE /admin/vehicles/{id} requests.
func (h *VehicleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleBoard handles GET /admin/assignments requests.
func (h *VehicleHandler) HandleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.service.Board(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

// HandleAssign handles POST /admin/assignments/{id} requests.
func (h *VehicleHandler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	var req model.AssignRequest
	if !decodeJSON(w, r, 1<<20, &req) {
		return
	}

	if err := h.service.Assign(r.Context(), chi.URLParam(r, "id"), req); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleUnassign handles DELETE /admin/assignments/{id} requests.
func (h *VehicleHandler) HandleUnassign(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Unassign(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
