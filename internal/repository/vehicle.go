package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
)

// VehicleRepository handles vehicle operations against the backend.
type VehicleRepository struct {
	client *Client
}

// NewVehicleRepository creates a new VehicleRepository.
func NewVehicleRepository(client *Client) *VehicleRepository {
	return &VehicleRepository{client: client}
}

func vehiclePath(id string) string {
	return "/vehicles/" + url.PathEscape(id)
}

// List returns all vehicles.
func (r *VehicleRepository) List(ctx context.Context) ([]model.Vehicle, error) {
	body, err := r.client.do(ctx, http.MethodGet, "/vehicles", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Vehicle](body, "vehicles"), nil
}

// Get returns a single vehicle.
func (r *VehicleRepository) Get(ctx context.Context, id string) (model.Vehicle, error) {
	return r.one(ctx, http.MethodGet, vehiclePath(id), nil)
}

// Create inserts a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, req model.VehicleRequest) (model.Vehicle, error) {
	return r.one(ctx, http.MethodPost, "/vehicles", req)
}

// Update replaces the editable fields of a vehicle.
func (r *VehicleRepository) Update(ctx context.Context, id string, req model.VehicleRequest) (model.Vehicle, error) {
	return r.one(ctx, http.MethodPut, vehiclePath(id), req)
}

// Delete removes a vehicle.
func (r *VehicleRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.do(ctx, http.MethodDelete, vehiclePath(id), nil)
	return err
}

// Assign hands a vehicle to a user.
func (r *VehicleRepository) Assign(ctx context.Context, id string, req model.AssignRequest) error {
	_, err := r.client.do(ctx, http.MethodPost, vehiclePath(id)+"/assign", req)
	return err
}

// Unassign releases a vehicle from its user.
func (r *VehicleRepository) Unassign(ctx context.Context, id string) error {
	_, err := r.client.do(ctx, http.MethodPost, vehiclePath(id)+"/unassign", nil)
	return err
}

func (r *VehicleRepository) one(ctx context.Context, method, path string, in any) (model.Vehicle, error) {
	body, err := r.client.do(ctx, method, path, in)
	if err != nil {
		return model.Vehicle{}, err
	}

	var v model.Vehicle
	if err := decodeObject(body, "vehicle", &v); err != nil {
		return model.Vehicle{}, err
	}
	return v, nil
}
