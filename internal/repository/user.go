package repository

import (
	"context"
	"net/http"
	"net/url"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
)

// UserRepository handles account operations against the backend.
type UserRepository struct {
	client *Client
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(client *Client) *UserRepository {
	return &UserRepository{client: client}
}

// List returns all accounts.
func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	body, err := r.client.do(ctx, http.MethodGet, "/users", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.User](body, "users"), nil
}

// Create inserts a new account.
func (r *UserRepository) Create(ctx context.Context, req model.UserRequest) (model.User, error) {
	body, err := r.client.do(ctx, http.MethodPost, "/users", req)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := decodeObject(body, "user", &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Update replaces the editable fields of an account.
func (r *UserRepository) Update(ctx context.Context, id string, req model.UserRequest) (model.User, error) {
	body, err := r.client.do(ctx, http.MethodPut, "/users/"+url.PathEscape(id), req)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := decodeObject(body, "user", &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Delete removes an account.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	_, err := r.client.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil)
	return err
}

// MyProfile returns the account of the token holder.
func (r *UserRepository) MyProfile(ctx context.Context) (model.User, error) {
	body, err := r.client.do(ctx, http.MethodGet, "/my/profile", nil)
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := decodeObject(body, "user", &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// Vehicles returns the vehicles assigned to an account.
func (r *UserRepository) Vehicles(ctx context.Context, id string) ([]model.Vehicle, error) {
	body, err := r.client.do(ctx, http.MethodGet, "/users/"+url.PathEscape(id)+"/vehicles", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Vehicle](body, "vehicles"), nil
}

// MyVehicles returns the vehicles assigned to the token holder.
func (r *UserRepository) MyVehicles(ctx context.Context) ([]model.Vehicle, error) {
	body, err := r.client.do(ctx, http.MethodGet, "/my/vehicles", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[model.Vehicle](body, "vehicles"), nil
}
