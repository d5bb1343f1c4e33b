package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/repository"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrInvalidRole  = errors.New("role must be admin or user")
	ErrIDRequired   = errors.New("id is required")
)

// UserService handles account management business logic.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// List returns all accounts.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.repo.List(ctx)
}

// Create validates and creates an account. Role defaults to user.
func (s *UserService) Create(ctx context.Context, req model.UserRequest) (model.User, error) {
	req, err := normalizeUser(req)
	if err != nil {
		return model.User{}, err
	}
	if req.Password == "" {
		return model.User{}, ErrPasswordRequired
	}
	return s.repo.Create(ctx, req)
}

// Update validates and updates an account. An empty password leaves the
// stored password unchanged.
func (s *UserService) Update(ctx context.Context, id string, req model.UserRequest) (model.User, error) {
	if id == "" {
		return model.User{}, ErrIDRequired
	}
	req, err := normalizeUser(req)
	if err != nil {
		return model.User{}, err
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes an account.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

// Profile returns the caller's own account.
func (s *UserService) Profile(ctx context.Context) (model.User, error) {
	return s.repo.MyProfile(ctx)
}

// Vehicles returns the vehicles assigned to an account.
func (s *UserService) Vehicles(ctx context.Context, id string) ([]model.Vehicle, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.repo.Vehicles(ctx, id)
}

// MyVehicles returns the vehicles assigned to the caller.
func (s *UserService) MyVehicles(ctx context.Context) ([]model.Vehicle, error) {
	return s.repo.MyVehicles(ctx)
}

func normalizeUser(req model.UserRequest) (model.UserRequest, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	if req.Name == "" {
		return req, ErrNameRequired
	}
	if req.Email == "" {
		return req, ErrEmailRequired
	}
	if req.Role == "" {
		req.Role = model.RoleUser
	}
	if !req.Role.Valid() {
		return req, ErrInvalidRole
	}
	return req, nil
}
