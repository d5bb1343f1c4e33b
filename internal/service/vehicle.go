package service

import (
	"context"
	"errors"
	"strings"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/repository"
)

var (
	ErrMakeRequired         = errors.New("make is required")
	ErrModelRequired        = errors.New("model is required")
	ErrLicensePlateRequired = errors.New("licensePlate is required")
	ErrInvalidStatus        = errors.New("status must be available, assigned or maintenance")
	ErrInvalidYear          = errors.New("year is out of range")
	ErrUserIDRequired       = errors.New("userId is required")
)

// VehicleService handles vehicle and assignment business logic.
type VehicleService struct {
	repo  *repository.VehicleRepository
	users *repository.UserRepository
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(repo *repository.VehicleRepository, users *repository.UserRepository) *VehicleService {
	return &VehicleService{repo: repo, users: users}
}

// List returns all vehicles.
func (s *VehicleService) List(ctx context.Context) ([]model.Vehicle, error) {
	return s.repo.List(ctx)
}

// Get returns a single vehicle.
func (s *VehicleService) Get(ctx context.Context, id string) (model.Vehicle, error) {
	if id == "" {
		return model.Vehicle{}, ErrIDRequired
	}
	return s.repo.Get(ctx, id)
}

// Create validates and creates a vehicle. Status defaults to available.
func (s *VehicleService) Create(ctx context.Context, req model.VehicleRequest) (model.Vehicle, error) {
	req, err := normalizeVehicle(req)
	if err != nil {
		return model.Vehicle{}, err
	}
	return s.repo.Create(ctx, req)
}

// Update validates and updates a vehicle.
func (s *VehicleService) Update(ctx context.Context, id string, req model.VehicleRequest) (model.Vehicle, error) {
	if id == "" {
		return model.Vehicle{}, ErrIDRequired
	}
	req, err := normalizeVehicle(req)
	if err != nil {
		return model.Vehicle{}, err
	}
	return s.repo.Update(ctx, id, req)
}

// Delete removes a vehicle.
func (s *VehicleService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.repo.Delete(ctx, id)
}

// Board loads the vehicles and users shown on the assignment screen.
func (s *VehicleService) Board(ctx context.Context) (model.AssignmentBoard, error) {
	vehicles, err := s.repo.List(ctx)
	if err != nil {
		return model.AssignmentBoard{}, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return model.AssignmentBoard{}, err
	}

	// Fill in names for assignees the backend sent as bare ids.
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.Key()] = u.Name
	}
	for i := range vehicles {
		a := vehicles[i].AssignedTo
		if a != nil && a.Name == "" {
			a.Name = names[a.ID]
		}
	}

	return model.AssignmentBoard{Vehicles: vehicles, Users: users}, nil
}

// Assign hands a vehicle to a user.
func (s *VehicleService) Assign(ctx context.Context, id string, req model.AssignRequest) error {
	if id == "" {
		return ErrIDRequired
	}
	req.UserID = strings.TrimSpace(req.UserID)
	if req.UserID == "" {
		return ErrUserIDRequired
	}
	return s.repo.Assign(ctx, id, req)
}

// Unassign releases a vehicle.
func (s *VehicleService) Unassign(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	return s.repo.Unassign(ctx, id)
}

func normalizeVehicle(req model.VehicleRequest) (model.VehicleRequest, error) {
	req.Make = strings.TrimSpace(req.Make)
	req.Model = strings.TrimSpace(req.Model)
	req.LicensePlate = strings.TrimSpace(req.LicensePlate)
	req.VIN = strings.TrimSpace(req.VIN)

	switch {
	case req.Make == "":
		return req, ErrMakeRequired
	case req.Model == "":
		return req, ErrModelRequired
	case req.LicensePlate == "":
		return req, ErrLicensePlateRequired
	case req.Year < 0 || req.Year > 3000:
		return req, ErrInvalidYear
	}

	if req.Status == "" {
		req.Status = model.StatusAvailable
	}
	if !req.Status.Valid() {
		return req, ErrInvalidStatus
	}
	return req, nil
}
