package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
	"github.com/fleetpanel/fleetpanel-go/internal/repository"
)

var (
	ErrEmailRequired    = errors.New("email is required")
	ErrPasswordRequired = errors.New("password is required")
	ErrUnknownRole      = errors.New("account has no usable role")
)

// Session is the outcome of a successful login: the token to persist and
// the identity to cache next to it.
type Session struct {
	Token string
	User  model.UserSummary
}

// AuthService handles the login exchange with the backend.
type AuthService struct {
	repo *repository.AuthRepository
}

// NewAuthService creates a new AuthService.
func NewAuthService(repo *repository.AuthRepository) *AuthService {
	return &AuthService{repo: repo}
}

// Login validates credentials locally, exchanges them with the backend and
// returns the session to persist.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (Session, error) {
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" {
		return Session{}, ErrEmailRequired
	}
	if req.Password == "" {
		return Session{}, ErrPasswordRequired
	}

	resp, err := s.repo.Login(ctx, req)
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}

	user := resp.User.Summary()
	if !user.Role.Valid() {
		return Session{}, ErrUnknownRole
	}
	if user.Email == "" {
		user.Email = req.Email
	}

	return Session{Token: resp.Token, User: user}, nil
}
