package repository

import (
	"context"
	"errors"
	"net/http"

	"github.com/fleetpanel/fleetpanel-go/internal/model"
)

var ErrMissingToken = errors.New("login response carried no token")

// AuthRepository calls the backend's authentication endpoints.
type AuthRepository struct {
	client *Client
}

// NewAuthRepository creates a new AuthRepository.
func NewAuthRepository(client *Client) *AuthRepository {
	return &AuthRepository{client: client}
}

// Login exchanges credentials for a token and the user record.
func (r *AuthRepository) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	body, err := r.client.do(ctx, http.MethodPost, "/auth/login", req)
	if err != nil {
		return model.AuthResponse{}, err
	}

	var resp model.AuthResponse
	if err := decodeObject(body, "", &resp); err != nil {
		return model.AuthResponse{}, err
	}
	if resp.Token == "" {
		return model.AuthResponse{}, ErrMissingToken
	}

	return resp, nil
}
