package services

import (
	"context"

	"github.com/no-solace/ev-maintenance-system/internal/apiclient"
	"github.com/no-solace/ev-maintenance-system/internal/models"
)

// AuthService talks to the /auth endpoints.
type AuthService struct {
	client *apiclient.Client
}

// Login exchanges credentials for a token and profile.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := s.client.Post(ctx, "/auth/login", nil, req).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a customer account.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.LoginResponse, error) {
	var out models.LoginResponse
	if err := s.client.Post(ctx, "/auth/register", nil, req).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the profile of the token holder.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := s.client.Get(ctx, "/auth/me", nil).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
