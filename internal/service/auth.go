package service

import (
	"context"

	"repurpose-server/internal/models"
)

// AuthService defines the interface for authentication logic.
type AuthService interface {
	// Register creates a new user account.
	Register(ctx context.Context, email, password string) (*models.User, error)
	// Login authenticates a user and returns a signed access token.
	Login(ctx context.Context, email, password string) (string, error)
	// VerifyToken parses and validates an access token string.
	VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error)
}
