package interfaces

import (
	"context"

	"repurpose-server/internal/models"
)

// UserRepository defines the interface for user data persistence (e.g., PostgreSQL).
type UserRepository interface {
	// CreateUser inserts a new user into the database and fills in the
	// generated ID and creation timestamp on the passed struct.
	// Returns models.ErrEmailAlreadyExists when the email is already taken.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by their email address.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by their ID.
	// Returns models.ErrUserNotFound if the user does not exist.
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}
