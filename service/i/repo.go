package i

import (
	dmn "github.com/beka-birhanu/maze-runner/domain"
	"github.com/google/uuid"
)

// UserRepo defines the interface for user persistence operations.
type UserRepo interface {
	// Save inserts or updates a user in the repository.
	// If the user already exists, it updates the record. Otherwise, it creates a new one.
	// Returns dmn.ErrUsernameConflict when another user holds the username.
	Save(user *dmn.User) error

	// ByID retrieves a user by their unique ID.
	// Returns dmn.ErrUserNotFound if no user matches.
	ByID(id uuid.UUID) (*dmn.User, error)

	// ByUsername retrieves a user by their username.
	// Returns dmn.ErrUserNotFound if no user matches.
	ByUsername(username string) (*dmn.User, error)
}
