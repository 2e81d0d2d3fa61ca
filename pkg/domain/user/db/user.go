package db

import (
	"context"

	"github.com/smartbiz-gst/smartbiz/pkg/domain"
)

type UserInterface interface {
	// Register a new user.
	//
	// # Returns
	//
	// - *domain.User: registered user.
	//
	// - error: wraps errors.ErrConflict when the email is already used.
	Register(ctx context.Context, spec *domain.UserSpec) (*domain.User, error)

	// Get a user by id.
	//
	// error wraps errors.ErrMissing when not found.
	Get(ctx context.Context, id string) (*domain.User, error)

	// Get a user by email (case-insensitive).
	//
	// error wraps errors.ErrMissing when not found.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Find users.
	//
	// # Returns
	//
	// - domain.Paged[domain.User]: users in the page, newest first, and the number of all matched users.
	//
	// - error
	Find(ctx context.Context, query domain.UserFindQuery) (domain.Paged[domain.User], error)

	// UpdateProfile applies a partial update to the user.
	//
	// error wraps errors.ErrMissing when not found.
	UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.User, error)

	// SetPasswordHash replaces the password hash of the user.
	SetPasswordHash(ctx context.Context, id string, hash string) error

	// SetActive activates or deactivates the user.
	//
	// # Returns
	//
	// - *domain.User: updated user.
	//
	// - error: wraps errors.ErrMissing when not found,
	// or errors.ErrInvalidState when the user is already in the state.
	SetActive(ctx context.Context, id string, active bool) (*domain.User, error)

	// Delete the user and everything owned by them.
	//
	// error wraps errors.ErrMissing when not found.
	Delete(ctx context.Context, id string) error
}
