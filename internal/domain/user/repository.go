package user

import (
	"context"
)

// Repository is the account store port.
type Repository interface {
	// Create returns errors.ErrEmailDuplicate when the email is taken.
	Create(ctx context.Context, user *User) error

	// FindByID returns errors.ErrUserNotFound when absent.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail returns errors.ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	Update(ctx context.Context, user *User) error
}
