// Package repository declares the storage contracts the use cases run against.
// The postgres and memory packages implement every interface here.
package repository

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned by lookups that match no user row.
var ErrUserNotFound = errors.New("user not found")

// UserRepository stores shopper and admin accounts. Accounts are never
// deleted; deactivation is an Update with IsActive false.
type UserRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByEmail matches the normalized (lower-cased) address.
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// Create fills in the generated id and timestamps. A taken email yields ErrUserAlreadyExists.
	Create(ctx context.Context, user *entity.User) error

	Update(ctx context.Context, user *entity.User) error

	// List returns one page of users matching filter, newest first, and the total match count.
	List(ctx context.Context, filter entity.UserFilter) ([]*entity.User, int64, error)

	// Stats aggregates account counts. Registrations at or after since count as recent.
	Stats(ctx context.Context, since time.Time) (*entity.UserStats, error)
}
