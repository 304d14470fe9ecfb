package ports

import (
	"context"

	"github.com/scientifictooffi/itransition-4task/internal/core/domain"
)

// UserRepository defines the persistence interface for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByVerifyToken(ctx context.Context, token string) (*domain.User, error)
	// List returns all users ordered by most-recent login first; users who
	// never logged in come last.
	List(ctx context.Context) ([]domain.User, error)
	MarkVerified(ctx context.Context, id string) error
	TouchLastLogin(ctx context.Context, id string) error
	// SetStatus updates the status of every matching row; unknown ids are
	// silently ignored.
	SetStatus(ctx context.Context, ids []string, status domain.UserStatus) error
	Delete(ctx context.Context, ids []string) error
	// DeleteUnverified removes unverified rows. With a non-empty ids slice the
	// deletion is restricted to those ids; with nil/empty it removes every
	// unverified row.
	DeleteUnverified(ctx context.Context, ids []string) error
}
