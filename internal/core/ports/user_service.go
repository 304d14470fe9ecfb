package ports

import (
	"context"

	"github.com/scientifictooffi/itransition-4task/internal/core/domain"
)

// UserService implements the administration operations. Every method is
// reachable only behind the session gate.
type UserService interface {
	List(ctx context.Context) ([]domain.User, error)
	Block(ctx context.Context, ids []string) error
	Unblock(ctx context.Context, ids []string) error
	Delete(ctx context.Context, ids []string) error
	DeleteUnverified(ctx context.Context, ids []string) error
}
