package service

import (
	"context"

	"github.com/scientifictooffi/itransition-4task/internal/core/domain"
	"github.com/scientifictooffi/itransition-4task/internal/core/ports"
)

// UserService implements the administration operations over the user store.
// Bulk operations delegate atomicity to the store's single-statement
// guarantees; unknown ids are silently ignored.
type UserService struct {
	repo ports.UserRepository
}

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

// Block sets every matching account to blocked. Any session held by a
// blocked user dies on its next authorization check.
func (s *UserService) Block(ctx context.Context, ids []string) error {
	return s.repo.SetStatus(ctx, ids, domain.StatusBlocked)
}

// Unblock sets every matching account to active, including accounts that
// never verified their email.
func (s *UserService) Unblock(ctx context.Context, ids []string) error {
	return s.repo.SetStatus(ctx, ids, domain.StatusActive)
}

func (s *UserService) Delete(ctx context.Context, ids []string) error {
	return s.repo.Delete(ctx, ids)
}

// DeleteUnverified removes unverified accounts, optionally restricted to the
// supplied ids. Idempotent: a second call finds nothing to remove.
func (s *UserService) DeleteUnverified(ctx context.Context, ids []string) error {
	return s.repo.DeleteUnverified(ctx, ids)
}
