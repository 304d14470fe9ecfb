package ports

import (
	"context"

	"github.com/scientifictooffi/itransition-4task/internal/core/domain"
)

// RegisterInput carries the registration form fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService implements the registration, login, and verification flows.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Verify(ctx context.Context, token string) error
}
