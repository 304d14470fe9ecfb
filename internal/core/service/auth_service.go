package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/scientifictooffi/itransition-4task/internal/core/domain"
	"github.com/scientifictooffi/itransition-4task/internal/core/ports"
)

// ErrInvalidInput signals a malformed registration or login payload that
// slipped past HTTP-level validation.
var ErrInvalidInput = errors.New("invalid input")

// AuthService implements registration, login, and email verification.
type AuthService struct {
	repo      ports.UserRepository
	notifier  ports.Notifier
	publicURL string

	// newID issues collision-resistant ids for users and verification
	// tokens. Overridable in tests.
	newID func() string
}

func NewAuthService(repo ports.UserRepository, notifier ports.Notifier, publicURL string) *AuthService {
	return &AuthService{
		repo:      repo,
		notifier:  notifier,
		publicURL: strings.TrimRight(publicURL, "/"),
		newID:     uuid.NewString,
	}
}

// Register creates an unverified account and dispatches the verification
// email. Delivery is fire-and-forget: the registration succeeds even if the
// email never leaves the building.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, error) {
	name := strings.TrimSpace(in.Name)
	email := domain.NormalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           s.newID(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Status:       domain.StatusUnverified,
		VerifyToken:  s.newID(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.notifier.Enqueue(ports.VerificationEmail{
		To:   user.Email,
		Link: s.publicURL + "/api/verify?token=" + user.VerifyToken,
	})

	return user, nil
}

// Login authenticates by normalized email and password. Unknown email and
// wrong password are indistinguishable to the caller; only a blocked account
// is reported differently. Verification status does not gate login.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrInvalidInput
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Blocked() {
		return nil, domain.ErrUserBlocked
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user.LastLoginAt = &now

	return user, nil
}

// Verify consumes a verification token. The token is single-use: once the
// row is marked active the token is cleared and a replay yields
// ErrTokenNotFound. A blocked account is left untouched but Verify still
// reports success, matching the public contract.
func (s *AuthService) Verify(ctx context.Context, token string) error {
	user, err := s.repo.FindByVerifyToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrTokenNotFound
		}
		return err
	}

	if user.Blocked() {
		return nil
	}

	return s.repo.MarkVerified(ctx, user.ID)
}
