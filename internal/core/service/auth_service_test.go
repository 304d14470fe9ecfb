package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/scientifictooffi/itransition-4task/internal/core/domain"
	"github.com/scientifictooffi/itransition-4task/internal/core/ports"
)

type stubUserRepo struct {
	users map[string]*domain.User // keyed by id
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return domain.ErrEmailExists
		}
	}
	r.users[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByVerifyToken(_ context.Context, token string) (*domain.User, error) {
	for _, u := range r.users {
		if u.VerifyToken != "" && u.VerifyToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]domain.User, error) {
	out := make([]domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUserRepo) MarkVerified(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Status = domain.StatusActive
	u.VerifyToken = ""
	u.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *stubUserRepo) TouchLastLogin(_ context.Context, id string) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = now
	return nil
}

func (r *stubUserRepo) SetStatus(_ context.Context, ids []string, status domain.UserStatus) error {
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			u.Status = status
			u.UpdatedAt = time.Now().UTC()
		}
	}
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, ids []string) error {
	for _, id := range ids {
		delete(r.users, id)
	}
	return nil
}

func (r *stubUserRepo) DeleteUnverified(_ context.Context, ids []string) error {
	match := func(id string) bool {
		if len(ids) == 0 {
			return true
		}
		for _, want := range ids {
			if want == id {
				return true
			}
		}
		return false
	}
	for id, u := range r.users {
		if u.Status == domain.StatusUnverified && match(id) {
			delete(r.users, id)
		}
	}
	return nil
}

var _ ports.UserRepository = (*stubUserRepo)(nil)

type recordingNotifier struct {
	emails []ports.VerificationEmail
}

func (n *recordingNotifier) Enqueue(email ports.VerificationEmail) {
	n.emails = append(n.emails, email)
}

func newAuthService(repo *stubUserRepo, notifier *recordingNotifier) *AuthService {
	svc := NewAuthService(repo, notifier, "http://localhost:4000")
	seq := 0
	svc.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return svc
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	notifier := &recordingNotifier{}
	svc := newAuthService(repo, notifier)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "  Ann  ",
		Email:    "Ann@Example.com ",
		Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Name != "Ann" {
		t.Fatalf("expected trimmed name, got %q", user.Name)
	}
	if user.Email != "ann@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if user.Status != domain.StatusUnverified {
		t.Fatalf("expected unverified status, got %q", user.Status)
	}
	if user.VerifyToken == "" {
		t.Fatalf("expected a verification token")
	}
	if user.PasswordHash == "pw" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pw")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestAuthService_Register_DispatchesEmail(t *testing.T) {
	repo := newStubUserRepo()
	notifier := &recordingNotifier{}
	svc := newAuthService(repo, notifier)

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if len(notifier.emails) != 1 {
		t.Fatalf("expected 1 queued email, got %d", len(notifier.emails))
	}
	email := notifier.emails[0]
	if email.To != "ann@example.com" {
		t.Fatalf("unexpected recipient: %s", email.To)
	}
	want := "http://localhost:4000/api/verify?token=" + user.VerifyToken
	if email.Link != want {
		t.Fatalf("unexpected link: got %s want %s", email.Link, want)
	}
}

func TestAuthService_Register_DuplicateEmailNormalized(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &recordingNotifier{})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ann", Email: "Ann@Example.com", Password: "pw",
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "x", Email: "  ann@example.com", Password: "pw2",
	})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &recordingNotifier{})

	cases := []ports.RegisterInput{
		{Name: "", Email: "a@b.c", Password: "pw"},
		{Name: "   ", Email: "a@b.c", Password: "pw"},
		{Name: "a", Email: "", Password: "pw"},
		{Name: "a", Email: "a@b.c", Password: ""},
	}
	for _, in := range cases {
		if _, err := svc.Register(context.Background(), in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %+v, got %v", in, err)
		}
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &recordingNotifier{})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "pw",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Fresh registrations are unverified; login is still allowed.
	user, err := svc.Login(context.Background(), "Ann@Example.com", "pw")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if user.Status != domain.StatusUnverified {
		t.Fatalf("unexpected status: %q", user.Status)
	}
	if user.LastLoginAt == nil {
		t.Fatalf("expected last login timestamp to be set")
	}
	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.LastLoginAt == nil {
		t.Fatalf("expected last login persisted")
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &recordingNotifier{})

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "pw",
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Wrong password and unknown email must be indistinguishable.
	if _, err := svc.Login(context.Background(), "ann@example.com", "nope"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "ghost@example.com", "pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_Login_Blocked(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &recordingNotifier{})

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := repo.SetStatus(context.Background(), []string{user.ID}, domain.StatusBlocked); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	if _, err := svc.Login(context.Background(), "ann@example.com", "pw"); !errors.Is(err, domain.ErrUserBlocked) {
		t.Fatalf("expected ErrUserBlocked, got %v", err)
	}
}

func TestAuthService_Verify_SingleUse(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &recordingNotifier{})

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.Verify(context.Background(), user.VerifyToken); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.Status != domain.StatusActive {
		t.Fatalf("expected active status, got %q", stored.Status)
	}
	if stored.VerifyToken != "" {
		t.Fatalf("expected token cleared")
	}

	// Replaying the consumed token must fail.
	if err := svc.Verify(context.Background(), user.VerifyToken); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound on replay, got %v", err)
	}
}

func TestAuthService_Verify_UnknownToken(t *testing.T) {
	svc := newAuthService(newStubUserRepo(), &recordingNotifier{})

	if err := svc.Verify(context.Background(), "nope"); !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestAuthService_Verify_BlockedIsNoOp(t *testing.T) {
	repo := newStubUserRepo()
	svc := newAuthService(repo, &recordingNotifier{})

	user, err := svc.Register(context.Background(), ports.RegisterInput{
		Name: "Ann", Email: "ann@example.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := repo.SetStatus(context.Background(), []string{user.ID}, domain.StatusBlocked); err != nil {
		t.Fatalf("block failed: %v", err)
	}

	// Verifying a blocked account reports success but changes nothing.
	if err := svc.Verify(context.Background(), user.VerifyToken); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), user.ID)
	if stored.Status != domain.StatusBlocked {
		t.Fatalf("expected status to stay blocked, got %q", stored.Status)
	}
	if stored.VerifyToken == "" {
		t.Fatalf("expected token untouched for blocked account")
	}
}
