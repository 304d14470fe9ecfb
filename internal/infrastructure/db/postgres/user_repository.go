package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/scientifictooffi/itransition-4task/internal/core/domain"
)

const userColumns = "id, name, email, password_hash, status, verify_token, last_login_at, created_at, updated_at"

// UserRepository persists user accounts in the users table.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, status, verify_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		string(user.Status), nullable(user.VerifyToken), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrEmailExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *UserRepository) FindByVerifyToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findOne(ctx, "verify_token = $1", token)
}

func (r *UserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE "+where, arg)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		ORDER BY (last_login_at IS NULL) ASC, last_login_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) MarkVerified(ctx context.Context, id string) error {
	query := `UPDATE users SET status = $1, verify_token = NULL, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, string(domain.StatusActive), time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark verified: %w", err)
	}
	return nil
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	now := time.Now().UTC()
	query := `UPDATE users SET last_login_at = $1, updated_at = $1 WHERE id = $2`
	if _, err := r.db.ExecContext(ctx, query, now, id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

func (r *UserRepository) SetStatus(ctx context.Context, ids []string, status domain.UserStatus) error {
	if len(ids) == 0 {
		return nil
	}
	clause, args := inClause(3, ids)
	query := fmt.Sprintf(`UPDATE users SET status = $1, updated_at = $2 WHERE id IN (%s)`, clause)
	args = append([]any{string(status), time.Now().UTC()}, args...)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	clause, args := inClause(1, ids)
	query := fmt.Sprintf(`DELETE FROM users WHERE id IN (%s)`, clause)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete users: %w", err)
	}
	return nil
}

func (r *UserRepository) DeleteUnverified(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		query := `DELETE FROM users WHERE status = $1`
		if _, err := r.db.ExecContext(ctx, query, string(domain.StatusUnverified)); err != nil {
			return fmt.Errorf("delete unverified: %w", err)
		}
		return nil
	}

	clause, args := inClause(2, ids)
	query := fmt.Sprintf(`DELETE FROM users WHERE status = $1 AND id IN (%s)`, clause)
	args = append([]any{string(domain.StatusUnverified)}, args...)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete unverified: %w", err)
	}
	return nil
}

// inClause builds "$start, $start+1, ..." placeholders for an IN list,
// keeping query assembly on parameter binding rather than string escaping.
func inClause(start int, ids []string) (string, []any) {
	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}
	return strings.Join(placeholders, ", "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		user        domain.User
		status      string
		verifyToken sql.NullString
		lastLogin   sql.NullTime
	)
	err := row.Scan(&user.ID, &user.Name, &user.Email, &user.PasswordHash,
		&status, &verifyToken, &lastLogin, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	user.Status = domain.UserStatus(status)
	user.VerifyToken = verifyToken.String
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLoginAt = &t
	}
	return &user, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
