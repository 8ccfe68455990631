package repo

import (
	"context"
	"errors"

	dom "github.com/pawell24/TimeTracker/internal/domain"
	"github.com/pawell24/TimeTracker/internal/utils"

	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrEmailExists is returned by Create when the email is already taken
// (unique constraint on users.email).
var ErrEmailExists = errors.New("user with this email already exists")

// UserRepo provides user persistence. Lookups return pgx.ErrNoRows when
// no user matches.
type UserRepo interface {
	GetByEmail(ctx context.Context, email string) (dom.User, error)
	GetByID(ctx context.Context, id string) (dom.User, error)
	Create(ctx context.Context, id, email, passwordHash string) (dom.User, error)
	SetConfirmed(ctx context.Context, id string) error
}

// PGUserRepo implements UserRepo with Postgres.
type PGUserRepo struct {
	db *pgxpool.Pool
}

// NewPGUserRepo returns a new PGUserRepo.
func NewPGUserRepo(db *pgxpool.Pool) *PGUserRepo {
	return &PGUserRepo{db: db}
}

// GetByEmail returns the user by email.
func (r *PGUserRepo) GetByEmail(ctx context.Context, email string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, confirmed, created_at FROM users WHERE email = $1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Confirmed, &u.CreatedAt)
	return u, err
}

// GetByID returns the user by ID.
func (r *PGUserRepo) GetByID(ctx context.Context, id string) (dom.User, error) {
	var u dom.User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, confirmed, created_at FROM users WHERE id = $1`,
		id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Confirmed, &u.CreatedAt)
	return u, err
}

// Create inserts a new unconfirmed user and returns it.
func (r *PGUserRepo) Create(ctx context.Context, id, email, passwordHash string) (dom.User, error) {
	query := `
		INSERT INTO users (id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, confirmed, created_at`
	var u dom.User
	err := r.db.QueryRow(ctx, query, id, email, passwordHash).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Confirmed, &u.CreatedAt,
	)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrEmailExists
		}
		return dom.User{}, err
	}
	return u, nil
}

// SetConfirmed marks the user as confirmed. Returns pgx.ErrNoRows if the
// user does not exist.
func (r *PGUserRepo) SetConfirmed(ctx context.Context, id string) error {
	var confirmed bool
	return r.db.QueryRow(ctx,
		`UPDATE users SET confirmed = TRUE WHERE id = $1 RETURNING confirmed`,
		id,
	).Scan(&confirmed)
}
