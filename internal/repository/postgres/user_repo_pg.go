package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/repository/ports"
)

const userColumns = `id, name, email, password_hash, password_salt, role,
        reset_token_hash, reset_expires_at, password_changed_at, created_at, updated_at`

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepo(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, name, email string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (name, email, password_hash, password_salt)
        VALUES ($1, $2, $3, $4)
        RETURNING ` + userColumns

	row := r.db.QueryRowxContext(ctx, query, name, email, passwordHash, passwordSalt)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) UpsertGoogleUser(ctx context.Context, name, email string) (*domain.User, error) {
	const query = `
        INSERT INTO user_account (name, email)
        VALUES ($1, $2)
        ON CONFLICT (email) DO UPDATE
        SET name = COALESCE(NULLIF(EXCLUDED.name, ''), user_account.name),
            updated_at = NOW()
        RETURNING ` + userColumns

	row := r.db.QueryRowxContext(ctx, query, name, email)
	var user domain.User
	if err := row.StructScan(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM user_account
        WHERE email = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM user_account
        WHERE id = $1`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetTokenHash matches the stored reset digest and enforces the
// expiry window in the same statement, so an expired token never resolves.
func (r *UserRepository) FindByResetTokenHash(ctx context.Context, tokenHash []byte, now time.Time) (*domain.User, error) {
	const query = `
        SELECT ` + userColumns + `
        FROM user_account
        WHERE reset_token_hash = $1 AND reset_expires_at > $2`

	var user domain.User
	if err := r.db.GetContext(ctx, &user, query, tokenHash, now); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash []byte, expiresAt time.Time) error {
	const query = `
        UPDATE user_account
        SET reset_token_hash = $2,
            reset_expires_at = $3,
            updated_at = NOW()
        WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, tokenHash, expiresAt)
	return err
}

func (r *UserRepository) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	const query = `
        UPDATE user_account
        SET reset_token_hash = NULL,
            reset_expires_at = NULL,
            updated_at = NOW()
        WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte, changedAt time.Time) error {
	const query = `
        UPDATE user_account
        SET password_hash = $2,
            password_salt = $3,
            password_changed_at = $4,
            updated_at = NOW()
        WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id, passwordHash, passwordSalt, changedAt)
	return err
}

var _ ports.UserRepository = (*UserRepository)(nil)
