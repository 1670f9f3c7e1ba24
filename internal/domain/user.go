package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	Name              string     `db:"name" json:"name"`
	Email             string     `db:"email" json:"email"`
	PasswordHash      []byte     `db:"password_hash" json:"-"`
	PasswordSalt      []byte     `db:"password_salt" json:"-"`
	Role              string     `db:"role" json:"role"`
	ResetTokenHash    []byte     `db:"reset_token_hash" json:"-"`
	ResetExpiresAt    *time.Time `db:"reset_expires_at" json:"-"`
	PasswordChangedAt *time.Time `db:"password_changed_at" json:"-"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// PasswordChangedAfter reports whether the password was rotated after the
// given token issue time. Tokens minted before a rotation must be rejected.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	// Truncate to seconds: JWT iat has second precision.
	return u.PasswordChangedAt.Truncate(time.Second).After(issuedAt)
}
