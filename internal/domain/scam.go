package domain

import (
	"time"

	"github.com/google/uuid"
)

// Scam is an admin-published listing. Description holds sanitized HTML
// rendered from the submitted markdown; Slug is derived from Title and is
// unique across listings.
type Scam struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Slug        string    `db:"slug" json:"slug"`
	Description string    `db:"description" json:"description"`
	Type        string    `db:"type" json:"type"`
	Link        string    `db:"link" json:"link"`
	Author      string    `db:"author" json:"author"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Likes []ScamLike `db:"-" json:"likes"`
}

// ScamLike is one user's vote on a listing. The (scam_id, user_account_id)
// pair is the primary key, so a user can hold at most one like per scam.
type ScamLike struct {
	ScamID    uuid.UUID `db:"scam_id" json:"-"`
	UserID    uuid.UUID `db:"user_account_id" json:"user"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
