package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScamRequest is an unmoderated user submission pending admin review.
// It is created once and never edited; admins either promote its content
// into a Scam listing by hand or delete it.
type ScamRequest struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Type        string    `db:"type" json:"type"`
	Link        string    `db:"link" json:"link"`
	AuthorID    uuid.UUID `db:"author_id" json:"author_id"`
	EvidenceURL *string   `db:"evidence_url" json:"evidence_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`

	Author *User `db:"-" json:"author,omitempty"`
}
