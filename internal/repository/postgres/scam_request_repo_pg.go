package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/query"
	"github.com/cryptoscamalert/backend/internal/repository/ports"
)

const scamRequestColumns = `id, name, description, type, link, author_id, evidence_url, created_at, updated_at`

type ScamRequestRepository struct {
	db *sqlx.DB
}

func NewScamRequestRepo(db *sqlx.DB) *ScamRequestRepository {
	return &ScamRequestRepository{db: db}
}

func (r *ScamRequestRepository) Create(ctx context.Context, request *domain.ScamRequest) (*domain.ScamRequest, error) {
	const q = `
        INSERT INTO scam_request (name, description, type, link, author_id)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + scamRequestColumns

	row := r.db.QueryRowxContext(ctx, q, request.Name, request.Description, request.Type, request.Link, request.AuthorID)
	var stored domain.ScamRequest
	if err := row.StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ScamRequestRepository) List(ctx context.Context, q *query.ListQuery) ([]domain.ScamRequest, error) {
	stmt, args := q.SQL()
	rows, err := r.db.QueryxContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]domain.ScamRequest, 0)
	for rows.Next() {
		var request domain.ScamRequest
		if err := rows.StructScan(&request); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *ScamRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.ScamRequest, error) {
	const q = `
        SELECT ` + scamRequestColumns + `
        FROM scam_request
        WHERE id = $1`

	var request domain.ScamRequest
	if err := r.db.GetContext(ctx, &request, q, id); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *ScamRequestRepository) SetEvidenceURL(ctx context.Context, id uuid.UUID, url string) error {
	const q = `
        UPDATE scam_request
        SET evidence_url = $2,
            updated_at = NOW()
        WHERE id = $1`

	result, err := r.db.ExecContext(ctx, q, id, url)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *ScamRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM scam_request WHERE id = $1`

	result, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

var _ ports.ScamRequestRepository = (*ScamRequestRepository)(nil)
