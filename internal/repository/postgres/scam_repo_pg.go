package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/query"
	"github.com/cryptoscamalert/backend/internal/repository/ports"
)

const scamColumns = `id, title, slug, description, type, link, author, created_at, updated_at`

type ScamRepository struct {
	db *sqlx.DB
}

func NewScamRepo(db *sqlx.DB) *ScamRepository {
	return &ScamRepository{db: db}
}

func (r *ScamRepository) Create(ctx context.Context, scam *domain.Scam) (*domain.Scam, error) {
	const q = `
        INSERT INTO scam (title, slug, description, type, link, author)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + scamColumns

	row := r.db.QueryRowxContext(ctx, q, scam.Title, scam.Slug, scam.Description, scam.Type, scam.Link, scam.Author)
	var stored domain.Scam
	if err := row.StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *ScamRepository) List(ctx context.Context, q *query.ListQuery) ([]domain.Scam, error) {
	stmt, args := q.SQL()
	rows, err := r.db.QueryxContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scams := make([]domain.Scam, 0)
	for rows.Next() {
		var scam domain.Scam
		if err := rows.StructScan(&scam); err != nil {
			return nil, err
		}
		scams = append(scams, scam)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scams, nil
}

func (r *ScamRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Scam, error) {
	const q = `
        SELECT ` + scamColumns + `
        FROM scam
        WHERE id = $1`

	var scam domain.Scam
	if err := r.db.GetContext(ctx, &scam, q, id); err != nil {
		return nil, err
	}
	return &scam, nil
}

func (r *ScamRepository) FindBySlug(ctx context.Context, slug string) (*domain.Scam, error) {
	const q = `
        SELECT ` + scamColumns + `
        FROM scam
        WHERE slug = $1`

	var scam domain.Scam
	if err := r.db.GetContext(ctx, &scam, q, slug); err != nil {
		return nil, err
	}
	return &scam, nil
}

func (r *ScamRepository) Search(ctx context.Context, term string, limit int) ([]domain.Scam, error) {
	const q = `
        SELECT ` + scamColumns + `
        FROM scam
        WHERE title ILIKE $1 OR author ILIKE $1 OR link ILIKE $1
        ORDER BY created_at DESC
        LIMIT $2`

	pattern := "%" + escapeLike(term) + "%"
	rows, err := r.db.QueryxContext(ctx, q, pattern, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scams := make([]domain.Scam, 0)
	for rows.Next() {
		var scam domain.Scam
		if err := rows.StructScan(&scam); err != nil {
			return nil, err
		}
		scams = append(scams, scam)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return scams, nil
}

func (r *ScamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM scam WHERE id = $1`

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

// AddLike inserts at most one like per user. The conflict target is the
// composite primary key; no row returned means the like already existed.
func (r *ScamRepository) AddLike(ctx context.Context, scamID, userID uuid.UUID) error {
	const q = `
        INSERT INTO scam_like (scam_id, user_account_id)
        VALUES ($1, $2)
        ON CONFLICT (scam_id, user_account_id) DO NOTHING
        RETURNING scam_id`

	var inserted uuid.UUID
	return r.db.GetContext(ctx, &inserted, q, scamID, userID)
}

func (r *ScamRepository) RemoveLike(ctx context.Context, scamID, userID uuid.UUID) error {
	const q = `
        DELETE FROM scam_like
        WHERE scam_id = $1 AND user_account_id = $2`

	result, err := r.db.ExecContext(ctx, q, scamID, userID)
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

func (r *ScamRepository) ListLikes(ctx context.Context, scamID uuid.UUID) ([]domain.ScamLike, error) {
	const q = `
        SELECT scam_id, user_account_id, created_at
        FROM scam_like
        WHERE scam_id = $1
        ORDER BY created_at DESC`

	likes := make([]domain.ScamLike, 0)
	if err := r.db.SelectContext(ctx, &likes, q, scamID); err != nil {
		return nil, err
	}
	return likes, nil
}

func (r *ScamRepository) ListLikesForScams(ctx context.Context, scamIDs []uuid.UUID) (map[uuid.UUID][]domain.ScamLike, error) {
	result := make(map[uuid.UUID][]domain.ScamLike, len(scamIDs))
	if len(scamIDs) == 0 {
		return result, nil
	}

	const q = `
        SELECT scam_id, user_account_id, created_at
        FROM scam_like
        WHERE scam_id = ANY($1::uuid[])
        ORDER BY created_at DESC`

	ids := make([]string, 0, len(scamIDs))
	for _, id := range scamIDs {
		ids = append(ids, id.String())
	}

	rows, err := r.db.QueryxContext(ctx, q, pq.StringArray(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var like domain.ScamLike
		if err := rows.StructScan(&like); err != nil {
			return nil, err
		}
		result[like.ScamID] = append(result[like.ScamID], like)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

var _ ports.ScamRepository = (*ScamRepository)(nil)
