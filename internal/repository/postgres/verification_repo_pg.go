package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/query"
	"github.com/cryptoscamalert/backend/internal/repository/ports"
)

const verificationColumns = `id, name, email, currency, transaction_address, transaction_date, request, created_at, updated_at`

type VerificationRepository struct {
	db *sqlx.DB
}

func NewVerificationRepo(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

func (r *VerificationRepository) Create(ctx context.Context, verification *domain.Verification) (*domain.Verification, error) {
	const q = `
        INSERT INTO verification_request (name, email, currency, transaction_address, transaction_date, request)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + verificationColumns

	row := r.db.QueryRowxContext(ctx, q,
		verification.Name, verification.Email, verification.Currency,
		verification.TransactionAddress, verification.TransactionDate, verification.Request)
	var stored domain.Verification
	if err := row.StructScan(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *VerificationRepository) List(ctx context.Context, q *query.ListQuery) ([]domain.Verification, error) {
	stmt, args := q.SQL()
	rows, err := r.db.QueryxContext(ctx, stmt, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	verifications := make([]domain.Verification, 0)
	for rows.Next() {
		var verification domain.Verification
		if err := rows.StructScan(&verification); err != nil {
			return nil, err
		}
		verifications = append(verifications, verification)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return verifications, nil
}

var _ ports.VerificationRepository = (*VerificationRepository)(nil)
