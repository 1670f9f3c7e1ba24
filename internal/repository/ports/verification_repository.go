package ports

import (
	"context"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/query"
)

type VerificationRepository interface {
	Create(ctx context.Context, verification *domain.Verification) (*domain.Verification, error)
	List(ctx context.Context, q *query.ListQuery) ([]domain.Verification, error)
}
