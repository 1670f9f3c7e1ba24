package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/query"
)

type ScamRequestRepository interface {
	Create(ctx context.Context, request *domain.ScamRequest) (*domain.ScamRequest, error)
	List(ctx context.Context, q *query.ListQuery) ([]domain.ScamRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.ScamRequest, error)
	SetEvidenceURL(ctx context.Context, id uuid.UUID, url string) error
	Delete(ctx context.Context, id uuid.UUID) error
}
