package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/query"
)

type ScamRepository interface {
	Create(ctx context.Context, scam *domain.Scam) (*domain.Scam, error)
	List(ctx context.Context, q *query.ListQuery) ([]domain.Scam, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Scam, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Scam, error)
	Search(ctx context.Context, term string, limit int) ([]domain.Scam, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddLike(ctx context.Context, scamID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, scamID, userID uuid.UUID) error
	ListLikes(ctx context.Context, scamID uuid.UUID) ([]domain.ScamLike, error)
	ListLikesForScams(ctx context.Context, scamIDs []uuid.UUID) (map[uuid.UUID][]domain.ScamLike, error)
}
