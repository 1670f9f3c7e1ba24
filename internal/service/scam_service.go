package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/query"
	"github.com/cryptoscamalert/backend/internal/repository/ports"
)

var (
	ErrScamNotFound = errors.New("scam not found")
	ErrSlugTaken    = errors.New("a scam with this title already exists")
	ErrAlreadyLiked = errors.New("you already voted this report")
	ErrNotLiked     = errors.New("report has not yet been voted by you")
)

// MarkdownRenderer turns submitted markdown into sanitized HTML.
type MarkdownRenderer interface {
	Render(source string) (string, error)
}

var scamListResource = query.Resource{
	Table: "scam",
	Fields: []query.Field{
		{Name: "id", Column: "id"},
		{Name: "title", Column: "title"},
		{Name: "slug", Column: "slug"},
		{Name: "description", Column: "description"},
		{Name: "type", Column: "type"},
		{Name: "link", Column: "link"},
		{Name: "author", Column: "author"},
		{Name: "createdAt", Column: "created_at"},
		{Name: "updatedAt", Column: "updated_at"},
	},
	DefaultSort: "created_at",
}

const searchResultLimit = 10

type ScamService struct {
	scams    ports.ScamRepository
	markdown MarkdownRenderer
}

type CreateScamInput struct {
	Title       string
	Description string
	Type        string
	Link        string
	Author      string
}

func NewScamService(scams ports.ScamRepository, markdown MarkdownRenderer) *ScamService {
	return &ScamService{scams: scams, markdown: markdown}
}

// Slugify derives the URL identifier for a title. Deterministic: the same
// title always maps to the same slug.
func Slugify(title string) string {
	return slug.Make(title)
}

func (s *ScamService) Create(ctx context.Context, input CreateScamInput) (*domain.Scam, error) {
	html, err := s.markdown.Render(input.Description)
	if err != nil {
		return nil, err
	}

	scam := &domain.Scam{
		Title:       strings.TrimSpace(input.Title),
		Slug:        Slugify(input.Title),
		Description: html,
		Type:        strings.TrimSpace(input.Type),
		Link:        strings.TrimSpace(input.Link),
		Author:      strings.TrimSpace(input.Author),
	}

	stored, err := s.scams.Create(ctx, scam)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	stored.Likes = []domain.ScamLike{}
	return stored, nil
}

func (s *ScamService) List(ctx context.Context, values url.Values) ([]domain.Scam, error) {
	q, err := query.Parse(values, scamListResource)
	if err != nil {
		return nil, err
	}

	scams, err := s.scams.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.attachLikes(ctx, scams); err != nil {
		return nil, err
	}
	return scams, nil
}

func (s *ScamService) GetBySlug(ctx context.Context, slugParam string) (*domain.Scam, error) {
	scam, err := s.scams.FindBySlug(ctx, strings.TrimSpace(slugParam))
	if err != nil {
		if isNotFound(err) {
			return nil, ErrScamNotFound
		}
		return nil, err
	}

	likes, err := s.scams.ListLikes(ctx, scam.ID)
	if err != nil {
		return nil, err
	}
	scam.Likes = likes
	return scam, nil
}

func (s *ScamService) Search(ctx context.Context, term string) ([]domain.Scam, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []domain.Scam{}, nil
	}
	scams, err := s.scams.Search(ctx, term, searchResultLimit)
	if err != nil {
		return nil, err
	}
	if err := s.attachLikes(ctx, scams); err != nil {
		return nil, err
	}
	return scams, nil
}

func (s *ScamService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.scams.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrScamNotFound
		}
		return err
	}
	return nil
}

// Like records one vote per user per scam. The storage layer enforces the
// invariant atomically, so concurrent likes cannot double-count.
func (s *ScamService) Like(ctx context.Context, scamID, userID uuid.UUID) ([]domain.ScamLike, error) {
	if _, err := s.scams.FindByID(ctx, scamID); err != nil {
		if isNotFound(err) {
			return nil, ErrScamNotFound
		}
		return nil, err
	}

	if err := s.scams.AddLike(ctx, scamID, userID); err != nil {
		if isNotFound(err) || isUniqueViolation(err) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return s.scams.ListLikes(ctx, scamID)
}

func (s *ScamService) Unlike(ctx context.Context, scamID, userID uuid.UUID) ([]domain.ScamLike, error) {
	if _, err := s.scams.FindByID(ctx, scamID); err != nil {
		if isNotFound(err) {
			return nil, ErrScamNotFound
		}
		return nil, err
	}

	if err := s.scams.RemoveLike(ctx, scamID, userID); err != nil {
		if isNotFound(err) {
			return nil, ErrNotLiked
		}
		return nil, err
	}
	return s.scams.ListLikes(ctx, scamID)
}

func (s *ScamService) attachLikes(ctx context.Context, scams []domain.Scam) error {
	ids := make([]uuid.UUID, 0, len(scams))
	for _, scam := range scams {
		if scam.ID != uuid.Nil {
			ids = append(ids, scam.ID)
		}
	}

	likes, err := s.scams.ListLikesForScams(ctx, ids)
	if err != nil {
		return err
	}
	for i := range scams {
		if list, ok := likes[scams[i].ID]; ok {
			scams[i].Likes = list
		} else {
			scams[i].Likes = []domain.ScamLike{}
		}
	}
	return nil
}
