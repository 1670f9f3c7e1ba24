package service

import (
	"context"
	"database/sql"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/query"
)

type fakeScamRepo struct {
	createInput  *domain.Scam
	createResult *domain.Scam
	createErr    error

	listQuery  *query.ListQuery
	listResult []domain.Scam
	listErr    error

	scamsByID   map[uuid.UUID]*domain.Scam
	scamsBySlug map[string]*domain.Scam

	searchTerm   string
	searchLimit  int
	searchResult []domain.Scam

	deletedIDs []uuid.UUID
	deleteErr  error

	likes map[uuid.UUID][]domain.ScamLike
}

func newFakeScamRepo() *fakeScamRepo {
	return &fakeScamRepo{
		scamsByID:   make(map[uuid.UUID]*domain.Scam),
		scamsBySlug: make(map[string]*domain.Scam),
		likes:       make(map[uuid.UUID][]domain.ScamLike),
	}
}

func (f *fakeScamRepo) addScam(scam *domain.Scam) {
	f.scamsByID[scam.ID] = scam
	f.scamsBySlug[scam.Slug] = scam
}

func (f *fakeScamRepo) Create(ctx context.Context, scam *domain.Scam) (*domain.Scam, error) {
	f.createInput = scam
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createResult != nil {
		clone := *f.createResult
		return &clone, nil
	}
	stored := *scam
	stored.ID = uuid.New()
	return &stored, nil
}

func (f *fakeScamRepo) List(ctx context.Context, q *query.ListQuery) ([]domain.Scam, error) {
	f.listQuery = q
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Scam(nil), f.listResult...), nil
}

func (f *fakeScamRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Scam, error) {
	scam, ok := f.scamsByID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *scam
	return &clone, nil
}

func (f *fakeScamRepo) FindBySlug(ctx context.Context, slug string) (*domain.Scam, error) {
	scam, ok := f.scamsBySlug[slug]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *scam
	return &clone, nil
}

func (f *fakeScamRepo) Search(ctx context.Context, term string, limit int) ([]domain.Scam, error) {
	f.searchTerm = term
	f.searchLimit = limit
	return append([]domain.Scam(nil), f.searchResult...), nil
}

func (f *fakeScamRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.scamsByID[id]; !ok {
		return sql.ErrNoRows
	}
	f.deletedIDs = append(f.deletedIDs, id)
	delete(f.scamsByID, id)
	return nil
}

func (f *fakeScamRepo) AddLike(ctx context.Context, scamID, userID uuid.UUID) error {
	for _, like := range f.likes[scamID] {
		if like.UserID == userID {
			// mirrors ON CONFLICT DO NOTHING returning no row
			return sql.ErrNoRows
		}
	}
	f.likes[scamID] = append(f.likes[scamID], domain.ScamLike{ScamID: scamID, UserID: userID, CreatedAt: time.Now()})
	return nil
}

func (f *fakeScamRepo) RemoveLike(ctx context.Context, scamID, userID uuid.UUID) error {
	list := f.likes[scamID]
	for i, like := range list {
		if like.UserID == userID {
			f.likes[scamID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeScamRepo) ListLikes(ctx context.Context, scamID uuid.UUID) ([]domain.ScamLike, error) {
	return append([]domain.ScamLike(nil), f.likes[scamID]...), nil
}

func (f *fakeScamRepo) ListLikesForScams(ctx context.Context, scamIDs []uuid.UUID) (map[uuid.UUID][]domain.ScamLike, error) {
	result := make(map[uuid.UUID][]domain.ScamLike, len(scamIDs))
	for _, id := range scamIDs {
		if list, ok := f.likes[id]; ok && len(list) > 0 {
			result[id] = append([]domain.ScamLike(nil), list...)
		}
	}
	return result, nil
}

type fakeRenderer struct {
	lastSource string
	result     string
	err        error
}

func (f *fakeRenderer) Render(source string) (string, error) {
	f.lastSource = source
	if f.err != nil {
		return "", f.err
	}
	if f.result != "" {
		return f.result, nil
	}
	return "<p>" + source + "</p>", nil
}

func TestSlugifyDeterministic(t *testing.T) {
	if got := Slugify("Fake Exchange!!"); got != "fake-exchange" {
		t.Fatalf("expected fake-exchange, got %q", got)
	}
	if Slugify("Fake Exchange!!") != Slugify("Fake Exchange!!") {
		t.Fatal("slug must be deterministic")
	}
}

func TestCreateScamRendersMarkdownAndSlugs(t *testing.T) {
	repo := newFakeScamRepo()
	renderer := &fakeRenderer{}
	svc := NewScamService(repo, renderer)

	scam, err := svc.Create(context.Background(), CreateScamInput{
		Title:       " Fake Exchange!! ",
		Description: "They **steal** deposits",
		Type:        "exchange",
		Link:        "https://fake.example",
		Author:      "admin",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.createInput.Slug != "fake-exchange" {
		t.Fatalf("unexpected slug %q", repo.createInput.Slug)
	}
	if repo.createInput.Title != "Fake Exchange!!" {
		t.Fatalf("title should be trimmed, got %q", repo.createInput.Title)
	}
	if renderer.lastSource != "They **steal** deposits" {
		t.Fatalf("renderer saw %q", renderer.lastSource)
	}
	if !strings.Contains(repo.createInput.Description, "They **steal** deposits") {
		t.Fatalf("description should hold rendered output, got %q", repo.createInput.Description)
	}
	if scam.Likes == nil || len(scam.Likes) != 0 {
		t.Fatalf("new scam should start with an empty likes slice, got %v", scam.Likes)
	}
}

func TestCreateScamSlugTaken(t *testing.T) {
	repo := newFakeScamRepo()
	repo.createErr = &pgconn.PgError{Code: "23505"}
	svc := NewScamService(repo, &fakeRenderer{})

	_, err := svc.Create(context.Background(), CreateScamInput{Title: "Fake Exchange", Description: "x", Type: "exchange"})
	if !errors.Is(err, ErrSlugTaken) {
		t.Fatalf("expected ErrSlugTaken, got %v", err)
	}
}

func TestListAttachesLikes(t *testing.T) {
	repo := newFakeScamRepo()
	liked := domain.Scam{ID: uuid.New(), Title: "Liked", Slug: "liked"}
	bare := domain.Scam{ID: uuid.New(), Title: "Bare", Slug: "bare"}
	repo.listResult = []domain.Scam{liked, bare}
	repo.likes[liked.ID] = []domain.ScamLike{{ScamID: liked.ID, UserID: uuid.New()}}
	svc := NewScamService(repo, &fakeRenderer{})

	scams, err := svc.List(context.Background(), url.Values{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(scams) != 2 {
		t.Fatalf("expected two scams, got %d", len(scams))
	}
	if len(scams[0].Likes) != 1 {
		t.Fatalf("expected one like on the first scam, got %d", len(scams[0].Likes))
	}
	if scams[1].Likes == nil || len(scams[1].Likes) != 0 {
		t.Fatalf("unliked scam must carry an empty slice, got %v", scams[1].Likes)
	}
}

func TestListRejectsBadQuery(t *testing.T) {
	svc := NewScamService(newFakeScamRepo(), &fakeRenderer{})

	_, err := svc.List(context.Background(), url.Values{"bogus": []string{"1"}})
	if !errors.Is(err, query.ErrBadParam) {
		t.Fatalf("expected ErrBadParam, got %v", err)
	}
}

func TestGetBySlugNotFound(t *testing.T) {
	svc := NewScamService(newFakeScamRepo(), &fakeRenderer{})

	_, err := svc.GetBySlug(context.Background(), "missing")
	if !errors.Is(err, ErrScamNotFound) {
		t.Fatalf("expected ErrScamNotFound, got %v", err)
	}
}

func TestSearchEmptyTermShortCircuits(t *testing.T) {
	repo := newFakeScamRepo()
	svc := NewScamService(repo, &fakeRenderer{})

	scams, err := svc.Search(context.Background(), "   ")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(scams) != 0 {
		t.Fatalf("expected empty result, got %d", len(scams))
	}
	if repo.searchTerm != "" {
		t.Fatal("repository should not be queried for a blank term")
	}
}

func TestSearchCapsResults(t *testing.T) {
	repo := newFakeScamRepo()
	svc := NewScamService(repo, &fakeRenderer{})

	if _, err := svc.Search(context.Background(), "exchange"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if repo.searchLimit != searchResultLimit {
		t.Fatalf("expected limit %d, got %d", searchResultLimit, repo.searchLimit)
	}
}

func TestLikeOncePerUser(t *testing.T) {
	repo := newFakeScamRepo()
	scam := &domain.Scam{ID: uuid.New(), Title: "Fake Exchange", Slug: "fake-exchange"}
	repo.addScam(scam)
	userID := uuid.New()
	svc := NewScamService(repo, &fakeRenderer{})

	likes, err := svc.Like(context.Background(), scam.ID, userID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(likes) != 1 || likes[0].UserID != userID {
		t.Fatalf("unexpected likes %v", likes)
	}

	_, err = svc.Like(context.Background(), scam.ID, userID)
	if !errors.Is(err, ErrAlreadyLiked) {
		t.Fatalf("expected ErrAlreadyLiked, got %v", err)
	}
}

func TestLikeUnknownScam(t *testing.T) {
	svc := NewScamService(newFakeScamRepo(), &fakeRenderer{})

	_, err := svc.Like(context.Background(), uuid.New(), uuid.New())
	if !errors.Is(err, ErrScamNotFound) {
		t.Fatalf("expected ErrScamNotFound, got %v", err)
	}
}

func TestUnlikeRequiresExistingLike(t *testing.T) {
	repo := newFakeScamRepo()
	scam := &domain.Scam{ID: uuid.New(), Title: "Fake Exchange", Slug: "fake-exchange"}
	repo.addScam(scam)
	userID := uuid.New()
	svc := NewScamService(repo, &fakeRenderer{})

	_, err := svc.Unlike(context.Background(), scam.ID, userID)
	if !errors.Is(err, ErrNotLiked) {
		t.Fatalf("expected ErrNotLiked, got %v", err)
	}

	if _, err := svc.Like(context.Background(), scam.ID, userID); err != nil {
		t.Fatalf("like: %v", err)
	}
	likes, err := svc.Unlike(context.Background(), scam.ID, userID)
	if err != nil {
		t.Fatalf("unlike: %v", err)
	}
	if len(likes) != 0 {
		t.Fatalf("expected no likes left, got %v", likes)
	}
}

func TestDeleteScamNotFound(t *testing.T) {
	svc := NewScamService(newFakeScamRepo(), &fakeRenderer{})

	err := svc.Delete(context.Background(), uuid.New())
	if !errors.Is(err, ErrScamNotFound) {
		t.Fatalf("expected ErrScamNotFound, got %v", err)
	}
}
