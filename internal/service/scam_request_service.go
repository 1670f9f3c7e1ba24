package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/media"
	"github.com/cryptoscamalert/backend/internal/query"
	"github.com/cryptoscamalert/backend/internal/repository/ports"
)

var (
	ErrScamRequestNotFound = errors.New("scam request not found")
	ErrNotRequestAuthor    = errors.New("only the submitting user can attach evidence")
	ErrEvidenceDisabled    = errors.New("evidence upload is not configured")
)

var scamRequestListResource = query.Resource{
	Table: "scam_request",
	Fields: []query.Field{
		{Name: "id", Column: "id"},
		{Name: "name", Column: "name"},
		{Name: "description", Column: "description"},
		{Name: "type", Column: "type"},
		{Name: "link", Column: "link"},
		{Name: "author", Column: "author_id"},
		{Name: "createdAt", Column: "created_at"},
		{Name: "updatedAt", Column: "updated_at"},
	},
	DefaultSort: "created_at",
}

type ScamRequestConfig struct {
	EvidenceBucket   string
	EvidenceMaxBytes int64
}

type ScamRequestService struct {
	requests ports.ScamRequestRepository
	users    ports.UserRepository
	storage  ports.ObjectStorage
	markdown MarkdownRenderer
	cfg      ScamRequestConfig
}

type CreateScamRequestInput struct {
	Name        string
	Description string
	Type        string
	Link        string
	AuthorID    uuid.UUID
}

type EvidenceUpload struct {
	Reader   io.Reader
	Size     int64
	FileName string
}

func NewScamRequestService(
	requests ports.ScamRequestRepository,
	users ports.UserRepository,
	storage ports.ObjectStorage,
	markdown MarkdownRenderer,
	cfg ScamRequestConfig,
) *ScamRequestService {
	if cfg.EvidenceMaxBytes <= 0 {
		cfg.EvidenceMaxBytes = 5 * 1024 * 1024
	}
	return &ScamRequestService{requests: requests, users: users, storage: storage, markdown: markdown, cfg: cfg}
}

func (s *ScamRequestService) Create(ctx context.Context, input CreateScamRequestInput) (*domain.ScamRequest, error) {
	html, err := s.markdown.Render(input.Description)
	if err != nil {
		return nil, err
	}

	request := &domain.ScamRequest{
		Name:        strings.TrimSpace(input.Name),
		Description: html,
		Type:        strings.TrimSpace(input.Type),
		Link:        strings.TrimSpace(input.Link),
		AuthorID:    input.AuthorID,
	}
	return s.requests.Create(ctx, request)
}

func (s *ScamRequestService) List(ctx context.Context, values url.Values) ([]domain.ScamRequest, error) {
	q, err := query.Parse(values, scamRequestListResource)
	if err != nil {
		return nil, err
	}

	requests, err := s.requests.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if err := s.attachAuthors(ctx, requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *ScamRequestService) Get(ctx context.Context, id uuid.UUID) (*domain.ScamRequest, error) {
	request, err := s.requests.FindByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, ErrScamRequestNotFound
		}
		return nil, err
	}

	author, err := s.users.FindByID(ctx, request.AuthorID)
	if err == nil {
		request.Author = author
	} else if !isNotFound(err) {
		return nil, err
	}
	return request, nil
}

func (s *ScamRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.requests.Delete(ctx, id); err != nil {
		if isNotFound(err) {
			return ErrScamRequestNotFound
		}
		return err
	}
	return nil
}

// AttachEvidence stores a screenshot for a pending request. Only the
// submitting user may attach, and only decodable images are accepted.
func (s *ScamRequestService) AttachEvidence(ctx context.Context, requestID, userID uuid.UUID, upload EvidenceUpload) (string, error) {
	if s.storage == nil {
		return "", ErrEvidenceDisabled
	}

	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		if isNotFound(err) {
			return "", ErrScamRequestNotFound
		}
		return "", err
	}
	if request.AuthorID != userID {
		return "", ErrNotRequestAuthor
	}

	img, err := media.ValidateImage(upload.Reader, s.cfg.EvidenceMaxBytes)
	if err != nil {
		return "", err
	}

	objectName := fmt.Sprintf("%s/%s%s", request.ID, uuid.New(), extensionFor(img.ContentType))
	storedURL, err := s.storage.Upload(ctx, s.cfg.EvidenceBucket, objectName, img.ContentType,
		bytes.NewReader(img.Bytes), int64(len(img.Bytes)))
	if err != nil {
		return "", err
	}

	if err := s.requests.SetEvidenceURL(ctx, request.ID, storedURL); err != nil {
		if isNotFound(err) {
			return "", ErrScamRequestNotFound
		}
		return "", err
	}
	return storedURL, nil
}

func (s *ScamRequestService) attachAuthors(ctx context.Context, requests []domain.ScamRequest) error {
	cache := make(map[uuid.UUID]*domain.User)
	for i := range requests {
		authorID := requests[i].AuthorID
		if author, ok := cache[authorID]; ok {
			requests[i].Author = author
			continue
		}
		author, err := s.users.FindByID(ctx, authorID)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return err
		}
		cache[authorID] = author
		requests[i].Author = author
	}
	return nil
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
