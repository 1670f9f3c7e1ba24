package service

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/query"
	"github.com/cryptoscamalert/backend/internal/repository/ports"
)

var verificationListResource = query.Resource{
	Table: "verification_request",
	Fields: []query.Field{
		{Name: "id", Column: "id"},
		{Name: "name", Column: "name"},
		{Name: "email", Column: "email"},
		{Name: "currency", Column: "currency"},
		{Name: "transactionAddress", Column: "transaction_address"},
		{Name: "transactionDate", Column: "transaction_date"},
		{Name: "request", Column: "request"},
		{Name: "createdAt", Column: "created_at"},
		{Name: "updatedAt", Column: "updated_at"},
	},
	DefaultSort: "created_at",
}

type VerificationService struct {
	verifications ports.VerificationRepository
}

type CreateVerificationInput struct {
	Name               string
	Email              string
	Currency           string
	TransactionAddress string
	TransactionDate    time.Time
	Request            string
}

func NewVerificationService(verifications ports.VerificationRepository) *VerificationService {
	return &VerificationService{verifications: verifications}
}

func (s *VerificationService) Create(ctx context.Context, input CreateVerificationInput) (*domain.Verification, error) {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = domain.CurrencyBTC
	}

	verification := &domain.Verification{
		Name:               strings.TrimSpace(input.Name),
		Email:              strings.ToLower(strings.TrimSpace(input.Email)),
		Currency:           currency,
		TransactionAddress: strings.TrimSpace(input.TransactionAddress),
		TransactionDate:    input.TransactionDate,
		Request:            input.Request,
	}
	return s.verifications.Create(ctx, verification)
}

func (s *VerificationService) List(ctx context.Context, values url.Values) ([]domain.Verification, error) {
	q, err := query.Parse(values, verificationListResource)
	if err != nil {
		return nil, err
	}
	return s.verifications.List(ctx, q)
}
