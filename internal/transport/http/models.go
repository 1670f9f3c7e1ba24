package http

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/util"
)

// ErrorResponse represents a generic error payload.
type ErrorResponse struct {
	Error string `json:"error" example:"invalid credentials"`
}

// RegisterRequest carries signup fields.
type RegisterRequest struct {
	Name     string `json:"name" example:"Jane Doe"`
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

func (r RegisterRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	return util.ValidatePassword(r.Password)
}

// LoginRequest carries email login fields.
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"StrongPass!23"`
}

func (r LoginRequest) Validate() error {
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if r.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

// GoogleLoginRequest carries the Google ID token for login.
type GoogleLoginRequest struct {
	IDToken string `json:"id_token" example:"eyJhbGciOiJSUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

func (r GoogleLoginRequest) Validate() error {
	if strings.TrimSpace(r.IDToken) == "" {
		return errors.New("id_token is required")
	}
	return nil
}

// ForgotPasswordRequest captures the payload for requesting a reset link.
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

func (r ForgotPasswordRequest) Validate() error {
	return validateEmail(r.Email)
}

// ResetPasswordRequest carries the replacement password; the token rides
// in the URL.
type ResetPasswordRequest struct {
	Password string `json:"password" example:"NewPass!45"`
}

func (r ResetPasswordRequest) Validate() error {
	return util.ValidatePassword(r.Password)
}

// CreateScamRequest carries the fields for publishing a curated listing.
type CreateScamRequest struct {
	Title       string `json:"title" example:"Fake Exchange"`
	Description string `json:"description" example:"They take deposits and vanish."`
	Type        string `json:"type" example:"exchange"`
	Link        string `json:"link" example:"https://fake-exchange.example"`
	Author      string `json:"author" example:"admin"`
}

func (r CreateScamRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required")
	}
	if strings.TrimSpace(r.Type) == "" {
		return errors.New("type is required")
	}
	return nil
}

// CreateScamReportRequest carries a community-submitted report.
type CreateScamReportRequest struct {
	Name        string `json:"name" example:"Fake Exchange"`
	Description string `json:"description" example:"They take deposits and vanish."`
	Type        string `json:"type" example:"exchange"`
	Link        string `json:"link" example:"https://fake-exchange.example"`
}

func (r CreateScamReportRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("description is required")
	}
	if strings.TrimSpace(r.Type) == "" {
		return errors.New("type is required")
	}
	return nil
}

// CreateVerificationRequest carries a transaction verification submission.
type CreateVerificationRequest struct {
	Name               string `json:"name" example:"Jane Doe"`
	Email              string `json:"email" example:"user@example.com"`
	Currency           string `json:"currency" example:"BTC"`
	TransactionAddress string `json:"transaction_address" example:"bc1qxy2kgdygjrsqtzq2n0yrf2493p83kkfjhx0wlh"`
	TransactionDate    string `json:"transaction_date" example:"2024-01-15"`
	Request            string `json:"request" example:"Please confirm this payment went to a known scam wallet."`
}

func (r CreateVerificationRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	if err := validateEmail(r.Email); err != nil {
		return err
	}
	if strings.TrimSpace(r.TransactionAddress) == "" {
		return errors.New("transaction_address is required")
	}
	if _, err := r.ParsedDate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Request) == "" {
		return errors.New("request is required")
	}
	if r.Currency != "" && !domain.ValidCurrency(strings.ToUpper(strings.TrimSpace(r.Currency))) {
		return errors.New("currency must be BTC or ETH")
	}
	return nil
}

// ParsedDate accepts either a bare date or a full RFC 3339 timestamp.
func (r CreateVerificationRequest) ParsedDate() (time.Time, error) {
	raw := strings.TrimSpace(r.TransactionDate)
	if raw == "" {
		return time.Time{}, errors.New("transaction_date is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, errors.New("transaction_date must be a date (2006-01-02) or RFC 3339 timestamp")
}

func validateEmail(email string) error {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return errors.New("email is required")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return errors.New("email must be a valid address")
	}
	return nil
}

// AuthUser is the sanitized user representation returned by auth endpoints.
type AuthUser struct {
	ID    uuid.UUID `json:"id" example:"9fd13fd2-63c5-4f29-a210-4a1a8e285f74"`
	Name  string    `json:"name" example:"Jane Doe"`
	Email string    `json:"email" example:"user@example.com"`
	Role  string    `json:"role" example:"user"`
}

func toAuthUser(u *domain.User) AuthUser {
	return AuthUser{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
