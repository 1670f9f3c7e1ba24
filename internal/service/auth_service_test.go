package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/cryptoscamalert/backend/internal/domain"
	"github.com/cryptoscamalert/backend/internal/util"
)

type fakeUserRepo struct {
	createName   string
	createEmail  string
	createHash   []byte
	createSalt   []byte
	createResult *domain.User
	createErr    error

	upsertGoogleName   string
	upsertGoogleEmail  string
	upsertGoogleResult *domain.User
	upsertGoogleErr    error

	findByEmailInput  string
	findByEmailResult *domain.User
	findByEmailErr    error

	findByIDInput  uuid.UUID
	findByIDResult *domain.User
	findByIDErr    error

	resetTokenUser   *domain.User
	resetTokenExpiry time.Time

	setResetCalls []struct {
		id        uuid.UUID
		hash      []byte
		expiresAt time.Time
	}
	setResetErr error

	clearResetCalls []uuid.UUID
	clearResetErr   error

	updatePasswordCalls []struct {
		id        uuid.UUID
		hash      []byte
		salt      []byte
		changedAt time.Time
	}
	updatePasswordErr error
}

func (f *fakeUserRepo) Create(ctx context.Context, name, email string, passwordHash, passwordSalt []byte) (*domain.User, error) {
	f.createName = name
	f.createEmail = email
	f.createHash = append([]byte(nil), passwordHash...)
	f.createSalt = append([]byte(nil), passwordSalt...)
	return f.createResult, f.createErr
}

func (f *fakeUserRepo) UpsertGoogleUser(ctx context.Context, name, email string) (*domain.User, error) {
	f.upsertGoogleName = name
	f.upsertGoogleEmail = email
	return f.upsertGoogleResult, f.upsertGoogleErr
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	f.findByEmailInput = email
	if f.findByEmailErr != nil {
		return nil, f.findByEmailErr
	}
	if f.findByEmailResult == nil {
		return nil, sql.ErrNoRows
	}
	clone := *f.findByEmailResult
	return &clone, nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	f.findByIDInput = id
	if f.findByIDErr != nil {
		return nil, f.findByIDErr
	}
	if f.findByIDResult == nil {
		return nil, sql.ErrNoRows
	}
	clone := *f.findByIDResult
	return &clone, nil
}

func (f *fakeUserRepo) FindByResetTokenHash(ctx context.Context, tokenHash []byte, now time.Time) (*domain.User, error) {
	if f.resetTokenUser == nil {
		return nil, sql.ErrNoRows
	}
	if !now.Before(f.resetTokenExpiry) {
		return nil, sql.ErrNoRows
	}
	if string(f.resetTokenUser.ResetTokenHash) != string(tokenHash) {
		return nil, sql.ErrNoRows
	}
	clone := *f.resetTokenUser
	return &clone, nil
}

func (f *fakeUserRepo) SetResetToken(ctx context.Context, id uuid.UUID, tokenHash []byte, expiresAt time.Time) error {
	f.setResetCalls = append(f.setResetCalls, struct {
		id        uuid.UUID
		hash      []byte
		expiresAt time.Time
	}{id: id, hash: append([]byte(nil), tokenHash...), expiresAt: expiresAt})
	return f.setResetErr
}

func (f *fakeUserRepo) ClearResetToken(ctx context.Context, id uuid.UUID) error {
	f.clearResetCalls = append(f.clearResetCalls, id)
	return f.clearResetErr
}

func (f *fakeUserRepo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash, passwordSalt []byte, changedAt time.Time) error {
	f.updatePasswordCalls = append(f.updatePasswordCalls, struct {
		id        uuid.UUID
		hash      []byte
		salt      []byte
		changedAt time.Time
	}{
		id:        id,
		hash:      append([]byte(nil), passwordHash...),
		salt:      append([]byte(nil), passwordSalt...),
		changedAt: changedAt,
	})
	return f.updatePasswordErr
}

type fakeMailer struct {
	sentTo   []string
	sentName string
	sentURL  string
	err      error
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, toEmail, name, resetURL string) error {
	f.sentTo = append(f.sentTo, toEmail)
	f.sentName = name
	f.sentURL = resetURL
	if f.err != nil {
		return f.err
	}
	return nil
}

func newAuthServiceForTests(users *fakeUserRepo, mailer *fakeMailer) *AuthService {
	return NewAuthService(users, util.NewJWTManager("test-secret", time.Hour), mailer, AuthConfig{
		ResetTTL:        10 * time.Minute,
		FrontendBaseURL: "https://frontend.example",
	})
}

func TestRegisterNormalizesEmailAndIssuesToken(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{
		createResult: &domain.User{ID: userID, Name: "Test", Email: "test@example.com", Role: domain.RoleUser},
	}
	svc := newAuthServiceForTests(users, &fakeMailer{})

	user, token, err := svc.Register(context.Background(), " Test ", "Test@Example.COM ", "longenough")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if users.createEmail != "test@example.com" {
		t.Fatalf("email should be normalized, got %q", users.createEmail)
	}
	if users.createName != "Test" {
		t.Fatalf("name should be trimmed, got %q", users.createName)
	}
	if len(users.createHash) == 0 || len(users.createSalt) == 0 {
		t.Fatal("expected password hash and salt to be derived")
	}
	if user.ID != userID {
		t.Fatalf("unexpected user: %+v", user)
	}
	if token == "" {
		t.Fatal("expected JWT token")
	}
}

func TestRegisterEmailExists(t *testing.T) {
	users := &fakeUserRepo{createErr: &pgconn.PgError{Code: "23505"}}
	svc := newAuthServiceForTests(users, &fakeMailer{})

	_, _, err := svc.Register(context.Background(), "Dup", "dup@example.com", "longenough")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	t.Run("user not found", func(t *testing.T) {
		users := &fakeUserRepo{findByEmailErr: sql.ErrNoRows}
		svc := newAuthServiceForTests(users, &fakeMailer{})

		_, _, err := svc.Login(context.Background(), "none@example.com", "password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		hash, salt, err := util.DerivePassword("correct-password")
		if err != nil {
			t.Fatalf("derive password: %v", err)
		}
		users := &fakeUserRepo{
			findByEmailResult: &domain.User{ID: uuid.New(), Email: "user@example.com", PasswordHash: hash, PasswordSalt: salt},
		}
		svc := newAuthServiceForTests(users, &fakeMailer{})

		_, _, err = svc.Login(context.Background(), "user@example.com", "wrong-password")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestLoginSuccess(t *testing.T) {
	hash, salt, err := util.DerivePassword("correct-password")
	if err != nil {
		t.Fatalf("derive password: %v", err)
	}
	userID := uuid.New()
	users := &fakeUserRepo{
		findByEmailResult: &domain.User{ID: userID, Email: "user@example.com", Role: domain.RoleUser, PasswordHash: hash, PasswordSalt: salt},
	}
	svc := newAuthServiceForTests(users, &fakeMailer{})

	user, token, err := svc.Login(context.Background(), " User@Example.com ", "correct-password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if users.findByEmailInput != "user@example.com" {
		t.Fatalf("email should be normalized, got %q", users.findByEmailInput)
	}
	if user.ID != userID || token == "" {
		t.Fatalf("unexpected result: user=%+v token=%q", user, token)
	}
}

func TestAuthenticateSuccess(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{
		findByIDResult: &domain.User{ID: userID, Email: "user@example.com", Role: domain.RoleUser},
	}
	svc := newAuthServiceForTests(users, &fakeMailer{})

	token, _, err := util.NewJWTManager("test-secret", time.Hour).Generate(userID, domain.RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != userID {
		t.Fatalf("unexpected user: %+v", user)
	}
	if users.findByIDInput != userID {
		t.Fatalf("expected lookup by token subject, got %s", users.findByIDInput)
	}
}

func TestAuthenticateRejectsBadToken(t *testing.T) {
	svc := newAuthServiceForTests(&fakeUserRepo{}, &fakeMailer{})

	_, err := svc.Authenticate(context.Background(), "not-a-jwt")
	if !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestAuthenticateRejectsTokenIssuedBeforePasswordChange(t *testing.T) {
	userID := uuid.New()
	token, _, err := util.NewJWTManager("test-secret", time.Hour).Generate(userID, domain.RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	changedAt := time.Now().Add(time.Minute)
	users := &fakeUserRepo{
		findByIDResult: &domain.User{ID: userID, Role: domain.RoleUser, PasswordChangedAt: &changedAt},
	}
	svc := newAuthServiceForTests(users, &fakeMailer{})

	_, err = svc.Authenticate(context.Background(), token)
	if !errors.Is(err, ErrPasswordChanged) {
		t.Fatalf("expected ErrPasswordChanged, got %v", err)
	}
}

func TestAuthenticateDeletedUser(t *testing.T) {
	userID := uuid.New()
	token, _, err := util.NewJWTManager("test-secret", time.Hour).Generate(userID, domain.RoleUser)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	svc := newAuthServiceForTests(&fakeUserRepo{findByIDErr: sql.ErrNoRows}, &fakeMailer{})

	_, err = svc.Authenticate(context.Background(), token)
	if !errors.Is(err, ErrUserGone) {
		t.Fatalf("expected ErrUserGone, got %v", err)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	users := &fakeUserRepo{findByEmailErr: sql.ErrNoRows}
	mailer := &fakeMailer{}
	svc := newAuthServiceForTests(users, mailer)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if len(mailer.sentTo) != 0 {
		t.Fatal("expected no mail for unknown email")
	}
}

func TestForgotPasswordStoresDigestAndMailsLink(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{
		findByEmailResult: &domain.User{ID: userID, Name: "Jane", Email: "jane@example.com"},
	}
	mailer := &fakeMailer{}
	svc := newAuthServiceForTests(users, mailer)

	before := time.Now()
	if err := svc.ForgotPassword(context.Background(), "jane@example.com"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(users.setResetCalls) != 1 {
		t.Fatalf("expected one reset token write, got %d", len(users.setResetCalls))
	}
	call := users.setResetCalls[0]
	if call.id != userID {
		t.Fatalf("token stored for wrong user: %s", call.id)
	}
	if got := call.expiresAt.Sub(before); got < 9*time.Minute || got > 11*time.Minute {
		t.Fatalf("expected roughly 10 minute expiry, got %v", got)
	}

	const prefix = "https://frontend.example/resetpassword/"
	if !strings.HasPrefix(mailer.sentURL, prefix) {
		t.Fatalf("unexpected reset URL %q", mailer.sentURL)
	}
	plaintext := strings.TrimPrefix(mailer.sentURL, prefix)
	if string(util.HashResetToken(plaintext)) != string(call.hash) {
		t.Fatal("stored digest does not match the mailed token")
	}
	if len(mailer.sentTo) != 1 || mailer.sentTo[0] != "jane@example.com" {
		t.Fatalf("unexpected recipients %v", mailer.sentTo)
	}
}

func TestForgotPasswordMailFailureRollsBackToken(t *testing.T) {
	userID := uuid.New()
	users := &fakeUserRepo{
		findByEmailResult: &domain.User{ID: userID, Email: "jane@example.com"},
	}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	svc := newAuthServiceForTests(users, mailer)

	err := svc.ForgotPassword(context.Background(), "jane@example.com")
	if !errors.Is(err, ErrResetMailFailed) {
		t.Fatalf("expected ErrResetMailFailed, got %v", err)
	}
	if len(users.clearResetCalls) != 1 || users.clearResetCalls[0] != userID {
		t.Fatal("expected the pending reset token to be cleared")
	}
}

func TestResetPasswordSuccess(t *testing.T) {
	userID := uuid.New()
	token, err := util.GenerateResetToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	users := &fakeUserRepo{
		resetTokenUser: &domain.User{
			ID:             userID,
			Email:          "jane@example.com",
			Role:           domain.RoleUser,
			ResetTokenHash: util.HashResetToken(token),
		},
		resetTokenExpiry: time.Now().Add(10 * time.Minute),
	}
	svc := newAuthServiceForTests(users, &fakeMailer{})

	user, jwt, err := svc.ResetPassword(context.Background(), token, "brand-new-password")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.ID != userID || jwt == "" {
		t.Fatalf("unexpected result: user=%+v token=%q", user, jwt)
	}
	if len(users.updatePasswordCalls) != 1 {
		t.Fatalf("expected one password update, got %d", len(users.updatePasswordCalls))
	}
	call := users.updatePasswordCalls[0]
	if !util.VerifyPassword("brand-new-password", call.salt, call.hash) {
		t.Fatal("stored hash does not verify the new password")
	}
	if call.changedAt.IsZero() {
		t.Fatal("expected password_changed_at to be set")
	}
	if len(users.clearResetCalls) != 1 {
		t.Fatal("expected the redeemed token to be cleared")
	}
	if user.ResetTokenHash != nil || user.ResetExpiresAt != nil {
		t.Fatal("returned user should not carry reset state")
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	token, err := util.GenerateResetToken()
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}

	users := &fakeUserRepo{
		resetTokenUser: &domain.User{
			ID:             uuid.New(),
			ResetTokenHash: util.HashResetToken(token),
		},
		// Expired a minute ago; minted eleven minutes back.
		resetTokenExpiry: time.Now().Add(-time.Minute),
	}
	svc := newAuthServiceForTests(users, &fakeMailer{})

	_, _, err = svc.ResetPassword(context.Background(), token, "brand-new-password")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
	if len(users.updatePasswordCalls) != 0 {
		t.Fatal("expected no password update for an expired token")
	}
}

func TestResetPasswordUnknownToken(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newAuthServiceForTests(users, &fakeMailer{})

	_, _, err := svc.ResetPassword(context.Background(), "deadbeef", "brand-new-password")
	if !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}
