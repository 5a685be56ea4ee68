// Package auth issues and verifies session tokens for email/password and Google accounts.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"trivia-service/internal/domain"
	"trivia-service/internal/metrics"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// ErrWeakPassword rejects passwords shorter than minPasswordLength.
var ErrWeakPassword = fmt.Errorf("password must be at least %d characters", minPasswordLength)

// ErrInvalidEmail rejects malformed email addresses.
var ErrInvalidEmail = errors.New("invalid email address")

// ErrGoogleDisabled is returned when no Google client is configured.
var ErrGoogleDisabled = errors.New("google login is not configured")

// AccountRepository persists local identities.
type AccountRepository interface {
	CreateAccount(ctx context.Context, account domain.Account) error
	AccountByEmail(ctx context.Context, email string) (domain.Account, error)
	AccountByID(ctx context.Context, id string) (domain.Account, error)
}

// RevocationStore tracks logged-out token ids.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// ProfileChecker reports whether a user still needs to set up a profile.
type ProfileChecker interface {
	NeedsSetup(ctx context.Context, userID string) (bool, error)
}

// Session is returned to clients after a successful login.
type Session struct {
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	NeedsProfile bool      `json:"needsProfile"`
}

type Service struct {
	accounts    AccountRepository
	tokens      *TokenIssuer
	revocations RevocationStore
	profiles    ProfileChecker
	google      *GoogleProvider
	now         func() time.Time
}

// NewService wires the identity use cases. google may be nil when federated login is off.
func NewService(accounts AccountRepository, tokens *TokenIssuer, revocations RevocationStore, profiles ProfileChecker, google *GoogleProvider) *Service {
	return &Service{
		accounts:    accounts,
		tokens:      tokens,
		revocations: revocations,
		profiles:    profiles,
		google:      google,
		now:         time.Now,
	}
}

// Signup registers an email/password account and logs it in.
func (s *Service) Signup(ctx context.Context, email, password string) (Session, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return Session{}, err
	}
	if len(password) < minPasswordLength {
		return Session{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}
	account := domain.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Provider:     domain.ProviderPassword,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.CreateAccount(ctx, account); err != nil {
		metrics.AuthAttempts.WithLabelValues("signup", "failure").Inc()
		return Session{}, err
	}
	metrics.AuthAttempts.WithLabelValues("signup", "success").Inc()
	return s.sessionFor(ctx, account)
}

// Login checks an email/password pair. Unknown emails and wrong passwords are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	account, err := s.accounts.AccountByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrAccountNotFound) {
		metrics.AuthAttempts.WithLabelValues("password", "failure").Inc()
		return Session{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if account.PasswordHash == "" {
		metrics.AuthAttempts.WithLabelValues("password", "failure").Inc()
		return Session{}, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		metrics.AuthAttempts.WithLabelValues("password", "failure").Inc()
		return Session{}, domain.ErrInvalidCredentials
	}
	metrics.AuthAttempts.WithLabelValues("password", "success").Inc()
	return s.sessionFor(ctx, account)
}

// GoogleAuthURL returns the consent page URL carrying state.
func (s *Service) GoogleAuthURL(state string) (string, error) {
	if s.google == nil {
		return "", ErrGoogleDisabled
	}
	return s.google.AuthURL(state), nil
}

// GoogleCallback completes the code flow, creating the account on first login. Only
// verified Google emails are accepted, and an email registered with a password
// yields domain.ErrAccountExists.
func (s *Service) GoogleCallback(ctx context.Context, code string) (Session, error) {
	if s.google == nil {
		return Session{}, ErrGoogleDisabled
	}
	user, err := s.google.Identify(ctx, code)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("google", "failure").Inc()
		return Session{}, err
	}

	if !user.VerifiedEmail {
		metrics.AuthAttempts.WithLabelValues("google", "failure").Inc()
		return Session{}, fmt.Errorf("%w: google email is not verified", domain.ErrUnauthorized)
	}

	account, err := s.accounts.AccountByEmail(ctx, user.Email)
	if err == nil && account.Provider != domain.ProviderGoogle {
		// Password accounts are never taken over by a federated login.
		err = domain.ErrAccountExists
	}
	if errors.Is(err, domain.ErrAccountNotFound) {
		account = domain.Account{
			ID:        uuid.NewString(),
			Email:     strings.ToLower(user.Email),
			Provider:  domain.ProviderGoogle,
			CreatedAt: s.now().UTC(),
		}
		err = s.accounts.CreateAccount(ctx, account)
	}
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("google", "failure").Inc()
		return Session{}, err
	}
	metrics.AuthAttempts.WithLabelValues("google", "success").Inc()
	return s.sessionFor(ctx, account)
}

// Authenticate verifies a bearer token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, raw string) (*Claims, error) {
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, domain.ErrUnauthorized
		}
	}
	return claims, nil
}

// Logout revokes the token until it would have expired.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// Current describes the session behind already verified claims.
func (s *Service) Current(ctx context.Context, claims *Claims) (Session, error) {
	session := Session{UserID: claims.Subject, Email: claims.Email}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	needs, err := s.profiles.NeedsSetup(ctx, claims.Subject)
	if err != nil {
		return Session{}, err
	}
	session.NeedsProfile = needs
	return session, nil
}

func (s *Service) sessionFor(ctx context.Context, account domain.Account) (Session, error) {
	token, claims, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		return Session{}, err
	}
	needs, err := s.profiles.NeedsSetup(ctx, account.ID)
	if err != nil {
		slog.Warn("profile lookup failed after login", "user", account.ID, "error", err)
		needs = true
	}
	return Session{
		Token:        token,
		ExpiresAt:    claims.ExpiresAt.Time,
		UserID:       account.ID,
		Email:        account.Email,
		NeedsProfile: needs,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	if err != nil || addr.Name != "" {
		return "", ErrInvalidEmail
	}
	return strings.ToLower(addr.Address), nil
}
