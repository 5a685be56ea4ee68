package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

func TestSignupLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc, profiles := newTestService(t)

	session, err := svc.Signup(ctx, " Player@Example.com ", "hunter22")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if session.Email != "player@example.com" || !session.NeedsProfile {
		t.Fatalf("unexpected session %+v", session)
	}

	if _, err := svc.Signup(ctx, "player@example.com", "another1"); !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected duplicate signup rejected, got %v", err)
	}
	if _, err := svc.Login(ctx, "player@example.com", "wrong-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login(ctx, "nobody@example.com", "hunter22"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}

	if _, err := profiles.Update(ctx, session.UserID, domain.Profile{Username: "player", AvatarID: "avatar-2"}); err != nil {
		t.Fatalf("update profile: %v", err)
	}
	login, err := svc.Login(ctx, "player@example.com", "hunter22")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.NeedsProfile {
		t.Fatalf("expected profile to be set up")
	}

	claims, err := svc.Authenticate(ctx, login.Token)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if err := svc.Logout(ctx, claims); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if _, err := svc.Authenticate(ctx, login.Token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected revoked token rejected, got %v", err)
	}
}

func TestSignupValidatesInput(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.Signup(context.Background(), "not-an-email", "hunter22"); !errors.Is(err, auth.ErrInvalidEmail) {
		t.Fatalf("expected invalid email, got %v", err)
	}
	if _, err := svc.Signup(context.Background(), "a@example.com", "123"); !errors.Is(err, auth.ErrWeakPassword) {
		t.Fatalf("expected weak password, got %v", err)
	}
}

func TestGoogleDisabledWithoutProvider(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.GoogleAuthURL("state"); !errors.Is(err, auth.ErrGoogleDisabled) {
		t.Fatalf("expected google disabled, got %v", err)
	}
}

func googleServer(t *testing.T, user auth.GoogleUser) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "access-1", "token_type": "Bearer", "expires_in": 3600})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(user)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newGoogleService(t *testing.T, user auth.GoogleUser) *auth.Service {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("test-secret", "trivia-service", time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	profiles := app.NewProfileService(memory.NewProfileStore())
	provider := auth.NewGoogleProviderAt(googleServer(t, user).URL)
	return auth.NewService(memory.NewAccountStore(), tokens, memory.NewRevocationStore(), profiles, provider)
}

func TestGoogleCallbackCreatesAccountOnce(t *testing.T) {
	ctx := context.Background()
	svc := newGoogleService(t, auth.GoogleUser{ID: "g-1", Email: "fan@gmail.com", VerifiedEmail: true})

	first, err := svc.GoogleCallback(ctx, "code-1")
	if err != nil {
		t.Fatalf("google callback: %v", err)
	}
	if first.Email != "fan@gmail.com" || !first.NeedsProfile {
		t.Fatalf("unexpected session %+v", first)
	}
	second, err := svc.GoogleCallback(ctx, "code-2")
	if err != nil {
		t.Fatalf("second google callback: %v", err)
	}
	if second.UserID != first.UserID {
		t.Fatalf("expected the same account, got %s and %s", first.UserID, second.UserID)
	}
}

func TestGoogleCallbackRejectsUnverifiedEmail(t *testing.T) {
	svc := newGoogleService(t, auth.GoogleUser{ID: "g-1", Email: "fan@gmail.com", VerifiedEmail: false})
	if _, err := svc.GoogleCallback(context.Background(), "code-1"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unverified email rejected, got %v", err)
	}
}

func TestGoogleCallbackDoesNotLinkPasswordAccount(t *testing.T) {
	ctx := context.Background()
	svc := newGoogleService(t, auth.GoogleUser{ID: "g-1", Email: "player@example.com", VerifiedEmail: true})
	owner, err := svc.Signup(ctx, "player@example.com", "hunter22")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	session, err := svc.GoogleCallback(ctx, "code-1")
	if !errors.Is(err, domain.ErrAccountExists) {
		t.Fatalf("expected existing password account to be protected, got %+v, %v", session, err)
	}
	if session.UserID == owner.UserID {
		t.Fatalf("google login must not issue a session for the password account")
	}
}

func newTestService(t *testing.T) (*auth.Service, *app.ProfileService) {
	t.Helper()
	tokens, err := auth.NewTokenIssuer("test-secret", "trivia-service", time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	profiles := app.NewProfileService(memory.NewProfileStore())
	svc := auth.NewService(memory.NewAccountStore(), tokens, memory.NewRevocationStore(), profiles, nil)
	return svc, profiles
}
