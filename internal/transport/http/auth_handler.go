package http

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"strings"

	"trivia-service/internal/auth"

	"github.com/google/uuid"
)

const (
	oauthStateCookie = "trivia_oauth_state"
	oauthNextCookie  = "trivia_oauth_next"
	oauthCookiePath  = "/api/auth/google"
)

// AuthHandler serves signup, login and the Google redirect flow.
type AuthHandler struct {
	auth   *auth.Service
	appURL string
}

func NewAuthHandler(svc *auth.Service, appURL string) *AuthHandler {
	return &AuthHandler{auth: svc, appURL: strings.TrimRight(appURL, "/")}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	session, err := h.auth.Signup(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	session, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context(), claimsFrom(r.Context())); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session describes the caller's token and whether profile setup is pending.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.auth.Current(r.Context(), claimsFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// GoogleLogin redirects to the consent page with a state bound to a short-lived cookie.
// An optional next parameter naming a shared quiz or result ("#/quiz/{id}") is
// remembered so the player lands there after signing in.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	target, err := h.auth.GoogleAuthURL(state)
	if err != nil {
		writeError(w, r, err)
		return
	}
	http.SetCookie(w, oauthCookie(r, oauthStateCookie, state))
	if link, ok := ParseDeepLink(r.URL.Query().Get("next")); ok {
		http.SetCookie(w, oauthCookie(r, oauthNextCookie, link.Fragment()))
	}
	http.Redirect(w, r, target, http.StatusFound)
}

func oauthCookie(r *http.Request, name, value string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     oauthCookiePath,
		MaxAge:   600,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
}

// GoogleCallback finishes the code flow. Browsers are sent back to the web client with
// the token in the fragment; without a configured client the session is returned as JSON.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(oauthStateCookie)
	state := r.URL.Query().Get("state")
	if err != nil || state == "" || subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(state)) != 1 {
		writeMessage(w, http.StatusBadRequest, "Invalid OAuth state.")
		return
	}
	http.SetCookie(w, &http.Cookie{Name: oauthStateCookie, Path: oauthCookiePath, MaxAge: -1})
	next := ""
	if c, err := r.Cookie(oauthNextCookie); err == nil {
		next = c.Value
		http.SetCookie(w, &http.Cookie{Name: oauthNextCookie, Path: oauthCookiePath, MaxAge: -1})
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeMessage(w, http.StatusBadRequest, "Missing authorization code.")
		return
	}
	session, err := h.auth.GoogleCallback(r.Context(), code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if h.appURL == "" {
		writeJSON(w, http.StatusOK, session)
		return
	}
	http.Redirect(w, r, callbackURL(h.appURL, session.Token, next), http.StatusFound)
}

// callbackURL hands the token to the web client. next is forwarded only when it is a
// known shared-view route.
func callbackURL(appURL, token, next string) string {
	q := url.Values{"token": {token}}
	if link, ok := ParseDeepLink(next); ok {
		q.Set("next", link.Fragment())
	}
	return appURL + "/#/auth/callback?" + q.Encode()
}
