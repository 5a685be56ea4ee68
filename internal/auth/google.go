package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleConfig holds the OAuth client registration.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// GoogleUser is the subset of the userinfo response we rely on.
type GoogleUser struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
}

// GoogleProvider runs the authorization code flow against Google.
type GoogleProvider struct {
	oauth2Config *oauth2.Config
	userInfoURL  string
}

func NewGoogleProvider(cfg GoogleConfig) *GoogleProvider {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = []string{"openid", "email"}
	}
	return &GoogleProvider{
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     google.Endpoint,
		},
		userInfoURL: googleUserInfoURL,
	}
}

func (p *GoogleProvider) AuthURL(state string) string {
	return p.oauth2Config.AuthCodeURL(state)
}

// Identify exchanges the authorization code and fetches the user's identity.
func (p *GoogleProvider) Identify(ctx context.Context, code string) (GoogleUser, error) {
	token, err := p.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("exchange code: %w", err)
	}

	client := p.oauth2Config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return GoogleUser{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return GoogleUser{}, fmt.Errorf("userinfo request failed with status: %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return GoogleUser{}, fmt.Errorf("failed to read response body: %w", err)
	}
	var user GoogleUser
	if err := json.Unmarshal(body, &user); err != nil {
		return GoogleUser{}, fmt.Errorf("failed to parse user info: %w", err)
	}
	if user.Email == "" {
		return GoogleUser{}, fmt.Errorf("google account has no email")
	}
	return user, nil
}
