package auth

import "golang.org/x/oauth2"

// NewGoogleProviderAt points a provider at a stub token and userinfo server.
func NewGoogleProviderAt(serverURL string) *GoogleProvider {
	p := NewGoogleProvider(GoogleConfig{ClientID: "client", ClientSecret: "secret", RedirectURL: "http://localhost/cb"})
	p.oauth2Config.Endpoint = oauth2.Endpoint{AuthURL: serverURL + "/auth", TokenURL: serverURL + "/token"}
	p.userInfoURL = serverURL + "/userinfo"
	return p
}
