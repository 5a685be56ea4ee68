package http

import (
	"strings"
)

// DeepLinkKind names the shared view a client route opens.
type DeepLinkKind string

const (
	DeepLinkQuiz   DeepLinkKind = "quiz"
	DeepLinkResult DeepLinkKind = "result"
)

// DeepLink addresses a shared quiz or result inside the web client.
type DeepLink struct {
	Kind DeepLinkKind
	ID   string
}

// ParseDeepLink resolves a client route such as "#/quiz/{id}" or "#/result/{id}". A full
// URL is accepted; only its fragment is inspected.
func ParseDeepLink(raw string) (DeepLink, bool) {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[i+1:]
	}
	raw = strings.TrimPrefix(raw, "/")
	kind, id, ok := strings.Cut(raw, "/")
	if !ok || id == "" || strings.ContainsAny(id, "/?#") {
		return DeepLink{}, false
	}
	switch DeepLinkKind(kind) {
	case DeepLinkQuiz, DeepLinkResult:
		return DeepLink{Kind: DeepLinkKind(kind), ID: id}, true
	default:
		return DeepLink{}, false
	}
}

// Fragment renders the client route, e.g. "#/quiz/abc".
func (l DeepLink) Fragment() string {
	return "#/" + string(l.Kind) + "/" + l.ID
}

// URL joins the link to the web client's base URL.
func (l DeepLink) URL(appURL string) string {
	return strings.TrimRight(appURL, "/") + "/" + l.Fragment()
}
