package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"trivia-service/internal/app"
	"trivia-service/internal/sequencer"
)

// PreviewConfig points preview pages at the web client and the public API host.
type PreviewConfig struct {
	PublicURL string
	AppURL    string
	Image     string
}

type previewPage struct {
	Title       string
	OGTitle     string
	Description string
	URL         string
	Image       string
	Redirect    string
}

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <meta property="og:type" content="website" />
  <meta property="og:url" content="{{.URL}}" />
  <meta property="og:title" content="{{.OGTitle}}" />
  <meta property="og:description" content="{{.Description}}" />
  {{- if .Image}}
  <meta property="og:image" content="{{.Image}}" />
  {{- end}}
  <meta property="twitter:card" content="summary_large_image" />
  <meta property="twitter:url" content="{{.URL}}" />
  <meta property="twitter:title" content="{{.OGTitle}}" />
  <meta property="twitter:description" content="{{.Description}}" />
  {{- if .Image}}
  <meta property="twitter:image" content="{{.Image}}" />
  {{- end}}
  <meta http-equiv="refresh" content="0; url={{.Redirect}}" />
</head>
<body>
  <p>Redirecting to the game...</p>
  <script type="text/javascript">
    window.location.href = {{.Redirect}};
  </script>
</body>
</html>
`))

var notFoundTemplate = template.Must(template.New("not-found").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8" /><title>Not found</title></head>
<body><h1>404</h1><p>{{.}}</p></body>
</html>
`))

// PreviewHandler renders the HTML pages social crawlers fetch for shared links.
type PreviewHandler struct {
	shares *app.ShareService
	cfg    PreviewConfig
}

func NewPreviewHandler(shares *app.ShareService, cfg PreviewConfig) *PreviewHandler {
	return &PreviewHandler{shares: shares, cfg: cfg}
}

func (h *PreviewHandler) Quiz(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	quiz, err := h.shares.GetQuiz(r.Context(), id)
	if err != nil {
		h.notFound(w, r, err, "This quiz does not exist.")
		return
	}
	h.render(w, previewPage{
		Title:       fmt.Sprintf("Dare to try? A quiz about %s", quiz.Topic),
		OGTitle:     fmt.Sprintf("Challenge your knowledge of %s!", quiz.Topic),
		Description: fmt.Sprintf("A friend challenged you with %d questions about %s. Tap to play now!", len(quiz.Questions), quiz.Topic),
		URL:         h.publicURL(r, "/share/"+id),
		Image:       h.cfg.Image,
		Redirect:    DeepLink{Kind: DeepLinkQuiz, ID: id}.URL(h.cfg.AppURL),
	})
}

func (h *PreviewHandler) Result(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	res, err := h.shares.GetResult(r.Context(), id)
	if err != nil {
		h.notFound(w, r, err, "This quiz result does not exist.")
		return
	}
	score := sequencer.ComputeScore(res.Questions, res.UserAnswers)
	title := fmt.Sprintf("I scored %d/%d on a quiz about %s! Can you do better?", score, len(res.Questions), res.Topic)
	h.render(w, previewPage{
		Title:       title,
		OGTitle:     title,
		Description: fmt.Sprintf("See the answers and take the %s quiz yourself.", res.Topic),
		URL:         h.publicURL(r, "/share-result/"+id),
		Image:       h.cfg.Image,
		Redirect:    DeepLink{Kind: DeepLinkResult, ID: id}.URL(h.cfg.AppURL),
	})
}

func (h *PreviewHandler) render(w http.ResponseWriter, page previewPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := previewTemplate.Execute(w, page); err != nil {
		slog.Error("render preview", "error", err)
	}
}

func (h *PreviewHandler) notFound(w http.ResponseWriter, r *http.Request, err error, message string) {
	if status, _ := classify(err); status >= http.StatusInternalServerError {
		slog.Error("load shared link", "path", r.URL.Path, "error", err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_ = notFoundTemplate.Execute(w, message)
}

func (h *PreviewHandler) publicURL(r *http.Request, path string) string {
	base := h.cfg.PublicURL
	if base == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + r.Host
	}
	return strings.TrimRight(base, "/") + path
}
