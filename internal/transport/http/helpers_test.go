package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/auth"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

type stubGenerator struct {
	questions domain.QuestionSet
	err       error
	block     chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, _ domain.QuizSpec) (domain.QuestionSet, error) {
	if g.block != nil {
		select {
		case <-g.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return g.questions, g.err
}

func sampleQuestions() domain.QuestionSet {
	set := make(domain.QuestionSet, domain.QuestionsPerQuiz)
	for i := range set {
		set[i] = domain.Question{
			Prompt:        fmt.Sprintf("Question %d?", i),
			Options:       []string{fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i), fmt.Sprintf("c%d", i), fmt.Sprintf("d%d", i)},
			CorrectOption: fmt.Sprintf("a%d", i),
		}
	}
	return set
}

type testEnv struct {
	server    *httptest.Server
	services  Services
	generator *stubGenerator
	token     string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	generator := &stubGenerator{questions: sampleQuestions()}
	shares := app.NewShareService(memory.NewShareStore(), app.LogPublisher{})
	profiles := app.NewProfileService(memory.NewProfileStore())
	tokens, err := auth.NewTokenIssuer("test-secret", "trivia-service", time.Hour)
	if err != nil {
		t.Fatalf("token issuer: %v", err)
	}
	services := Services{
		Games:    app.NewGameService(memory.NewGameStore(time.Hour), shares, generator, app.LogPublisher{}),
		Shares:   shares,
		Profiles: profiles,
		Auth:     auth.NewService(memory.NewAccountStore(), tokens, memory.NewRevocationStore(), profiles, nil),
	}
	server := httptest.NewServer(NewRouter(services, Options{
		Preview: PreviewConfig{PublicURL: "https://api.example.com", AppURL: "https://trivia.example.com"},
	}))
	t.Cleanup(server.Close)

	session, err := services.Auth.Signup(context.Background(), "player@example.com", "hunter22")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	return &testEnv{server: server, services: services, generator: generator, token: session.Token}
}

// do sends a JSON request with the env's bearer token and decodes the JSON reply into out.
func (e *testEnv) do(t *testing.T, method, path string, body, out any) int {
	t.Helper()
	return e.doAs(t, e.token, method, path, body, out)
}

func (e *testEnv) doAs(t *testing.T, token, method, path string, body, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}
