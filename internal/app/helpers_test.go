package app_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"trivia-service/internal/infra/memory"
)

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

type stubGenerator struct {
	questions domain.QuestionSet
	err       error
	// entered and release, when set, block Generate until the test lets it return.
	entered chan struct{}
	release chan struct{}
}

func (g *stubGenerator) Generate(ctx context.Context, _ domain.QuizSpec) (domain.QuestionSet, error) {
	if g.entered != nil {
		g.entered <- struct{}{}
		<-g.release
	}
	return g.questions, g.err
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(_ context.Context, eventType string, _ any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) count(eventType string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e == eventType {
			n++
		}
	}
	return n
}

type fixture struct {
	games     *app.GameService
	store     *memory.GameStore
	shares    *app.ShareService
	generator *stubGenerator
	events    *recordingPublisher
}

func newFixture() fixture {
	events := &recordingPublisher{}
	generator := &stubGenerator{questions: sampleQuestions()}
	shares := app.NewShareService(memory.NewShareStore(), events)
	store := memory.NewGameStore(time.Hour)
	games := app.NewGameService(store, shares, generator, events)
	return fixture{games: games, store: store, shares: shares, generator: generator, events: events}
}
