package app

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"trivia-service/internal/domain"
	"trivia-service/internal/metrics"
	"trivia-service/internal/sequencer"

	"github.com/google/uuid"
)

const gameLockStripes = 64

const (
	StatusAwaiting  = "awaiting"
	StatusAnswered  = "answered"
	StatusCompleted = "completed"
)

// QuestionView is the question shown at the current play position.
type QuestionView struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	OriginalIndex int      `json:"originalIndex"`
}

// GameView is what clients see of a play-through.
type GameView struct {
	ID            string            `json:"id"`
	Topic         string            `json:"topic"`
	Difficulty    int               `json:"difficulty"`
	Status        string            `json:"status"`
	Position      int               `json:"position"`
	Total         int               `json:"total"`
	Question      *QuestionView     `json:"question,omitempty"`
	Selection     string            `json:"selection,omitempty"`
	CorrectOption string            `json:"correctAnswer,omitempty"`
	Result        *sequencer.Result `json:"result,omitempty"`
}

// GameService contains the play-through use cases.
type GameService struct {
	games     GameRepository
	shares    *ShareService
	generator QuestionGenerator
	events    EventPublisher
	tickets   *generationTickets
	locks     [gameLockStripes]sync.Mutex
	now       func() time.Time
	newID     func() string
}

func NewGameService(games GameRepository, shares *ShareService, generator QuestionGenerator, events EventPublisher) *GameService {
	return &GameService{
		games:     games,
		shares:    shares,
		generator: generator,
		events:    events,
		tickets:   newGenerationTickets(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Generate asks the generator for a new question set and starts a game with it.
// A previous generation of the same owner is retired. If the generation is canceled
// while in flight, its outcome is dropped and domain.ErrGenerationCanceled is returned.
func (s *GameService) Generate(ctx context.Context, owner string, spec domain.QuizSpec) (GameView, error) {
	spec, err := spec.Normalize()
	if err != nil {
		return GameView{}, err
	}

	genCtx, ticketID := s.tickets.issue(ctx, owner)
	started := s.now()
	questions, genErr := s.generator.Generate(genCtx, spec)
	metrics.GenerationDuration.Observe(s.now().Sub(started).Seconds())

	if !s.tickets.settle(owner, ticketID) || ctx.Err() != nil {
		metrics.Generations.WithLabelValues("canceled").Inc()
		publish(ctx, s.events, EventGenerationCanceled, map[string]any{"topic": spec.Topic})
		return GameView{}, domain.ErrGenerationCanceled
	}
	if genErr == nil {
		if err := questions.Validate(); err != nil {
			genErr = fmt.Errorf("%w: %v", domain.ErrMalformedQuestions, err)
		}
	}
	if genErr != nil {
		slog.Error("question generation failed", "topic", spec.Topic, "difficulty", spec.Difficulty, "error", genErr)
		metrics.Generations.WithLabelValues("failure").Inc()
		publish(ctx, s.events, EventGenerationFailed, map[string]any{"topic": spec.Topic, "difficulty": spec.Difficulty})
		return GameView{}, genErr
	}

	metrics.Generations.WithLabelValues("success").Inc()
	publish(ctx, s.events, EventQuizGenerated, map[string]any{"topic": spec.Topic, "difficulty": spec.Difficulty})
	return s.start(ctx, owner, spec, questions, 0, "generated")
}

// CancelGeneration retires the owner's in-flight generation. It reports whether one existed.
func (s *GameService) CancelGeneration(owner string) bool {
	return s.tickets.cancel(owner)
}

// StartShared starts a game from a shared quiz at its stored start index.
func (s *GameService) StartShared(ctx context.Context, owner, shareID string) (GameView, error) {
	shared, err := s.shares.GetQuiz(ctx, shareID)
	if err != nil {
		return GameView{}, err
	}
	spec := domain.QuizSpec{Topic: shared.Topic, Difficulty: shared.Difficulty}
	return s.start(ctx, owner, spec, shared.Questions, shared.StartIndex, "shared")
}

func (s *GameService) start(ctx context.Context, owner string, spec domain.QuizSpec, questions domain.QuestionSet, startIndex int, source string) (GameView, error) {
	session, err := sequencer.NewSession(questions, startIndex)
	if err != nil {
		return GameView{}, err
	}
	game := Game{
		ID:         s.newID(),
		Owner:      owner,
		Topic:      spec.Topic,
		Difficulty: spec.Difficulty,
		Snapshot:   session.Snapshot(),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.games.Save(ctx, game); err != nil {
		return GameView{}, fmt.Errorf("save game: %w", err)
	}
	metrics.GamesStarted.WithLabelValues(source).Inc()
	publish(ctx, s.events, EventQuizStarted, map[string]any{"id": game.ID, "topic": game.Topic, "source": source})
	return viewOf(game, session), nil
}

// Get returns the current view of a game. Games of other owners are reported as
// domain.ErrGameNotFound.
func (s *GameService) Get(ctx context.Context, owner, id string) (GameView, error) {
	game, session, err := s.load(ctx, owner, id)
	if err != nil {
		return GameView{}, err
	}
	return viewOf(game, session), nil
}

// Select locks the player's answer for the current question.
func (s *GameService) Select(ctx context.Context, owner, id, option string) (GameView, error) {
	return s.mutate(ctx, owner, id, func(session *sequencer.Session) error {
		return session.Select(option)
	})
}

// Advance moves to the next question, or completes the game after the last one.
func (s *GameService) Advance(ctx context.Context, owner, id string) (GameView, error) {
	view, err := s.mutate(ctx, owner, id, func(session *sequencer.Session) error {
		return session.Advance()
	})
	if err == nil && view.Status == StatusCompleted {
		metrics.GamesCompleted.Inc()
		publish(ctx, s.events, EventQuizCompleted, map[string]any{
			"id": view.ID, "topic": view.Topic, "score": view.Result.Score, "total": view.Result.Total,
		})
	}
	return view, err
}

// ShareQuiz shares the game's question set so a friend resumes at the question
// currently shown. A completed game is shared from the first question.
func (s *GameService) ShareQuiz(ctx context.Context, owner, id string) (string, error) {
	game, session, err := s.load(ctx, owner, id)
	if err != nil {
		return "", err
	}
	current := 0
	if _, original, ok := session.Current(); ok {
		current = original
	}
	return s.shares.ShareQuiz(ctx, ShareQuizRequest{
		Questions:            session.Questions(),
		Topic:                game.Topic,
		Difficulty:           game.Difficulty,
		CurrentQuestionIndex: current,
	})
}

// ShareResult shares a completed game's answers in original question order.
func (s *GameService) ShareResult(ctx context.Context, owner, id string) (string, error) {
	game, session, err := s.load(ctx, owner, id)
	if err != nil {
		return "", err
	}
	res, err := session.Result()
	if err != nil {
		return "", err
	}
	return s.shares.ShareResult(ctx, ShareResultRequest{
		Questions:   res.Questions,
		UserAnswers: res.FinalAnswers,
		Topic:       game.Topic,
		Difficulty:  game.Difficulty,
	})
}

// Discard drops a game once the player is done with it.
func (s *GameService) Discard(ctx context.Context, owner, id string) error {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()
	if _, _, err := s.load(ctx, owner, id); err != nil {
		return err
	}
	return s.games.Delete(ctx, id)
}

func (s *GameService) mutate(ctx context.Context, owner, id string, fn func(*sequencer.Session) error) (GameView, error) {
	mu := s.lock(id)
	mu.Lock()
	defer mu.Unlock()

	game, session, err := s.load(ctx, owner, id)
	if err != nil {
		return GameView{}, err
	}
	if err := fn(session); err != nil {
		return viewOf(game, session), err
	}
	game.Snapshot = session.Snapshot()
	if err := s.games.Save(ctx, game); err != nil {
		return GameView{}, fmt.Errorf("save game: %w", err)
	}
	return viewOf(game, session), nil
}

func (s *GameService) load(ctx context.Context, owner, id string) (Game, *sequencer.Session, error) {
	game, err := s.games.Get(ctx, id)
	if err != nil {
		return Game{}, nil, err
	}
	if game.Owner != owner {
		return Game{}, nil, domain.ErrGameNotFound
	}
	session, err := sequencer.Restore(game.Snapshot)
	if err != nil {
		return Game{}, nil, fmt.Errorf("restore game %s: %w", id, err)
	}
	return game, session, nil
}

// lock returns the stripe guarding id.
func (s *GameService) lock(id string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return &s.locks[h.Sum32()%gameLockStripes]
}

func viewOf(game Game, session *sequencer.Session) GameView {
	view := GameView{
		ID:         game.ID,
		Topic:      game.Topic,
		Difficulty: game.Difficulty,
		Position:   session.Position(),
		Total:      len(session.Questions()),
	}
	if q, original, ok := session.Current(); ok {
		view.Question = &QuestionView{Prompt: q.Prompt, Options: q.Options, OriginalIndex: original}
	}
	switch st := session.State().(type) {
	case sequencer.AwaitingSelection:
		view.Status = StatusAwaiting
	case sequencer.Answered:
		view.Status = StatusAnswered
		view.Selection = st.Selection
		if view.Question != nil {
			view.CorrectOption = session.Questions()[view.Question.OriginalIndex].CorrectOption
		}
	case sequencer.Completed:
		view.Status = StatusCompleted
		if res, err := session.Result(); err == nil {
			view.Result = &res
		}
	}
	return view
}

// IsPlayError reports whether err is a rejected play event rather than a failure.
func IsPlayError(err error) bool {
	return errors.Is(err, sequencer.ErrAnswerLocked) ||
		errors.Is(err, sequencer.ErrNotAnswered) ||
		errors.Is(err, sequencer.ErrSessionCompleted) ||
		errors.Is(err, sequencer.ErrNotCompleted)
}
