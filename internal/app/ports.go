package app

import (
	"context"
	"time"

	"trivia-service/internal/domain"
	"trivia-service/internal/sequencer"
)

// Game is the storable form of one player's play-through.
type Game struct {
	ID         string             `json:"id"`
	Owner      string             `json:"owner"`
	Topic      string             `json:"topic"`
	Difficulty int                `json:"difficulty"`
	Snapshot   sequencer.Snapshot `json:"snapshot"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// GameRepository abstracts where in-progress games live (in-memory, Redis).
type GameRepository interface {
	Save(ctx context.Context, game Game) error
	Get(ctx context.Context, id string) (Game, error)
	Delete(ctx context.Context, id string) error
}

// ShareRepository persists shared quizzes and results.
type ShareRepository interface {
	SaveQuiz(ctx context.Context, quiz domain.SharedQuiz) error
	GetQuiz(ctx context.Context, id string) (domain.SharedQuiz, error)
	SaveResult(ctx context.Context, result domain.SharedResult) error
	GetResult(ctx context.Context, id string) (domain.SharedResult, error)
}

// ProfileRepository persists user profiles keyed by user id.
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID string) (domain.Profile, error)
	UpsertProfile(ctx context.Context, profile domain.Profile) error
}

// QuestionGenerator produces a question set for a topic and difficulty.
// Implementations must honor ctx cancellation.
type QuestionGenerator interface {
	Generate(ctx context.Context, spec domain.QuizSpec) (domain.QuestionSet, error)
}

// EventPublisher emits analytics events. Failures are logged by callers, never retried.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, payload any) error
}

const (
	EventQuizGenerated      = "quiz_generated"
	EventGenerationFailed   = "generation_failed"
	EventGenerationCanceled = "generation_canceled"
	EventQuizStarted        = "quiz_started"
	EventQuizCompleted      = "quiz_completed"
	EventQuizShared         = "quiz_shared"
	EventResultShared       = "result_shared"
)
