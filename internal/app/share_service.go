package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trivia-service/internal/domain"
	"trivia-service/internal/metrics"

	"github.com/google/uuid"
)

// ErrInvalidAnswers indicates a shared result whose answers do not line up with its questions.
var ErrInvalidAnswers = errors.New("user answers must match the number of questions")

// ShareQuizRequest is the payload of POST /api/quizzes/share.
type ShareQuizRequest struct {
	Questions            domain.QuestionSet `json:"questions"`
	Topic                string             `json:"topic"`
	Difficulty           int                `json:"difficulty"`
	CurrentQuestionIndex int                `json:"currentQuestionIndex"`
}

// ShareResultRequest is the payload of POST /api/results/share.
type ShareResultRequest struct {
	Questions   domain.QuestionSet `json:"questions"`
	UserAnswers []string           `json:"userAnswers"`
	Topic       string             `json:"topic"`
	Difficulty  int                `json:"difficulty"`
}

// ShareService creates and resolves shared links.
type ShareService struct {
	repo   ShareRepository
	events EventPublisher
	now    func() time.Time
	newID  func() string
}

func NewShareService(repo ShareRepository, events EventPublisher) *ShareService {
	return &ShareService{
		repo:   repo,
		events: events,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// ShareQuiz stores a question set so a friend can play it from CurrentQuestionIndex.
func (s *ShareService) ShareQuiz(ctx context.Context, req ShareQuizRequest) (string, error) {
	spec, err := domain.QuizSpec{Topic: req.Topic, Difficulty: req.Difficulty}.Normalize()
	if err != nil {
		return "", err
	}
	if err := req.Questions.Validate(); err != nil {
		return "", err
	}

	quiz := domain.SharedQuiz{
		ID:         s.newID(),
		Topic:      spec.Topic,
		Difficulty: spec.Difficulty,
		StartIndex: req.CurrentQuestionIndex,
		Questions:  req.Questions,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.SaveQuiz(ctx, quiz); err != nil {
		return "", fmt.Errorf("save shared quiz: %w", err)
	}
	metrics.SharesCreated.WithLabelValues("quiz").Inc()
	publish(ctx, s.events, EventQuizShared, map[string]any{"id": quiz.ID, "topic": quiz.Topic, "startIndex": quiz.StartIndex})
	return quiz.ID, nil
}

// GetQuiz resolves a shared quiz. A stored payload that cannot be played is reported as
// domain.ErrSharedLinkInvalid.
func (s *ShareService) GetQuiz(ctx context.Context, id string) (domain.SharedQuiz, error) {
	quiz, err := s.repo.GetQuiz(ctx, id)
	if err != nil {
		return domain.SharedQuiz{}, err
	}
	if err := quiz.Questions.Validate(); err != nil {
		return domain.SharedQuiz{}, fmt.Errorf("%w: %v", domain.ErrSharedLinkInvalid, err)
	}
	return quiz, nil
}

// ShareResult stores a completed play-through. Answers must be in original question order.
func (s *ShareService) ShareResult(ctx context.Context, req ShareResultRequest) (string, error) {
	spec, err := domain.QuizSpec{Topic: req.Topic, Difficulty: req.Difficulty}.Normalize()
	if err != nil {
		return "", err
	}
	if err := req.Questions.Validate(); err != nil {
		return "", err
	}
	if len(req.UserAnswers) != len(req.Questions) {
		return "", ErrInvalidAnswers
	}

	result := domain.SharedResult{
		ID:          s.newID(),
		Topic:       spec.Topic,
		Difficulty:  spec.Difficulty,
		Questions:   req.Questions,
		UserAnswers: req.UserAnswers,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.SaveResult(ctx, result); err != nil {
		return "", fmt.Errorf("save shared result: %w", err)
	}
	metrics.SharesCreated.WithLabelValues("result").Inc()
	publish(ctx, s.events, EventResultShared, map[string]any{"id": result.ID, "topic": result.Topic})
	return result.ID, nil
}

func (s *ShareService) GetResult(ctx context.Context, id string) (domain.SharedResult, error) {
	result, err := s.repo.GetResult(ctx, id)
	if err != nil {
		return domain.SharedResult{}, err
	}
	if err := result.Questions.Validate(); err != nil || len(result.UserAnswers) != len(result.Questions) {
		return domain.SharedResult{}, domain.ErrSharedLinkInvalid
	}
	return result, nil
}
