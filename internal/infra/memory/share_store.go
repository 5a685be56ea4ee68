package memory

import (
	"context"
	"sync"

	"trivia-service/internal/domain"
)

// ShareStore keeps shared quizzes and results in process memory (useful for tests/demos).
type ShareStore struct {
	mu      sync.RWMutex
	quizzes map[string]domain.SharedQuiz
	results map[string]domain.SharedResult
}

func NewShareStore() *ShareStore {
	return &ShareStore{
		quizzes: make(map[string]domain.SharedQuiz),
		results: make(map[string]domain.SharedResult),
	}
}

func (s *ShareStore) SaveQuiz(_ context.Context, quiz domain.SharedQuiz) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quizzes[quiz.ID] = quiz
	return nil
}

func (s *ShareStore) GetQuiz(_ context.Context, id string) (domain.SharedQuiz, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if quiz, ok := s.quizzes[id]; ok {
		return quiz, nil
	}
	return domain.SharedQuiz{}, domain.ErrShareNotFound
}

func (s *ShareStore) SaveResult(_ context.Context, result domain.SharedResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.ID] = result
	return nil
}

func (s *ShareStore) GetResult(_ context.Context, id string) (domain.SharedResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if result, ok := s.results[id]; ok {
		return result, nil
	}
	return domain.SharedResult{}, domain.ErrShareNotFound
}
