package memory

import (
	"context"
	"strings"
	"sync"

	"trivia-service/internal/domain"
)

// ProfileStore is an in-memory implementation of app.ProfileRepository.
type ProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]domain.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{profiles: make(map[string]domain.Profile)}
}

func (s *ProfileStore) GetProfile(_ context.Context, userID string) (domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.profiles[userID]; ok {
		return p, nil
	}
	return domain.Profile{}, domain.ErrProfileNotFound
}

// UpsertProfile rejects a username already held by another user, ignoring case.
func (s *ProfileStore) UpsertProfile(_ context.Context, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, existing := range s.profiles {
		if userID != profile.UserID && strings.EqualFold(existing.Username, profile.Username) {
			return domain.ErrUsernameTaken
		}
	}
	s.profiles[profile.UserID] = profile
	return nil
}
