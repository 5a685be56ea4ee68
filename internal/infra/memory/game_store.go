package memory

import (
	"context"
	"sync"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
)

type storedGame struct {
	game      app.Game
	expiresAt time.Time
}

// GameStore is an in-memory implementation of app.GameRepository. Each save extends
// a game's lifetime by ttl; a zero ttl keeps games until they are deleted.
type GameStore struct {
	mu    sync.RWMutex
	games map[string]storedGame
	ttl   time.Duration
	clock func() time.Time

	lastSweep time.Time
}

func NewGameStore(ttl time.Duration) *GameStore {
	return &GameStore{
		games: make(map[string]storedGame),
		ttl:   ttl,
		clock: time.Now,
	}
}

func (s *GameStore) Save(_ context.Context, game app.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock()
	s.sweep(now)
	entry := storedGame{game: game}
	if s.ttl > 0 {
		entry.expiresAt = now.Add(s.ttl)
	}
	s.games[game.ID] = entry
	return nil
}

func (s *GameStore) Get(_ context.Context, id string) (app.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.games[id]
	if !ok || s.expired(entry, s.clock()) {
		return app.Game{}, domain.ErrGameNotFound
	}
	return entry.game, nil
}

func (s *GameStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
	return nil
}

// Len reports how many games are held, expired ones included until the next sweep.
func (s *GameStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.games)
}

// sweep drops expired games at most once per ttl. Callers hold mu for writing.
func (s *GameStore) sweep(now time.Time) {
	if s.ttl <= 0 || now.Sub(s.lastSweep) < s.ttl {
		return
	}
	s.lastSweep = now
	for id, entry := range s.games {
		if s.expired(entry, now) {
			delete(s.games, id)
		}
	}
}

func (s *GameStore) expired(entry storedGame, now time.Time) bool {
	return !entry.expiresAt.IsZero() && !entry.expiresAt.After(now)
}
