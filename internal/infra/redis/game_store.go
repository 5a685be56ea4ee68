package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// GameStore keeps in-progress games in Redis so any instance can serve the next event.
// Each save refreshes the TTL; abandoned games expire on their own.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{client: client, ttl: ttl}
}

func (s *GameStore) Save(ctx context.Context, game app.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("marshal game: %w", err)
	}
	return s.client.Set(ctx, s.key(game.ID), data, s.ttl).Err()
}

func (s *GameStore) Get(ctx context.Context, id string) (app.Game, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return app.Game{}, domain.ErrGameNotFound
	}
	if err != nil {
		return app.Game{}, err
	}
	var game app.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return app.Game{}, fmt.Errorf("unmarshal game: %w", err)
	}
	return game, nil
}

func (s *GameStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}

func (s *GameStore) key(id string) string {
	return "trivia:game:" + id
}
