package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// ShareCache caches shared links in Redis as JSON and falls back to the backing
// repository on a miss. Keys:
//
//	trivia:share:quiz:{id}   -> SharedQuiz JSON
//	trivia:share:result:{id} -> SharedResult JSON
type ShareCache struct {
	client  *redis.Client
	backing app.ShareRepository
	ttl     time.Duration
	sf      singleflight.Group
	rndMu   sync.Mutex
	rnd     *rand.Rand
}

func NewShareCache(client *redis.Client, backing app.ShareRepository, ttl time.Duration) *ShareCache {
	return &ShareCache{
		client:  client,
		backing: backing,
		ttl:     ttl,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *ShareCache) SaveQuiz(ctx context.Context, quiz domain.SharedQuiz) error {
	if err := c.backing.SaveQuiz(ctx, quiz); err != nil {
		return err
	}
	c.store(ctx, c.quizKey(quiz.ID), quiz)
	return nil
}

func (c *ShareCache) GetQuiz(ctx context.Context, id string) (domain.SharedQuiz, error) {
	return cachedGet(ctx, c, c.quizKey(id), func(ctx context.Context) (domain.SharedQuiz, error) {
		return c.backing.GetQuiz(ctx, id)
	})
}

func (c *ShareCache) SaveResult(ctx context.Context, result domain.SharedResult) error {
	if err := c.backing.SaveResult(ctx, result); err != nil {
		return err
	}
	c.store(ctx, c.resultKey(result.ID), result)
	return nil
}

func (c *ShareCache) GetResult(ctx context.Context, id string) (domain.SharedResult, error) {
	return cachedGet(ctx, c, c.resultKey(id), func(ctx context.Context) (domain.SharedResult, error) {
		return c.backing.GetResult(ctx, id)
	})
}

func cachedGet[T any](ctx context.Context, c *ShareCache, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := fetch[T](ctx, c.client, key); ok {
		return v, nil
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if v, ok := fetch[T](ctx, c.client, key); ok {
			return v, nil
		}
		v, err := load(ctx)
		if err != nil {
			return v, err
		}
		c.store(ctx, key, v)
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func fetch[T any](ctx context.Context, client *redis.Client, key string) (T, bool) {
	var v T
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Warn("share cache read failed", "key", key, "error", err)
		}
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// store is best effort; the backing repository stays the source of truth.
func (c *ShareCache) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttlWithJitter()).Err(); err != nil {
		slog.Warn("share cache write failed", "key", key, "error", err)
	}
}

func (c *ShareCache) quizKey(id string) string {
	return "trivia:share:quiz:" + id
}

func (c *ShareCache) resultKey(id string) string {
	return "trivia:share:result:" + id
}

func (c *ShareCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
