package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"trivia-service/internal/app"
	"trivia-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// ShareCache caches shared quizzes and results with a TTL in front of a slower
// app.ShareRepository. Shared links are immutable, so writes go straight through and
// prime the cache.
type ShareCache struct {
	backing app.ShareRepository
	ttl     time.Duration
	clock   func() time.Time
	sf      singleflight.Group
	rnd     *rand.Rand
	rndMu   sync.Mutex

	mu      sync.RWMutex
	quizzes map[string]cachedEntry[domain.SharedQuiz]
	results map[string]cachedEntry[domain.SharedResult]
}

type cachedEntry[T any] struct {
	value     T
	expiresAt time.Time
}

func NewShareCache(backing app.ShareRepository, ttl time.Duration) *ShareCache {
	return &ShareCache{
		backing: backing,
		ttl:     ttl,
		clock:   time.Now,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		quizzes: make(map[string]cachedEntry[domain.SharedQuiz]),
		results: make(map[string]cachedEntry[domain.SharedResult]),
	}
}

func (c *ShareCache) SaveQuiz(ctx context.Context, quiz domain.SharedQuiz) error {
	if err := c.backing.SaveQuiz(ctx, quiz); err != nil {
		return err
	}
	c.mu.Lock()
	c.quizzes[quiz.ID] = cachedEntry[domain.SharedQuiz]{value: quiz, expiresAt: c.clock().Add(c.ttlWithJitter())}
	c.mu.Unlock()
	return nil
}

func (c *ShareCache) GetQuiz(ctx context.Context, id string) (domain.SharedQuiz, error) {
	if quiz, ok := lookup(c, c.quizzes, id); ok {
		return quiz, nil
	}

	result, err, _ := c.sf.Do("quiz:"+id, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if quiz, ok := lookup(c, c.quizzes, id); ok {
			return quiz, nil
		}
		quiz, err := c.backing.GetQuiz(ctx, id)
		if err != nil {
			return domain.SharedQuiz{}, err
		}
		c.mu.Lock()
		c.quizzes[id] = cachedEntry[domain.SharedQuiz]{value: quiz, expiresAt: c.clock().Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return quiz, nil
	})
	if err != nil {
		return domain.SharedQuiz{}, err
	}
	return result.(domain.SharedQuiz), nil
}

func (c *ShareCache) SaveResult(ctx context.Context, res domain.SharedResult) error {
	if err := c.backing.SaveResult(ctx, res); err != nil {
		return err
	}
	c.mu.Lock()
	c.results[res.ID] = cachedEntry[domain.SharedResult]{value: res, expiresAt: c.clock().Add(c.ttlWithJitter())}
	c.mu.Unlock()
	return nil
}

func (c *ShareCache) GetResult(ctx context.Context, id string) (domain.SharedResult, error) {
	if res, ok := lookup(c, c.results, id); ok {
		return res, nil
	}

	result, err, _ := c.sf.Do("result:"+id, func() (interface{}, error) {
		if res, ok := lookup(c, c.results, id); ok {
			return res, nil
		}
		res, err := c.backing.GetResult(ctx, id)
		if err != nil {
			return domain.SharedResult{}, err
		}
		c.mu.Lock()
		c.results[id] = cachedEntry[domain.SharedResult]{value: res, expiresAt: c.clock().Add(c.ttlWithJitter())}
		c.mu.Unlock()
		return res, nil
	})
	if err != nil {
		return domain.SharedResult{}, err
	}
	return result.(domain.SharedResult), nil
}

func lookup[T any](c *ShareCache, entries map[string]cachedEntry[T], id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := entries[id]
	if !ok || !entry.expiresAt.After(c.clock()) {
		var zero T
		return zero, false
	}
	return entry.value, true
}

func (c *ShareCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	c.rndMu.Lock()
	defer c.rndMu.Unlock()
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
