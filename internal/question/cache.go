package question

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = 5 * time.Minute
	cacheGenKey     = "questionbank:gen"
)

// Cache provides Redis-backed caching of filtered question lists. Keys
// embed a generation counter; any write to the bank bumps the generation,
// orphaning every cached list at once.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ ListCache = (*Cache)(nil)

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func (c *Cache) key(gen string, f Filters) string {
	return strings.Join([]string{
		"questionbank",
		gen,
		f.Category,
		f.Difficulty,
		f.QuestionType,
		f.TopicTag,
		f.Status,
		f.SearchTerm,
	}, ":")
}

func (c *Cache) generation(ctx context.Context) (string, error) {
	gen, err := c.client.Get(ctx, cacheGenKey).Result()
	if err == redis.Nil {
		return "0", nil
	}
	return gen, err
}

// Get returns the cached list for the filter set, or nil on a miss.
func (c *Cache) Get(ctx context.Context, f Filters) ([]Question, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, err
	}
	data, err := c.client.Get(ctx, c.key(gen, f)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Set stores the list for the filter set under the current generation.
func (c *Cache) Set(ctx context.Context, f Filters, questions []Question) error {
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(gen, f), data, c.ttl).Err()
}

// Invalidate bumps the generation so stale lists expire via TTL.
func (c *Cache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, cacheGenKey).Err()
}
