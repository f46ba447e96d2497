package news

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"newsdesk/models"
)

// fileCache persists the last good article set as JSON so restarts and
// provider rate limits do not blank the dashboard. A single file is enough:
// the feed is global, not per user.
type fileCache struct {
	mu   sync.Mutex
	path string
	ttl  time.Duration
}

type cacheEnvelope struct {
	FetchedAt time.Time            `json:"fetched_at"`
	Articles  []models.NewsArticle `json:"articles"`
}

func newFileCache(path string, ttl time.Duration) *fileCache {
	return &fileCache{path: path, ttl: ttl}
}

// Load returns the cached articles if they are within the TTL.
func (c *fileCache) Load() ([]models.NewsArticle, bool) {
	env, ok := c.read()
	if !ok || time.Since(env.FetchedAt) > c.ttl {
		return nil, false
	}
	return env.Articles, true
}

// LoadStale returns the cached articles regardless of age.
func (c *fileCache) LoadStale() ([]models.NewsArticle, bool) {
	env, ok := c.read()
	if !ok || len(env.Articles) == 0 {
		return nil, false
	}
	return env.Articles, true
}

func (c *fileCache) Store(articles []models.NewsArticle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := json.Marshal(cacheEnvelope{FetchedAt: time.Now(), Articles: articles})
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, data, 0o644)
}

func (c *fileCache) read() (cacheEnvelope, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data, err := os.ReadFile(c.path)
	if err != nil {
		return cacheEnvelope{}, false
	}
	var env cacheEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return cacheEnvelope{}, false
	}
	return env, true
}
