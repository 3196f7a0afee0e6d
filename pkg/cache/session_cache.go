package cache

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type cachedValue struct {
	Value     string
	Timestamp time.Time
}

// SessionCache is the session-scoped key-value store. Entries live until the
// session is cleared or, when ttl is positive, until they are older than ttl.
type SessionCache struct {
	mu     sync.Mutex
	values map[string]cachedValue
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionCache(ttl time.Duration) *SessionCache {
	return &SessionCache{
		values: make(map[string]cachedValue),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Get возвращает значение из кэша или false, если его нет или сессия истекла
func (c *SessionCache) Get(ctx context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.values[key]
	if !ok {
		return "", false, nil
	}
	if c.ttl > 0 && c.now().Sub(v.Timestamp) > c.ttl {
		delete(c.values, key)
		logrus.WithField("key", key).Debug("session value expired")
		return "", false, nil
	}
	return v.Value, true, nil
}

// Set сохраняет значение в кэш сессии
func (c *SessionCache) Set(ctx context.Context, key, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values[key] = cachedValue{
		Value:     value,
		Timestamp: c.now(),
	}
	return nil
}

func (c *SessionCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

// Clear ends the session scope.
func (c *SessionCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values = make(map[string]cachedValue)
}
