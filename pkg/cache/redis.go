package cache

import (
	"time"

	r "gopkg.in/redis.v5"
)

const prefix = "_STYLIE_"

// Redis is a Cache shared between server replicas.
type Redis struct {
	client *r.Client
}

// NewRedis connects to the Redis instance described by url.
func NewRedis(url string) (*Redis, error) {
	opts, err := r.ParseURL(url)
	if err != nil {
		return nil, err
	}

	return &Redis{client: r.NewClient(opts)}, nil
}

// Get returns the value for key or ErrMiss.
func (c *Redis) Get(key string) ([]byte, error) {
	b, err := c.client.Get(prefix + key).Bytes()
	if err == r.Nil {
		return nil, ErrMiss
	}
	return b, err
}

// Set stores content under key until duration elapses.
func (c *Redis) Set(key string, content []byte, duration time.Duration) error {
	return c.client.Set(prefix+key, content, duration).Err()
}

// Delete removes key if present.
func (c *Redis) Delete(key string) error {
	return c.client.Del(prefix + key).Err()
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}
