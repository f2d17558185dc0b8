package httpcache

import (
	"time"

	rediscache "github.com/go-redis/cache"
	"github.com/go-redis/redis"
	"github.com/vmihailenco/msgpack"
)

// RedisAdapter shares pages over a ring of redis servers; pages are packed
// with msgpack.
type RedisAdapter struct {
	ring  *redis.Ring
	codec *rediscache.Codec
}

// NewRedisAdapter takes the ring shards as name to address.
func NewRedisAdapter(addrs map[string]string) *RedisAdapter {
	ring := redis.NewRing(&redis.RingOptions{Addrs: addrs})

	return &RedisAdapter{
		ring: ring,
		codec: &rediscache.Codec{
			Redis:     ring,
			Marshal: func(v interface{}) ([]byte, error) {
				return msgpack.Marshal(v)
			},
			Unmarshal: func(b []byte, v interface{}) error {
				return msgpack.Unmarshal(b, v)
			},
		},
	}
}

func (a *RedisAdapter) Get(key string) (*Page, bool) {
	var page Page
	if err := a.codec.Get(key, &page); err != nil {
		return nil, false
	}

	return &page, true
}

// Set with a past `expiration` stores nothing.
func (a *RedisAdapter) Set(key string, page *Page, expiration time.Time) {
	var ttl time.Duration
	if !expiration.IsZero() {
		if ttl = time.Until(expiration); ttl <= 0 {
			return
		}
	}

	a.codec.Set(&rediscache.Item{
		Key:        key,
		Object:     page,
		Expiration: ttl,
	})
}

func (a *RedisAdapter) Remove(key string) {
	a.codec.Delete(key)
}

func (a *RedisAdapter) Ping() error {
	return a.ring.Ping().Err()
}

func (a *RedisAdapter) Close() error {
	return a.ring.Close()
}
