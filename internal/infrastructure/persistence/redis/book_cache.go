package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker/v2"

	"github.com/SuwethaV/bookreview/pkg/metrics"
)

const cacheBreakerName = "redis-book-cache"

// BookCache stores serialized book detail payloads under book:detail:{id}.
// Reads and fills go through a circuit breaker: while Redis is failing the
// cache degrades to always-miss and the request is served from the store.
//
// book:version:{id} counts invalidations. A fill only lands when the counter
// still holds the value read before the store was queried, so a detail built
// from rows older than the latest write is never cached.
type BookCache struct {
	client *redis.Client
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker[[]byte]
}

// NewBookCache creates the cache. The breaker opens after 5 consecutive
// failures and lets a trial request through after 30s.
func NewBookCache(client *redis.Client, ttl time.Duration) *BookCache {
	return newBookCache(client, ttl, gobreaker.Settings{
		Name:        cacheBreakerName,
		MaxRequests: 1,
		Timeout:     30 * time.Second,
	})
}

func newBookCache(client *redis.Client, ttl time.Duration, st gobreaker.Settings) *BookCache {
	st.ReadyToTrip = func(c gobreaker.Counts) bool {
		return c.ConsecutiveFailures >= 5
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": name}, float64(to))
		logrus.WithFields(logrus.Fields{
			"breaker": name,
			"from":    from.String(),
			"to":      to.String(),
		}).Warn("circuit breaker state changed")
	}
	metrics.SetGaugeVec(metrics.CircuitBreakerState, map[string]string{"name": st.Name}, float64(gobreaker.StateClosed))

	return &BookCache{
		client: client,
		ttl:    ttl,
		cb:     gobreaker.NewCircuitBreaker[[]byte](st),
	}
}

func detailKey(bookID string) string {
	return fmt.Sprintf("book:detail:%s", bookID)
}

func versionKey(bookID string) string {
	return fmt.Sprintf("book:version:%s", bookID)
}

// KEYS[1] version, KEYS[2] detail; ARGV[1] expected version, ARGV[2] payload, ARGV[3] ttl ms
var fencedSet = redis.NewScript(`
local v = redis.call("GET", KEYS[1]) or "0"
if v ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

// Get returns the cached payload. Misses, Redis errors and an open breaker
// all report ok=false.
func (c *BookCache) Get(ctx context.Context, bookID string) ([]byte, bool) {
	data, err := c.cb.Execute(func() ([]byte, error) {
		b, err := c.client.Get(ctx, detailKey(bookID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return b, err
	})
	switch {
	case err != nil:
		c.logFailure(err, "get", bookID)
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": "error"})
		return nil, false
	case data == nil:
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": "miss"})
		return nil, false
	default:
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": "hit"})
		return data, true
	}
}

// Version returns the book's invalidation counter, read before the store is
// queried. ok=false means Redis is unavailable and the fill should be skipped.
func (c *BookCache) Version(ctx context.Context, bookID string) (int64, bool) {
	raw, err := c.cb.Execute(func() ([]byte, error) {
		b, err := c.client.Get(ctx, versionKey(bookID)).Bytes()
		if errors.Is(err, redis.Nil) {
			return []byte("0"), nil
		}
		return b, err
	})
	if err != nil {
		c.logFailure(err, "version", bookID)
		return 0, false
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		c.logFailure(err, "version", bookID)
		return 0, false
	}
	return v, true
}

// Set stores the payload with the configured TTL unless the book was
// invalidated after version was read. Failures are logged only.
func (c *BookCache) Set(ctx context.Context, bookID string, version int64, data []byte) {
	var stored int64
	_, err := c.cb.Execute(func() ([]byte, error) {
		var err error
		stored, err = fencedSet.Run(ctx, c.client,
			[]string{versionKey(bookID), detailKey(bookID)},
			strconv.FormatInt(version, 10), data, c.ttl.Milliseconds(),
		).Int64()
		return nil, err
	})
	if err != nil {
		c.logFailure(err, "set", bookID)
		return
	}
	if stored == 0 {
		logrus.WithField("book_id", bookID).Debug("book cache fill skipped, detail changed meanwhile")
	}
}

// Invalidate bumps the version and drops the cached payload. It skips the
// breaker so an invalidation is attempted even while reads are short-circuited.
func (c *BookCache) Invalidate(ctx context.Context, bookID string) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, versionKey(bookID))
		pipe.Del(ctx, detailKey(bookID))
		return nil
	})
	if err != nil {
		metrics.IncCounterVec(metrics.CacheRequestsTotal, map[string]string{"result": "error"})
		logrus.WithError(err).WithField("book_id", bookID).Error("book cache invalidation failed")
	}
}

// State exposes the breaker state.
func (c *BookCache) State() gobreaker.State {
	return c.cb.State()
}

func (c *BookCache) logFailure(err error, op, bookID string) {
	entry := logrus.WithFields(logrus.Fields{"op": op, "book_id": bookID})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		entry.Debug("book cache bypassed, breaker open")
		return
	}
	entry.WithError(err).Warn("book cache operation failed")
}
