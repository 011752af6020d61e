package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/baharkarakas/sweetshop/internal/api/httpx"
)

// Limiter decides whether one more request for key fits the budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// RateLimit applies l per client IP; a nil l disables limiting. Limiter
// errors let the request through.
func RateLimit(l Limiter) func(http.Handler) http.Handler {
	if l == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				slog.WarnContext(r.Context(), "rate limiter unavailable", "err", err)
				allowed = true
			}
			if !allowed {
				w.Header().Set("Retry-After", "1")
				httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

type tokenBucket struct {
	tokens float64
	last   time.Time
}

// BucketLimiter is an in-process token bucket per key: rps tokens per
// second, bursting to rps.
type BucketLimiter struct {
	mu      sync.Mutex
	rate    float64
	burst   float64
	buckets map[string]*tokenBucket
	now     func() time.Time
}

// maxBuckets bounds the per-key map; full buckets are dropped past it.
const maxBuckets = 10000

func NewBucketLimiter(rps int) *BucketLimiter {
	return &BucketLimiter{
		rate:    float64(rps),
		burst:   float64(rps),
		buckets: make(map[string]*tokenBucket),
		now:     time.Now,
	}
}

func (l *BucketLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	tb, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxBuckets {
			l.sweep(now)
		}
		tb = &tokenBucket{tokens: l.burst, last: now}
		l.buckets[key] = tb
	}
	if elapsed := now.Sub(tb.last).Seconds(); elapsed > 0 {
		tb.tokens = min(l.burst, tb.tokens+elapsed*l.rate)
		tb.last = now
	}
	if tb.tokens < 1 {
		return false, nil
	}
	tb.tokens--
	return true, nil
}

func (l *BucketLimiter) sweep(now time.Time) {
	for k, tb := range l.buckets {
		if tb.tokens+now.Sub(tb.last).Seconds()*l.rate >= l.burst {
			delete(l.buckets, k)
		}
	}
}

// ValkeyLimiter is a fixed one-second window shared by every replica that
// points at the same valkey instance.
type ValkeyLimiter struct {
	client valkey.Client
	limit  int64
	prefix string
	now    func() time.Time
}

func NewValkeyLimiter(client valkey.Client, rps int) *ValkeyLimiter {
	return &ValkeyLimiter{client: client, limit: int64(rps), prefix: "sweetshop:ratelimit:", now: time.Now}
}

func (l *ValkeyLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("%s%s:%d", l.prefix, key, l.now().Unix())
	n, err := l.client.Do(ctx, l.client.B().Incr().Key(k).Build()).AsInt64()
	if err != nil {
		return false, err
	}
	if n == 1 {
		if err := l.client.Do(ctx, l.client.B().Expire().Key(k).Seconds(2).Build()).Error(); err != nil {
			return false, err
		}
	}
	return n <= l.limit, nil
}
