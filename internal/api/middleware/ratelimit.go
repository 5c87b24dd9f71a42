package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/eventloom/server/internal/config"
	"golang.org/x/time/rate"
)

// RateLimit applies per-client token buckets: one rate for the webhook
// endpoint (the provider retries aggressively) and one for everything else.
// Health and metrics endpoints are exempt. A zero limit disables the tier.
func RateLimit(cfg config.RateLimitConfig) func(http.Handler) http.Handler {
	store := newLimiterStore(cfg)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/healthz", "/readyz", "/metrics":
				next.ServeHTTP(w, r)
				return
			}

			limiter := store.limiter(r)
			if limiter != nil && !limiter.Allow() {
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type limiterStore struct {
	cfg config.RateLimitConfig

	mu       sync.Mutex
	limiters map[string]*limiterEntry
	lastSeen time.Time
}

type limiterEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

const limiterTTL = 10 * time.Minute

func newLimiterStore(cfg config.RateLimitConfig) *limiterStore {
	return &limiterStore{cfg: cfg, limiters: make(map[string]*limiterEntry)}
}

func (s *limiterStore) limiter(r *http.Request) *rate.Limiter {
	perMinute := s.cfg.PublicPerMinute
	tier := "public"
	if strings.HasPrefix(r.URL.Path, "/api/webhook/") {
		perMinute = s.cfg.WebhookPerMinute
		tier = "webhook"
	}
	if perMinute <= 0 {
		return nil
	}

	key := tier + ":" + clientIP(r)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if now.Sub(s.lastSeen) > limiterTTL {
		s.evict(now)
		s.lastSeen = now
	}

	entry, ok := s.limiters[key]
	if !ok {
		entry = &limiterEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), perMinute),
		}
		s.limiters[key] = entry
	}
	entry.seen = now
	return entry.limiter
}

func (s *limiterStore) evict(now time.Time) {
	for key, entry := range s.limiters {
		if now.Sub(entry.seen) > limiterTTL {
			delete(s.limiters, key)
		}
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
