package httpx

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/aussiebroadwan/userapi/pkg/slogx"
	"golang.org/x/time/rate"
)

const MsgTooManyRequests = "Too many requests, please try again later."

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int
	// Window is the time window for rate limiting
	Window time.Duration
	// Burst allows for temporary bursts above the rate limit
	Burst int
}

// Rate limit profiles. Each can be overridden with
// RATELIMIT_{STRICT,MODERATE,LENIENT}_{REQUESTS,WINDOW_SEC,BURST}.
var (
	// StrictLimit guards credential endpoints (register, login).
	StrictLimit = RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5}

	// ModerateLimit guards authenticated writes.
	ModerateLimit = RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20}

	// LenientLimit guards authenticated reads.
	LenientLimit = RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100}
)

func init() {
	StrictLimit = ParseRateLimitFromEnv("STRICT", StrictLimit)
	ModerateLimit = ParseRateLimitFromEnv("MODERATE", ModerateLimit)
	LenientLimit = ParseRateLimitFromEnv("LENIENT", LenientLimit)
}

// ParseRateLimitFromEnv reads RATELIMIT_{prefix}_REQUESTS,
// RATELIMIT_{prefix}_WINDOW_SEC and RATELIMIT_{prefix}_BURST on top of def.
// Missing, unparsable or non-positive values keep the default.
func ParseRateLimitFromEnv(prefix string, def RateLimitConfig) RateLimitConfig {
	cfg := def

	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_REQUESTS"); ok {
		cfg.RequestsPerWindow = n
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_WINDOW_SEC"); ok {
		cfg.Window = time.Duration(n) * time.Second
	}
	if n, ok := positiveEnvInt("RATELIMIT_" + prefix + "_BURST"); ok {
		cfg.Burst = n
	}

	return cfg
}

func positiveEnvInt(key string) (int, bool) {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// RateLimiter keeps one token bucket per request key.
type RateLimiter struct {
	cfg      RateLimitConfig
	key      KeyExtractor
	limit    rate.Limit
	limiters sync.Map // map[string]*limiterEntry

	onReject func(r *http.Request)
}

// NewRateLimiter creates a limiter that groups requests by key.
func NewRateLimiter(cfg RateLimitConfig, key KeyExtractor) *RateLimiter {
	return &RateLimiter{
		cfg:   cfg,
		key:   key,
		limit: rate.Limit(float64(cfg.RequestsPerWindow) / cfg.Window.Seconds()),
	}
}

// OnReject registers a hook called for every rejected request (metrics).
func (rl *RateLimiter) OnReject(fn func(r *http.Request)) *RateLimiter {
	rl.onReject = fn
	return rl
}

func (rl *RateLimiter) entry(key string, now time.Time) *limiterEntry {
	v, ok := rl.limiters.Load(key)
	if !ok {
		fresh := &limiterEntry{lim: rate.NewLimiter(rl.limit, rl.cfg.Burst)}
		v, _ = rl.limiters.LoadOrStore(key, fresh)
	}
	e := v.(*limiterEntry)
	e.lastSeen.Store(now.UnixNano())
	return e
}

// Purge drops buckets untouched for longer than idle and reports how many
// were removed. The housekeeping worker calls it periodically.
func (rl *RateLimiter) Purge(idle time.Duration) int {
	cutoff := time.Now().Add(-idle).UnixNano()
	removed := 0
	rl.limiters.Range(func(k, v any) bool {
		if v.(*limiterEntry).lastSeen.Load() < cutoff {
			rl.limiters.Delete(k)
			removed++
		}
		return true
	})
	return removed
}

// Middleware returns the limiter as an http middleware. Requests with no
// extractable key are let through.
func (rl *RateLimiter) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := rl.key(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			now := time.Now()
			lim := rl.entry(key, now).lim
			if lim.AllowN(now, 1) {
				next.ServeHTTP(w, r)
				return
			}

			// Peek at when the next token lands without consuming it.
			res := lim.ReserveN(now, 1)
			retryAfter := max(int(res.DelayFrom(now).Seconds()), 1)
			res.CancelAt(now)

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.cfg.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", rl.cfg.Window.String())

			log.Warn("rate limit exceeded",
				"key", key,
				"endpoint", r.URL.Path,
				"retry_after", retryAfter,
			)
			if rl.onReject != nil {
				rl.onReject(r)
			}

			WriteMessage(w, http.StatusTooManyRequests, MsgTooManyRequests)
		})
	}
}

// IdentityMiddleware lets a plain Middleware sit between Authn and an
// IdentityHandler, e.g. a per-user rate limit that needs the verified id.
func IdentityMiddleware(mw Middleware) func(IdentityHandler) IdentityHandler {
	return func(next IdentityHandler) IdentityHandler {
		return IdentityHandlerFunc(func(w http.ResponseWriter, r *http.Request, id Identity) {
			mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeIdentity(w, r, id)
			})).ServeHTTP(w, r)
		})
	}
}
