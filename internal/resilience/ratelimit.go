package resilience

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimitMessage is the error text of a 429 answer.
const RateLimitMessage = "request limit exceeded, please try again later"

// Limit allows Requests per Period for each client.
type Limit struct {
	Requests int
	Period   time.Duration
}

// PerMinute is the common shape of the gateway's route limits.
func PerMinute(n int) Limit { return Limit{Requests: n, Period: time.Minute} }

// RateLimiter keeps one token bucket per client. The bucket refills at
// Requests/Period and holds at most Requests tokens.
//
// A bucket idle for a whole Period is full again, so it is dropped and
// recreated on the client's next request. Idle buckets are swept at most
// once per Period.
type RateLimiter struct {
	limit     Limit
	mu        sync.Mutex
	clients   map[string]*clientBucket
	lastSweep time.Time
}

type clientBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func NewRateLimiter(limit Limit) *RateLimiter {
	return &RateLimiter{limit: limit, clients: make(map[string]*clientBucket)}
}

func (l *RateLimiter) Limit() Limit { return l.limit }

// Allow consumes one token for client at now.
func (l *RateLimiter) Allow(client string, now time.Time) bool {
	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.limit.Period {
		l.sweep(now)
	}
	b, ok := l.clients[client]
	if !ok {
		every := l.limit.Period / time.Duration(max(l.limit.Requests, 1))
		b = &clientBucket{lim: rate.NewLimiter(rate.Every(every), l.limit.Requests)}
		l.clients[client] = b
	}
	if now.After(b.lastSeen) {
		b.lastSeen = now
	}
	l.mu.Unlock()
	return b.lim.AllowN(now, 1)
}

// sweep drops buckets unused for a full Period. Callers hold l.mu.
func (l *RateLimiter) sweep(now time.Time) {
	for client, b := range l.clients {
		if now.Sub(b.lastSeen) >= l.limit.Period {
			delete(l.clients, client)
		}
	}
	l.lastSweep = now
}

// RejectionObserver is told about every request turned away.
type RejectionObserver interface {
	RateLimited(route string)
}

// Middleware rejects requests over the limit with 429 and a JSON body
// describing the limit.
func (l *RateLimiter) Middleware(route string, logger *zap.Logger, obs RejectionObserver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := ClientIP(r)
		if !l.Allow(client, time.Now()) {
			logger.Warn("[ratelimit] limit exceeded",
				zap.String("route", route),
				zap.String("client", client),
				zap.Int("limit", l.limit.Requests),
			)
			if obs != nil {
				obs.RateLimited(route)
			}
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error":  RateLimitMessage,
				"limit":  l.limit.Requests,
				"period": int(l.limit.Period / time.Second),
			})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP is the remote address of r without its port.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
