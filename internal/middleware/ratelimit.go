package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	apierrors "github.com/soratani/task-tracker-api/internal/errors"
)

// maxLimiterIdle is how long a client's bucket survives without traffic
// before it is evicted.
const maxLimiterIdle = 3 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters hands out one token bucket per client key. Idle buckets are
// evicted so the map stays bounded by recently active clients instead of
// growing for the process lifetime.
type clientLimiters struct {
	mu      sync.Mutex
	rate    rate.Limit
	burst   int
	maxIdle time.Duration
	now     func() time.Time // injectable for tests
	clients map[string]*client
}

func newClientLimiters(r rate.Limit, burst int) *clientLimiters {
	return &clientLimiters{
		rate:    r,
		burst:   burst,
		maxIdle: maxLimiterIdle,
		now:     time.Now,
		clients: make(map[string]*client),
	}
}

func (l *clientLimiters) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[key]
	if !ok {
		l.evict(now)
		cl = &client{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[key] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// evict drops buckets idle past the cutoff. Called with the lock held, only
// when a new client shows up.
func (l *clientLimiters) evict(now time.Time) {
	for key, cl := range l.clients {
		if now.Sub(cl.lastSeen) > l.maxIdle {
			delete(l.clients, key)
		}
	}
}

// RateLimit applies a per-client token bucket, keyed by client IP. Used on
// the auth routes to slow down credential guessing.
func RateLimit(r rate.Limit, burst int) gin.HandlerFunc {
	limiters := newClientLimiters(r, burst)

	return func(c *gin.Context) {
		if !limiters.get(c.ClientIP()).Allow() {
			apierrors.TooManyRequests(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}
