package api

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// connLimiter throttles by client address before any business handling.
type connLimiter struct {
	limiters sync.Map
	rps      rate.Limit
	burst    int
}

func newConnLimiter(rps float64, burst int) *connLimiter {
	if rps <= 0 {
		rps = 50
	}
	if burst <= 0 {
		burst = 25
	}
	return &connLimiter{rps: rate.Limit(rps), burst: burst}
}

func (l *connLimiter) getLimiter(key string) *rate.Limiter {
	if v, ok := l.limiters.Load(key); ok {
		if lim, ok := v.(*rate.Limiter); ok {
			return lim
		}
	}

	lim := rate.NewLimiter(l.rps, l.burst)
	actual, loaded := l.limiters.LoadOrStore(key, lim)
	if loaded {
		if actualLim, ok := actual.(*rate.Limiter); ok {
			return actualLim
		}
	}
	return lim
}

func (l *connLimiter) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}
		if !l.getLimiter(host).Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
