// Generation budget for the API. Each client gets a number of map tiles per
// window and every generation is charged by the size of the map it paints.
package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// maxTracked is the client count above which expired windows are pruned.
const maxTracked = 1024

// RateLimiter tracks how many tiles each client generated in the current
// window.
type RateLimiter struct {
	mu     sync.Mutex
	spent  map[string]*usage
	budget int           // tiles per window
	window time.Duration // window length
	now    func() time.Time
}

type usage struct {
	tiles   int
	started time.Time
}

// NewRateLimiter allows each client budget tiles of generation per window.
func NewRateLimiter(budget int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		spent:  make(map[string]*usage),
		budget: budget,
		window: window,
		now:    time.Now,
	}
}

// Take charges cost tiles to key. It returns false, charging nothing, when
// the charge would overrun the budget. A cost larger than the whole budget
// is still allowed once per fresh window so big maps stay reachable.
func (rl *RateLimiter) Take(key string, cost int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if len(rl.spent) > maxTracked {
		rl.prune(now)
	}
	u, ok := rl.spent[key]
	if !ok || now.Sub(u.started) >= rl.window {
		rl.spent[key] = &usage{tiles: cost, started: now}
		return true
	}
	if u.tiles+cost > rl.budget {
		return false
	}
	u.tiles += cost
	return true
}

// RetryAfter returns how many seconds until key's window resets.
func (rl *RateLimiter) RetryAfter(key string) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	u, ok := rl.spent[key]
	if !ok {
		return 0
	}
	remaining := rl.window - rl.now().Sub(u.started)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

func (rl *RateLimiter) prune(now time.Time) {
	for key, u := range rl.spent {
		if now.Sub(u.started) >= rl.window {
			delete(rl.spent, key)
		}
	}
}

// Charge wraps a generation handler, charging cost tiles per request to the
// client's budget. Returns 429 once the budget is spent.
func (rl *RateLimiter) Charge(cost int, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		if !rl.Take(ip, cost) {
			w.Header().Set("Retry-After", strconv.Itoa(rl.RetryAfter(ip)))
			http.Error(w, "generation budget exceeded", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// clientIP prefers the first X-Forwarded-For hop, then the remote address
// without its port.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
