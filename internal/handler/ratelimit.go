package handler

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter хранит лимитер клиента и время последнего обращения
type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// ClientRateLimiter ограничивает частоту запросов для каждого клиентского IP.
type ClientRateLimiter struct {
	limit           rate.Limit
	burst           int
	cleanupInterval time.Duration
	logger          *slog.Logger

	mu      sync.Mutex
	clients map[string]*clientLimiter

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewClientRateLimiter создаёт лимитер и запускает фоновую очистку неактивных клиентов.
func NewClientRateLimiter(rps float64, burst int, cleanupInterval time.Duration, logger *slog.Logger) *ClientRateLimiter {
	rl := &ClientRateLimiter{
		limit:           rate.Limit(rps),
		burst:           burst,
		cleanupInterval: cleanupInterval,
		logger:          logger,
		clients:         make(map[string]*clientLimiter),
		stopCh:          make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

// Stop останавливает фоновую очистку.
func (rl *ClientRateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopCh) })
}

// Middleware отвечает 429, если клиент превысил лимит.
func (rl *ClientRateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			client := clientKey(r)
			if !rl.limiterFor(client).Allow() {
				rl.logger.Warn("rate limit exceeded", "client", client, "path", r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rl.limit)))
				respondWithError(w, http.StatusTooManyRequests, "Too many requests", rl.logger)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientCount возвращает число отслеживаемых клиентов.
func (rl *ClientRateLimiter) ClientCount() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *ClientRateLimiter) limiterFor(client string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if cl, ok := rl.clients[client]; ok {
		cl.lastAccess = now
		return cl.limiter
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.clients[client] = &clientLimiter{limiter: limiter, lastAccess: now}
	return limiter
}

func (rl *ClientRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup(time.Now())
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup удаляет клиентов, не обращавшихся дольше двух интервалов очистки
func (rl *ClientRateLimiter) cleanup(now time.Time) {
	ttl := 2 * rl.cleanupInterval

	rl.mu.Lock()
	defer rl.mu.Unlock()
	for client, cl := range rl.clients {
		if now.Sub(cl.lastAccess) > ttl {
			delete(rl.clients, client)
		}
	}
}

// clientKey - IP клиента; RemoteAddr уже исправлен middleware.RealIP
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfterSeconds(limit rate.Limit) int {
	if limit <= 0 {
		return 1
	}
	seconds := int(math.Ceil(1.0 / float64(limit)))
	if seconds < 1 {
		seconds = 1
	}
	return seconds
}
