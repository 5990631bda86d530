// Package ratelimit provides per-client request throttling. Generation
// endpoints are expensive model calls and get much stricter limits than
// the CRUD surface.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Info describes the limit state for a request, for response headers.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

type clientLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// Limiter throttles requests per client and endpoint class.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	config  *Config

	cleanupTicker *time.Ticker
	cleanupStop   chan struct{}
}

// NewLimiter creates a limiter with the given configuration. Pass the
// result of LoadConfig for environment-driven settings.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = defaultConfig()
	}

	l := &Limiter{
		clients: make(map[string]*clientLimiter),
		config:  config,
	}

	if config.Enabled && config.CleanupInterval > 0 {
		l.cleanupTicker = time.NewTicker(config.CleanupInterval)
		l.cleanupStop = make(chan struct{})
		go l.cleanupLoop()
	}

	return l
}

// Allow reports whether a request from clientID to the given endpoint may
// proceed, consuming one token if so.
func (l *Limiter) Allow(clientID, endpoint, method string) (bool, Info) {
	if !l.config.Enabled || l.config.Whitelist[clientID] {
		return true, Info{Allowed: true}
	}
	if l.config.Blacklist[clientID] {
		return false, Info{Allowed: false}
	}

	ec := MatchEndpoint(endpoint, method, l.config.EndpointConfigs)
	if ec == nil {
		ec = &EndpointConfig{
			Limit:  l.config.DefaultLimit,
			Window: l.config.DefaultWindow,
			Burst:  l.config.DefaultLimit,
		}
	}
	if ec.Limit <= 0 {
		// Unlimited endpoint, e.g. health checks.
		return true, Info{Allowed: true}
	}

	key := clientID + ":" + ec.Path + ":" + method
	limiter := l.getLimiter(key, ec)

	allowed := limiter.Allow()
	tokens := limiter.Tokens()
	if tokens < 0 {
		tokens = 0
	}

	info := Info{
		Allowed:   allowed,
		Limit:     ec.Limit,
		Remaining: int(tokens),
		ResetTime: time.Now().Add(timeToFull(limiter, ec)),
	}
	if !allowed {
		// Time until one token is available again. The reservation is
		// cancelled so it does not consume future tokens.
		r := limiter.Reserve()
		info.RetryAfter = r.Delay()
		r.Cancel()
	}
	return allowed, info
}

func (l *Limiter) getLimiter(key string, ec *EndpointConfig) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cl, ok := l.clients[key]; ok {
		cl.lastAccess = time.Now()
		return cl.limiter
	}

	burst := ec.Burst
	if burst <= 0 {
		burst = ec.Limit
	}
	limit := rate.Limit(float64(ec.Limit) / ec.Window.Seconds())
	cl := &clientLimiter{
		limiter:    rate.NewLimiter(limit, burst),
		lastAccess: time.Now(),
	}
	l.clients[key] = cl
	return cl.limiter
}

func timeToFull(limiter *rate.Limiter, ec *EndpointConfig) time.Duration {
	burst := float64(ec.Burst)
	if burst <= 0 {
		burst = float64(ec.Limit)
	}
	missing := burst - limiter.Tokens()
	if missing <= 0 {
		return 0
	}
	return time.Duration(missing / float64(limiter.Limit()) * float64(time.Second))
}

func (l *Limiter) cleanupLoop() {
	for {
		select {
		case <-l.cleanupTicker.C:
			l.removeStale()
		case <-l.cleanupStop:
			return
		}
	}
}

// removeStale drops limiters idle for over an hour so the map cannot grow
// without bound.
func (l *Limiter) removeStale() {
	cutoff := time.Now().Add(-1 * time.Hour)

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, cl := range l.clients {
		if cl.lastAccess.Before(cutoff) {
			delete(l.clients, key)
		}
	}
}

// Stop terminates the cleanup goroutine.
func (l *Limiter) Stop() {
	if l.cleanupTicker != nil {
		l.cleanupTicker.Stop()
	}
	if l.cleanupStop != nil {
		close(l.cleanupStop)
	}
}
