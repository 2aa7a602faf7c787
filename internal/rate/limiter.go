// Package rate implementa un rate limiter fixed-window en memoria.
// Proceso único: no hace falta un backend compartido.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// MemoryLimiter: fixed window sencillo sobre go-cache (contador por ventana).
type MemoryLimiter struct {
	c      *gocache.Cache
	Prefix string
	Max    int64
	Window time.Duration
}

func NewMemoryLimiter(prefix string, max int, window time.Duration) *MemoryLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &MemoryLimiter{
		c:      gocache.New(window, 2*window),
		Prefix: prefix,
		Max:    int64(max),
		Window: window,
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)
	cacheKey := fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	// Add es no-op si la clave ya existe en la ventana.
	_ = l.c.Add(cacheKey, int64(0), l.Window)
	hits, err := l.c.IncrementInt64(cacheKey, 1)
	if err != nil {
		// La clave expiró entre Add e Increment: ventana nueva, primer hit.
		l.c.Set(cacheKey, int64(1), l.Window)
		hits = 1
	}

	allowed := hits <= l.Max
	remaining := l.Max - hits
	if remaining < 0 {
		remaining = 0
	}

	res := Result{
		Allowed:     allowed,
		Remaining:   remaining,
		CurrentHits: hits,
	}
	if !allowed {
		// Retry after: resto de la ventana
		res.RetryAfter = winStart.Add(l.Window).Sub(now)
		if res.RetryAfter < 0 {
			res.RetryAfter = 0
		}
	}
	return res, nil
}
