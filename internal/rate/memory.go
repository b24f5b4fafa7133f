package rate

import (
	"context"
	"sync"
	"time"
)

// MemoryLimiter es la ventana fija in-process, sin coordinación entre
// réplicas. Sólo para dev y single-node.
type MemoryLimiter struct {
	Max    int64
	Window time.Duration

	mu        sync.Mutex
	hits      map[string]*windowCount
	lastSweep time.Time
}

type windowCount struct {
	start time.Time
	n     int64
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	return &MemoryLimiter{
		Max:    int64(max),
		Window: window,
		hits:   make(map[string]*windowCount),
	}
}

func (l *MemoryLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.Window)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now, winStart)

	wc, ok := l.hits[key]
	if !ok || wc.start.Before(winStart) {
		wc = &windowCount{start: winStart}
		l.hits[key] = wc
	}
	wc.n++

	res := Result{
		Allowed:     wc.n <= l.Max,
		Remaining:   max(l.Max-wc.n, 0),
		CurrentHits: wc.n,
		WindowTTL:   winStart.Add(l.Window).Sub(now),
	}
	if !res.Allowed {
		res.RetryAfter = res.WindowTTL
	}
	return res, nil
}

// sweep purga las keys con ventana vencida. Las keys son IP+ruta, así que
// sin esto el mapa crece con cada cliente nuevo que pasa por el limiter.
// Se ejecuta a lo sumo una vez por ventana; el caller tiene el lock.
func (l *MemoryLimiter) sweep(now, winStart time.Time) {
	if now.Sub(l.lastSweep) < l.Window {
		return
	}
	l.lastSweep = now
	for k, wc := range l.hits {
		if wc.start.Before(winStart) {
			delete(l.hits, k)
		}
	}
}
