// Package rate es el límite de requests que protege login, register,
// invite y la superficie pública de reservas. El algoritmo es de ventana
// fija alineada al reloj (Truncate), así todas las réplicas del API cuentan
// contra la misma key.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Result es el estado de la ventana después de contar el hit. WindowTTL
// alimenta los headers X-RateLimit-* y RetryAfter el Retry-After del 429.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

// Limiter cuenta un hit contra una key (IP+ruta en el API) y decide si pasa.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter cuenta en redis con INCR + EXPIRE, compartido entre
// réplicas. Es la variante de producción.
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
	Max    int64
	Window time.Duration
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{Client: client, Prefix: prefix, Max: int64(max), Window: window}
}

// windowKey incluye el inicio de la ventana: al rotar, los hits arrancan de
// cero en una key nueva y la anterior expira sola.
func (l *RedisLimiter) windowKey(key string, start time.Time) string {
	return fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), start.Unix())
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	winStart := time.Now().UTC().Truncate(l.Window)
	k := l.windowKey(key, winStart)

	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	ttl := pipe.TTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}
	if incr.Val() == 1 {
		// primer hit de la ventana: fijar la expiración
		_ = l.Client.Expire(ctx, k, l.Window).Err()
		ttl = l.Client.TTL(ctx, k)
	}
	return l.verdict(incr.Val(), ttl.Val()), nil
}

func (l *RedisLimiter) verdict(hits int64, ttl time.Duration) Result {
	res := Result{
		Allowed:     hits <= l.Max,
		Remaining:   max(l.Max-hits, 0),
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter < 0 {
			// TTL negativo: redis todavía no tiene expiración para la key
			res.RetryAfter = l.Window.Round(time.Second)
		}
	}
	return res
}
