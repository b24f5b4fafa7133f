package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	rdb "github.com/redis/go-redis/v9"
)

func TestMemoryLimiter_Window(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "ip:1.2.3.4")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}

	res, err := l.Allow(ctx, "ip:1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("4th hit should be blocked")
	}
	if res.RetryAfter <= 0 {
		t.Fatalf("expected positive RetryAfter, got %v", res.RetryAfter)
	}

	// otra key no comparte ventana
	res, err = l.Allow(ctx, "ip:5.6.7.8")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Allowed {
		t.Fatal("different key should be allowed")
	}
}

func TestMemoryLimiter_SweepsExpiredWindows(t *testing.T) {
	l := NewMemoryLimiter(3, 10*time.Millisecond)
	ctx := context.Background()

	for _, key := range []string{"ip:1.2.3.4", "ip:5.6.7.8"} {
		if _, err := l.Allow(ctx, key); err != nil {
			t.Fatal(err)
		}
	}

	// pasada la ventana, las keys viejas no pueden quedar en el mapa
	time.Sleep(25 * time.Millisecond)
	if _, err := l.Allow(ctx, "ip:9.9.9.9"); err != nil {
		t.Fatal(err)
	}

	l.mu.Lock()
	n := len(l.hits)
	l.mu.Unlock()
	if n != 1 {
		t.Fatalf("expected stale windows swept, map has %d entries", n)
	}
}

func TestRedisLimiter_Window(t *testing.T) {
	mr := miniredis.RunT(t)
	client := rdb.NewClient(&rdb.Options{Addr: mr.Addr()})
	defer client.Close()

	l := NewRedisLimiter(client, "rl:", 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "login:1.2.3.4")
		if err != nil {
			t.Fatal(err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d should be allowed", i+1)
		}
	}

	res, err := l.Allow(ctx, "login:1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if res.Allowed {
		t.Fatal("3rd hit should be blocked")
	}
	if res.CurrentHits != 3 {
		t.Fatalf("expected 3 hits, got %d", res.CurrentHits)
	}

	// pasada la ventana se libera
	mr.FastForward(2 * time.Minute)
	res, err = l.Allow(ctx, "login:1.2.3.4")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Allowed {
		t.Fatal("expected allow after window expiry")
	}
}

func TestRedisLimiter_DefaultPrefix(t *testing.T) {
	l := NewRedisLimiter(nil, "", 1, time.Minute)
	if l.Prefix != "rl:" {
		t.Fatalf("expected default prefix, got %q", l.Prefix)
	}
}
