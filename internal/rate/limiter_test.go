package rate

import (
	"context"
	"testing"
	"time"
)

func TestMemoryLimiter_FixedWindow(t *testing.T) {
	l := NewMemoryLimiter("t:", 3, time.Hour)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		res, err := l.Allow(ctx, "1.2.3.4")
		if err != nil {
			t.Fatalf("Allow: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("hit %d debería estar permitido", i)
		}
		if res.CurrentHits != int64(i) {
			t.Fatalf("hits = %d, want %d", res.CurrentHits, i)
		}
	}

	res, err := l.Allow(ctx, "1.2.3.4")
	if err != nil {
		t.Fatalf("Allow: %v", err)
	}
	if res.Allowed {
		t.Fatal("el cuarto hit debe rechazarse")
	}
	if res.Remaining != 0 {
		t.Fatalf("remaining = %d", res.Remaining)
	}
	if res.RetryAfter <= 0 {
		t.Fatal("RetryAfter debe ser positivo cuando se rechaza")
	}
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter("t:", 1, time.Hour)
	ctx := context.Background()

	if res, _ := l.Allow(ctx, "a"); !res.Allowed {
		t.Fatal("primer hit de 'a' permitido")
	}
	if res, _ := l.Allow(ctx, "a"); res.Allowed {
		t.Fatal("segundo hit de 'a' rechazado")
	}
	if res, _ := l.Allow(ctx, "b"); !res.Allowed {
		t.Fatal("'b' no comparte ventana con 'a'")
	}
}
