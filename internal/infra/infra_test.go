package infra

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := NewCache(1 * time.Second)

	c.Set("key1", "value1")
	v, ok := c.Get("key1")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if v != "value1" {
		t.Fatalf("got %v, want value1", v)
	}
}

func TestCacheMiss(t *testing.T) {
	c := NewCache(1 * time.Second)
	_, ok := c.Get("nonexistent")
	if ok {
		t.Fatal("expected cache miss for nonexistent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c := NewCache(1 * time.Millisecond)
	c.Set("key", "val")

	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("key")
	if ok {
		t.Fatal("expected cache miss after TTL expiry")
	}
}

func TestCacheSetWithTTL(t *testing.T) {
	c := NewCache(1 * time.Hour) // default long TTL.
	c.SetWithTTL("quick", "val", 1*time.Millisecond)

	time.Sleep(5 * time.Millisecond)
	_, ok := c.Get("quick")
	if ok {
		t.Fatal("expected cache miss after custom TTL expiry")
	}
}

func TestCacheInvalidate(t *testing.T) {
	c := NewCache(1 * time.Hour)
	c.Set("key", "val")
	c.Invalidate("key")
	_, ok := c.Get("key")
	if ok {
		t.Fatal("expected cache miss after invalidation")
	}
}

func TestCacheFlush(t *testing.T) {
	c := NewCache(1 * time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Flush()
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected cache miss after flush")
	}
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected cache miss after flush")
	}
}

func TestRateLimiterAllowsBurst(t *testing.T) {
	rl := NewRateLimiter(3, time.Second)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx); err != nil {
			t.Fatalf("Wait %d: %v", i, err)
		}
	}
}

func TestRateLimiterContextCancel(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	// Drain the only token.
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	cancel()
	if err := rl.Wait(ctx); err == nil {
		t.Fatal("expected context cancellation error")
	}
}

func TestDoGetSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != DefaultUserAgent {
			t.Errorf("unexpected User-Agent: %s", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("Referer") != "http://quote.example.com/" {
			t.Errorf("custom header not applied: %s", r.Header.Get("Referer"))
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	body, status, err := DoGet(context.Background(), srv.URL, map[string]string{
		"Referer": "http://quote.example.com/",
	})
	if err != nil {
		t.Fatalf("DoGet: %v", err)
	}
	defer body.Close()

	if status != http.StatusOK {
		t.Errorf("status = %d, want 200", status)
	}
	data, _ := io.ReadAll(body)
	if string(data) != `{"ok":true}` {
		t.Errorf("body = %s", data)
	}
}

func TestDoGetHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, status, err := DoGet(context.Background(), srv.URL, nil)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if status != http.StatusNotFound {
		t.Errorf("status = %d, want 404", status)
	}
	httpErr, ok := err.(*ErrHTTP)
	if !ok {
		t.Fatalf("expected *ErrHTTP, got %T", err)
	}
	if httpErr.StatusCode != http.StatusNotFound {
		t.Errorf("ErrHTTP.StatusCode = %d", httpErr.StatusCode)
	}
}
