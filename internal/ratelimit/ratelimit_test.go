package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemory_AllowsBurstThenBlocks(t *testing.T) {
	m := NewMemory(3)
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		ok, err := m.Allow(t.Context(), "1.2.3.4")
		assert.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}

	ok, _ := m.Allow(t.Context(), "1.2.3.4")
	assert.False(t, ok)

	ok, _ = m.Allow(t.Context(), "5.6.7.8")
	assert.True(t, ok, "other keys have their own bucket")

	now = now.Add(20 * time.Second)
	ok, _ = m.Allow(t.Context(), "1.2.3.4")
	assert.True(t, ok, "bucket refills over time")
}

func TestMemory_Cleanup(t *testing.T) {
	m := NewMemory(10)
	now := time.Unix(1000, 0)
	m.now = func() time.Time { return now }

	m.Allow(t.Context(), "old")
	now = now.Add(2 * time.Minute)
	m.Allow(t.Context(), "fresh")
	now = now.Add(2 * time.Minute)

	assert.Equal(t, 1, m.Cleanup())
	_, hasOld := m.visitors["old"]
	_, hasFresh := m.visitors["fresh"]
	assert.False(t, hasOld)
	assert.True(t, hasFresh)
}

type stubLimiter struct {
	ok  bool
	err error
}

func (s stubLimiter) Allow(context.Context, string) (bool, error) { return s.ok, s.err }

func TestMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		limiter  Limiter
		expected int
	}{
		{"allowed", stubLimiter{ok: true}, http.StatusNoContent},
		{"blocked", stubLimiter{ok: false}, http.StatusTooManyRequests},
		{"limiter error fails open", stubLimiter{err: errors.New("redis down")}, http.StatusNoContent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/chat?message=hi", nil)
			rr := httptest.NewRecorder()

			Middleware(tc.limiter)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.expected, rr.Code)
			if tc.expected == http.StatusTooManyRequests {
				assert.JSONEq(t, `{"error":"too many requests"}`, rr.Body.String())
			}
		})
	}
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientKey(req))

	req.RemoteAddr = "10.0.0.2"
	assert.Equal(t, "10.0.0.2", clientKey(req))
}

func TestRedis_WindowKey(t *testing.T) {
	l := NewRedis(nil, 5)
	l.now = func() time.Time { return time.Unix(120, 0) }

	assert.Equal(t, "ratelimit:chat:1.2.3.4:2", l.windowKey("1.2.3.4"))
}
