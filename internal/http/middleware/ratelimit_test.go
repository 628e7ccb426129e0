package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func limitedRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	rl := NewRateLimiter(rps, burst, KeyByIP())
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	r := limitedRouter(100, 5)
	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i, w.Code)
		}
	}
}

func TestRateLimiter_RejectsOverBurst(t *testing.T) {
	// Zero refill: only the initial burst is available.
	r := limitedRouter(0, 2)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes = append(codes, w.Code)
		if w.Code == http.StatusTooManyRequests {
			if got := w.Header().Get("Retry-After"); got != "1" {
				t.Errorf("Retry-After = %q", got)
			}
			if !strings.Contains(w.Body.String(), "rate_limited") {
				t.Errorf("body = %s", w.Body.String())
			}
		}
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRateLimiter_BurstCoercedToOne(t *testing.T) {
	rl := NewRateLimiter(1, 0, KeyByIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d, want 1", rl.burst)
	}
}

func TestRateLimiter_SeparateBucketsPerKey(t *testing.T) {
	rl := NewRateLimiter(0, 1, func(c *gin.Context) string { return c.GetHeader("X-Key") })
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(rl.Handler())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	do := func(key string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("X-Key", key)
		r.ServeHTTP(w, req)
		return w.Code
	}

	if do("a") != http.StatusOK {
		t.Fatalf("first request for key a should pass")
	}
	if do("a") != http.StatusTooManyRequests {
		t.Fatalf("second request for key a should be limited")
	}
	if do("b") != http.StatusOK {
		t.Fatalf("key b must have its own bucket")
	}
}
