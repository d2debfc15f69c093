package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func echoRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	handler := func(c *gin.Context) {
		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too large")
			return
		}
		c.String(http.StatusOK, string(body))
	}
	r.POST("/echo", handler)
	r.GET("/echo", handler)
	return r
}

func do(r http.Handler, method, body string) *httptest.ResponseRecorder {
	return doFrom(r, "10.0.0.1:1234", method, body)
}

func doFrom(r http.Handler, remoteAddr, method, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/echo", strings.NewReader(body))
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimiterAllow(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	if !rl.Allow("a") || !rl.Allow("a") {
		t.Fatal("first two requests should pass")
	}
	if rl.Allow("a") {
		t.Fatal("third request should be limited")
	}
	if !rl.Allow("b") {
		t.Fatal("other clients have their own bucket")
	}

	now = now.Add(40 * time.Second)
	if !rl.Allow("a") {
		t.Fatal("two thirds of a window should refill one token")
	}
	if rl.Allow("a") {
		t.Fatal("only one token should have been refilled")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := echoRouter(RateLimit(1, time.Minute))

	if w := do(r, http.MethodGet, ""); w.Code != http.StatusOK {
		t.Fatalf("first request = %d", w.Code)
	}
	w := do(r, http.MethodGet, "")
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second request = %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", w.Header().Get("Retry-After"))
	}
}

func TestDeduplication(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	d := NewDeduplicator(time.Second)
	d.now = func() time.Time { return now }
	r := echoRouter(deduplicationWith(d))

	w := do(r, http.MethodPost, `{"age":30}`)
	if w.Code != http.StatusOK || w.Body.String() != `{"age":30}` {
		t.Fatalf("first post = %d %q", w.Code, w.Body.String())
	}
	if w := do(r, http.MethodPost, `{"age":30}`); w.Code != http.StatusTooManyRequests {
		t.Fatalf("duplicate post = %d", w.Code)
	}
	if w := do(r, http.MethodPost, `{"age":31}`); w.Code != http.StatusOK {
		t.Fatalf("different body = %d", w.Code)
	}
	if w := do(r, http.MethodGet, ""); w.Code != http.StatusOK {
		t.Fatalf("get = %d", w.Code)
	}
	if w := do(r, http.MethodGet, ""); w.Code != http.StatusOK {
		t.Fatalf("repeated get should not be deduplicated, got %d", w.Code)
	}

	now = now.Add(2 * time.Second)
	if w := do(r, http.MethodPost, `{"age":30}`); w.Code != http.StatusOK {
		t.Fatalf("post after window = %d", w.Code)
	}
}

func TestDeduplicationPerClient(t *testing.T) {
	d := NewDeduplicator(time.Second)
	r := echoRouter(deduplicationWith(d))

	if w := doFrom(r, "10.0.0.1:1234", http.MethodPost, `{"age":30}`); w.Code != http.StatusOK {
		t.Fatalf("first client = %d", w.Code)
	}
	if w := doFrom(r, "10.0.0.2:1234", http.MethodPost, `{"age":30}`); w.Code != http.StatusOK {
		t.Fatalf("second client with same body = %d", w.Code)
	}
	if w := doFrom(r, "10.0.0.2:5678", http.MethodPost, `{"age":30}`); w.Code != http.StatusTooManyRequests {
		t.Fatalf("second client repeat = %d", w.Code)
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := echoRouter(BodySizeLimit(8))

	if w := do(r, http.MethodPost, "small"); w.Code != http.StatusOK {
		t.Fatalf("small body = %d", w.Code)
	}
	if w := do(r, http.MethodPost, "this body is too large"); w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("large body = %d", w.Code)
	}
}

func TestRequestContextTimeout(t *testing.T) {
	r := gin.New()
	r.Use(RequestContext(10 * time.Millisecond))
	r.GET("/slow", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})

	req := httptest.NewRequest(http.MethodGet, "/slow", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusGatewayTimeout {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
}
