package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sponsor-pass-manager/internal/config"
)

func cacheContext(target string) echo.Context {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, target, nil), httptest.NewRecorder())
	c.SetPath("/v1/partnerships/sponsors")
	return c
}

func TestCacheKeyStrategies(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}
	a := cacheKeyFrom(cfg, cacheContext("/v1/partnerships/sponsors?x=1"))
	b := cacheKeyFrom(cfg, cacheContext("/v1/partnerships/sponsors?x=2"))
	if a == b {
		t.Fatal("default strategy ignores the query")
	}
	if !strings.HasPrefix(a, "cache:") {
		t.Fatalf("key = %q", a)
	}

	cfg.KeyStrategy = "route"
	if cacheKeyFrom(cfg, cacheContext("/v1/partnerships/sponsors?x=1")) != cacheKeyFrom(cfg, cacheContext("/v1/partnerships/sponsors?x=2")) {
		t.Fatal("route strategy depends on the query")
	}
}

func TestCaptureWriterTruncates(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}
	_, _ = cw.Write([]byte("12345"))
	if cw.truncated || cw.buf.String() != "12345" {
		t.Fatalf("after 5 bytes: truncated=%v buf=%q", cw.truncated, cw.buf.String())
	}
	_, _ = cw.Write([]byte("6789"))
	if !cw.truncated {
		t.Fatal("not truncated past the limit")
	}
	if rec.Body.String() != "123456789" {
		t.Fatalf("client got %q", rec.Body.String())
	}
}

func TestRedisCacheDisabledPassesThrough(t *testing.T) {
	mw := NewRedisCache(config.CacheConfig{Enabled: true, Methods: map[string]bool{"GET": true}}, nil)
	c := cacheContext("/v1/partnerships/sponsors")
	if err := mw(func(c echo.Context) error { return c.String(http.StatusOK, "fresh") })(c); err != nil {
		t.Fatal(err)
	}
	if got := c.Response().Header().Get("X-Cache"); got != "" {
		t.Fatalf("X-Cache = %q", got)
	}
}
