package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/sponsor-pass-manager/internal/config"
)

func rateContext(manager string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/panel/passes", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/panel/passes")
	if manager != "" {
		c.Set(ctxManagerID, manager)
	}
	return c
}

func TestBuildRateKey(t *testing.T) {
	cases := map[string]string{
		"":                 "rl:manager:m1:route:POST /v1/panel/passes",
		"manager_route":    "rl:manager:m1:route:POST /v1/panel/passes",
		"manager":          "rl:manager:m1",
		"user":             "rl:manager:m1",
		"ip":               "rl:ip:10.0.0.7",
		"route":            "rl:route:POST /v1/panel/passes",
		"ip_route":         "rl:ip:10.0.0.7:route:POST /v1/panel/passes",
		"IP_MANAGER_ROUTE": "rl:ip:10.0.0.7:manager:m1:route:POST /v1/panel/passes",
	}
	for strategy, want := range cases {
		cfg := config.RateLimitConfig{KeyStrategy: strategy, Prefix: "rl"}
		if got := buildRateKey(cfg, rateContext("m1")); got != want {
			t.Errorf("%q: key = %q, want %q", strategy, got, want)
		}
	}

	cfg := config.RateLimitConfig{KeyStrategy: "manager", Prefix: "rl"}
	if got := buildRateKey(cfg, rateContext("")); got != "rl:manager:anon" {
		t.Errorf("anonymous key = %q", got)
	}
}

func TestParseVerdict(t *testing.T) {
	v, ok := parseVerdict([]interface{}{int64(1), int64(4), int64(0)})
	if !ok || !v.allowed || v.remaining != 4 {
		t.Fatalf("verdict = %+v, %v", v, ok)
	}
	v, ok = parseVerdict([]interface{}{int64(0), "0", float64(1500)})
	if !ok || v.allowed || v.retryMs != 1500 {
		t.Fatalf("verdict = %+v, %v", v, ok)
	}
	if _, ok := parseVerdict("nope"); ok {
		t.Fatal("accepted a non-array")
	}
	if _, ok := parseVerdict([]interface{}{int64(1)}); ok {
		t.Fatal("accepted a short array")
	}
}

func TestTokenBucketWithoutRedisPassesThrough(t *testing.T) {
	mw := NewTokenBucket(config.RateLimitConfig{Enabled: true, Capacity: 1}, nil)
	c := rateContext("m1")
	for i := 0; i < 3; i++ {
		called := false
		if err := mw(func(echo.Context) error { called = true; return nil })(c); err != nil || !called {
			t.Fatalf("request %d: called=%v err=%v", i, called, err)
		}
	}
}
