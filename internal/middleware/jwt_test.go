package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const secret = "s3cret"

func sign(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func serve(mw []echo.MiddlewareFunc, h echo.HandlerFunc, authHeader string) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	_ = h(c)
	return rec
}

func TestHostAuthStoresSession(t *testing.T) {
	tok := sign(t, jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "manager-9",
		"role": "SPONSOR_MANAGER",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	var gotID, gotTok string
	rec := serve([]echo.MiddlewareFunc{HostAuth(secret)}, func(c echo.Context) error {
		var err error
		gotID, gotTok, err = HostSession(c)
		if err != nil {
			t.Errorf("HostSession: %v", err)
		}
		if currentManagerID(c) != "manager-9" {
			t.Errorf("currentManagerID = %q", currentManagerID(c))
		}
		return c.NoContent(http.StatusNoContent)
	}, "Bearer "+tok)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}
	if gotID != "manager-9" || gotTok != tok {
		t.Fatalf("session = %q %q", gotID, gotTok)
	}
}

func TestHostAuthRejects(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	cases := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc",
		"garbage":        "Bearer abc.def.ghi",
		"wrong alg":      "Bearer " + sign(t, jwt.SigningMethodHS384, jwt.MapClaims{"sub": "m", "exp": exp}),
		"expired":        "Bearer " + sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "m", "exp": time.Now().Add(-time.Minute).Unix()}),
		"no subject":     "Bearer " + sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"role": "SPONSOR_MANAGER", "exp": exp}),
	}
	for name, header := range cases {
		rec := serve([]echo.MiddlewareFunc{HostAuth(secret)}, func(c echo.Context) error {
			t.Errorf("%s: handler reached", name)
			return nil
		}, header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d", name, rec.Code)
		}
	}
}

func TestHostAuthRejectsOtherSecret(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "m"}).SignedString([]byte("other"))
	if err != nil {
		t.Fatal(err)
	}
	rec := serve([]echo.MiddlewareFunc{HostAuth(secret)}, func(c echo.Context) error { return nil }, "Bearer "+tok)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestHostSessionWithoutAuth(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	if _, _, err := HostSession(c); err == nil {
		t.Fatal("expected an error")
	}
	if currentManagerID(c) != "anon" {
		t.Fatalf("currentManagerID = %q", currentManagerID(c))
	}
}

func TestRequireRole(t *testing.T) {
	exp := time.Now().Add(time.Hour).Unix()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }
	mw := []echo.MiddlewareFunc{HostAuth(secret), RequireRole("SPONSOR_MANAGER")}

	manager := sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "m", "role": "SPONSOR_MANAGER", "exp": exp})
	if rec := serve(mw, ok, "Bearer "+manager); rec.Code != http.StatusNoContent {
		t.Fatalf("manager: %d", rec.Code)
	}
	guest := sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "m", "role": "GUEST", "exp": exp})
	if rec := serve(mw, ok, "Bearer "+guest); rec.Code != http.StatusForbidden {
		t.Fatalf("guest: %d", rec.Code)
	}
	noRole := sign(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "m", "exp": exp})
	if rec := serve(mw, ok, "Bearer "+noRole); rec.Code != http.StatusForbidden {
		t.Fatalf("no role: %d", rec.Code)
	}
}
