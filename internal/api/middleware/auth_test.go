package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/todoapp/todo-api/internal/pkg/token"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

func newVerifier() *token.Manager {
	return token.NewManager(token.Config{Key: testKey, Issuer: "todo-api", Audience: "todo-clients"})
}

func runAuth(t *testing.T, header string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := Auth(newVerifier())(next)(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func mustNotReach(t *testing.T) echo.HandlerFunc {
	return func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	signed, _, err := newVerifier().Issue("acc-1", "alice")
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	called := false
	rec := runAuth(t, "Bearer "+signed, func(c echo.Context) error {
		called = true
		claims, ok := CallerClaims(c)
		if !ok {
			t.Fatalf("claims not set")
		}
		if claims.Subject != "acc-1" || claims.Name != "alice" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_LowercaseScheme(t *testing.T) {
	signed, _, _ := newVerifier().Issue("acc-1", "alice")

	rec := runAuth(t, "bearer "+signed, func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	wrongKey, _, _ := token.NewManager(token.Config{
		Key:      []byte("ffffffffffffffffffffffffffffffff"),
		Issuer:   "todo-api",
		Audience: "todo-clients",
	}).Issue("acc-1", "alice")

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		Name: "alice",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "acc-1",
			Issuer:    "todo-api",
			Audience:  jwt.ClaimStrings{"todo-clients"},
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
		},
	}).SignedString(testKey)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	cases := map[string]string{
		"missing header": "",
		"wrong scheme":   "Token abc",
		"empty token":    "Bearer ",
		"garbage token":  "Bearer not-a-token",
		"wrong key":      "Bearer " + wrongKey,
		"expired token":  "Bearer " + expired,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			rec := runAuth(t, header, mustNotReach(t))
			if rec.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestCallerClaims_Absent(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	if _, ok := CallerClaims(c); ok {
		t.Fatalf("expected no claims")
	}
}
