package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/techone/pos-api/internal/core/domain"
)

type stubVerifier struct {
	subject string
	scopes  []string
	err     error
}

func (v stubVerifier) VerifyAccessToken(string) (string, []string, error) {
	return v.subject, v.scopes, v.err
}

func invoke(t *testing.T, mw echo.MiddlewareFunc, header string, next echo.HandlerFunc) error {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	if header != "" {
		req.Header.Set(echo.HeaderAuthorization, header)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	return mw(next)(c)
}

func okHandler(echo.Context) error { return nil }

func TestAuth_MissingOrMalformedHeader(t *testing.T) {
	mw := Auth(stubVerifier{subject: "clerk01"})

	cases := []struct {
		name   string
		header string
	}{
		{"missing", ""},
		{"no scheme", "sometoken"},
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := invoke(t, mw, tc.header, okHandler)
			if !errors.Is(err, domain.ErrUnauthenticated) {
				t.Fatalf("err = %v, want ErrUnauthenticated", err)
			}
		})
	}
}

func TestAuth_ExpiredTokenKeepsDistinctError(t *testing.T) {
	mw := Auth(stubVerifier{err: domain.ErrTokenExpired})
	err := invoke(t, mw, "Bearer stale", okHandler)
	if !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("err = %v, want ErrTokenExpired", err)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	mw := Auth(stubVerifier{err: domain.ErrTokenInvalid})
	err := invoke(t, mw, "Bearer forged", okHandler)
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestAuth_InjectsSubjectAndScopes(t *testing.T) {
	mw := Auth(stubVerifier{subject: "clerk01", scopes: []string{"items:read"}})

	called := false
	next := func(c echo.Context) error {
		called = true
		if got := c.Get(CtxSubject); got != "clerk01" {
			t.Errorf("subject in context = %v, want clerk01", got)
		}
		scopes, _ := c.Get(CtxScopes).([]string)
		if len(scopes) != 1 || scopes[0] != "items:read" {
			t.Errorf("scopes in context = %v, want [items:read]", scopes)
		}
		return nil
	}

	if err := invoke(t, mw, "Bearer good", next); err != nil {
		t.Fatalf("middleware err = %v", err)
	}
	if !called {
		t.Fatal("next handler was not called")
	}
}

func TestAuth_SchemeIsCaseInsensitive(t *testing.T) {
	mw := Auth(stubVerifier{subject: "clerk01"})
	if err := invoke(t, mw, "bearer good", okHandler); err != nil {
		t.Fatalf("lowercase scheme rejected: %v", err)
	}
}
