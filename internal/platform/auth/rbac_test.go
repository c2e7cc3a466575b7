package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func contextWithRoles(roles ...string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := context.WithValue(req.Context(), UserRolesKey, roles)
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestRequireRole_Allows(t *testing.T) {
	c := contextWithRoles("secretary")
	mw := RequireRole("doctor", "secretary")
	called := false
	err := mw(func(c echo.Context) error { called = true; return nil })(c)
	if err != nil || !called {
		t.Errorf("expected secretary to pass, got err=%v called=%v", err, called)
	}
}

func TestRequireRole_Denies(t *testing.T) {
	c := contextWithRoles("secretary")
	mw := RequireRole("doctor")
	err := mw(func(c echo.Context) error { return nil })(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %v", err)
	}
}

func TestRequireRole_AdminBypass(t *testing.T) {
	c := contextWithRoles("admin")
	mw := RequireRole("doctor")
	if err := mw(func(c echo.Context) error { return nil })(c); err != nil {
		t.Errorf("expected admin to pass any gate, got %v", err)
	}
}

func TestRequireRole_NoRoles(t *testing.T) {
	c := contextWithRoles()
	mw := RequireRole("doctor")
	if err := mw(func(c echo.Context) error { return nil })(c); err == nil {
		t.Error("expected error for request with no roles")
	}
}
