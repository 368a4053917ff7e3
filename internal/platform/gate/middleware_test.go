package gate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrefer/medrefer/internal/domain/account"
	"github.com/medrefer/medrefer/internal/platform/token"
)

type mockProvider struct {
	store map[uuid.UUID]*account.Account
}

func (m *mockProvider) Get(_ context.Context, id uuid.UUID) (*account.Account, error) {
	a, ok := m.store[id]
	if !ok {
		return nil, account.ErrNotFound
	}
	return a, nil
}

// serve runs a request through the token middleware and the gate, the same
// chain the server mounts.
func serve(t *testing.T, acct *account.Account, bearer bool) *httptest.ResponseRecorder {
	t.Helper()

	issuer := token.NewIssuer([]byte("0123456789abcdef0123456789abcdef"), "medrefer", time.Hour)
	provider := &mockProvider{store: make(map[uuid.UUID]*account.Account)}
	if acct != nil {
		if acct.ID == uuid.Nil {
			acct.ID = uuid.New()
		}
		provider.store[acct.ID] = acct
	}

	table := NewTable().Restrict("/admin", account.RoleSuperAdmin)
	g := New(table, "/login", "/dashboard")

	e := echo.New()
	e.GET("/admin", func(c echo.Context) error {
		if account.Current(c) == nil {
			t.Error("handler must see the gated account")
		}
		return c.String(http.StatusOK, "ok")
	}, token.Middleware(issuer), g.Middleware(provider))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	if bearer && acct != nil {
		tok, err := issuer.Issue(acct.ID, string(acct.Role))
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestMiddleware_NoTokenRejected(t *testing.T) {
	rec := serve(t, nil, false)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestMiddleware_InactiveAccountRedirectsToLogin(t *testing.T) {
	acct := &account.Account{Role: account.RoleSuperAdmin, ApprovalStatus: account.StatusApproved, Active: false}
	rec := serve(t, acct, true)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Errorf("location = %q, want /login", loc)
	}
}

func TestMiddleware_PendingGetsBlockingStatus(t *testing.T) {
	acct := &account.Account{Role: account.RoleDoctor, ApprovalStatus: account.StatusPending, Active: true}
	rec := serve(t, acct, true)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "pending") {
		t.Errorf("body should carry the classification, got %s", rec.Body.String())
	}
}

func TestMiddleware_RoleDeniedRedirectsToDefault(t *testing.T) {
	acct := &account.Account{Role: account.RolePatient, ApprovalStatus: account.StatusApproved, Active: true}
	rec := serve(t, acct, true)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("role denial must land on the default route, got %q", loc)
	}
}

func TestMiddleware_AuthorizedPassesThrough(t *testing.T) {
	acct := &account.Account{Role: account.RoleSuperAdmin, ApprovalStatus: account.StatusApproved, Active: true}
	rec := serve(t, acct, true)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
