package account

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrefer/medrefer/internal/platform/token"
)

const contextKey = "current_account"

// Getter loads accounts for middleware. *Service satisfies it.
type Getter interface {
	Get(ctx context.Context, id uuid.UUID) (*Account, error)
}

// Authenticate resolves the bearer token's account and binds it to the
// request. It performs no approval classification: administrators whose own
// account classifies as blocked on navigation (a hospital admin is always
// shown as pending) still have to reach the administration API.
func Authenticate(provider Getter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			id := token.AccountIDFromContext(ctx)
			if id == uuid.Nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no authenticated account")
			}
			acct, err := provider.Get(ctx, id)
			if err != nil || !acct.Active {
				return echo.NewHTTPError(http.StatusUnauthorized, "account no longer usable")
			}

			SetCurrent(c, acct)
			return next(c)
		}
	}
}

// SetCurrent binds the authenticated account to the request for downstream
// handlers. The gate middleware calls this after its checks pass.
func SetCurrent(c echo.Context, acct *Account) {
	c.Set(contextKey, acct)
}

// Current returns the account bound to the request, or nil.
func Current(c echo.Context) *Account {
	acct, _ := c.Get(contextKey).(*Account)
	return acct
}

// RequireRole returns middleware that checks the current account against an
// explicit role set, for handler groups that restrict beyond the route table.
func RequireRole(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			acct := Current(c)
			if acct == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no authenticated account")
			}
			for _, r := range roles {
				if acct.Role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient role")
		}
	}
}
