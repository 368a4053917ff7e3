package gate

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medrefer/medrefer/internal/domain/account"
	"github.com/medrefer/medrefer/internal/domain/approval"
	"github.com/medrefer/medrefer/internal/platform/token"
)

// AccountProvider loads the current account for gating. The gate re-reads
// the account on every request instead of trusting token claims so that
// out-of-band approval decisions take effect immediately.
type AccountProvider interface {
	Get(ctx context.Context, id uuid.UUID) (*account.Account, error)
}

// Middleware enforces the navigation gate on screen-facing routes:
// authenticated session, approved classification, then the permission
// table. Permission denials redirect to the default landing route rather
// than returning an error, so route existence is not leaked. Routes a
// blocked account must still reach (the approval administration API, which
// hospital admins use while their own account classifies as pending) mount
// account.Authenticate instead.
func (g *Gate) Middleware(provider AccountProvider) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			id := token.AccountIDFromContext(ctx)
			if id == uuid.Nil {
				return c.Redirect(http.StatusSeeOther, g.loginRoute)
			}

			acct, err := provider.Get(ctx, id)
			if err != nil || !acct.Active {
				return c.Redirect(http.StatusSeeOther, g.loginRoute)
			}

			cls := approval.Classify(acct)
			if !cls.Approved() {
				return c.JSON(http.StatusForbidden, cls)
			}

			if !g.table.Allowed(c.Path(), acct.Role) {
				return c.Redirect(http.StatusSeeOther, g.defaultRoute)
			}

			account.SetCurrent(c, acct)
			return next(c)
		}
	}
}
