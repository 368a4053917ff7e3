package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/medrefer/medrefer/internal/platform/token"
)

// Logger emits one structured line per request. Approval decisions are
// audit-relevant, so the line carries the session's account id and role
// claim whenever a bearer token was presented.
func Logger(logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			req := c.Request()
			res := c.Response()

			evt := logger.Info()
			if err != nil {
				evt = logger.Error().Err(err)
			}
			if rid, ok := c.Get("request_id").(string); ok && rid != "" {
				evt = evt.Str("request_id", rid)
			}
			ctx := req.Context()
			if id := token.AccountIDFromContext(ctx); id != uuid.Nil {
				evt = evt.Str("account_id", id.String())
			}
			if role := token.RoleFromContext(ctx); role != "" {
				evt = evt.Str("role", role)
			}

			evt.
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP()).
				Msg("http request")

			return err
		}
	}
}
