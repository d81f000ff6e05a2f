package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/usermgmt/user-management-api/internal/api/metrics"
	"github.com/usermgmt/user-management-api/internal/core/domain"
)

// TokenVerifier validates a serialized bearer token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*domain.AuthClaims, error)
}

// ReplayRecorder marks token ids as presented and reports repeats. Best
// effort: failures are ignored and a repeated jti never rejects the request.
type ReplayRecorder interface {
	Seen(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the bearer token and injects its claims into context.
// replays may be nil to disable jti observation.
func Auth(verifier TokenVerifier, replays ReplayRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := verifier.Verify(parts[1])
			if err != nil {
				metrics.TokenVerificationsTotal.WithLabelValues("rejected").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			metrics.TokenVerificationsTotal.WithLabelValues("accepted").Inc()

			if replays != nil && claims.TokenID != "" {
				if seen, err := replays.Seen(c.Request().Context(), claims.TokenID); err == nil && seen {
					metrics.TokenReplaysTotal.Inc()
				}
			}

			c.Set("user_id", claims.UserID)
			c.Set("username", claims.Username)
			c.Set("roles", claims.Roles)

			return next(c)
		}
	}
}
