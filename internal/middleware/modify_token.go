package middleware

import (
	"net/http"
	"strings"

	"github.com/hostelhq/reservation-service/internal/service"
	"github.com/labstack/echo/v4"
)

// ReservationIDKey is the echo context key under which RequireModifyToken
// stores the reservation ID proven by the capability token.
const ReservationIDKey = "modify_reservation_id"

// RequireModifyToken guards guest self-service routes. The bearer token is a
// signed capability scoped to one reservation; the route never trusts a
// client-supplied ID.
func RequireModifyToken(tokens service.TokenService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			raw, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || raw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "modify token required")
			}
			reservationID, err := tokens.VerifyModifyToken(raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired modify token")
			}
			c.Set(ReservationIDKey, reservationID)
			return next(c)
		}
	}
}
