package middleware

import (
	"net/http"
	"studynotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// NewAuthRateLimiter limits requests per client IP. It guards the
// credential endpoints against brute forcing.
func NewAuthRateLimiter(perSecond float64) echo.MiddlewareFunc {
	store := echomw.NewRateLimiterMemoryStore(rate.Limit(perSecond))
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, _ error) error {
			return c.JSON(http.StatusForbidden, apierror.NewSimple(http.StatusForbidden, "Could not identify client"))
		},
		DenyHandler: func(c echo.Context, _ string, _ error) error {
			return c.JSON(apierror.TooManyAuthAttemptsError.Code(), apierror.TooManyAuthAttemptsError)
		},
	})
}
