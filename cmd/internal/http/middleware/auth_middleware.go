package middleware

import (
	"context"
	"errors"
	"net/http"
	"studynotes/cmd/internal/domain/entity"
	"studynotes/cmd/internal/utils"
	"studynotes/cmd/internal/utils/apierror"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*entity.User, error)
}

type AuthMiddlewareConfig struct {
	UserRepo UserRepository
	Tokens   *utils.TokenSigner
}

// NewAuthMiddleware creates the handler with dependencies injected
func NewAuthMiddleware(cfg *AuthMiddlewareConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenData, err := cfg.Tokens.ParseTokenDataCtx(c)
			if errors.Is(err, utils.ErrMissingToken) {
				return c.JSON(http.StatusUnauthorized, apierror.UnauthorizedError)
			}

			if err != nil {
				return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
			}

			user, err := cfg.UserRepo.FindByID(c.Request().Context(), tokenData.UserID)
			if err != nil {
				log.Errorf("failed to fetch user %d for auth: %v", tokenData.UserID, err)
				return c.JSON(http.StatusInternalServerError, apierror.InternalServerError)
			}

			if user == nil {
				// Valid token for a user that no longer exists
				return c.JSON(http.StatusUnauthorized, apierror.AuthUserNotFoundError)
			}

			c.Set(utils.UserContextKey, user)
			return next(c)
		}
	}
}
