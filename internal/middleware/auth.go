// Package middleware holds the echo middleware that resolves the caller.
package middleware

import (
	"errors"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"dayzone/internal/auth"
	apperrors "dayzone/internal/errors"
	"dayzone/internal/service"
)

const (
	principalKey = "principal"
	authErrKey   = "auth_error"
)

// Auth returns middleware that requires a bearer token. The token is
// verified and the user re-loaded on every request; the resulting
// auth.Principal is stored in the echo context.
func Auth(authService service.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  principalKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			principal, err := authService.Authenticate(c.Request().Context(), token)
			if err != nil {
				c.Set(authErrKey, err)
				return nil, err
			}
			return principal, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			cause, _ := c.Get(authErrKey).(error)
			if cause == nil {
				// the extractor found no usable Authorization header
				cause = apperrors.Unauthorized(apperrors.ReasonMissing)
			}
			return reject(c, cause)
		},
	})
}

// RequireAdmin must run after Auth.
func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		p, ok := PrincipalFrom(c)
		if !ok {
			return reject(c, apperrors.Unauthorized(apperrors.ReasonMissing))
		}
		if !p.Role.IsAdmin() {
			return reject(c, apperrors.Forbidden("admin role required"))
		}
		return next(c)
	}
}

// PrincipalFrom returns the caller resolved by Auth.
func PrincipalFrom(c echo.Context) (auth.Principal, bool) {
	p, ok := c.Get(principalKey).(auth.Principal)
	return p, ok
}

func reject(c echo.Context, err error) error {
	var aerr *apperrors.AuthError
	switch {
	case errors.As(err, &aerr):
		c.Logger().Warnf("auth rejected %s %s: %s", c.Request().Method, c.Request().URL.Path, aerr.Reason)
	case !errors.Is(err, apperrors.ErrForbidden):
		c.Logger().Errorf("auth failed %s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
