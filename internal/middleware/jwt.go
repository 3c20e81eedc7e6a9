package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/utils"
)

// JWTAuth validates the access token and stores the caller's Principal in
// the context. The token comes from the Authorization header or, for
// browser websocket handshakes that cannot set headers, from the "token"
// query parameter.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := bearer(c.Request())
			if raw == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			p, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			SetPrincipal(c, p)
			return next(c)
		}
	}
}

func bearer(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return r.URL.Query().Get("token")
}

// OptionalJWT stores the caller when a valid token is present and lets
// anonymous requests through untouched.
func OptionalJWT(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if raw := bearer(c.Request()); raw != "" {
				if p, err := utils.ParseAccessToken(secret, raw); err == nil {
					SetPrincipal(c, p)
				}
			}
			return next(c)
		}
	}
}
