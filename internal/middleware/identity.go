package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/model"
)

const principalKey = "principal"

// SetPrincipal stores the authenticated caller on the echo context.
func SetPrincipal(c echo.Context, p model.Principal) { c.Set(principalKey, p) }

// PrincipalFrom returns the caller stored by JWTAuth.
func PrincipalFrom(c echo.Context) (model.Principal, bool) {
	p, ok := c.Get(principalKey).(model.Principal)
	return p, ok
}

// userID identifies the caller for rate limiting. Anonymous requests share
// the "anon" bucket of their IP.
func userID(c echo.Context) string {
	if p, ok := PrincipalFrom(c); ok {
		return strconv.FormatUint(p.UserID, 10)
	}
	return "anon"
}
