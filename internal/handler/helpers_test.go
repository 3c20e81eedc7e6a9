package handler

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/middleware"
	"github.com/fasthotel/hotel-api/internal/model"
)

var (
	desk   = model.Principal{UserID: 2, Role: model.RoleReceptionist}
	client = model.Principal{UserID: 5, Role: model.RoleClient}
)

func newTestEcho() *echo.Echo {
	log := logrus.New()
	log.SetOutput(io.Discard)
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = ErrorHandler(log)
	return e
}

// as injects p the way JWTAuth would.
func as(p model.Principal) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			middleware.SetPrincipal(c, p)
			return next(c)
		}
	}
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func day(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}
