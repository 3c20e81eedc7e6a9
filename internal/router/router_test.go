package router

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasthotel/hotel-api/internal/handler"
	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/utils"
)

const secret = "router-test"

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

// Services are never reached in these tests: every request is answered by
// the middleware chain or a probe.
func newServer() *echo.Echo {
	log := logrus.New()
	log.SetOutput(io.Discard)
	e := echo.New()
	Register(e, Handlers{
		Auth:         handler.NewAuthHandler(nil),
		Users:        handler.NewUserHandler(nil),
		Rooms:        handler.NewRoomHandler(nil),
		Reservations: handler.NewReservationHandler(nil),
		Guests:       handler.NewGuestHandler(nil),
		Catalog:      handler.NewCatalogHandler(nil),
		Charges:      handler.NewChargeHandler(nil),
		Payments:     handler.NewPaymentHandler(nil),
		Reports:      handler.NewReportHandler(nil),
		Chat:         handler.NewChatHandler(nil, nil, log),
	}, Deps{JWTSecret: secret, Log: log, DB: okPinger{}})
	return e
}

func token(t *testing.T, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, 9, role, nil, 5)
	require.NoError(t, err)
	return tok.Token
}

func call(e *echo.Echo, method, path, bearer string) int {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestProbes(t *testing.T) {
	e := newServer()
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/healthz", ""))
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/readyz", ""))
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	e := newServer()
	for _, path := range []string{"/v1/me", "/v1/reservations", "/v1/guests", "/v1/payments", "/v1/reports/dashboard", "/v1/chat/conversations"} {
		assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodGet, path, ""), path)
	}
}

func TestRoleGates(t *testing.T) {
	e := newServer()
	clientTok := token(t, model.RoleClient)
	deskTok := token(t, model.RoleReceptionist)

	cases := []struct {
		method, path, tok string
	}{
		{http.MethodGet, "/v1/guests", clientTok},
		{http.MethodGet, "/v1/charges", clientTok},
		{http.MethodGet, "/v1/reports/dashboard", clientTok},
		{http.MethodGet, "/v1/payments/summaries", clientTok},
		{http.MethodPut, "/v1/reservations/1/finalize", clientTok},
		{http.MethodPost, "/v1/chat/conversations", clientTok},
		{http.MethodGet, "/v1/chat/conversations", clientTok},
		{http.MethodPost, "/v1/rooms", clientTok},
		{http.MethodDelete, "/v1/rooms/1", deskTok},
		{http.MethodDelete, "/v1/reservations/1", deskTok},
		{http.MethodDelete, "/v1/payments/1", deskTok},
		{http.MethodGet, "/v1/users", deskTok},
	}
	for _, tc := range cases {
		assert.Equal(t, http.StatusForbidden, call(e, tc.method, tc.path, tc.tok), tc.method+" "+tc.path)
	}
}
