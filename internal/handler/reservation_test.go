package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fasthotel/hotel-api/internal/model"
)

type mockReservations struct{ mock.Mock }

func (m *mockReservations) Quote(ctx context.Context, roomID uint64, in, out time.Time) (model.Quote, error) {
	args := m.Called(ctx, roomID, in, out)
	return args.Get(0).(model.Quote), args.Error(1)
}

func (m *mockReservations) Create(ctx context.Context, p model.Principal, in model.NewReservation) (*model.Reservation, error) {
	args := m.Called(ctx, p, in)
	r, _ := args.Get(0).(*model.Reservation)
	return r, args.Error(1)
}

func (m *mockReservations) Get(ctx context.Context, p model.Principal, id uint64) (*model.ReservationView, error) {
	args := m.Called(ctx, p, id)
	v, _ := args.Get(0).(*model.ReservationView)
	return v, args.Error(1)
}

func (m *mockReservations) List(ctx context.Context, p model.Principal, f model.ReservationFilter) ([]model.ReservationView, error) {
	args := m.Called(ctx, p, f)
	v, _ := args.Get(0).([]model.ReservationView)
	return v, args.Error(1)
}

func (m *mockReservations) Update(ctx context.Context, p model.Principal, id uint64, patch model.ReservationPatch) (*model.Reservation, error) {
	args := m.Called(ctx, p, id, patch)
	r, _ := args.Get(0).(*model.Reservation)
	return r, args.Error(1)
}

func (m *mockReservations) Finalize(ctx context.Context, p model.Principal, id uint64) (*model.Reservation, error) {
	args := m.Called(ctx, p, id)
	r, _ := args.Get(0).(*model.Reservation)
	return r, args.Error(1)
}

func (m *mockReservations) Delete(ctx context.Context, p model.Principal, id uint64) error {
	return m.Called(ctx, p, id).Error(0)
}

func reservationServer(svc *mockReservations, p model.Principal) *echo.Echo {
	e := newTestEcho()
	h := NewReservationHandler(svc)
	g := e.Group("/v1/reservations", as(p))
	g.POST("", h.Create)
	g.POST("/quote", h.Quote)
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.PUT("/:id/finalize", h.Finalize)
	g.DELETE("/:id", h.Delete)
	return e
}

func TestCreateReservation(t *testing.T) {
	svc := new(mockReservations)
	svc.On("Create", mock.Anything, client, model.NewReservation{
		RoomID: 3, CheckIn: day("2025-03-10"), CheckOut: day("2025-03-13"),
	}).Return(&model.Reservation{ID: 9, RoomID: 3, TotalCents: 45000, Status: model.ReservationConfirmed}, nil)

	rec := do(t, reservationServer(svc, client), http.MethodPost, "/v1/reservations",
		`{"room_id":3,"check_in":"2025-03-10","check_out":"2025-03-13"}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got model.Reservation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, uint64(9), got.ID)
	assert.Equal(t, int64(45000), got.TotalCents)
	svc.AssertExpectations(t)
}

func TestCreateReservationValidation(t *testing.T) {
	svc := new(mockReservations)
	e := reservationServer(svc, client)

	for name, body := range map[string]string{
		"malformed":   `{"room_id":`,
		"no room":     `{"check_in":"2025-03-10","check_out":"2025-03-13"}`,
		"bad date":    `{"room_id":3,"check_in":"10/03/2025","check_out":"2025-03-13"}`,
		"no checkout": `{"room_id":3,"check_in":"2025-03-10"}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := do(t, e, http.MethodPost, "/v1/reservations", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateReservationErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{model.ErrDateOverlap, http.StatusConflict},
		{model.ErrUnavailable, http.StatusConflict},
		{model.ErrInvalidRange, http.StatusBadRequest},
		{model.ErrCheckInInPast, http.StatusBadRequest},
		{model.ErrRoomNotFound, http.StatusNotFound},
		{model.ErrForbidden, http.StatusForbidden},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		svc := new(mockReservations)
		svc.On("Create", mock.Anything, client, mock.Anything).Return(nil, tc.err)

		rec := do(t, reservationServer(svc, client), http.MethodPost, "/v1/reservations",
			`{"room_id":3,"check_in":"2025-03-13","check_out":"2025-03-10"}`)
		assert.Equal(t, tc.want, rec.Code, tc.err.Error())
	}
}

func TestInternalErrorBody(t *testing.T) {
	svc := new(mockReservations)
	svc.On("Get", mock.Anything, client, uint64(4)).Return(nil, errors.New("connection reset"))

	rec := do(t, reservationServer(svc, client), http.MethodGet, "/v1/reservations/4", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error","detail":"connection reset"}`, rec.Body.String())
}

func TestQuoteReservation(t *testing.T) {
	svc := new(mockReservations)
	svc.On("Quote", mock.Anything, uint64(3), day("2025-03-10"), day("2025-03-12")).
		Return(model.Quote{RoomID: 3, Nights: 2, TotalCents: 30000, RoomStatus: model.RoomAvailable}, nil)

	rec := do(t, reservationServer(svc, client), http.MethodPost, "/v1/reservations/quote",
		`{"room_id":3,"check_in":"2025-03-10","check_out":"2025-03-12"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"room_id":3,"nights":2,"total_cents":30000,"room_status":"available"}`, rec.Body.String())
}

func TestListReservationsFilters(t *testing.T) {
	svc := new(mockReservations)
	svc.On("List", mock.Anything, desk, model.ReservationFilter{RoomID: 3, Status: model.ReservationConfirmed}).
		Return([]model.ReservationView{}, nil)
	e := reservationServer(svc, desk)

	rec := do(t, e, http.MethodGet, "/v1/reservations?room_id=3&status=confirmed", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, "/v1/reservations?status=lost", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodGet, "/v1/reservations?room_id=x", "").Code)
	svc.AssertExpectations(t)
}

func TestUpdateReservationPatch(t *testing.T) {
	svc := new(mockReservations)
	out := day("2025-03-15")
	status := model.ReservationCheckedIn
	svc.On("Update", mock.Anything, desk, uint64(9), model.ReservationPatch{CheckOut: &out, Status: &status}).
		Return(&model.Reservation{ID: 9, Status: status}, nil)

	rec := do(t, reservationServer(svc, desk), http.MethodPut, "/v1/reservations/9",
		`{"check_out":"2025-03-15","status":"checked_in"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUpdateReservationRejectsUnknownStatus(t *testing.T) {
	svc := new(mockReservations)

	rec := do(t, reservationServer(svc, desk), http.MethodPut, "/v1/reservations/9", `{"status":"gone"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestFinalizeAndDelete(t *testing.T) {
	svc := new(mockReservations)
	svc.On("Finalize", mock.Anything, desk, uint64(9)).Return(&model.Reservation{ID: 9, Status: model.ReservationFinalized}, nil)
	svc.On("Finalize", mock.Anything, desk, uint64(10)).Return(nil, model.ErrReservationNotFound)
	svc.On("Delete", mock.Anything, desk, uint64(9)).Return(nil)
	e := reservationServer(svc, desk)

	assert.Equal(t, http.StatusOK, do(t, e, http.MethodPut, "/v1/reservations/9/finalize", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, e, http.MethodPut, "/v1/reservations/10/finalize", "").Code)
	assert.Equal(t, http.StatusNoContent, do(t, e, http.MethodDelete, "/v1/reservations/9", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, e, http.MethodDelete, "/v1/reservations/0", "").Code)
	svc.AssertExpectations(t)
}
