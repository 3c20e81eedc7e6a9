package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fasthotel/hotel-api/internal/model"
)

type mockReportRepo struct{ mock.Mock }

func (m *mockReportRepo) Rooms(ctx context.Context) ([]model.Room, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.Room), args.Error(1)
}

func (m *mockReportRepo) ConfirmedBetween(ctx context.Context, from, to time.Time) ([]model.CalendarBooking, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]model.CalendarBooking), args.Error(1)
}

func (m *mockReportRepo) Dashboard(ctx context.Context, day time.Time) (model.DashboardSummary, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(model.DashboardSummary), args.Error(1)
}

func (m *mockReportRepo) TopServices(ctx context.Context, from, to time.Time, limit int) ([]model.TopService, error) {
	args := m.Called(ctx, from, to, limit)
	return args.Get(0).([]model.TopService), args.Error(1)
}

func (m *mockReportRepo) TopGuests(ctx context.Context, from, to time.Time, limit int) ([]model.TopGuest, error) {
	args := m.Called(ctx, from, to, limit)
	return args.Get(0).([]model.TopGuest), args.Error(1)
}

func (m *mockReportRepo) AverageTicketPerGuest(ctx context.Context, from, to time.Time) ([]model.GuestTicket, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]model.GuestTicket), args.Error(1)
}

func (m *mockReportRepo) SingleStayGuests(ctx context.Context) ([]model.GuestStayCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.GuestStayCount), args.Error(1)
}

func (m *mockReportRepo) MonthlyOccupancy(ctx context.Context, year int) ([]model.MonthlyOccupancy, error) {
	args := m.Called(ctx, year)
	return args.Get(0).([]model.MonthlyOccupancy), args.Error(1)
}

func (m *mockReportRepo) MonthlyRevenue(ctx context.Context, year int) ([]model.MonthlyRevenue, error) {
	args := m.Called(ctx, year)
	return args.Get(0).([]model.MonthlyRevenue), args.Error(1)
}

func (m *mockReportRepo) AverageRateByRoomType(ctx context.Context) ([]model.RoomTypeRate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]model.RoomTypeRate), args.Error(1)
}

func TestCalendar(t *testing.T) {
	repo := &mockReportRepo{}
	svc := NewReportService(repo)
	ctx := context.Background()

	rooms := []model.Room{
		{ID: 1, Number: "101", Type: "double", Capacity: 2},
		{ID: 2, Number: "102", Type: "single", Capacity: 1},
	}
	guest := "Maria Silva"
	repo.On("Rooms", ctx).Return(rooms, nil)
	repo.On("ConfirmedBetween", ctx, date("2025-02-01"), date("2025-02-28")).Return([]model.CalendarBooking{
		{RoomID: 1, CheckIn: date("2025-01-30"), CheckOut: date("2025-02-02"), UserName: "alice"},
		{RoomID: 2, CheckIn: date("2025-02-10"), CheckOut: date("2025-02-12"), UserName: "bob", GuestName: &guest},
	}, nil)

	days, err := svc.Calendar(ctx, 2025, 2)
	require.NoError(t, err)
	require.Len(t, days, 28)

	assert.Equal(t, "2025-02-01", days[0].Date)
	assert.Equal(t, model.CalendarReserved, days[0].Rooms["101"].Status)
	assert.Equal(t, "alice", *days[0].Rooms["101"].Occupant)
	assert.Equal(t, model.CalendarAvailable, days[1].Rooms["101"].Status, "check-out day is free")

	assert.Equal(t, model.CalendarReserved, days[9].Rooms["102"].Status)
	assert.Equal(t, "Maria Silva", *days[10].Rooms["102"].Occupant)
	assert.Equal(t, model.CalendarAvailable, days[11].Rooms["102"].Status)
	assert.Nil(t, days[11].Rooms["102"].Occupant)
	repo.AssertExpectations(t)
}

func TestCalendar_Validation(t *testing.T) {
	svc := NewReportService(&mockReportRepo{})
	_, err := svc.Calendar(context.Background(), 2025, 13)
	assert.ErrorIs(t, err, model.ErrBadRequest)
}

func TestCalendar_NoRooms(t *testing.T) {
	repo := &mockReportRepo{}
	repo.On("Rooms", mock.Anything).Return([]model.Room{}, nil)

	days, err := NewReportService(repo).Calendar(context.Background(), 2025, 2)
	require.NoError(t, err)
	assert.Empty(t, days)
	repo.AssertNotCalled(t, "ConfirmedBetween", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportPeriodsAndLimits(t *testing.T) {
	repo := &mockReportRepo{}
	svc := NewReportService(repo).WithClock(fixedClock("2025-03-10"))
	ctx := context.Background()
	from, to := date("2025-01-01"), date("2025-01-31")

	repo.On("TopServices", ctx, from, to, 10).Return([]model.TopService{{ID: 1, Name: "spa"}}, nil).Once()
	repo.On("TopGuests", ctx, from, to, 100).Return([]model.TopGuest{}, nil).Once()
	repo.On("Dashboard", ctx, date("2025-03-10")).Return(model.DashboardSummary{TotalRooms: 3}, nil).Once()

	top, err := svc.TopServices(ctx, Period{From: from, To: to}, 0)
	require.NoError(t, err)
	assert.Len(t, top, 1)

	_, err = svc.TopGuests(ctx, Period{From: from, To: to}, 5000)
	require.NoError(t, err)

	dash, err := svc.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, dash.TotalRooms)

	_, err = svc.TopServices(ctx, Period{From: to, To: from}, 10)
	assert.ErrorIs(t, err, model.ErrInvalidRange)
	_, err = svc.AverageTicketPerGuest(ctx, Period{})
	assert.ErrorIs(t, err, model.ErrBadRequest)
	_, err = svc.MonthlyRevenue(ctx, 0)
	assert.ErrorIs(t, err, model.ErrBadRequest)

	repo.AssertExpectations(t)
}
