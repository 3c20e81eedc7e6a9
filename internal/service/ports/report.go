package ports

import (
	"context"
	"time"

	"github.com/fasthotel/hotel-api/internal/model"
)

// ReportRepo runs the read-only aggregate queries behind the reports
// screens. Date bounds are inclusive calendar days.
type ReportRepo interface {
	Rooms(ctx context.Context) ([]model.Room, error)
	ConfirmedBetween(ctx context.Context, from, to time.Time) ([]model.CalendarBooking, error)
	Dashboard(ctx context.Context, day time.Time) (model.DashboardSummary, error)
	TopServices(ctx context.Context, from, to time.Time, limit int) ([]model.TopService, error)
	TopGuests(ctx context.Context, from, to time.Time, limit int) ([]model.TopGuest, error)
	AverageTicketPerGuest(ctx context.Context, from, to time.Time) ([]model.GuestTicket, error)
	SingleStayGuests(ctx context.Context) ([]model.GuestStayCount, error)
	MonthlyOccupancy(ctx context.Context, year int) ([]model.MonthlyOccupancy, error)
	MonthlyRevenue(ctx context.Context, year int) ([]model.MonthlyRevenue, error)
	AverageRateByRoomType(ctx context.Context) ([]model.RoomTypeRate, error)
}
