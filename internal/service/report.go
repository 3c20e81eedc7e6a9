package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

const (
	defaultReportLimit = 10
	maxReportLimit     = 100
)

// ReportService exposes read-only projections over bookings and billing.
type ReportService struct {
	repo ports.ReportRepo
	now  func() time.Time
}

func NewReportService(repo ports.ReportRepo) *ReportService {
	return &ReportService{repo: repo, now: time.Now}
}

// WithClock replaces the time source used for "today".
func (s *ReportService) WithClock(now func() time.Time) *ReportService {
	s.now = now
	return s
}

// Period is an inclusive range of calendar days.
type Period struct {
	From time.Time
	To   time.Time
}

func (p Period) validate() error {
	if p.From.IsZero() || p.To.IsZero() {
		return fmt.Errorf("from and to are required: %w", model.ErrBadRequest)
	}
	if p.To.Before(p.From) {
		return fmt.Errorf("to is before from: %w", model.ErrInvalidRange)
	}
	return nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultReportLimit
	}
	if n > maxReportLimit {
		return maxReportLimit
	}
	return n
}

// Calendar paints, for every day of the month, each room as available or
// reserved by a confirmed booking, naming the occupant. A booking occupies
// the days from check-in up to but excluding check-out.
func (s *ReportService) Calendar(ctx context.Context, year, month int) ([]model.CalendarDay, error) {
	if month < 1 || month > 12 || year < 1 {
		return nil, fmt.Errorf("invalid year/month: %w", model.ErrBadRequest)
	}
	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	rooms, err := s.repo.Rooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("load rooms: %w", err)
	}
	if len(rooms) == 0 {
		return []model.CalendarDay{}, nil
	}
	bookings, err := s.repo.ConfirmedBetween(ctx, first, last)
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	numberByID := make(map[uint64]string, len(rooms))
	for _, r := range rooms {
		numberByID[r.ID] = r.Number
	}

	days := make([]model.CalendarDay, 0, last.Day())
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		cells := make(map[string]model.CalendarCell, len(rooms))
		for _, r := range rooms {
			cells[r.Number] = model.CalendarCell{
				RoomID:   r.ID,
				Type:     r.Type,
				Capacity: r.Capacity,
				Status:   model.CalendarAvailable,
			}
		}
		for _, b := range bookings {
			if d.Before(truncateDay(b.CheckIn)) || !d.Before(truncateDay(b.CheckOut)) {
				continue
			}
			num, ok := numberByID[b.RoomID]
			if !ok {
				continue
			}
			occupant := b.UserName
			if b.GuestName != nil && *b.GuestName != "" {
				occupant = *b.GuestName
			}
			cell := cells[num]
			cell.Status = model.CalendarReserved
			cell.Occupant = &occupant
			cells[num] = cell
		}
		days = append(days, model.CalendarDay{Date: d.Format("2006-01-02"), Rooms: cells})
	}
	return days, nil
}

// Dashboard summarises today's front desk activity.
func (s *ReportService) Dashboard(ctx context.Context) (model.DashboardSummary, error) {
	return s.repo.Dashboard(ctx, truncateDay(s.now()))
}

func (s *ReportService) TopServices(ctx context.Context, p Period, limit int) ([]model.TopService, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return s.repo.TopServices(ctx, p.From, p.To, clampLimit(limit))
}

func (s *ReportService) TopGuests(ctx context.Context, p Period, limit int) ([]model.TopGuest, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return s.repo.TopGuests(ctx, p.From, p.To, clampLimit(limit))
}

func (s *ReportService) AverageTicketPerGuest(ctx context.Context, p Period) ([]model.GuestTicket, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return s.repo.AverageTicketPerGuest(ctx, p.From, p.To)
}

func (s *ReportService) SingleStayGuests(ctx context.Context) ([]model.GuestStayCount, error) {
	return s.repo.SingleStayGuests(ctx)
}

func (s *ReportService) MonthlyOccupancy(ctx context.Context, year int) ([]model.MonthlyOccupancy, error) {
	if year < 1 {
		return nil, fmt.Errorf("year is required: %w", model.ErrBadRequest)
	}
	return s.repo.MonthlyOccupancy(ctx, year)
}

func (s *ReportService) MonthlyRevenue(ctx context.Context, year int) ([]model.MonthlyRevenue, error) {
	if year < 1 {
		return nil, fmt.Errorf("year is required: %w", model.ErrBadRequest)
	}
	return s.repo.MonthlyRevenue(ctx, year)
}

func (s *ReportService) AverageRateByRoomType(ctx context.Context) ([]model.RoomTypeRate, error) {
	return s.repo.AverageRateByRoomType(ctx)
}
