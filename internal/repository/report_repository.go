package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/fasthotel/hotel-api/internal/model"
)

// ReportRepo runs the aggregate queries of the reports screens. Spending
// per guest counts the room total plus consumption of every reservation
// that was not cancelled.
type ReportRepo struct{ q DBTX }

func NewReportRepo(q DBTX) *ReportRepo { return &ReportRepo{q: q} }

const guestName = `CONCAT_WS(' ', g.first_name, g.last_name)`

const reservationSpend = `r.total_cents + COALESCE((SELECT SUM(c.quantity * c.unit_price_cents) FROM charges c WHERE c.reservation_id = r.id), 0)`

func (r *ReportRepo) Rooms(ctx context.Context) ([]model.Room, error) {
	return NewRoomRepo(r.q).List(ctx, "")
}

// ConfirmedBetween returns confirmed stays that occupy at least one day of
// [from, to].
func (r *ReportRepo) ConfirmedBetween(ctx context.Context, from, to time.Time) ([]model.CalendarBooking, error) {
	const q = `SELECT r.room_id, r.check_in, r.check_out, u.name, IF(g.id IS NULL, NULL, ` + guestName + `)
	           FROM reservations r
	           JOIN users u ON u.id = r.user_id
	           LEFT JOIN guests g ON g.id = r.guest_id
	           WHERE r.status = 'confirmed' AND r.check_in <= ? AND r.check_out > ?`
	rows, err := r.q.QueryContext(ctx, q, sqlDate(to), sqlDate(from))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.CalendarBooking
	for rows.Next() {
		var b model.CalendarBooking
		if err := rows.Scan(&b.RoomID, &b.CheckIn, &b.CheckOut, &b.UserName, &b.GuestName); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *ReportRepo) count(ctx context.Context, q string, args ...any) (int, error) {
	var n int
	err := r.q.QueryRowContext(ctx, q, args...).Scan(&n)
	return n, err
}

// Dashboard gathers the front desk counters for day.
func (r *ReportRepo) Dashboard(ctx context.Context, day time.Time) (model.DashboardSummary, error) {
	d := sqlDate(day)
	var (
		s   model.DashboardSummary
		err error
	)
	counters := []struct {
		dst  *int
		q    string
		args []any
	}{
		{&s.TotalRooms, `SELECT COUNT(*) FROM rooms`, nil},
		{&s.AvailableRooms, `SELECT COUNT(*) FROM rooms WHERE status = 'available'`, nil},
		{&s.OccupiedRooms, `SELECT COUNT(DISTINCT room_id) FROM reservations WHERE status IN ` + activeIn + ` AND check_in <= ? AND check_out > ?`, []any{d, d}},
		{&s.CheckInsToday, `SELECT COUNT(*) FROM reservations WHERE status IN ` + activeIn + ` AND check_in = ?`, []any{d}},
		{&s.CheckOutsToday, `SELECT COUNT(*) FROM reservations WHERE status IN ('checked_in', 'finalized') AND check_out = ?`, []any{d}},
		{&s.GuestsInHouse, `SELECT COUNT(*) FROM reservations WHERE status = 'checked_in'`, nil},
		{&s.PendingPayments, `SELECT COUNT(*) FROM payments WHERE status = 'pending'`, nil},
	}
	for _, c := range counters {
		if *c.dst, err = r.count(ctx, c.q, c.args...); err != nil {
			return s, fmt.Errorf("dashboard counter: %w", err)
		}
	}

	rows, err := r.q.QueryContext(ctx, `SELECT r.id, r.check_in, r.check_out, rm.number, u.name
	                                    FROM reservations r
	                                    JOIN rooms rm ON rm.id = r.room_id
	                                    JOIN users u ON u.id = r.user_id
	                                    ORDER BY r.created_at DESC, r.id DESC LIMIT 5`)
	if err != nil {
		return s, fmt.Errorf("latest reservations: %w", err)
	}
	defer rows.Close()

	s.LatestReservations = make([]model.LatestReservation, 0, 5)
	for rows.Next() {
		var l model.LatestReservation
		if err := rows.Scan(&l.ID, &l.CheckIn, &l.CheckOut, &l.RoomNumber, &l.UserName); err != nil {
			return s, err
		}
		s.LatestReservations = append(s.LatestReservations, l)
	}
	return s, rows.Err()
}

func (r *ReportRepo) TopServices(ctx context.Context, from, to time.Time, limit int) ([]model.TopService, error) {
	const q = `SELECT s.id, s.name, CAST(SUM(c.quantity) AS SIGNED), CAST(SUM(c.quantity * c.unit_price_cents) AS SIGNED) AS revenue
	           FROM charges c
	           JOIN services s ON s.id = c.service_id
	           WHERE DATE(c.consumed_at) BETWEEN ? AND ?
	           GROUP BY s.id, s.name
	           ORDER BY revenue DESC
	           LIMIT ?`
	rows, err := r.q.QueryContext(ctx, q, sqlDate(from), sqlDate(to), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TopService, 0)
	for rows.Next() {
		var t model.TopService
		if err := rows.Scan(&t.ID, &t.Name, &t.Quantity, &t.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ReportRepo) TopGuests(ctx context.Context, from, to time.Time, limit int) ([]model.TopGuest, error) {
	const q = `SELECT g.id, ` + guestName + `, CAST(SUM(` + reservationSpend + `) AS SIGNED) AS spent, COUNT(r.id)
	           FROM guests g
	           JOIN reservations r ON r.guest_id = g.id
	           WHERE r.status <> 'cancelled' AND r.check_in BETWEEN ? AND ?
	           GROUP BY g.id, g.first_name, g.last_name
	           ORDER BY spent DESC
	           LIMIT ?`
	rows, err := r.q.QueryContext(ctx, q, sqlDate(from), sqlDate(to), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.TopGuest, 0)
	for rows.Next() {
		var t model.TopGuest
		if err := rows.Scan(&t.ID, &t.Name, &t.SpentCents, &t.Reservations); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *ReportRepo) AverageTicketPerGuest(ctx context.Context, from, to time.Time) ([]model.GuestTicket, error) {
	const q = `SELECT g.id, ` + guestName + `, CAST(ROUND(AVG(` + reservationSpend + `)) AS SIGNED) AS ticket, COUNT(r.id)
	           FROM guests g
	           JOIN reservations r ON r.guest_id = g.id
	           WHERE r.status <> 'cancelled' AND r.check_in BETWEEN ? AND ?
	           GROUP BY g.id, g.first_name, g.last_name
	           ORDER BY ticket DESC`
	rows, err := r.q.QueryContext(ctx, q, sqlDate(from), sqlDate(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.GuestTicket, 0)
	for rows.Next() {
		var t model.GuestTicket
		if err := rows.Scan(&t.ID, &t.Name, &t.AverageTicketCents, &t.Reservations); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SingleStayGuests lists guests with exactly one reservation that was not
// cancelled.
func (r *ReportRepo) SingleStayGuests(ctx context.Context) ([]model.GuestStayCount, error) {
	const q = `SELECT g.id, ` + guestName + `, COUNT(r.id)
	           FROM guests g
	           JOIN reservations r ON r.guest_id = g.id AND r.status <> 'cancelled'
	           GROUP BY g.id, g.first_name, g.last_name
	           HAVING COUNT(r.id) = 1
	           ORDER BY g.first_name, g.last_name`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.GuestStayCount, 0)
	for rows.Next() {
		var t model.GuestStayCount
		if err := rows.Scan(&t.ID, &t.Name, &t.Reservations); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// MonthlyOccupancy counts reservations and nights by check-in month.
func (r *ReportRepo) MonthlyOccupancy(ctx context.Context, year int) ([]model.MonthlyOccupancy, error) {
	const q = `SELECT MONTH(check_in) AS m, COUNT(*), CAST(SUM(DATEDIFF(check_out, check_in)) AS SIGNED)
	           FROM reservations
	           WHERE YEAR(check_in) = ? AND status <> 'cancelled'
	           GROUP BY m
	           ORDER BY m`
	rows, err := r.q.QueryContext(ctx, q, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MonthlyOccupancy, 0, 12)
	for rows.Next() {
		var m model.MonthlyOccupancy
		if err := rows.Scan(&m.Month, &m.Reservations, &m.Nights); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// MonthlyRevenue sums approved payments by the month they were received.
func (r *ReportRepo) MonthlyRevenue(ctx context.Context, year int) ([]model.MonthlyRevenue, error) {
	const q = `SELECT MONTH(paid_at) AS m, CAST(SUM(amount_cents) AS SIGNED)
	           FROM payments
	           WHERE YEAR(paid_at) = ? AND status = 'approved'
	           GROUP BY m
	           ORDER BY m`
	rows, err := r.q.QueryContext(ctx, q, year)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.MonthlyRevenue, 0, 12)
	for rows.Next() {
		var m model.MonthlyRevenue
		if err := rows.Scan(&m.Month, &m.RevenueCents); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ReportRepo) AverageRateByRoomType(ctx context.Context) ([]model.RoomTypeRate, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT type, CAST(ROUND(AVG(nightly_rate_cents)) AS SIGNED) FROM rooms GROUP BY type ORDER BY type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.RoomTypeRate, 0)
	for rows.Next() {
		var t model.RoomTypeRate
		if err := rows.Scan(&t.Type, &t.AverageRateCents); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
