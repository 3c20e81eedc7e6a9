package repository

import (
	"context"
	"strings"
	"time"

	"github.com/fasthotel/hotel-api/internal/model"
)

// ReservationRepo provides access to the reservations table. Check-in and
// check-out are DATE columns; check-out is exclusive, so a stay ending on
// a day and another starting that same day do not collide.
type ReservationRepo struct {
	q    DBTX
	lock bool
}

func NewReservationRepo(q DBTX) *ReservationRepo { return &ReservationRepo{q: q} }

const reservationColumns = `id, room_id, user_id, guest_id, check_in, check_out, total_cents, status, created_at, actual_checkout_at`

// activeIn is the SQL list of statuses that hold a room.
const activeIn = `('confirmed', 'checked_in')`

func scanReservation(s scanner) (*model.Reservation, error) {
	var r model.Reservation
	err := s.Scan(&r.ID, &r.RoomID, &r.UserID, &r.GuestID, &r.CheckIn, &r.CheckOut, &r.TotalCents, &r.Status, &r.CreatedAt, &r.ActualCheckoutAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func sqlDate(t time.Time) string { return t.UTC().Format("2006-01-02") }

func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (room_id, user_id, guest_id, check_in, check_out, total_cents, status, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.q.ExecContext(ctx, q, res.RoomID, res.UserID, res.GuestID,
		sqlDate(res.CheckIn), sqlDate(res.CheckOut), res.TotalCents, res.Status, res.CreatedAt)
	if err != nil {
		return translate(err, nil, nil)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	return nil
}

func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+reservationColumns+` FROM reservations WHERE id = ?`, id)
	res, err := scanReservation(row)
	if err != nil {
		return nil, translate(err, nil, model.ErrReservationNotFound)
	}
	return res, nil
}

// GetActiveForUpdate loads a confirmed or checked-in reservation and locks
// it for the rest of the transaction.
func (r *ReservationRepo) GetActiveForUpdate(ctx context.Context, id uint64) (*model.Reservation, error) {
	q := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ? AND status IN ` + activeIn
	if r.lock {
		q += ` FOR UPDATE`
	}
	res, err := scanReservation(r.q.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err, nil, model.ErrReservationNotFound)
	}
	return res, nil
}

// FindOverlapping lists active reservations of roomID intersecting
// [checkIn, checkOut). In a transaction it is a locking read, which sees
// rows committed after the transaction's snapshot was taken.
func (r *ReservationRepo) FindOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeID uint64) ([]uint64, error) {
	q := `SELECT id FROM reservations
	      WHERE room_id = ? AND status IN ` + activeIn + `
	        AND check_in < ? AND check_out > ? AND id <> ?`
	if r.lock {
		q += ` FOR UPDATE`
	}
	rows, err := r.q.QueryContext(ctx, q, roomID, sqlDate(checkOut), sqlDate(checkIn), excludeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

const reservationViewSelect = `SELECT r.id, r.room_id, r.user_id, r.guest_id, r.check_in, r.check_out, r.total_cents, r.status,
       r.created_at, r.actual_checkout_at,
       rm.number, rm.type, rm.nightly_rate_cents, u.name, u.email,
       IF(g.id IS NULL, NULL, CONCAT_WS(' ', g.first_name, g.last_name))
FROM reservations r
JOIN rooms rm ON rm.id = r.room_id
JOIN users u ON u.id = r.user_id
LEFT JOIN guests g ON g.id = r.guest_id`

func scanReservationView(s scanner) (*model.ReservationView, error) {
	var v model.ReservationView
	err := s.Scan(&v.ID, &v.RoomID, &v.UserID, &v.GuestID, &v.CheckIn, &v.CheckOut, &v.TotalCents, &v.Status,
		&v.CreatedAt, &v.ActualCheckoutAt,
		&v.RoomNumber, &v.RoomType, &v.NightlyRate, &v.UserName, &v.UserEmail, &v.GuestName)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// GetView returns the reservation joined with room, user and guest labels.
func (r *ReservationRepo) GetView(ctx context.Context, id uint64) (*model.ReservationView, error) {
	v, err := scanReservationView(r.q.QueryRowContext(ctx, reservationViewSelect+` WHERE r.id = ?`, id))
	if err != nil {
		return nil, translate(err, nil, model.ErrReservationNotFound)
	}
	return v, nil
}

// List returns reservations matching f, newest first.
func (r *ReservationRepo) List(ctx context.Context, f model.ReservationFilter) ([]model.ReservationView, error) {
	var (
		where []string
		args  []any
	)
	if f.UserID != 0 {
		where = append(where, "r.user_id = ?")
		args = append(args, f.UserID)
	}
	if f.RoomID != 0 {
		where = append(where, "r.room_id = ?")
		args = append(args, f.RoomID)
	}
	if f.Status != "" {
		where = append(where, "r.status = ?")
		args = append(args, f.Status)
	}
	q := reservationViewSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY r.id DESC"

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.ReservationView, 0)
	for rows.Next() {
		v, err := scanReservationView(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// Update writes every mutable column of res.
func (r *ReservationRepo) Update(ctx context.Context, res *model.Reservation) error {
	const q = `UPDATE reservations
	           SET room_id = ?, guest_id = ?, check_in = ?, check_out = ?, total_cents = ?, status = ?, actual_checkout_at = ?
	           WHERE id = ?`
	_, err := r.q.ExecContext(ctx, q, res.RoomID, res.GuestID, sqlDate(res.CheckIn), sqlDate(res.CheckOut),
		res.TotalCents, res.Status, res.ActualCheckoutAt, res.ID)
	return translate(err, nil, nil)
}

// Delete removes a reservation; charges and payments follow through ON
// DELETE CASCADE.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return translate(err, nil, nil)
	}
	return requireAffected(res, model.ErrReservationNotFound)
}

func (r *ReservationRepo) DeleteByGuest(ctx context.Context, guestID uint64) (int64, error) {
	res, err := r.q.ExecContext(ctx, `DELETE FROM reservations WHERE guest_id = ?`, guestID)
	if err != nil {
		return 0, translate(err, nil, nil)
	}
	return res.RowsAffected()
}
