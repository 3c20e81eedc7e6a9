package repository

import (
	"context"

	"github.com/fasthotel/hotel-api/internal/model"
)

// PaymentRepo stores payments and computes the per reservation totals
// behind the payment summary screen.
type PaymentRepo struct{ q DBTX }

func NewPaymentRepo(q DBTX) *PaymentRepo { return &PaymentRepo{q: q} }

const paymentColumns = `id, reservation_id, amount_cents, method, status, paid_at`

func scanPayment(s scanner) (*model.Payment, error) {
	var p model.Payment
	if err := s.Scan(&p.ID, &p.ReservationID, &p.AmountCents, &p.Method, &p.Status, &p.PaidAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (reservation_id, amount_cents, method, status, paid_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, p.ReservationID, p.AmountCents, p.Method, p.Status, p.PaidAt)
	if err != nil {
		return translate(err, nil, nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	p, err := scanPayment(r.q.QueryRowContext(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, nil, model.ErrPaymentNotFound)
	}
	return p, nil
}

// List returns payments of reservations still confirmed or checked in.
func (r *PaymentRepo) List(ctx context.Context, f model.PaymentFilter) ([]model.PaymentView, error) {
	q := `SELECT p.id, p.reservation_id, p.amount_cents, p.method, p.status, p.paid_at,
	             r.check_in, r.check_out, r.status, rm.number, u.name,
	             IF(g.id IS NULL, NULL, CONCAT_WS(' ', g.first_name, g.last_name))
	      FROM payments p
	      JOIN reservations r ON r.id = p.reservation_id
	      JOIN rooms rm ON rm.id = r.room_id
	      JOIN users u ON u.id = r.user_id
	      LEFT JOIN guests g ON g.id = r.guest_id
	      WHERE r.status IN ` + activeIn
	var args []any
	if f.ReservationID != 0 {
		q += ` AND p.reservation_id = ?`
		args = append(args, f.ReservationID)
	}
	q += ` ORDER BY p.paid_at DESC, p.id DESC`

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.PaymentView, 0)
	for rows.Next() {
		var v model.PaymentView
		if err := rows.Scan(&v.ID, &v.ReservationID, &v.AmountCents, &v.Method, &v.Status, &v.PaidAt,
			&v.CheckIn, &v.CheckOut, &v.ReservationStatus, &v.RoomNumber, &v.UserName, &v.GuestName); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PaymentRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE reservation_id = ? ORDER BY paid_at, id`, reservationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *PaymentRepo) Update(ctx context.Context, p *model.Payment) error {
	_, err := r.q.ExecContext(ctx, `UPDATE payments SET amount_cents = ?, method = ?, status = ? WHERE id = ?`,
		p.AmountCents, p.Method, p.Status, p.ID)
	return err
}

func (r *PaymentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrPaymentNotFound)
}

// Summaries aggregates, for every reservation not yet finalized or
// cancelled, the room total, the consumption and the amount paid.
func (r *PaymentRepo) Summaries(ctx context.Context) ([]model.SummaryRow, error) {
	const q = `SELECT r.id, r.check_in, r.check_out, r.status, rm.number, rm.type, u.name, u.email,
	                  IF(g.id IS NULL, NULL, CONCAT_WS(' ', g.first_name, g.last_name)), g.document,
	                  r.total_cents,
	                  CAST(COALESCE((SELECT SUM(c.quantity * c.unit_price_cents) FROM charges c WHERE c.reservation_id = r.id), 0) AS SIGNED),
	                  CAST(COALESCE((SELECT SUM(p.amount_cents) FROM payments p WHERE p.reservation_id = r.id), 0) AS SIGNED)
	           FROM reservations r
	           JOIN rooms rm ON rm.id = r.room_id
	           JOIN users u ON u.id = r.user_id
	           LEFT JOIN guests g ON g.id = r.guest_id
	           WHERE r.status IN ` + activeIn + `
	           ORDER BY r.id DESC`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.SummaryRow, 0)
	for rows.Next() {
		var s model.SummaryRow
		if err := rows.Scan(&s.ReservationID, &s.CheckIn, &s.CheckOut, &s.ReservationStatus, &s.RoomNumber, &s.RoomType,
			&s.UserName, &s.UserEmail, &s.GuestName, &s.GuestDocument,
			&s.RoomTotalCents, &s.ConsumptionCents, &s.PaidCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
