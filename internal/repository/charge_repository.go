package repository

import (
	"context"

	"github.com/fasthotel/hotel-api/internal/model"
)

// ChargeRepo stores consumption line items. Reads join the catalog for the
// service name; the price always comes from the charge's own snapshot.
type ChargeRepo struct{ q DBTX }

func NewChargeRepo(q DBTX) *ChargeRepo { return &ChargeRepo{q: q} }

const chargeSelect = `SELECT c.id, c.reservation_id, c.service_id, c.quantity, c.unit_price_cents, c.consumed_at,
       s.name, s.description
FROM charges c
JOIN services s ON s.id = c.service_id`

func scanCharge(s scanner) (*model.Charge, error) {
	var c model.Charge
	err := s.Scan(&c.ID, &c.ReservationID, &c.ServiceID, &c.Quantity, &c.UnitPriceCents, &c.ConsumedAt,
		&c.ServiceName, &c.ServiceDescription)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChargeRepo) Create(ctx context.Context, c *model.Charge) error {
	const q = `INSERT INTO charges (reservation_id, service_id, quantity, unit_price_cents, consumed_at) VALUES (?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, c.ReservationID, c.ServiceID, c.Quantity, c.UnitPriceCents, c.ConsumedAt)
	if err != nil {
		return translate(err, nil, nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

func (r *ChargeRepo) GetByID(ctx context.Context, id uint64) (*model.Charge, error) {
	c, err := scanCharge(r.q.QueryRowContext(ctx, chargeSelect+` WHERE c.id = ?`, id))
	if err != nil {
		return nil, translate(err, nil, model.ErrChargeNotFound)
	}
	return c, nil
}

// ListByReservation returns the charges of one reservation, or of every
// reservation when reservationID is 0, most recent first.
func (r *ChargeRepo) ListByReservation(ctx context.Context, reservationID uint64) ([]model.Charge, error) {
	q := chargeSelect
	var args []any
	if reservationID != 0 {
		q += ` WHERE c.reservation_id = ?`
		args = append(args, reservationID)
	}
	q += ` ORDER BY c.consumed_at DESC, c.id DESC`

	rows, err := r.q.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Charge, 0)
	for rows.Next() {
		c, err := scanCharge(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *ChargeRepo) Update(ctx context.Context, c *model.Charge) error {
	const q = `UPDATE charges SET service_id = ?, quantity = ?, unit_price_cents = ? WHERE id = ?`
	_, err := r.q.ExecContext(ctx, q, c.ServiceID, c.Quantity, c.UnitPriceCents, c.ID)
	return translate(err, nil, nil)
}

func (r *ChargeRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM charges WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrChargeNotFound)
}
