package repository

import (
	"context"

	"github.com/fasthotel/hotel-api/internal/model"
)

// ServiceRepo stores the catalog of billable services.
type ServiceRepo struct{ q DBTX }

func NewServiceRepo(q DBTX) *ServiceRepo { return &ServiceRepo{q: q} }

func (r *ServiceRepo) Create(ctx context.Context, s *model.Service) error {
	res, err := r.q.ExecContext(ctx, `INSERT INTO services (name, description, price_cents) VALUES (?, ?, ?)`,
		s.Name, s.Description, s.PriceCents)
	if err != nil {
		return translate(err, nil, nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

func (r *ServiceRepo) GetByID(ctx context.Context, id uint64) (*model.Service, error) {
	var s model.Service
	err := r.q.QueryRowContext(ctx, `SELECT id, name, description, price_cents FROM services WHERE id = ?`, id).
		Scan(&s.ID, &s.Name, &s.Description, &s.PriceCents)
	if err != nil {
		return nil, translate(err, nil, model.ErrServiceNotFound)
	}
	return &s, nil
}

func (r *ServiceRepo) List(ctx context.Context) ([]model.Service, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, name, description, price_cents FROM services ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Service, 0)
	for rows.Next() {
		var s model.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.PriceCents); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *ServiceRepo) Update(ctx context.Context, s *model.Service) error {
	_, err := r.q.ExecContext(ctx, `UPDATE services SET name = ?, description = ?, price_cents = ? WHERE id = ?`,
		s.Name, s.Description, s.PriceCents, s.ID)
	return translate(err, nil, nil)
}

// Delete removes a catalog entry. Entries already charged are kept by the
// foreign key and reported as ErrConflict.
func (r *ServiceRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM services WHERE id = ?`, id)
	if err != nil {
		return translate(err, nil, nil)
	}
	return requireAffected(res, model.ErrServiceNotFound)
}
