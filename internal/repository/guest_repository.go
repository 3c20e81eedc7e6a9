package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/fasthotel/hotel-api/internal/model"
)

// GuestRepo stores guest registrations. Document (CPF) and id card (RG)
// carry unique indexes; NULLs do not collide.
type GuestRepo struct{ q DBTX }

func NewGuestRepo(q DBTX) *GuestRepo { return &GuestRepo{q: q} }

const guestColumns = `id, first_name, last_name, document, id_card, birth_date, email, phone,
       street, street_number, district, postal_code, city, state, created_at`

func scanGuest(s scanner) (*model.Guest, error) {
	var g model.Guest
	err := s.Scan(&g.ID, &g.FirstName, &g.LastName, &g.Document, &g.IDCard, &g.BirthDate, &g.Email, &g.Phone,
		&g.Street, &g.StreetNumber, &g.District, &g.PostalCode, &g.City, &g.State, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// guestDup picks the error for a unique key violation from the index name
// in the server message.
func guestDup(err error) error {
	if strings.Contains(err.Error(), "uq_guests_id_card") {
		return model.ErrIDCardTaken
	}
	return model.ErrDocumentTaken
}

func (r *GuestRepo) Create(ctx context.Context, g *model.Guest) error {
	const q = `INSERT INTO guests (first_name, last_name, document, id_card, birth_date, email, phone,
	                               street, street_number, district, postal_code, city, state)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, g.FirstName, g.LastName, g.Document, g.IDCard, g.BirthDate, g.Email, g.Phone,
		g.Street, g.StreetNumber, g.District, g.PostalCode, g.City, g.State)
	if err != nil {
		return translate(err, guestDup(err), nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*g = *created
	return nil
}

func (r *GuestRepo) GetByID(ctx context.Context, id uint64) (*model.Guest, error) {
	g, err := scanGuest(r.q.QueryRowContext(ctx, `SELECT `+guestColumns+` FROM guests WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err, nil, model.ErrGuestNotFound)
	}
	return g, nil
}

// ListCurrent returns guests staying or about to stay, plus guests that
// never booked, by name.
func (r *GuestRepo) ListCurrent(ctx context.Context) ([]model.Guest, error) {
	const q = `SELECT ` + guestColumns + ` FROM guests g
	           WHERE EXISTS (SELECT 1 FROM reservations r WHERE r.guest_id = g.id AND r.status IN ` + activeIn + `)
	              OR NOT EXISTS (SELECT 1 FROM reservations r WHERE r.guest_id = g.id)
	           ORDER BY g.first_name, g.last_name`
	rows, err := r.q.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Guest, 0)
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, rows.Err()
}

func (r *GuestRepo) findID(ctx context.Context, q string, arg string) (uint64, error) {
	var id uint64
	err := r.q.QueryRowContext(ctx, q, arg).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return id, err
}

func (r *GuestRepo) FindByDocument(ctx context.Context, doc string) (uint64, error) {
	return r.findID(ctx, `SELECT id FROM guests WHERE document = ? LIMIT 1`, doc)
}

func (r *GuestRepo) FindByIDCard(ctx context.Context, idCard string) (uint64, error) {
	return r.findID(ctx, `SELECT id FROM guests WHERE id_card = ? LIMIT 1`, idCard)
}

func (r *GuestRepo) Update(ctx context.Context, g *model.Guest) error {
	const q = `UPDATE guests SET first_name = ?, last_name = ?, document = ?, id_card = ?, birth_date = ?, email = ?, phone = ?,
	                  street = ?, street_number = ?, district = ?, postal_code = ?, city = ?, state = ?
	           WHERE id = ?`
	_, err := r.q.ExecContext(ctx, q, g.FirstName, g.LastName, g.Document, g.IDCard, g.BirthDate, g.Email, g.Phone,
		g.Street, g.StreetNumber, g.District, g.PostalCode, g.City, g.State, g.ID)
	if err != nil {
		return translate(err, guestDup(err), nil)
	}
	return nil
}

func (r *GuestRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return translate(err, nil, nil)
	}
	return requireAffected(res, model.ErrGuestNotFound)
}
