package repository

import (
	"context"

	"github.com/fasthotel/hotel-api/internal/model"
)

// UserRepo persists application accounts. Emails are stored normalised
// and are unique.
type UserRepo struct{ q DBTX }

func NewUserRepo(q DBTX) *UserRepo { return &UserRepo{q: q} }

const userColumns = `id, name, email, password_hash, role, guest_id, created_at`

func scanUser(s scanner) (*model.User, error) {
	var u model.User
	if err := s.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.GuestID, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts the user and sets its ID.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	res, err := r.q.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role, guest_id, created_at) VALUES (?,?,?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.Role, u.GuestID, u.CreatedAt)
	if err != nil {
		return translate(err, model.ErrEmailTaken, nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = uint64(id)
	return nil
}

// GetByEmail fetches a user by normalised email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
	if err != nil {
		return nil, translate(err, nil, model.ErrUserNotFound)
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (*model.User, error) {
	u, err := scanUser(r.q.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, translate(err, nil, model.ErrUserNotFound)
	}
	return u, nil
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.q.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	_, err := r.q.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, role=?, guest_id=? WHERE id=?",
		u.Name, u.Email, u.Role, u.GuestID, u.ID)
	return translate(err, model.ErrEmailTaken, nil)
}

// Delete removes the account. Users who booked reservations are kept by
// the foreign key and reported as ErrConflict.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return translate(err, nil, nil)
	}
	return requireAffected(res, model.ErrUserNotFound)
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&n)
	return n, err
}
