package repository

import (
	"context"
	"strings"

	"github.com/fasthotel/hotel-api/internal/model"
)

// RoomRepo reads and writes the rooms table.
type RoomRepo struct {
	q    DBTX
	lock bool // append FOR UPDATE to LockByID (inside a transaction)
}

// NewRoomRepo returns a RoomRepo running outside any transaction.
func NewRoomRepo(q DBTX) *RoomRepo { return &RoomRepo{q: q} }

const roomColumns = `id, number, type, capacity, nightly_rate_cents, status, description, image_url, created_at`

// rooms are listed by the numeric value of their number first, so "9"
// comes before "10"; non numeric numbers sort by text after that.
const roomOrder = ` ORDER BY CAST(number AS UNSIGNED), number`

func scanRoom(s scanner) (*model.Room, error) {
	var r model.Room
	err := s.Scan(&r.ID, &r.Number, &r.Type, &r.Capacity, &r.NightlyRateCents, &r.Status, &r.Description, &r.ImageURL, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a room and reads back its generated fields.
func (r *RoomRepo) Create(ctx context.Context, room *model.Room) error {
	const q = `INSERT INTO rooms (number, type, capacity, nightly_rate_cents, status, description, image_url)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.q.ExecContext(ctx, q, room.Number, room.Type, room.Capacity, room.NightlyRateCents, room.Status, room.Description, room.ImageURL)
	if err != nil {
		return translate(err, model.ErrRoomNumberTaken, nil)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*room = *created
	return nil
}

func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	room, err := scanRoom(row)
	if err != nil {
		return nil, translate(err, nil, model.ErrRoomNotFound)
	}
	return room, nil
}

// LockByID is GetByID with a row lock when running in a transaction.
func (r *RoomRepo) LockByID(ctx context.Context, id uint64) (*model.Room, error) {
	q := `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	if r.lock {
		q += ` FOR UPDATE`
	}
	room, err := scanRoom(r.q.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, translate(err, nil, model.ErrRoomNotFound)
	}
	return room, nil
}

// List returns every room, or only those in status when it is set.
func (r *RoomRepo) List(ctx context.Context, status model.RoomStatus) ([]model.Room, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT ` + roomColumns + ` FROM rooms`)
	if status != "" {
		sb.WriteString(` WHERE status = ?`)
		args = append(args, status)
	}
	sb.WriteString(roomOrder)

	rows, err := r.q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Room, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *room)
	}
	return out, rows.Err()
}

func (r *RoomRepo) Update(ctx context.Context, room *model.Room) error {
	const q = `UPDATE rooms SET number = ?, type = ?, capacity = ?, nightly_rate_cents = ?, status = ?, description = ?, image_url = ?
	           WHERE id = ?`
	_, err := r.q.ExecContext(ctx, q, room.Number, room.Type, room.Capacity, room.NightlyRateCents, room.Status, room.Description, room.ImageURL, room.ID)
	return translate(err, model.ErrRoomNumberTaken, nil)
}

func (r *RoomRepo) UpdateStatus(ctx context.Context, id uint64, status model.RoomStatus) error {
	_, err := r.q.ExecContext(ctx, `UPDATE rooms SET status = ? WHERE id = ?`, status, id)
	return err
}

// Delete removes a room. Rooms with reservations are protected by the
// foreign key and yield ErrConflict.
func (r *RoomRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return translate(err, nil, nil)
	}
	return requireAffected(res, model.ErrRoomNotFound)
}
