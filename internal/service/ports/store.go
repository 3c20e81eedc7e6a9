// Package ports declares the persistence and messaging capabilities the
// domain services depend on. The MySQL implementation lives in
// internal/repository; tests provide in-memory fakes.
package ports

import (
	"context"
	"time"

	"github.com/fasthotel/hotel-api/internal/model"
)

// Store groups the repositories that take part in booking transactions.
// Repositories obtained from the Store passed to WithinTx share a single
// database transaction; any error returned by fn rolls all of it back.
type Store interface {
	Rooms() RoomRepo
	Reservations() ReservationRepo
	Charges() ChargeRepo
	Payments() PaymentRepo
	Services() ServiceRepo
	Guests() GuestRepo
	WithinTx(ctx context.Context, fn func(tx Store) error) error
}

type RoomRepo interface {
	Create(ctx context.Context, r *model.Room) error
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	// LockByID reads the room and, inside a transaction, holds a row lock on
	// it until commit. Bookings of the same room serialise on this lock.
	LockByID(ctx context.Context, id uint64) (*model.Room, error)
	List(ctx context.Context, status model.RoomStatus) ([]model.Room, error)
	Update(ctx context.Context, r *model.Room) error
	UpdateStatus(ctx context.Context, id uint64, status model.RoomStatus) error
	Delete(ctx context.Context, id uint64) error
}

type ReservationRepo interface {
	Create(ctx context.Context, r *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	// GetActiveForUpdate returns the reservation only when it is confirmed or
	// checked in, locking the row. Anything else is ErrReservationNotFound.
	GetActiveForUpdate(ctx context.Context, id uint64) (*model.Reservation, error)
	// FindOverlapping returns ids of active reservations on roomID whose
	// [check_in, check_out) intersects [checkIn, checkOut). excludeID 0
	// excludes nothing.
	FindOverlapping(ctx context.Context, roomID uint64, checkIn, checkOut time.Time, excludeID uint64) ([]uint64, error)
	GetView(ctx context.Context, id uint64) (*model.ReservationView, error)
	List(ctx context.Context, f model.ReservationFilter) ([]model.ReservationView, error)
	Update(ctx context.Context, r *model.Reservation) error
	Delete(ctx context.Context, id uint64) error
	DeleteByGuest(ctx context.Context, guestID uint64) (int64, error)
}

type ChargeRepo interface {
	Create(ctx context.Context, c *model.Charge) error
	GetByID(ctx context.Context, id uint64) (*model.Charge, error)
	ListByReservation(ctx context.Context, reservationID uint64) ([]model.Charge, error)
	Update(ctx context.Context, c *model.Charge) error
	Delete(ctx context.Context, id uint64) error
}

type PaymentRepo interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByID(ctx context.Context, id uint64) (*model.Payment, error)
	// List returns payments of reservations that are neither finalized nor
	// cancelled, newest first.
	List(ctx context.Context, f model.PaymentFilter) ([]model.PaymentView, error)
	ListByReservation(ctx context.Context, reservationID uint64) ([]model.Payment, error)
	Update(ctx context.Context, p *model.Payment) error
	Delete(ctx context.Context, id uint64) error
	// Summaries returns per reservation totals for reservations not in a
	// terminal state, newest booking first.
	Summaries(ctx context.Context) ([]model.SummaryRow, error)
}

type ServiceRepo interface {
	Create(ctx context.Context, s *model.Service) error
	GetByID(ctx context.Context, id uint64) (*model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
	Update(ctx context.Context, s *model.Service) error
	Delete(ctx context.Context, id uint64) error
}

type GuestRepo interface {
	Create(ctx context.Context, g *model.Guest) error
	GetByID(ctx context.Context, id uint64) (*model.Guest, error)
	// ListCurrent returns guests with an active reservation or with no
	// reservation at all, by name.
	ListCurrent(ctx context.Context) ([]model.Guest, error)
	// FindByDocument and FindByIDCard return 0 when nobody holds the value.
	FindByDocument(ctx context.Context, doc string) (uint64, error)
	FindByIDCard(ctx context.Context, idCard string) (uint64, error)
	Update(ctx context.Context, g *model.Guest) error
	Delete(ctx context.Context, id uint64) error
}
