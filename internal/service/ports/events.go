package ports

import (
	"context"

	"github.com/fasthotel/hotel-api/internal/model"
)

// EventPublisher announces committed reservation changes to other systems.
// Implementations are best effort: callers log errors and carry on.
type EventPublisher interface {
	ReservationCreated(ctx context.Context, r model.Reservation, roomNumber string) error
	ReservationFinalized(ctx context.Context, r model.Reservation, roomNumber string) error
}
