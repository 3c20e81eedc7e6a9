// Package queue carries reservation events over RabbitMQ: the publisher
// used by the booking service and the consumer that keeps the audit log.
package queue

import (
	"time"

	"github.com/fasthotel/hotel-api/internal/model"
)

// ReservationQueue is the durable queue every reservation event goes to.
const ReservationQueue = "reservation.events"

const (
	EventReservationCreated   = "reservation.created"
	EventReservationFinalized = "reservation.finalized"
)

// ReservationEvent is published after a reservation change commits. It
// carries enough for consumers to log or notify without querying the
// database.
type ReservationEvent struct {
	Type          string  `json:"type"`
	ReservationID uint64  `json:"reservation_id"`
	UserID        uint64  `json:"user_id"`
	GuestID       *uint64 `json:"guest_id,omitempty"`
	RoomID        uint64  `json:"room_id"`
	RoomNumber    string  `json:"room_number"`
	CheckIn       string  `json:"check_in"`
	CheckOut      string  `json:"check_out"`
	TotalCents    int64   `json:"total_cents"`
	Status        string  `json:"status"`
	OccurredAt    string  `json:"occurred_at"`
}

func newReservationEvent(kind string, r model.Reservation, roomNumber string, at time.Time) ReservationEvent {
	return ReservationEvent{
		Type:          kind,
		ReservationID: r.ID,
		UserID:        r.UserID,
		GuestID:       r.GuestID,
		RoomID:        r.RoomID,
		RoomNumber:    roomNumber,
		CheckIn:       r.CheckIn.Format(time.DateOnly),
		CheckOut:      r.CheckOut.Format(time.DateOnly),
		TotalCents:    r.TotalCents,
		Status:        string(r.Status),
		OccurredAt:    at.UTC().Format(time.RFC3339),
	}
}
