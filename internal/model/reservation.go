package model

import "time"

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCheckedIn ReservationStatus = "checked_in"
	ReservationFinalized ReservationStatus = "finalized"
	ReservationCancelled ReservationStatus = "cancelled"
)

// ActiveStatuses are the states that hold a room for their date range.
var ActiveStatuses = []ReservationStatus{ReservationConfirmed, ReservationCheckedIn}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationCheckedIn, ReservationFinalized, ReservationCancelled:
		return true
	}
	return false
}

// Active is true while the reservation blocks its room.
func (s ReservationStatus) Active() bool {
	return s == ReservationConfirmed || s == ReservationCheckedIn
}

// Terminal is true for states no operation moves out of.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationFinalized || s == ReservationCancelled
}

// Reservation records a stay booked on a room. CheckOut is exclusive: the
// check-out day is free for the next booking.
//
// Fields:
//  ID               – primary key identifier.
//  RoomID           – booked room.
//  UserID           – account that made the booking.
//  GuestID          – optional primary guest.
//  CheckIn          – first night (UTC date).
//  CheckOut         – departure day (UTC date, exclusive).
//  TotalCents       – nightly rate × nights at booking time.
//  Status           – lifecycle state.
//  CreatedAt        – creation timestamp.
//  ActualCheckoutAt – stamped when the stay is finalized.
type Reservation struct {
	ID               uint64            `json:"id"`          // reservations.id
	RoomID           uint64            `json:"room_id"`     // reservations.room_id
	UserID           uint64            `json:"user_id"`     // reservations.user_id
	GuestID          *uint64           `json:"guest_id"`    // reservations.guest_id (nullable)
	CheckIn          time.Time         `json:"check_in"`    // reservations.check_in
	CheckOut         time.Time         `json:"check_out"`   // reservations.check_out
	TotalCents       int64             `json:"total_cents"` // reservations.total_cents
	Status           ReservationStatus `json:"status"`      // reservations.status
	CreatedAt        time.Time         `json:"created_at"`  // reservations.created_at
	ActualCheckoutAt *time.Time        `json:"actual_checkout_at,omitempty"`
}

// ReservationView is a reservation joined with the labels list screens need.
type ReservationView struct {
	Reservation
	RoomNumber     string  `json:"room_number"`
	RoomType       string  `json:"room_type"`
	NightlyRate    int64   `json:"nightly_rate_cents"`
	UserName       string  `json:"user_name"`
	UserEmail      string  `json:"user_email"`
	GuestName      *string `json:"guest_name,omitempty"`
}

// ReservationFilter narrows reservation listings. Zero values mean "any".
type ReservationFilter struct {
	UserID uint64
	RoomID uint64
	Status ReservationStatus
}

// NewReservation carries the input of a booking request.
type NewReservation struct {
	RoomID   uint64
	GuestID  *uint64
	CheckIn  time.Time
	CheckOut time.Time
}

// ReservationPatch is a partial update. Only non-nil fields are applied;
// the rest keep their stored values.
type ReservationPatch struct {
	RoomID   *uint64
	GuestID  *uint64
	CheckIn  *time.Time
	CheckOut *time.Time
	Status   *ReservationStatus
}

// Empty reports whether the patch carries no field at all.
func (p ReservationPatch) Empty() bool {
	return p.RoomID == nil && p.GuestID == nil && p.CheckIn == nil && p.CheckOut == nil && p.Status == nil
}

// TouchesStay is true when the patch changes the room or the dates, which
// requires availability and price to be evaluated again.
func (p ReservationPatch) TouchesStay() bool {
	return p.RoomID != nil || p.CheckIn != nil || p.CheckOut != nil
}

// Quote is the outcome of an availability and pricing check.
type Quote struct {
	RoomID     uint64     `json:"room_id"`
	Nights     int64      `json:"nights"`
	TotalCents int64      `json:"total_cents"`
	RoomStatus RoomStatus `json:"room_status"`
}
