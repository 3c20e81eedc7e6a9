package model

import "time"

// RoomStatus is the operational flag of a room. It is a hint for the front
// desk and a gate for brand new bookings; whether a room is free for given
// dates is always derived from active reservations.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
)

// Valid reports whether s is a known room status.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomCleaning:
		return true
	}
	return false
}

// Room represents a bookable room as stored in the `rooms` table.
//
// Fields:
//  ID               – primary key identifier.
//  Number           – unique room number shown to guests (e.g. "101").
//  Type             – free form category (single, double, suite...).
//  Capacity         – maximum number of occupants.
//  NightlyRateCents – price of one night in cents.
//  Status           – operational flag, see RoomStatus.
//  Description      – optional description.
//  ImageURL         – optional picture.
//  CreatedAt        – creation timestamp.
type Room struct {
	ID               uint64     `json:"id"`                 // rooms.id
	Number           string     `json:"number"`             // rooms.number
	Type             string     `json:"type"`               // rooms.type
	Capacity         int        `json:"capacity"`           // rooms.capacity
	NightlyRateCents int64      `json:"nightly_rate_cents"` // rooms.nightly_rate_cents
	Status           RoomStatus `json:"status"`             // rooms.status
	Description      *string    `json:"description,omitempty"`
	ImageURL         *string    `json:"image_url,omitempty"`
	CreatedAt        time.Time  `json:"created_at"` // rooms.created_at
}
