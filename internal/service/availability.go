package service

import (
	"context"
	"fmt"
	"time"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

const day = 24 * time.Hour

// Nights counts the nights between check-in and check-out, rounding any
// partial day up. Inverted ranges yield zero or a negative count.
func Nights(checkIn, checkOut time.Time) int64 {
	d := checkOut.Sub(checkIn)
	n := int64(d / day)
	if d%day > 0 {
		n++
	}
	return n
}

// Overlaps reports whether [aIn, aOut) and [bIn, bOut) share at least one
// instant. Touching ranges (aOut == bIn) do not overlap.
func Overlaps(aIn, aOut, bIn, bOut time.Time) bool {
	return aIn.Before(bOut) && aOut.After(bIn)
}

// QuoteStay checks whether roomID can host [checkIn, checkOut) and prices
// the stay. ignoreID is the reservation being edited: it is left out of the
// overlap scan and lifts the room status gate, which only guards brand new
// bookings. QuoteStay never writes; when st is transactional the room row
// stays locked until the caller commits.
func QuoteStay(ctx context.Context, st ports.Store, roomID uint64, checkIn, checkOut time.Time, ignoreID uint64) (model.Quote, *model.Room, error) {
	room, err := st.Rooms().LockByID(ctx, roomID)
	if err != nil {
		return model.Quote{}, nil, fmt.Errorf("load room: %w", err)
	}
	if room.Status != model.RoomAvailable && ignoreID == 0 {
		return model.Quote{}, room, fmt.Errorf("room %s is %s: %w", room.Number, room.Status, model.ErrUnavailable)
	}

	nights := Nights(checkIn, checkOut)
	if nights <= 0 {
		return model.Quote{}, room, fmt.Errorf("check-out must be after check-in: %w", model.ErrInvalidRange)
	}

	clashes, err := st.Reservations().FindOverlapping(ctx, roomID, checkIn, checkOut, ignoreID)
	if err != nil {
		return model.Quote{}, room, fmt.Errorf("scan overlapping reservations: %w", err)
	}
	if len(clashes) > 0 {
		return model.Quote{}, room, model.ErrDateOverlap
	}

	return model.Quote{
		RoomID:     room.ID,
		Nights:     nights,
		TotalCents: room.NightlyRateCents * nights,
		RoomStatus: room.Status,
	}, room, nil
}
