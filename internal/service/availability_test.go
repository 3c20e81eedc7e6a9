package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fasthotel/hotel-api/internal/model"
)

func TestNights(t *testing.T) {
	cases := []struct {
		name     string
		in, out  time.Time
		expected int64
	}{
		{"three nights", date("2025-01-01"), date("2025-01-04"), 3},
		{"same day", date("2025-01-01"), date("2025-01-01"), 0},
		{"inverted", date("2025-01-04"), date("2025-01-01"), -3},
		{"partial day rounds up", date("2025-01-01"), date("2025-01-02").Add(2 * time.Hour), 2},
		{"under a day", date("2025-01-01").Add(12 * time.Hour), date("2025-01-02"), 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Nights(tc.in, tc.out))
		})
	}
}

func TestOverlaps(t *testing.T) {
	jan1, jan4, jan5, jan6, jan7 := date("2025-01-01"), date("2025-01-04"), date("2025-01-05"), date("2025-01-06"), date("2025-01-07")

	assert.True(t, Overlaps(jan4, jan6, jan1, jan5))
	assert.False(t, Overlaps(jan5, jan7, jan1, jan5), "check-out day is free")
	assert.False(t, Overlaps(jan1, jan4, jan5, jan7))
	assert.True(t, Overlaps(jan1, jan7, jan4, jan5), "containment overlaps")
}

func TestQuoteStay_Prices(t *testing.T) {
	st := newMemStore()
	room := st.addRoom("101", 10000, model.RoomAvailable)

	q, r, err := QuoteStay(context.Background(), st, room.ID, date("2025-01-01"), date("2025-01-04"), 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), q.Nights)
	assert.Equal(t, int64(30000), q.TotalCents)
	assert.Equal(t, model.RoomAvailable, q.RoomStatus)
	assert.Equal(t, "101", r.Number)
}

func TestQuoteStay_Errors(t *testing.T) {
	ctx := context.Background()
	st := newMemStore()
	user := st.addUser("alice", model.RoleClient)
	free := st.addRoom("101", 10000, model.RoomAvailable)
	broken := st.addRoom("102", 10000, model.RoomMaintenance)
	booked := st.addReservation(free.ID, user.ID, "2025-01-01", "2025-01-05", model.ReservationConfirmed, 40000)

	t.Run("missing room", func(t *testing.T) {
		_, _, err := QuoteStay(ctx, st, 999, date("2025-01-01"), date("2025-01-02"), 0)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
	t.Run("room not available", func(t *testing.T) {
		_, _, err := QuoteStay(ctx, st, broken.ID, date("2025-02-01"), date("2025-02-02"), 0)
		assert.ErrorIs(t, err, model.ErrUnavailable)
	})
	t.Run("status gate lifted for edits", func(t *testing.T) {
		_, _, err := QuoteStay(ctx, st, broken.ID, date("2025-02-01"), date("2025-02-02"), booked.ID)
		assert.NoError(t, err)
	})
	t.Run("empty range", func(t *testing.T) {
		_, _, err := QuoteStay(ctx, st, free.ID, date("2025-02-01"), date("2025-02-01"), 0)
		assert.ErrorIs(t, err, model.ErrInvalidRange)
	})
	t.Run("overlap", func(t *testing.T) {
		_, _, err := QuoteStay(ctx, st, free.ID, date("2025-01-04"), date("2025-01-06"), 0)
		assert.ErrorIs(t, err, model.ErrDateOverlap)
		assert.ErrorIs(t, err, model.ErrConflict)
	})
	t.Run("adjacent stay fits", func(t *testing.T) {
		q, _, err := QuoteStay(ctx, st, free.ID, date("2025-01-05"), date("2025-01-07"), 0)
		require.NoError(t, err)
		assert.Equal(t, int64(20000), q.TotalCents)
	})
	t.Run("own reservation ignored", func(t *testing.T) {
		_, _, err := QuoteStay(ctx, st, free.ID, date("2025-01-02"), date("2025-01-06"), booked.ID)
		assert.NoError(t, err)
	})
}

func TestQuoteStay_IgnoresInactiveReservations(t *testing.T) {
	st := newMemStore()
	user := st.addUser("alice", model.RoleClient)
	room := st.addRoom("101", 10000, model.RoomAvailable)
	st.addReservation(room.ID, user.ID, "2025-01-01", "2025-01-05", model.ReservationCancelled, 40000)
	st.addReservation(room.ID, user.ID, "2025-01-01", "2025-01-05", model.ReservationFinalized, 40000)

	_, _, err := QuoteStay(context.Background(), st, room.ID, date("2025-01-02"), date("2025-01-03"), 0)
	assert.NoError(t, err)
}
