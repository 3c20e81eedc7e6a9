package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

// ReservationService runs the reservation lifecycle: booking, edits,
// check-out and removal. Every multi-statement change happens inside one
// store transaction.
type ReservationService struct {
	store  ports.Store
	events ports.EventPublisher
	log    logrus.FieldLogger
	now    func() time.Time
}

func NewReservationService(store ports.Store, events ports.EventPublisher, log logrus.FieldLogger) *ReservationService {
	return &ReservationService{
		store:  store,
		events: events,
		log:    log,
		now:    time.Now,
	}
}

// WithClock replaces the time source, mostly for tests.
func (s *ReservationService) WithClock(now func() time.Time) *ReservationService {
	s.now = now
	return s
}

func (s *ReservationService) today() time.Time {
	return truncateDay(s.now())
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Quote prices a stay without booking it.
func (s *ReservationService) Quote(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (model.Quote, error) {
	if !checkIn.Before(checkOut) {
		return model.Quote{}, fmt.Errorf("check-out must be after check-in: %w", model.ErrInvalidRange)
	}
	q, _, err := QuoteStay(ctx, s.store, roomID, checkIn, checkOut, 0)
	return q, err
}

// Create books a room for the caller. Availability is checked and the row
// inserted under the room lock so two requests for the same dates cannot
// both succeed.
func (s *ReservationService) Create(ctx context.Context, p model.Principal, in model.NewReservation) (*model.Reservation, error) {
	if !in.CheckIn.Before(in.CheckOut) {
		return nil, fmt.Errorf("check-out must be after check-in: %w", model.ErrInvalidRange)
	}
	if in.CheckIn.Before(s.today()) {
		return nil, model.ErrCheckInInPast
	}

	var (
		res  *model.Reservation
		room *model.Room
	)
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if in.GuestID != nil {
			if _, err := tx.Guests().GetByID(ctx, *in.GuestID); err != nil {
				return fmt.Errorf("check guest: %w", err)
			}
		}

		q, r, err := QuoteStay(ctx, tx, in.RoomID, in.CheckIn, in.CheckOut, 0)
		if err != nil {
			return err
		}
		room = r

		res = &model.Reservation{
			RoomID:     in.RoomID,
			UserID:     p.UserID,
			GuestID:    in.GuestID,
			CheckIn:    in.CheckIn,
			CheckOut:   in.CheckOut,
			TotalCents: q.TotalCents,
			Status:     model.ReservationConfirmed,
			CreatedAt:  s.now().UTC(),
		}
		if err := tx.Reservations().Create(ctx, res); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"room_id":        res.RoomID,
		"user_id":        res.UserID,
		"total_cents":    res.TotalCents,
	}).Info("reservation created")

	if err := s.events.ReservationCreated(context.WithoutCancel(ctx), *res, room.Number); err != nil {
		s.log.WithError(err).WithField("reservation_id", res.ID).Warn("publish reservation.created failed")
	}
	return res, nil
}

// Get returns a reservation. Callers outside the front desk only see their
// own bookings; anything else looks absent to them.
func (s *ReservationService) Get(ctx context.Context, p model.Principal, id uint64) (*model.ReservationView, error) {
	v, err := s.store.Reservations().GetView(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsStaff() && v.UserID != p.UserID {
		return nil, model.ErrReservationNotFound
	}
	return v, nil
}

// List returns reservations newest first, restricted to the caller's own
// unless the caller is staff.
func (s *ReservationService) List(ctx context.Context, p model.Principal, f model.ReservationFilter) ([]model.ReservationView, error) {
	if !p.IsStaff() {
		f.UserID = p.UserID
	}
	return s.store.Reservations().List(ctx, f)
}

// Update applies a partial change. Changing the room or either date runs
// the availability check again on the merged stay, ignoring the
// reservation itself, and reprices it.
func (s *ReservationService) Update(ctx context.Context, p model.Principal, id uint64, patch model.ReservationPatch) (*model.Reservation, error) {
	if !p.IsStaff() {
		return nil, model.ErrForbidden
	}
	if patch.Empty() {
		return nil, model.ErrNoFieldsToUpdate
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, fmt.Errorf("unknown status %q: %w", *patch.Status, model.ErrBadRequest)
		}
		if *patch.Status == model.ReservationFinalized {
			return nil, fmt.Errorf("use check-out to finalize a reservation: %w", model.ErrBadRequest)
		}
	}

	var updated model.Reservation
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		cur, err := tx.Reservations().GetByID(ctx, id)
		if err != nil {
			return err
		}
		next := *cur

		if patch.Status != nil && *patch.Status != cur.Status {
			if !canTransition(cur.Status, *patch.Status) {
				return fmt.Errorf("cannot move reservation from %s to %s: %w", cur.Status, *patch.Status, model.ErrConflict)
			}
			next.Status = *patch.Status
		}
		if patch.GuestID != nil {
			if _, err := tx.Guests().GetByID(ctx, *patch.GuestID); err != nil {
				return fmt.Errorf("check guest: %w", err)
			}
			next.GuestID = patch.GuestID
		}

		if patch.TouchesStay() {
			if cur.Status.Terminal() {
				return fmt.Errorf("reservation is %s: %w", cur.Status, model.ErrConflict)
			}
			if patch.RoomID != nil {
				next.RoomID = *patch.RoomID
			}
			if patch.CheckIn != nil {
				next.CheckIn = *patch.CheckIn
			}
			if patch.CheckOut != nil {
				next.CheckOut = *patch.CheckOut
			}
			q, _, err := QuoteStay(ctx, tx, next.RoomID, next.CheckIn, next.CheckOut, cur.ID)
			if err != nil {
				return err
			}
			next.TotalCents = q.TotalCents
		}

		if err := tx.Reservations().Update(ctx, &next); err != nil {
			return fmt.Errorf("update reservation: %w", err)
		}
		updated = next
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": updated.ID,
		"room_id":        updated.RoomID,
		"status":         updated.Status,
		"by":             p.UserID,
	}).Info("reservation updated")
	return &updated, nil
}

// canTransition lists the status edges an edit may take. Finalizing has its
// own operation and terminal states never move.
func canTransition(from, to model.ReservationStatus) bool {
	switch from {
	case model.ReservationConfirmed:
		return to == model.ReservationCheckedIn || to == model.ReservationCancelled
	case model.ReservationCheckedIn:
		return to == model.ReservationCancelled
	}
	return false
}

// Finalize checks the guest out: the reservation becomes finalized with the
// actual checkout time and the room is flagged available again, both in
// the same transaction. Reservations that are not confirmed or checked in
// are reported as not found.
func (s *ReservationService) Finalize(ctx context.Context, p model.Principal, id uint64) (*model.Reservation, error) {
	if !p.IsStaff() {
		return nil, model.ErrForbidden
	}

	var (
		res        model.Reservation
		roomNumber string
	)
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		cur, err := tx.Reservations().GetActiveForUpdate(ctx, id)
		if err != nil {
			return err
		}
		at := s.now().UTC()
		cur.Status = model.ReservationFinalized
		cur.ActualCheckoutAt = &at
		if err := tx.Reservations().Update(ctx, cur); err != nil {
			return fmt.Errorf("finalize reservation: %w", err)
		}
		if err := tx.Rooms().UpdateStatus(ctx, cur.RoomID, model.RoomAvailable); err != nil {
			return fmt.Errorf("release room: %w", err)
		}
		room, err := tx.Rooms().GetByID(ctx, cur.RoomID)
		if err != nil {
			return fmt.Errorf("load room: %w", err)
		}
		roomNumber = room.Number
		res = *cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": res.ID,
		"room_id":        res.RoomID,
		"by":             p.UserID,
	}).Info("reservation finalized")

	if err := s.events.ReservationFinalized(context.WithoutCancel(ctx), res, roomNumber); err != nil {
		s.log.WithError(err).WithField("reservation_id", res.ID).Warn("publish reservation.finalized failed")
	}
	return &res, nil
}

// Delete removes a reservation; its charges and payments go with it through
// the foreign key cascade.
func (s *ReservationService) Delete(ctx context.Context, p model.Principal, id uint64) error {
	if !p.IsAdmin() {
		return model.ErrForbidden
	}
	if err := s.store.Reservations().Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete reservation: %w", err)
	}
	s.log.WithFields(logrus.Fields{"reservation_id": id, "by": p.UserID}).Info("reservation deleted")
	return nil
}
