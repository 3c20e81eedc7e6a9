package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

// PaymentService records payments and reconciles them with what each
// reservation owes.
type PaymentService struct {
	store ports.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewPaymentService(store ports.Store, log logrus.FieldLogger) *PaymentService {
	return &PaymentService{store: store, log: log, now: time.Now}
}

// Create registers a payment. Status defaults to approved.
func (s *PaymentService) Create(ctx context.Context, reservationID uint64, amountCents int64, method string, status model.PaymentStatus) (*model.Payment, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", model.ErrBadRequest)
	}
	method = strings.TrimSpace(method)
	if method == "" {
		return nil, fmt.Errorf("payment method is required: %w", model.ErrBadRequest)
	}
	if status == "" {
		status = model.PaymentApproved
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown payment status %q: %w", status, model.ErrBadRequest)
	}

	if _, err := s.store.Reservations().GetByID(ctx, reservationID); err != nil {
		return nil, err
	}
	p := &model.Payment{
		ReservationID: reservationID,
		AmountCents:   amountCents,
		Method:        method,
		Status:        status,
		PaidAt:        s.now().UTC(),
	}
	if err := s.store.Payments().Create(ctx, p); err != nil {
		return nil, fmt.Errorf("insert payment: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"payment_id":     p.ID,
		"reservation_id": reservationID,
		"amount_cents":   amountCents,
		"status":         status,
	}).Info("payment recorded")
	return p, nil
}

func (s *PaymentService) Get(ctx context.Context, id uint64) (*model.Payment, error) {
	return s.store.Payments().GetByID(ctx, id)
}

// List returns payments of reservations still in progress.
func (s *PaymentService) List(ctx context.Context, f model.PaymentFilter) ([]model.PaymentView, error) {
	return s.store.Payments().List(ctx, f)
}

// Update applies the supplied fields and keeps the others.
func (s *PaymentService) Update(ctx context.Context, id uint64, patch model.PaymentPatch) (*model.Payment, error) {
	if patch.AmountCents == nil && patch.Method == nil && patch.Status == nil {
		return nil, model.ErrNoFieldsToUpdate
	}
	if patch.AmountCents != nil && *patch.AmountCents <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", model.ErrBadRequest)
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, fmt.Errorf("unknown payment status %q: %w", *patch.Status, model.ErrBadRequest)
	}

	var out *model.Payment
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		cur, err := tx.Payments().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.AmountCents != nil {
			cur.AmountCents = *patch.AmountCents
		}
		if patch.Method != nil && strings.TrimSpace(*patch.Method) != "" {
			cur.Method = strings.TrimSpace(*patch.Method)
		}
		if patch.Status != nil {
			cur.Status = *patch.Status
		}
		if err := tx.Payments().Update(ctx, cur); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		out = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *PaymentService) Delete(ctx context.Context, id uint64) error {
	return s.store.Payments().Delete(ctx, id)
}

// Extract builds the itemised statement of one reservation: stay, charges,
// payments and the reconciled totals. Reads share a transaction so the
// totals match the listed items.
func (s *PaymentService) Extract(ctx context.Context, reservationID uint64) (*model.Extract, error) {
	var ex model.Extract
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		v, err := tx.Reservations().GetView(ctx, reservationID)
		if err != nil {
			return err
		}
		room, err := tx.Rooms().GetByID(ctx, v.RoomID)
		if err != nil {
			return fmt.Errorf("load room: %w", err)
		}
		charges, err := tx.Charges().ListByReservation(ctx, reservationID)
		if err != nil {
			return fmt.Errorf("list charges: %w", err)
		}
		payments, err := tx.Payments().ListByReservation(ctx, reservationID)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}

		ex = model.Extract{
			Reservation:  *v,
			RoomCapacity: room.Capacity,
			HolderName:   v.UserName,
			HolderEmail:  v.UserEmail,
			Charges:      charges,
			Payments:     payments,
		}
		if v.GuestID != nil {
			g, err := tx.Guests().GetByID(ctx, *v.GuestID)
			if err != nil {
				return fmt.Errorf("load guest: %w", err)
			}
			ex.HolderName = g.FullName()
			if g.Email != nil && *g.Email != "" {
				ex.HolderEmail = *g.Email
			}
		}
		ex.Reconciliation = Reconcile(v.TotalCents, SumCharges(charges), SumPayments(payments))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &ex, nil
}

// Summaries reconciles every reservation that is still confirmed or checked
// in.
func (s *PaymentService) Summaries(ctx context.Context) ([]model.PaymentSummary, error) {
	rows, err := s.store.Payments().Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("load summaries: %w", err)
	}
	out := make([]model.PaymentSummary, 0, len(rows))
	for _, r := range rows {
		holder := r.UserName
		if r.GuestName != nil && *r.GuestName != "" {
			holder = *r.GuestName
		}
		out = append(out, model.PaymentSummary{
			SummaryRow:     r,
			HolderName:     holder,
			Reconciliation: Reconcile(r.RoomTotalCents, r.ConsumptionCents, r.PaidCents),
		})
	}
	return out, nil
}
