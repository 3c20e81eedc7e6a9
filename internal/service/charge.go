package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

// ChargeService keeps the consumption ledger of reservations.
type ChargeService struct {
	store ports.Store
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewChargeService(store ports.Store, log logrus.FieldLogger) *ChargeService {
	return &ChargeService{store: store, log: log, now: time.Now}
}

// Create records quantity units of a service against a reservation at the
// service's current price.
func (s *ChargeService) Create(ctx context.Context, reservationID, serviceID uint64, quantity int) (*model.Charge, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", model.ErrBadRequest)
	}

	var c model.Charge
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		if _, err := tx.Reservations().GetByID(ctx, reservationID); err != nil {
			return err
		}
		svc, err := tx.Services().GetByID(ctx, serviceID)
		if err != nil {
			return err
		}
		c = model.Charge{
			ReservationID:      reservationID,
			ServiceID:          serviceID,
			Quantity:           quantity,
			UnitPriceCents:     svc.PriceCents,
			ConsumedAt:         s.now().UTC(),
			ServiceName:        svc.Name,
			ServiceDescription: svc.Description,
		}
		return tx.Charges().Create(ctx, &c)
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"charge_id":      c.ID,
		"reservation_id": reservationID,
		"service_id":     serviceID,
		"quantity":       quantity,
	}).Info("charge recorded")
	return &c, nil
}

func (s *ChargeService) Get(ctx context.Context, id uint64) (*model.Charge, error) {
	return s.store.Charges().GetByID(ctx, id)
}

// List returns the charges of a reservation, most recent first.
func (s *ChargeService) List(ctx context.Context, reservationID uint64) ([]model.Charge, error) {
	return s.store.Charges().ListByReservation(ctx, reservationID)
}

// Update changes the service and/or quantity of a charge. Switching service
// takes a fresh snapshot of the new service price; otherwise the recorded
// unit price is kept.
func (s *ChargeService) Update(ctx context.Context, id uint64, patch model.ChargePatch) (*model.Charge, error) {
	if patch.ServiceID == nil && patch.Quantity == nil {
		return nil, model.ErrNoFieldsToUpdate
	}
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", model.ErrBadRequest)
	}

	var c *model.Charge
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		cur, err := tx.Charges().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if patch.ServiceID != nil {
			svc, err := tx.Services().GetByID(ctx, *patch.ServiceID)
			if err != nil {
				return err
			}
			cur.ServiceID = svc.ID
			cur.UnitPriceCents = svc.PriceCents
			cur.ServiceName = svc.Name
			cur.ServiceDescription = svc.Description
		}
		if patch.Quantity != nil {
			cur.Quantity = *patch.Quantity
		}
		if err := tx.Charges().Update(ctx, cur); err != nil {
			return fmt.Errorf("update charge: %w", err)
		}
		c = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *ChargeService) Delete(ctx context.Context, id uint64) error {
	return s.store.Charges().Delete(ctx, id)
}
