package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

// GuestService manages guest registrations.
type GuestService struct {
	store ports.Store
	log   logrus.FieldLogger
}

func NewGuestService(store ports.Store, log logrus.FieldLogger) *GuestService {
	return &GuestService{store: store, log: log}
}

func normalizeGuest(g *model.Guest) error {
	g.FirstName = strings.TrimSpace(g.FirstName)
	g.LastName = strings.TrimSpace(g.LastName)
	if g.FirstName == "" {
		return fmt.Errorf("first name is required: %w", model.ErrBadRequest)
	}
	g.Document = blankToNil(g.Document)
	g.IDCard = blankToNil(g.IDCard)
	g.Email = blankToNil(g.Email)
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

// checkDocuments rejects a CPF or RG already used by a guest other than
// selfID.
func checkDocuments(ctx context.Context, repo ports.GuestRepo, g *model.Guest, selfID uint64) error {
	if g.Document != nil {
		id, err := repo.FindByDocument(ctx, *g.Document)
		if err != nil {
			return fmt.Errorf("lookup document: %w", err)
		}
		if id != 0 && id != selfID {
			return model.ErrDocumentTaken
		}
	}
	if g.IDCard != nil {
		id, err := repo.FindByIDCard(ctx, *g.IDCard)
		if err != nil {
			return fmt.Errorf("lookup id card: %w", err)
		}
		if id != 0 && id != selfID {
			return model.ErrIDCardTaken
		}
	}
	return nil
}

func (s *GuestService) Create(ctx context.Context, g model.Guest) (*model.Guest, error) {
	if err := normalizeGuest(&g); err != nil {
		return nil, err
	}
	if err := checkDocuments(ctx, s.store.Guests(), &g, 0); err != nil {
		return nil, err
	}
	if err := s.store.Guests().Create(ctx, &g); err != nil {
		return nil, err
	}
	s.log.WithField("guest_id", g.ID).Info("guest registered")
	return &g, nil
}

func (s *GuestService) Get(ctx context.Context, id uint64) (*model.Guest, error) {
	return s.store.Guests().GetByID(ctx, id)
}

// List returns guests currently relevant to the front desk: those with an
// active reservation and those who never booked.
func (s *GuestService) List(ctx context.Context) ([]model.Guest, error) {
	return s.store.Guests().ListCurrent(ctx)
}

// Update replaces the guest record.
func (s *GuestService) Update(ctx context.Context, id uint64, g model.Guest) (*model.Guest, error) {
	if err := normalizeGuest(&g); err != nil {
		return nil, err
	}
	cur, err := s.store.Guests().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDocuments(ctx, s.store.Guests(), &g, id); err != nil {
		return nil, err
	}
	g.ID = id
	g.CreatedAt = cur.CreatedAt
	if err := s.store.Guests().Update(ctx, &g); err != nil {
		return nil, err
	}
	return &g, nil
}

// Delete removes a guest together with every reservation they are the
// primary guest of (and, by cascade, those reservations' charges and
// payments). Nothing is removed when the guest does not exist.
func (s *GuestService) Delete(ctx context.Context, id uint64) error {
	var removed int64
	err := s.store.WithinTx(ctx, func(tx ports.Store) error {
		n, err := tx.Reservations().DeleteByGuest(ctx, id)
		if err != nil {
			return fmt.Errorf("delete guest reservations: %w", err)
		}
		removed = n
		return tx.Guests().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.log.WithFields(logrus.Fields{"guest_id": id, "reservations_removed": removed}).Info("guest deleted")
	return nil
}
