package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service/ports"
)

// RoomService manages the room inventory.
type RoomService struct {
	store ports.Store
	log   logrus.FieldLogger
}

func NewRoomService(store ports.Store, log logrus.FieldLogger) *RoomService {
	return &RoomService{store: store, log: log}
}

func validateRoom(r *model.Room) error {
	r.Number = strings.TrimSpace(r.Number)
	r.Type = strings.TrimSpace(r.Type)
	if r.Number == "" || r.Type == "" {
		return fmt.Errorf("number and type are required: %w", model.ErrBadRequest)
	}
	if r.Capacity <= 0 {
		return fmt.Errorf("capacity must be positive: %w", model.ErrBadRequest)
	}
	if r.NightlyRateCents <= 0 {
		return fmt.Errorf("nightly rate must be positive: %w", model.ErrBadRequest)
	}
	if r.Status == "" {
		r.Status = model.RoomAvailable
	}
	if !r.Status.Valid() {
		return fmt.Errorf("unknown room status %q: %w", r.Status, model.ErrBadRequest)
	}
	return nil
}

func (s *RoomService) Create(ctx context.Context, r model.Room) (*model.Room, error) {
	if err := validateRoom(&r); err != nil {
		return nil, err
	}
	if err := s.store.Rooms().Create(ctx, &r); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"room_id": r.ID, "number": r.Number}).Info("room created")
	return &r, nil
}

func (s *RoomService) Get(ctx context.Context, id uint64) (*model.Room, error) {
	return s.store.Rooms().GetByID(ctx, id)
}

// List returns rooms in numeric order, optionally only those with status.
func (s *RoomService) List(ctx context.Context, status model.RoomStatus) ([]model.Room, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown room status %q: %w", status, model.ErrBadRequest)
	}
	return s.store.Rooms().List(ctx, status)
}

// Update replaces every editable field of the room.
func (s *RoomService) Update(ctx context.Context, id uint64, r model.Room) (*model.Room, error) {
	if err := validateRoom(&r); err != nil {
		return nil, err
	}
	cur, err := s.store.Rooms().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.ID = cur.ID
	r.CreatedAt = cur.CreatedAt
	if err := s.store.Rooms().Update(ctx, &r); err != nil {
		return nil, err
	}
	return &r, nil
}

// Delete removes a room. Rooms referenced by reservations are kept and the
// store reports a conflict.
func (s *RoomService) Delete(ctx context.Context, id uint64) error {
	if err := s.store.Rooms().Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("room_id", id).Info("room deleted")
	return nil
}

// CatalogService manages the billable services offered to guests.
type CatalogService struct {
	store ports.Store
}

func NewCatalogService(store ports.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) Create(ctx context.Context, name string, description *string, priceCents int64) (*model.Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", model.ErrBadRequest)
	}
	if priceCents < 0 {
		return nil, fmt.Errorf("price cannot be negative: %w", model.ErrBadRequest)
	}
	svc := &model.Service{Name: name, Description: description, PriceCents: priceCents}
	if err := s.store.Services().Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint64) (*model.Service, error) {
	return s.store.Services().GetByID(ctx, id)
}

func (s *CatalogService) List(ctx context.Context) ([]model.Service, error) {
	return s.store.Services().List(ctx)
}

// Update changes the catalog entry. Existing charges keep the price they
// were recorded with.
func (s *CatalogService) Update(ctx context.Context, id uint64, patch model.ServicePatch) (*model.Service, error) {
	if patch.Name == nil && patch.Description == nil && patch.PriceCents == nil {
		return nil, model.ErrNoFieldsToUpdate
	}
	cur, err := s.store.Services().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, fmt.Errorf("name is required: %w", model.ErrBadRequest)
		}
		cur.Name = name
	}
	if patch.Description != nil {
		cur.Description = patch.Description
	}
	if patch.PriceCents != nil {
		if *patch.PriceCents < 0 {
			return nil, fmt.Errorf("price cannot be negative: %w", model.ErrBadRequest)
		}
		cur.PriceCents = *patch.PriceCents
	}
	if err := s.store.Services().Update(ctx, cur); err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *CatalogService) Delete(ctx context.Context, id uint64) error {
	return s.store.Services().Delete(ctx, id)
}
