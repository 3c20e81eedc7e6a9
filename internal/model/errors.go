package model

import (
	"errors"
	"fmt"
)

// Generic failure classes. Handlers translate them into HTTP statuses with
// errors.Is, so entity specific errors below wrap one of these.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrInvalidRange       = errors.New("invalid date range")
	ErrUnavailable        = errors.New("room unavailable")
	ErrBadRequest         = errors.New("bad request")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicate          = errors.New("duplicate")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

var (
	ErrRoomNotFound         = fmt.Errorf("room %w", ErrNotFound)
	ErrReservationNotFound  = fmt.Errorf("reservation %w", ErrNotFound)
	ErrChargeNotFound       = fmt.Errorf("charge %w", ErrNotFound)
	ErrPaymentNotFound      = fmt.Errorf("payment %w", ErrNotFound)
	ErrServiceNotFound      = fmt.Errorf("service %w", ErrNotFound)
	ErrGuestNotFound        = fmt.Errorf("guest %w", ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", ErrNotFound)
	ErrConversationNotFound = fmt.Errorf("conversation %w", ErrNotFound)
)

var (
	ErrDateOverlap      = fmt.Errorf("room already booked for the selected dates: %w", ErrConflict)
	ErrCheckInInPast    = fmt.Errorf("check-in date cannot be in the past: %w", ErrBadRequest)
	ErrNoFieldsToUpdate = fmt.Errorf("no fields to update: %w", ErrBadRequest)
	ErrRoomNumberTaken  = fmt.Errorf("room number already registered: %w", ErrDuplicate)
	ErrDocumentTaken    = fmt.Errorf("document already registered for another guest: %w", ErrDuplicate)
	ErrIDCardTaken      = fmt.Errorf("id card already registered for another guest: %w", ErrDuplicate)
	ErrEmailTaken       = fmt.Errorf("email already registered: %w", ErrDuplicate)
)
