package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/model"
)

type GuestAPI interface {
	Create(ctx context.Context, g model.Guest) (*model.Guest, error)
	Get(ctx context.Context, id uint64) (*model.Guest, error)
	List(ctx context.Context) ([]model.Guest, error)
	Update(ctx context.Context, id uint64, g model.Guest) (*model.Guest, error)
	Delete(ctx context.Context, id uint64) error
}

// GuestHandler serves the guest register of the front desk.
type GuestHandler struct{ svc GuestAPI }

func NewGuestHandler(svc GuestAPI) *GuestHandler { return &GuestHandler{svc: svc} }

type guestReq struct {
	FirstName    string  `json:"first_name" validate:"required,max=100"`
	LastName     string  `json:"last_name" validate:"max=100"`
	Document     *string `json:"document" validate:"omitempty,max=20"`
	IDCard       *string `json:"id_card" validate:"omitempty,max=20"`
	BirthDate    *string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	Email        *string `json:"email" validate:"omitempty,email"`
	Phone        *string `json:"phone" validate:"omitempty,max=32"`
	Street       *string `json:"street"`
	StreetNumber *string `json:"street_number" validate:"omitempty,max=16"`
	District     *string `json:"district"`
	PostalCode   *string `json:"postal_code" validate:"omitempty,max=16"`
	City         *string `json:"city"`
	State        *string `json:"state" validate:"omitempty,max=64"`
}

func (r guestReq) guest() (model.Guest, error) {
	birth, err := parseOptDate(r.BirthDate)
	if err != nil {
		return model.Guest{}, badRequest("invalid birth_date")
	}
	return model.Guest{
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Document:     r.Document,
		IDCard:       r.IDCard,
		BirthDate:    birth,
		Email:        r.Email,
		Phone:        r.Phone,
		Street:       r.Street,
		StreetNumber: r.StreetNumber,
		District:     r.District,
		PostalCode:   r.PostalCode,
		City:         r.City,
		State:        r.State,
	}, nil
}

func (h *GuestHandler) Create(c echo.Context) error {
	var req guestReq
	if err := bind(c, &req); err != nil {
		return err
	}
	g, err := req.guest()
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.svc.Create(ctx, g)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *GuestHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	guests, err := h.svc.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, guests)
}

func (h *GuestHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	g, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GuestHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req guestReq
	if err := bind(c, &req); err != nil {
		return err
	}
	g, err := req.guest()
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.svc.Update(ctx, id, g)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

// Delete removes the guest and the reservations they hold.
func (h *GuestHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.svc.Delete(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
