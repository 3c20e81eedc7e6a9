package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/model"
)

type ChargeAPI interface {
	Create(ctx context.Context, reservationID, serviceID uint64, quantity int) (*model.Charge, error)
	Get(ctx context.Context, id uint64) (*model.Charge, error)
	List(ctx context.Context, reservationID uint64) ([]model.Charge, error)
	Update(ctx context.Context, id uint64, patch model.ChargePatch) (*model.Charge, error)
	Delete(ctx context.Context, id uint64) error
}

// ChargeHandler records consumption against reservations.
type ChargeHandler struct{ svc ChargeAPI }

func NewChargeHandler(svc ChargeAPI) *ChargeHandler { return &ChargeHandler{svc: svc} }

type createChargeReq struct {
	ReservationID uint64 `json:"reservation_id" validate:"required,gt=0"`
	ServiceID     uint64 `json:"service_id" validate:"required,gt=0"`
	Quantity      int    `json:"quantity" validate:"required,gt=0"`
}

type updateChargeReq struct {
	ServiceID *uint64 `json:"service_id" validate:"omitempty,gt=0"`
	Quantity  *int    `json:"quantity" validate:"omitempty,gt=0"`
}

func (h *ChargeHandler) Create(c echo.Context) error {
	var req createChargeReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ch, err := h.svc.Create(ctx, req.ReservationID, req.ServiceID, req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, ch)
}

// List accepts an optional ?reservation_id= filter.
func (h *ChargeHandler) List(c echo.Context) error {
	resID, err := queryID(c, "reservation_id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.svc.List(ctx, resID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ChargeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ch, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *ChargeHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateChargeReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ch, err := h.svc.Update(ctx, id, model.ChargePatch{ServiceID: req.ServiceID, Quantity: req.Quantity})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ch)
}

func (h *ChargeHandler) Delete(c echo.Context) error {
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
