package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/model"
)

type PaymentAPI interface {
	Create(ctx context.Context, reservationID uint64, amountCents int64, method string, status model.PaymentStatus) (*model.Payment, error)
	Get(ctx context.Context, id uint64) (*model.Payment, error)
	List(ctx context.Context, f model.PaymentFilter) ([]model.PaymentView, error)
	Update(ctx context.Context, id uint64, patch model.PaymentPatch) (*model.Payment, error)
	Delete(ctx context.Context, id uint64) error
	Extract(ctx context.Context, reservationID uint64) (*model.Extract, error)
	Summaries(ctx context.Context) ([]model.PaymentSummary, error)
}

// PaymentHandler records payments and serves the settlement views.
type PaymentHandler struct{ svc PaymentAPI }

func NewPaymentHandler(svc PaymentAPI) *PaymentHandler { return &PaymentHandler{svc: svc} }

type createPaymentReq struct {
	ReservationID uint64 `json:"reservation_id" validate:"required,gt=0"`
	AmountCents   int64  `json:"amount_cents" validate:"required,gt=0"`
	Method        string `json:"method" validate:"required,max=32"`
	Status        string `json:"status" validate:"omitempty,oneof=approved pending refused refunded"`
}

type updatePaymentReq struct {
	AmountCents *int64  `json:"amount_cents" validate:"omitempty,gt=0"`
	Method      *string `json:"method" validate:"omitempty,min=1,max=32"`
	Status      *string `json:"status" validate:"omitempty,oneof=approved pending refused refunded"`
}

func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.svc.Create(ctx, req.ReservationID, req.AmountCents, req.Method, model.PaymentStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns payments of open reservations, optionally of one
// ?reservation_id=.
func (h *PaymentHandler) List(c echo.Context) error {
	resID, err := queryID(c, "reservation_id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.svc.List(ctx, model.PaymentFilter{ReservationID: resID})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *PaymentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updatePaymentReq
	if err := bind(c, &req); err != nil {
		return err
	}
	patch := model.PaymentPatch{AmountCents: req.AmountCents, Method: req.Method}
	if req.Status != nil {
		s := model.PaymentStatus(*req.Status)
		patch.Status = &s
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	p, err := h.svc.Update(ctx, id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

func (h *PaymentHandler) Delete(c echo.Context) error {
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

// Extract is the itemised statement of one reservation with its totals.
func (h *PaymentHandler) Extract(c echo.Context) error {
	id, err := pathID(c, "reservation_id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	ex, err := h.svc.Extract(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ex)
}

// Summaries lists every open reservation with what it owes and whether it
// is settled.
func (h *PaymentHandler) Summaries(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.svc.Summaries(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
