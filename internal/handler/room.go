package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/model"
)

type RoomAPI interface {
	Create(ctx context.Context, r model.Room) (*model.Room, error)
	Get(ctx context.Context, id uint64) (*model.Room, error)
	List(ctx context.Context, status model.RoomStatus) ([]model.Room, error)
	Update(ctx context.Context, id uint64, r model.Room) (*model.Room, error)
	Delete(ctx context.Context, id uint64) error
}

// RoomHandler serves the room inventory. Listing is public.
type RoomHandler struct{ svc RoomAPI }

func NewRoomHandler(svc RoomAPI) *RoomHandler { return &RoomHandler{svc: svc} }

type roomReq struct {
	Number           string  `json:"number" validate:"required,max=16"`
	Type             string  `json:"type" validate:"required,max=64"`
	Capacity         int     `json:"capacity" validate:"gt=0"`
	NightlyRateCents int64   `json:"nightly_rate_cents" validate:"gt=0"`
	Status           string  `json:"status" validate:"omitempty,oneof=available occupied maintenance cleaning"`
	Description      *string `json:"description"`
	ImageURL         *string `json:"image_url" validate:"omitempty,url"`
}

func (r roomReq) room() model.Room {
	return model.Room{
		Number:           r.Number,
		Type:             r.Type,
		Capacity:         r.Capacity,
		NightlyRateCents: r.NightlyRateCents,
		Status:           model.RoomStatus(r.Status),
		Description:      r.Description,
		ImageURL:         r.ImageURL,
	}
}

func (h *RoomHandler) Create(c echo.Context) error {
	var req roomReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	room, err := h.svc.Create(ctx, req.room())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, room)
}

// List accepts an optional ?status= filter.
func (h *RoomHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	rooms, err := h.svc.List(ctx, model.RoomStatus(c.QueryParam("status")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rooms)
}

func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	room, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req roomReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	room, err := h.svc.Update(ctx, id, req.room())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) Delete(c echo.Context) error {
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
