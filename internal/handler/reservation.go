package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/model"
)

type ReservationAPI interface {
	Quote(ctx context.Context, roomID uint64, checkIn, checkOut time.Time) (model.Quote, error)
	Create(ctx context.Context, p model.Principal, in model.NewReservation) (*model.Reservation, error)
	Get(ctx context.Context, p model.Principal, id uint64) (*model.ReservationView, error)
	List(ctx context.Context, p model.Principal, f model.ReservationFilter) ([]model.ReservationView, error)
	Update(ctx context.Context, p model.Principal, id uint64, patch model.ReservationPatch) (*model.Reservation, error)
	Finalize(ctx context.Context, p model.Principal, id uint64) (*model.Reservation, error)
	Delete(ctx context.Context, p model.Principal, id uint64) error
}

// ReservationHandler exposes booking, quoting and the stay lifecycle.
type ReservationHandler struct{ svc ReservationAPI }

func NewReservationHandler(svc ReservationAPI) *ReservationHandler {
	return &ReservationHandler{svc: svc}
}

// Dates travel as YYYY-MM-DD. Check-out is the departure day and is not
// charged.
type stayReq struct {
	RoomID   uint64  `json:"room_id" validate:"required,gt=0"`
	GuestID  *uint64 `json:"guest_id" validate:"omitempty,gt=0"`
	CheckIn  string  `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string  `json:"check_out" validate:"required,datetime=2006-01-02"`
}

func (r stayReq) dates() (time.Time, time.Time, error) {
	in, err := parseDate(r.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("invalid check_in")
	}
	out, err := parseDate(r.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, badRequest("invalid check_out")
	}
	return in, out, nil
}

type updateReservationReq struct {
	RoomID   *uint64 `json:"room_id" validate:"omitempty,gt=0"`
	GuestID  *uint64 `json:"guest_id" validate:"omitempty,gt=0"`
	CheckIn  *string `json:"check_in" validate:"omitempty,datetime=2006-01-02"`
	CheckOut *string `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
	Status   *string `json:"status" validate:"omitempty,oneof=confirmed checked_in finalized cancelled"`
}

func (h *ReservationHandler) Quote(c echo.Context) error {
	var req stayReq
	if err := bind(c, &req); err != nil {
		return err
	}
	in, out, err := req.dates()
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	q, err := h.svc.Quote(ctx, req.RoomID, in, out)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, q)
}

func (h *ReservationHandler) Create(c echo.Context) error {
	var req stayReq
	if err := bind(c, &req); err != nil {
		return err
	}
	in, out, err := req.dates()
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.svc.Create(ctx, principal(c), model.NewReservation{
		RoomID: req.RoomID, GuestID: req.GuestID, CheckIn: in, CheckOut: out,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, res)
}

// List accepts ?room_id=, ?user_id= and ?status=. Clients only ever see
// their own reservations.
func (h *ReservationHandler) List(c echo.Context) error {
	roomID, err := queryID(c, "room_id")
	if err != nil {
		return err
	}
	userID, err := queryID(c, "user_id")
	if err != nil {
		return err
	}
	status := model.ReservationStatus(c.QueryParam("status"))
	if status != "" && !status.Valid() {
		return badRequest("invalid status")
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.svc.List(ctx, principal(c), model.ReservationFilter{UserID: userID, RoomID: roomID, Status: status})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	v, err := h.svc.Get(ctx, principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateReservationReq
	if err := bind(c, &req); err != nil {
		return err
	}
	patch := model.ReservationPatch{RoomID: req.RoomID, GuestID: req.GuestID}
	if patch.CheckIn, err = parseOptDate(req.CheckIn); err != nil {
		return badRequest("invalid check_in")
	}
	if patch.CheckOut, err = parseOptDate(req.CheckOut); err != nil {
		return badRequest("invalid check_out")
	}
	if req.Status != nil {
		s := model.ReservationStatus(*req.Status)
		patch.Status = &s
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.svc.Update(ctx, principal(c), id, patch)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

// Finalize checks the guest out and frees the room.
func (h *ReservationHandler) Finalize(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	res, err := h.svc.Finalize(ctx, principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.svc.Delete(ctx, principal(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
