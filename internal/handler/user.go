package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service"
)

type UserAPI interface {
	Create(ctx context.Context, actor model.Principal, in service.NewUser) (*model.User, error)
	Get(ctx context.Context, actor model.Principal, id uint64) (*model.User, error)
	List(ctx context.Context, actor model.Principal) ([]model.User, error)
	Update(ctx context.Context, actor model.Principal, id uint64, patch model.UserPatch) (*model.User, error)
	Delete(ctx context.Context, actor model.Principal, id uint64) error
}

// UserHandler serves account administration.
type UserHandler struct{ svc UserAPI }

func NewUserHandler(svc UserAPI) *UserHandler { return &UserHandler{svc: svc} }

type createUserReq struct {
	Name     string  `json:"name" validate:"required,min=3"`
	Email    string  `json:"email" validate:"required,email"`
	Password string  `json:"password" validate:"required,min=6"`
	Role     string  `json:"role" validate:"required,oneof=admin receptionist client guest"`
	GuestID  *uint64 `json:"guest_id" validate:"omitempty,gt=0"`
}

type updateUserReq struct {
	Name    *string `json:"name" validate:"omitempty,min=3"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Role    *string `json:"role" validate:"omitempty,oneof=admin receptionist client guest"`
	GuestID *uint64 `json:"guest_id" validate:"omitempty,gt=0"`
}

func (h *UserHandler) Create(c echo.Context) error {
	var req createUserReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.svc.Create(ctx, principal(c), service.NewUser{
		Name: req.Name, Email: req.Email, Password: req.Password, Role: req.Role, GuestID: req.GuestID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	users, err := h.svc.List(ctx, principal(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.svc.Get(ctx, principal(c), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateUserReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.svc.Update(ctx, principal(c), id, model.UserPatch{
		Name: req.Name, Email: req.Email, Role: req.Role, GuestID: req.GuestID,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c echo.Context) error {
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
