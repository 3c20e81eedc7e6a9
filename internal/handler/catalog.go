package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/model"
)

type CatalogAPI interface {
	Create(ctx context.Context, name string, description *string, priceCents int64) (*model.Service, error)
	Get(ctx context.Context, id uint64) (*model.Service, error)
	List(ctx context.Context) ([]model.Service, error)
	Update(ctx context.Context, id uint64, patch model.ServicePatch) (*model.Service, error)
	Delete(ctx context.Context, id uint64) error
}

// CatalogHandler serves the billable services (laundry, minibar, ...).
type CatalogHandler struct{ svc CatalogAPI }

func NewCatalogHandler(svc CatalogAPI) *CatalogHandler { return &CatalogHandler{svc: svc} }

type createServiceReq struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description *string `json:"description"`
	PriceCents  int64   `json:"price_cents" validate:"gte=0"`
}

type updateServiceReq struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"price_cents" validate:"omitempty,gte=0"`
}

func (h *CatalogHandler) Create(c echo.Context) error {
	var req createServiceReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.svc.Create(ctx, req.Name, req.Description, req.PriceCents)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s)
}

func (h *CatalogHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.svc.List(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

func (h *CatalogHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.svc.Get(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

// Update changes name, description or price. Recorded charges keep the
// price they were billed at.
func (h *CatalogHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateServiceReq
	if err := bind(c, &req); err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.svc.Update(ctx, id, model.ServicePatch{Name: req.Name, Description: req.Description, PriceCents: req.PriceCents})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, s)
}

func (h *CatalogHandler) Delete(c echo.Context) error {
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
