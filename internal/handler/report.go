package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fasthotel/hotel-api/internal/model"
	"github.com/fasthotel/hotel-api/internal/service"
)

type ReportAPI interface {
	Calendar(ctx context.Context, year, month int) ([]model.CalendarDay, error)
	Dashboard(ctx context.Context) (model.DashboardSummary, error)
	TopServices(ctx context.Context, p service.Period, limit int) ([]model.TopService, error)
	TopGuests(ctx context.Context, p service.Period, limit int) ([]model.TopGuest, error)
	AverageTicketPerGuest(ctx context.Context, p service.Period) ([]model.GuestTicket, error)
	SingleStayGuests(ctx context.Context) ([]model.GuestStayCount, error)
	MonthlyOccupancy(ctx context.Context, year int) ([]model.MonthlyOccupancy, error)
	MonthlyRevenue(ctx context.Context, year int) ([]model.MonthlyRevenue, error)
	AverageRateByRoomType(ctx context.Context) ([]model.RoomTypeRate, error)
}

// ReportHandler serves the read-only report screens.
type ReportHandler struct{ svc ReportAPI }

func NewReportHandler(svc ReportAPI) *ReportHandler { return &ReportHandler{svc: svc} }

func queryInt(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid " + name)
	}
	return n, nil
}

// period reads ?from=YYYY-MM-DD&to=YYYY-MM-DD. Missing bounds are left
// zero for the service to reject.
func period(c echo.Context) (service.Period, error) {
	var p service.Period
	if raw := c.QueryParam("from"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return p, badRequest("invalid from")
		}
		p.From = t
	}
	if raw := c.QueryParam("to"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return p, badRequest("invalid to")
		}
		p.To = t
	}
	return p, nil
}

// Calendar takes ?year=&month=.
func (h *ReportHandler) Calendar(c echo.Context) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	month, err := queryInt(c, "month")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	days, err := h.svc.Calendar(ctx, year, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, days)
}

func (h *ReportHandler) Dashboard(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.svc.Dashboard(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, d)
}

func (h *ReportHandler) TopServices(c echo.Context) error {
	p, err := period(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.svc.TopServices(ctx, p, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) TopGuests(c echo.Context) error {
	p, err := period(c)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.svc.TopGuests(ctx, p, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) AverageTicket(c echo.Context) error {
	p, err := period(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.svc.AverageTicketPerGuest(ctx, p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) SingleStayGuests(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.svc.SingleStayGuests(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Occupancy(c echo.Context) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.svc.MonthlyOccupancy(ctx, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) Revenue(c echo.Context) error {
	year, err := queryInt(c, "year")
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.svc.MonthlyRevenue(ctx, year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) RoomTypeRates(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	out, err := h.svc.AverageRateByRoomType(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, out)
}
