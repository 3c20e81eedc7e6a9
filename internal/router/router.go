package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/fasthotel/hotel-api/internal/handler"
	"github.com/fasthotel/hotel-api/internal/middleware"
	"github.com/fasthotel/hotel-api/internal/model"
)

// Handlers groups every HTTP handler the API serves.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Rooms        *handler.RoomHandler
	Reservations *handler.ReservationHandler
	Guests       *handler.GuestHandler
	Catalog      *handler.CatalogHandler
	Charges      *handler.ChargeHandler
	Payments     *handler.PaymentHandler
	Reports      *handler.ReportHandler
	Chat         *handler.ChatHandler
}

// Deps is everything Register needs besides the handlers. RateLimit and
// Cache may be nil.
type Deps struct {
	JWTSecret string
	Log       logrus.FieldLogger
	DB        handler.Pinger
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

func orPass(mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	if mw != nil {
		return mw
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
}

var (
	staff     = []string{model.RoleAdmin, model.RoleReceptionist}
	adminOnly = []string{model.RoleAdmin}
)

// Register installs the global middleware chain and every route on e.
func Register(e *echo.Echo, h Handlers, d Deps) {
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)
	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(d.Log))

	// probes stay outside /v1 and the rate limiter
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(d.DB))

	jwt := middleware.JWTAuth(d.JWTSecret)
	isStaff := middleware.RequireRole(staff...)
	isAdmin := middleware.RequireRole(adminOnly...)

	v1 := e.Group("/v1", orPass(d.RateLimit))

	// ---- Auth ----
	a := v1.Group("/auth")
	a.POST("/register", h.Auth.Register)
	a.POST("/login", h.Auth.Login)
	a.POST("/refresh", h.Auth.Refresh)
	a.POST("/logout", h.Auth.Logout, middleware.OptionalJWT(d.JWTSecret))
	v1.GET("/me", h.Auth.Me, jwt)

	// ---- Users ----
	u := v1.Group("/users", jwt)
	u.POST("", h.Users.Create, isAdmin)
	u.GET("", h.Users.List, isAdmin)
	u.GET("/:id", h.Users.Get)
	u.PUT("/:id", h.Users.Update)
	u.DELETE("/:id", h.Users.Delete, isAdmin)

	// ---- Rooms ----
	// listing is public so the booking page can browse the inventory
	v1.GET("/rooms", h.Rooms.List)
	v1.GET("/rooms/:id", h.Rooms.Get)
	r := v1.Group("/rooms", jwt)
	r.POST("", h.Rooms.Create, isStaff)
	r.PUT("/:id", h.Rooms.Update, isStaff)
	r.DELETE("/:id", h.Rooms.Delete, isAdmin)

	// ---- Reservations ----
	res := v1.Group("/reservations", jwt)
	res.POST("/quote", h.Reservations.Quote)
	res.POST("", h.Reservations.Create)
	res.GET("", h.Reservations.List)
	res.GET("/:id", h.Reservations.Get)
	res.PUT("/:id", h.Reservations.Update, isStaff)
	res.PUT("/:id/finalize", h.Reservations.Finalize, isStaff)
	res.DELETE("/:id", h.Reservations.Delete, isAdmin)

	// ---- Guests ----
	g := v1.Group("/guests", jwt, isStaff)
	g.POST("", h.Guests.Create)
	g.GET("", h.Guests.List)
	g.GET("/:id", h.Guests.Get)
	g.PUT("/:id", h.Guests.Update)
	g.DELETE("/:id", h.Guests.Delete)

	// ---- Service catalog ----
	s := v1.Group("/services", jwt)
	s.GET("", h.Catalog.List)
	s.GET("/:id", h.Catalog.Get)
	s.POST("", h.Catalog.Create, isStaff)
	s.PUT("/:id", h.Catalog.Update, isStaff)
	s.DELETE("/:id", h.Catalog.Delete, isStaff)

	// ---- Charges ----
	ch := v1.Group("/charges", jwt, isStaff)
	ch.POST("", h.Charges.Create)
	ch.GET("", h.Charges.List)
	ch.GET("/:id", h.Charges.Get)
	ch.PUT("/:id", h.Charges.Update)
	ch.DELETE("/:id", h.Charges.Delete)

	// ---- Payments ----
	// static segments are registered before /:id
	p := v1.Group("/payments", jwt)
	p.GET("/summaries", h.Payments.Summaries, isStaff)
	p.GET("/extract/:reservation_id", h.Payments.Extract, isStaff)
	p.POST("", h.Payments.Create)
	p.GET("", h.Payments.List)
	p.GET("/:id", h.Payments.Get)
	p.PUT("/:id", h.Payments.Update, isStaff)
	p.DELETE("/:id", h.Payments.Delete, isAdmin)

	// ---- Reports ----
	rep := v1.Group("/reports", jwt, isStaff, orPass(d.Cache))
	rep.GET("/calendar", h.Reports.Calendar)
	rep.GET("/dashboard", h.Reports.Dashboard)
	rep.GET("/top-services", h.Reports.TopServices)
	rep.GET("/top-guests", h.Reports.TopGuests)
	rep.GET("/average-ticket", h.Reports.AverageTicket)
	rep.GET("/single-stay-guests", h.Reports.SingleStayGuests)
	rep.GET("/occupancy", h.Reports.Occupancy)
	rep.GET("/revenue", h.Reports.Revenue)
	rep.GET("/room-type-rates", h.Reports.RoomTypeRates)

	// ---- Chat ----
	c := v1.Group("/chat", jwt)
	c.POST("/conversations", h.Chat.Open, middleware.RequireRole(model.RoleAdmin, model.RoleReceptionist, model.RoleGuest))
	c.GET("/conversations", h.Chat.List, isStaff)
	c.GET("/conversations/:id/messages", h.Chat.Messages)
	c.PUT("/conversations/:id/messages/read", h.Chat.MarkRead)
	// browsers cannot set headers on the upgrade, JWTAuth also reads ?token=
	c.GET("/ws", h.Chat.Socket)
}
