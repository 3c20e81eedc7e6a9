package model

import "time"

// Calendar cell states.
const (
	CalendarAvailable = "available"
	CalendarReserved  = "reserved"
)

// CalendarBooking is a confirmed stay used to paint the room calendar.
type CalendarBooking struct {
	RoomID    uint64
	CheckIn   time.Time
	CheckOut  time.Time
	UserName  string
	GuestName *string
}

// CalendarCell is the state of one room on one day.
type CalendarCell struct {
	RoomID   uint64  `json:"room_id"`
	Type     string  `json:"type"`
	Capacity int     `json:"capacity"`
	Status   string  `json:"status"`
	Occupant *string `json:"occupant"`
}

// CalendarDay maps room numbers to their state on Date.
type CalendarDay struct {
	Date  string                  `json:"date"`
	Rooms map[string]CalendarCell `json:"rooms"`
}

// LatestReservation is a line of the dashboard "latest bookings" box.
type LatestReservation struct {
	ID         uint64    `json:"id"`
	CheckIn    time.Time `json:"check_in"`
	CheckOut   time.Time `json:"check_out"`
	RoomNumber string    `json:"room_number"`
	UserName   string    `json:"user_name"`
}

// DashboardSummary is the front desk overview for one day.
type DashboardSummary struct {
	TotalRooms         int                 `json:"total_rooms"`
	AvailableRooms     int                 `json:"available_rooms"`
	OccupiedRooms      int                 `json:"occupied_rooms"`
	CheckInsToday      int                 `json:"check_ins_today"`
	CheckOutsToday     int                 `json:"check_outs_today"`
	GuestsInHouse      int                 `json:"guests_in_house"`
	PendingPayments    int                 `json:"pending_payments"`
	LatestReservations []LatestReservation `json:"latest_reservations"`
}

type TopService struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Quantity     int64  `json:"quantity"`
	RevenueCents int64  `json:"revenue_cents"`
}

type TopGuest struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	SpentCents   int64  `json:"spent_cents"`
	Reservations int64  `json:"reservations"`
}

type GuestTicket struct {
	ID                 uint64 `json:"id"`
	Name               string `json:"name"`
	AverageTicketCents int64  `json:"average_ticket_cents"`
	Reservations       int64  `json:"reservations"`
}

type GuestStayCount struct {
	ID           uint64 `json:"id"`
	Name         string `json:"name"`
	Reservations int64  `json:"reservations"`
}

type MonthlyOccupancy struct {
	Month        int   `json:"month"`
	Reservations int64 `json:"reservations"`
	Nights       int64 `json:"nights"`
}

type MonthlyRevenue struct {
	Month        int   `json:"month"`
	RevenueCents int64 `json:"revenue_cents"`
}

type RoomTypeRate struct {
	Type             string `json:"type"`
	AverageRateCents int64  `json:"average_rate_cents"`
}
