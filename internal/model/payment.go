package model

import "time"

// PaymentStatus of a single payment entry.
type PaymentStatus string

const (
	PaymentApproved PaymentStatus = "approved"
	PaymentPending  PaymentStatus = "pending"
	PaymentRefused  PaymentStatus = "refused"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentApproved, PaymentPending, PaymentRefused, PaymentRefunded:
		return true
	}
	return false
}

// Payment is money received for a reservation. A reservation may be paid
// in several parts.
type Payment struct {
	ID            uint64        `json:"id"`
	ReservationID uint64        `json:"reservation_id"`
	AmountCents   int64         `json:"amount_cents"`
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status"`
	PaidAt        time.Time     `json:"paid_at"`
}

// PaymentView is a payment joined with its reservation context for listings.
type PaymentView struct {
	Payment
	CheckIn           time.Time         `json:"check_in"`
	CheckOut          time.Time         `json:"check_out"`
	ReservationStatus ReservationStatus `json:"reservation_status"`
	RoomNumber        string            `json:"room_number"`
	UserName          string            `json:"user_name"`
	GuestName         *string           `json:"guest_name,omitempty"`
}

// PaymentFilter narrows payment listings. Zero means any reservation.
type PaymentFilter struct {
	ReservationID uint64
}

// PaymentPatch is a partial update of a payment.
type PaymentPatch struct {
	AmountCents *int64
	Method      *string
	Status      *PaymentStatus
}

// Settlement status derived for a reservation.
const (
	SettlementPaid   = "paid"
	SettlementUnpaid = "unpaid"
)

// Reconciliation aggregates what a reservation owes against what was paid.
type Reconciliation struct {
	RoomTotalCents   int64  `json:"room_total_cents"`
	ConsumptionCents int64  `json:"consumption_cents"`
	GrossCents       int64  `json:"gross_cents"`
	DiscountPercent  int64  `json:"discount_percent"`
	FinalDueCents    int64  `json:"final_due_cents"`
	PaidCents        int64  `json:"paid_cents"`
	Status           string `json:"status"`
}

// Extract is the itemised statement of a single reservation.
type Extract struct {
	Reservation    ReservationView `json:"reservation"`
	RoomCapacity   int             `json:"room_capacity"`
	HolderName     string          `json:"holder_name"`
	HolderEmail    string          `json:"holder_email"`
	Charges        []Charge        `json:"charges"`
	Payments       []Payment       `json:"payments"`
	Reconciliation Reconciliation  `json:"totals"`
}

// SummaryRow is one reservation of the payment summary screen as read from
// the store, before reconciliation.
type SummaryRow struct {
	ReservationID     uint64            `json:"reservation_id"`
	CheckIn           time.Time         `json:"check_in"`
	CheckOut          time.Time         `json:"check_out"`
	ReservationStatus ReservationStatus `json:"reservation_status"`
	RoomNumber        string            `json:"room_number"`
	RoomType          string            `json:"room_type"`
	UserName          string            `json:"user_name"`
	UserEmail         string            `json:"user_email"`
	GuestName         *string           `json:"guest_name,omitempty"`
	GuestDocument     *string           `json:"guest_document,omitempty"`
	RoomTotalCents    int64             `json:"-"`
	ConsumptionCents  int64             `json:"-"`
	PaidCents         int64             `json:"-"`
}

// PaymentSummary is a SummaryRow with its reconciliation applied.
type PaymentSummary struct {
	SummaryRow
	HolderName     string         `json:"holder_name"`
	Reconciliation Reconciliation `json:"totals"`
}
