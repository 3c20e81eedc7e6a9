package model

import "time"

// Service is an item of the hotel catalog (laundry, minibar, spa...).
// Changing its price never touches charges already recorded.
type Service struct {
	ID          uint64  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	PriceCents  int64   `json:"price_cents"`
}

// ServicePatch is a partial update of a catalog item.
type ServicePatch struct {
	Name        *string
	Description *string
	PriceCents  *int64
}

// Charge is a consumption line item billed to a reservation. UnitPriceCents
// is a snapshot of the service price taken when the charge was recorded.
type Charge struct {
	ID             uint64    `json:"id"`
	ReservationID  uint64    `json:"reservation_id"`
	ServiceID      uint64    `json:"service_id"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	ConsumedAt     time.Time `json:"consumed_at"`

	// joined from services on reads
	ServiceName        string  `json:"service_name,omitempty"`
	ServiceDescription *string `json:"service_description,omitempty"`
}

// SubtotalCents is quantity × unit price.
func (c Charge) SubtotalCents() int64 {
	return int64(c.Quantity) * c.UnitPriceCents
}

// ChargePatch is a partial update of a charge.
type ChargePatch struct {
	ServiceID *uint64
	Quantity  *int
}
