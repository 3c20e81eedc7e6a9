package model

import "time"

// Guest is a person staying at the hotel. Guests are registered by the front
// desk and are independent from user accounts; a user with role guest may be
// linked to one through users.guest_id.
type Guest struct {
	ID           uint64     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Document     *string    `json:"document,omitempty"` // CPF, unique when present
	IDCard       *string    `json:"id_card,omitempty"`  // RG, unique when present
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Street       *string    `json:"street,omitempty"`
	StreetNumber *string    `json:"street_number,omitempty"`
	District     *string    `json:"district,omitempty"`
	PostalCode   *string    `json:"postal_code,omitempty"`
	City         *string    `json:"city,omitempty"`
	State        *string    `json:"state,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// FullName joins first and last name.
func (g Guest) FullName() string {
	if g.LastName == "" {
		return g.FirstName
	}
	return g.FirstName + " " + g.LastName
}
