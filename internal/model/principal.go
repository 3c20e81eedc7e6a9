package model

// Roles recognised by the access layer.
const (
	RoleAdmin        = "admin"
	RoleReceptionist = "receptionist"
	RoleClient       = "client"
	RoleGuest        = "guest"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleAdmin, RoleReceptionist, RoleClient, RoleGuest:
		return true
	}
	return false
}

// Principal is the authenticated caller as extracted from the access token.
// GuestID is only set for accounts linked to a guest record.
type Principal struct {
	UserID  uint64
	Role    string
	GuestID *uint64
}

// IsStaff is true for roles allowed to operate on any reservation.
func (p Principal) IsStaff() bool {
	return p.Role == RoleAdmin || p.Role == RoleReceptionist
}

func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }
