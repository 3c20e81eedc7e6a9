package model

import "time"

// User represents an application account as stored in the `users` table.
//
// Fields:
//  ID           – primary key identifier.
//  Name         – display name.
//  Email        – unique, normalised to lower case.
//  PasswordHash – bcrypt hash, never serialised.
//  Role         – one of admin, receptionist, client, guest.
//  GuestID      – linked guest record for guest accounts (nullable).
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	GuestID      *uint64   `json:"guest_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// UserPatch lists the user fields a caller may change. Nil means keep.
type UserPatch struct {
	Name    *string
	Email   *string
	Role    *string
	GuestID *uint64
}

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA‑256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	UserID    uint64     // refresh_tokens.user_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}
