package model

import "time"

// Role is the value stored in users.user_type and carried in the JWT
// "role" claim.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleWorker Role = "worker"
)

// Valid reports whether r is one of the known roles.  The older "seller"
// spelling of the listing-manager role is not accepted.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleWorker
}

// User represents a row in the `users` table.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Name         – display name.
//  Email        – unique, lower-cased email address.
//  PasswordHash – bcrypt hashed password, never serialized.
//  UserType     – role of the account (buyer or worker).
//  PhoneNumber  – optional contact number.
//  Address      – optional postal address.
type User struct {
	ID           uint64    `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	UserType     Role      `db:"user_type" json:"user_type"`
	PhoneNumber  *string   `db:"phone_number" json:"phone_number"`
	Address      *string   `db:"address" json:"address"`
	CreatedAt    time.Time `db:"created_at" json:"-"`
	UpdatedAt    time.Time `db:"updated_at" json:"-"`
}

// UserRef is the trimmed view of a user embedded in booking resources.
type UserRef struct {
	ID    uint64 `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	Email string `db:"email" json:"email,omitempty"`
}

// RefreshToken models an entry in the `refresh_tokens` table.  Only the
// SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64     `db:"id"`
	UserID    uint64     `db:"user_id"`
	TokenHash string     `db:"token_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	RevokedAt *time.Time `db:"revoked_at"`
	CreatedAt time.Time  `db:"created_at"`
}
