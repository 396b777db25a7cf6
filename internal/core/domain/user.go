package domain

import "time"

// MinRegistrationAge is the lowest age accepted by the registration flow.
// The stored record itself only requires a non-negative age.
const MinRegistrationAge = 1

// User models a registered account. Records are immutable once created.
type User struct {
	Username     string    `json:"username"      validate:"required"`
	PasswordHash string    `json:"password_hash" validate:"required"`
	Age          int       `json:"age"           validate:"min=0"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"created_at"    validate:"required"`
}
