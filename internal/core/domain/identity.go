package domain

import (
	"errors"
	"time"
)

const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var ErrIdentityNotFound = errors.New("identity not found")
var ErrInvalidProfile = errors.New("invalid profile")

// Identity is a registered customer or admin, keyed by email.
type Identity struct {
	Email     string         `json:"email" bson:"email"`
	Role      string         `json:"role" bson:"role"`
	Profile   map[string]any `json:"profile,omitempty" bson:"profile,omitempty"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// IsAdmin reports whether the identity carries the admin role. A nil identity
// is never an admin.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
