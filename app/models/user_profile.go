package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// UserProfile mirrors an identity held by the external auth provider.
// The ID is the provider's opaque subject, never generated here.
type UserProfile struct {
	ID        string    `gorm:"size:36;primaryKey" json:"id"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	FirstName string    `gorm:"size:100" json:"first_name"`
	LastName  string    `gorm:"size:100" json:"last_name"`
	Role      string    `gorm:"size:20;default:'customer';not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *UserProfile) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *UserProfile) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
