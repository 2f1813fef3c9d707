// Package entity defines the domain entities for the users feature.
package entity

import "time"

// User represents a registered customer account.
// It contains the login credentials plus the shipping profile used at checkout.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey" json:"id"`

	// FirstName and LastName form the customer's display name.
	FirstName string `gorm:"size:100;not null" json:"first_name"`
	LastName  string `gorm:"size:100;not null" json:"last_name"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:120;not null" json:"email"`

	// Password is the bcrypt hash of the user's password.
	// It is excluded from every JSON serialization path.
	Password string `gorm:"size:255;not null" json:"-"`

	// PhoneNumber is an optional contact number.
	PhoneNumber string `gorm:"size:20" json:"phone_number"`

	// Address, City and PostalCode form the shipping address.
	Address    string `gorm:"size:255" json:"address"`
	City       string `gorm:"size:100" json:"city"`
	PostalCode string `gorm:"size:20" json:"postal_code"`

	// IsAdmin marks store staff accounts.
	IsAdmin bool `gorm:"not null;default:false" json:"is_admin"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time `json:"created_at"`

	// ModifiedAt is refreshed on every update to the row.
	ModifiedAt time.Time `gorm:"column:modified_at;autoUpdateTime" json:"modified_at"`
}

// TableName maps the entity to the users table.
func (User) TableName() string {
	return "users"
}
