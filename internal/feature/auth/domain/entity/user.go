// Package entity defines the domain entities for the auth feature.
package entity

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	// MinNameLength and MaxNameLength bound the display name, counted in characters.
	MinNameLength = 2
	MaxNameLength = 120
)

// User represents a registered user in the system.
type User struct {
	// ID is assigned by the database on creation.
	ID uint `gorm:"primaryKey"`

	// Name is the display name shown on posts.
	Name string `gorm:"size:120;not null"`

	// Email is stored normalized. The unique index is what serializes
	// concurrent registrations for the same address.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// PasswordHash is a bcrypt hash. Plaintext passwords are never stored.
	PasswordHash string `gorm:"size:255;not null"`

	CreatedAt time.Time
}

// BeforeSave normalizes the email on every write, whatever the caller passed.
func (u *User) BeforeSave(*gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// Public returns the externally safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email}
}

// PublicUser is the subset of User that may cross a trust boundary.
type PublicUser struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NormalizeEmail returns the canonical form used for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
