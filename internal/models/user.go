package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles a user account can hold. Accounts with RoleUser double as sales
// leads for the CRM view.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

type User struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"not null" json:"name"`
	Email string `gorm:"uniqueIndex;not null" json:"email"`
	// Nil for accounts created through Google sign-in; NULL rows never
	// collide on the unique index.
	Phone *string `gorm:"uniqueIndex" json:"phone,omitempty"`
	// Empty for accounts created through Google sign-in. Never serialized.
	Password        string     `json:"-"`
	Role            string     `gorm:"default:'user'" json:"role"`
	Contacted       bool       `gorm:"default:false" json:"contacted"`
	Note            string     `json:"note"`
	Tags            []string   `gorm:"serializer:json" json:"tags"`
	LastContactedAt *time.Time `json:"lastContactedAt,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// HashPassword replaces the plaintext password with its bcrypt hash.
func (u *User) HashPassword() error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashed)
	return nil
}

// CheckPassword reports whether the plaintext matches the stored hash.
// Always false for password-less (Google-only) accounts.
func (u *User) CheckPassword(password string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// IsAdmin reports whether the account may manage properties.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
