package models

import "time"

// Property listing states.
const (
	StatusListed   = "listed"
	StatusUnlisted = "unlisted"
)

// Property is a real-estate listing owned by an admin account. The
// accepted type categories are Apartment, House, Land, Villa and Office,
// enforced at the request-binding layer.
type Property struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Title       string        `gorm:"not null" json:"title"`
	Location    string        `gorm:"not null" json:"location"`
	Price       float64       `gorm:"not null" json:"price"`
	Type        string        `gorm:"not null" json:"type"`
	Bedrooms    int           `gorm:"default:0" json:"bedrooms"`
	Bathrooms   int           `gorm:"default:0" json:"bathrooms"`
	AreaSqft    float64       `json:"areaSqft"`
	Image       string        `gorm:"not null" json:"image"`
	Gallery     []string      `gorm:"serializer:json" json:"gallery"`
	Description string        `json:"description"`
	OwnerID     uint          `gorm:"index;not null" json:"ownerId"`
	Owner       *OwnerSummary `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Status      string        `gorm:"index;default:'listed'" json:"status"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// OwnerSummary is the public projection of the owning admin attached to
// property reads. It deliberately carries no lead or credential fields.
type OwnerSummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// TableName maps the summary onto the users table.
func (OwnerSummary) TableName() string { return "users" }
