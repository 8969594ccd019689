package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/zipacres/zipacres-api/internal/models"
)

var (
	ErrPropertyNotFound = errors.New("property not found")
	// ErrNotOwner is returned when an admin touches a record another
	// admin owns.
	ErrNotOwner = errors.New("not the owner of this property")
)

// PropertyPatch holds a partial update. Nil fields keep their stored
// value; ownerId and createdAt are never client-writable.
type PropertyPatch struct {
	Title       *string
	Location    *string
	Price       *float64
	Type        *string
	Bedrooms    *int
	Bathrooms   *int
	AreaSqft    *float64
	Image       *string
	Gallery     *[]string
	Description *string
	Status      *string
}

// PropertyService provides listing CRUD with the canonical visibility
// rule: unauthenticated and non-owning callers never see unlisted
// properties.
type PropertyService interface {
	Create(property *models.Property) (*models.Property, error)
	// ListVisible returns listings the viewer may see, newest first.
	// A nil viewer is an anonymous caller.
	ListVisible(viewer *models.User) ([]models.Property, error)
	// ListOwned returns every property owned by the given admin,
	// regardless of status.
	ListOwned(ownerID uint) ([]models.Property, error)
	GetVisible(id uint, viewer *models.User) (*models.Property, error)
	Update(id uint, actor *models.User, patch PropertyPatch) (*models.Property, error)
	Delete(id uint, actor *models.User) error
}

type propertyService struct {
	db *gorm.DB
}

func NewPropertyService(db *gorm.DB) PropertyService {
	return &propertyService{db: db}
}

// visibleTo is the single query predicate shared by every read path.
func visibleTo(viewer *models.User) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if viewer == nil {
			return db.Where("status = ?", models.StatusListed)
		}
		return db.Where("status = ? OR owner_id = ?", models.StatusListed, viewer.ID)
	}
}

// withOwner preloads the owner summary attached to every read.
func withOwner(db *gorm.DB) *gorm.DB {
	return db.Preload("Owner")
}

func (s *propertyService) Create(property *models.Property) (*models.Property, error) {
	if property.Status == "" {
		property.Status = models.StatusListed
	}
	if err := s.db.Create(property).Error; err != nil {
		return nil, err
	}
	return s.getByID(property.ID)
}

func (s *propertyService) ListVisible(viewer *models.User) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Scopes(visibleTo(viewer), withOwner).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *propertyService) ListOwned(ownerID uint) ([]models.Property, error) {
	var properties []models.Property
	err := s.db.Scopes(withOwner).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&properties).Error
	if err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *propertyService) GetVisible(id uint, viewer *models.User) (*models.Property, error) {
	var property models.Property
	err := s.db.Scopes(visibleTo(viewer), withOwner).First(&property, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func (s *propertyService) Update(id uint, actor *models.User, patch PropertyPatch) (*models.Property, error) {
	property, err := s.getByID(id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() || property.OwnerID != actor.ID {
		return nil, ErrNotOwner
	}

	applyPatch(property, patch)
	// Omit the preloaded summary so Save never writes the users table.
	if err := s.db.Omit("Owner").Save(property).Error; err != nil {
		return nil, err
	}
	return s.getByID(id)
}

func (s *propertyService) Delete(id uint, actor *models.User) error {
	property, err := s.getByID(id)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() || property.OwnerID != actor.ID {
		return ErrNotOwner
	}
	return s.db.Delete(property).Error
}

func (s *propertyService) getByID(id uint) (*models.Property, error) {
	var property models.Property
	if err := s.db.Scopes(withOwner).First(&property, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPropertyNotFound
		}
		return nil, err
	}
	return &property, nil
}

func applyPatch(p *models.Property, patch PropertyPatch) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Bedrooms != nil {
		p.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		p.Bathrooms = *patch.Bathrooms
	}
	if patch.AreaSqft != nil {
		p.AreaSqft = *patch.AreaSqft
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Gallery != nil {
		p.Gallery = *patch.Gallery
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
}
