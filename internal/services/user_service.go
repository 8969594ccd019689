package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/zipacres/zipacres-api/internal/models"
)

// Sentinel errors mapped to HTTP statuses by the controllers.
var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAdminCode   = errors.New("invalid admin code")
	ErrUserNotFound       = errors.New("user not found")
)

// RegisterInput carries a validated registration request into the service.
type RegisterInput struct {
	Name      string
	Email     string
	Password  string
	Phone     string
	Role      string
	AdminCode string
}

// LeadPatch is the allow-list of fields a lead update may touch. Nil
// fields are left untouched; anything outside this struct (role,
// credentials) can never be set through the leads endpoint.
type LeadPatch struct {
	Contacted       *bool
	Note            *string
	Tags            *[]string
	LastContactedAt *time.Time
}

type UserService interface {
	Register(input RegisterInput) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
	UpsertGoogleUser(email, name string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	ListLeads() ([]models.User, error)
	UpdateLead(id uint, patch LeadPatch) (*models.User, error)
}

type userService struct {
	db        *gorm.DB
	adminCode string
}

func NewUserService(db *gorm.DB, adminCode string) UserService {
	return &userService{db: db, adminCode: adminCode}
}

// Register creates an account, enforcing email and phone uniqueness and
// the admin enrollment code for role "admin".
func (s *userService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	if role == models.RoleAdmin && input.AdminCode != s.adminCode {
		return nil, ErrInvalidAdminCode
	}

	// Pre-checks give the friendly sentinel before hashing; the unique
	// indexes on email and phone remain the source of truth underneath.
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailTaken
	}
	if input.Phone != "" {
		if err := s.db.Where("phone = ?", input.Phone).First(&existing).Error; err == nil {
			return nil, ErrPhoneTaken
		}
	}

	user := &models.User{
		Name:     input.Name,
		Email:    email,
		Password: input.Password,
		Role:     role,
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}
	if err := user.HashPassword(); err != nil {
		return nil, err
	}
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.classifyDuplicate(email, input.Phone)
		}
		return nil, err
	}
	return user, nil
}

// classifyDuplicate maps a unique-constraint violation raised by Create
// back to the sentinel for whichever column actually conflicted. This
// covers registrations racing past the pre-checks.
func (s *userService) classifyDuplicate(email, phone string) error {
	var existing models.User
	if err := s.db.Where("email = ?", email).First(&existing).Error; err == nil {
		return ErrEmailTaken
	}
	if phone != "" {
		if err := s.db.Where("phone = ?", phone).First(&existing).Error; err == nil {
			return ErrPhoneTaken
		}
	}
	return ErrEmailTaken
}

// Authenticate looks a user up by email and verifies the password. Both
// unknown email and wrong password collapse into ErrInvalidCredentials.
func (s *userService) Authenticate(email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", strings.ToLower(email)).First(&user).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// UpsertGoogleUser returns the account for a Google-verified identity,
// creating a password-less user record on first sight.
func (s *userService) UpsertGoogleUser(email, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var user models.User
	err := s.db.Where("email = ?", email).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = models.User{
		Name:  name,
		Email: email,
		Role:  models.RoleUser,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListLeads returns every role "user" account, newest first.
func (s *userService) ListLeads() ([]models.User, error) {
	var leads []models.User
	if err := s.db.Where("role = ?", models.RoleUser).Order("created_at DESC").Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// UpdateLead applies the allow-listed patch and returns the fresh record.
func (s *userService) UpdateLead(id uint, patch LeadPatch) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	fields := make([]string, 0, 4)
	if patch.Contacted != nil {
		user.Contacted = *patch.Contacted
		fields = append(fields, "contacted")
	}
	if patch.Note != nil {
		user.Note = *patch.Note
		fields = append(fields, "note")
	}
	if patch.Tags != nil {
		user.Tags = *patch.Tags
		fields = append(fields, "tags")
	}
	if patch.LastContactedAt != nil {
		user.LastContactedAt = patch.LastContactedAt
		fields = append(fields, "last_contacted_at")
	}
	if len(fields) == 0 {
		return user, nil
	}

	// Select forces the chosen columns through even at zero values, and
	// keeps the update inside the allow-list.
	if err := s.db.Model(user).Select(fields).Updates(user).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}
