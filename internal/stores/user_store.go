package stores

import (
	"errors"
	"strings"

	"github.com/dariovidovic/NWP-LV7/internal/domain"
	"github.com/dariovidovic/NWP-LV7/internal/models"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *UserStore) Create(user *models.User) error {
	user.Email = NormalizeEmail(user.Email)

	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.NewValidation("Email is already registered")
		}
		return domain.NewUpstream("Failed to create user", err)
	}

	return nil
}

func (s *UserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User

	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("User not found")
		}
		return nil, domain.NewUpstream("Failed to fetch user", err)
	}

	return &user, nil
}

func (s *UserStore) FindByID(id uint) (*models.User, error) {
	var user models.User

	err := s.db.First(&user, id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFound("User not found")
		}
		return nil, domain.NewUpstream("Failed to fetch user", err)
	}

	return &user, nil
}

// EmailTaken reports whether a user with the given email already exists.
func (s *UserStore) EmailTaken(email string) (bool, error) {
	var count int64

	err := s.db.Model(&models.User{}).
		Where("email = ?", NormalizeEmail(email)).
		Count(&count).Error

	if err != nil {
		return false, domain.NewUpstream("Failed to check existing user", err)
	}

	return count > 0, nil
}

// ListOthers returns every user except the excluded id, for the add-member
// candidate list.
func (s *UserStore) ListOthers(excludeID uint) ([]models.User, error) {
	var users []models.User

	err := s.db.Where("id != ?", excludeID).Order("last_name, first_name").Find(&users).Error

	if err != nil {
		return nil, domain.NewUpstream("Failed to fetch users", err)
	}

	return users, nil
}
