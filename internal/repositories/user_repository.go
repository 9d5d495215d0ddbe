package repositories

import (
	"gorm.io/gorm"

	"github.com/fichasrpg/fichas/internal/models"
	"github.com/fichasrpg/fichas/pkg/errors"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// CreateUser registers a new account
func (r *UserRepository) CreateUser(user *models.User) error {
	var count int64
	if err := r.db.Model(&models.User{}).Where("email = ?", user.Email).Count(&count).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to check user existence")
	}
	if count > 0 {
		return errors.New(errors.ErrCodeAlreadyExists, "email already registered")
	}

	if err := r.db.Create(user).Error; err != nil {
		return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create user")
	}
	return nil
}

// GetUserByEmail retrieves a user by email
func (r *UserRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	result := r.db.Where("email = ?", email).First(&user)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "user not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get user")
	}

	return &user, nil
}
