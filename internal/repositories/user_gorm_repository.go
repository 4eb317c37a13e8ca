package repositories

import (
	"errors"
	"fmt"

	"artisanconnect/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetAll retrieves every user, newest first.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	return r.first("id", id)
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.first("username", username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.first("email", email)
}

// GetBySlug retrieves a user by their public profile slug.
func (r *GORMUserRepository) GetBySlug(slug string) (*models.User, error) {
	return r.first("slug", slug)
}

func (r *GORMUserRepository) first(column, value string) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, column+" = ?", value).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with %s %s: %w", column, value, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user by %s %s: %w", column, value, err)
	}
	return &user, nil
}
