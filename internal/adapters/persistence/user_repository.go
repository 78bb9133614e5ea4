package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/andrescamacho/mediator-go/internal/domain/user"
)

// GormUserRepository implements user.Repository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID retrieves a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id int) (*user.User, error) {
	var model UserModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", user.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}

	return modelToUser(&model), nil
}

// FindByEmail retrieves a user by email address
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	var model UserModel
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", user.ErrNotFound, email)
		}
		return nil, fmt.Errorf("failed to find user: %w", result.Error)
	}

	return modelToUser(&model), nil
}

// Add inserts a user and assigns its ID
func (r *GormUserRepository) Add(ctx context.Context, u *user.User) error {
	model := UserModel{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: time.Now().UTC(),
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}

	u.ID = model.ID
	return nil
}

func modelToUser(model *UserModel) *user.User {
	return &user.User{
		ID:    model.ID,
		Name:  model.Name,
		Email: model.Email,
	}
}

var _ user.Repository = (*GormUserRepository)(nil)
