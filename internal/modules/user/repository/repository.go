package repository

import (
	"context"

	"anoa.com/wismacare/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByContactInfo(ctx context.Context, contactInfo string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindAll(ctx context.Context) ([]entity.User, error)
	FindTechnicians(ctx context.Context, verified *bool, specialization string) ([]entity.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByContactInfo(ctx context.Context, contactInfo string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).Where("contact_info = ?", contactInfo).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.User{}, "id = ?", id).Error
}

func (r *userRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	var users []entity.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) FindTechnicians(ctx context.Context, verified *bool, specialization string) ([]entity.User, error) {
	query := r.db.WithContext(ctx).Where("role = ?", entity.RoleTechnician)

	if verified != nil {
		query = query.Where("verified = ?", *verified)
	}
	if specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}

	var technicians []entity.User
	err := query.Order("created_at DESC").Find(&technicians).Error
	return technicians, err
}
