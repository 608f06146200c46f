package repository

import (
	"context"
	"fmt"

	"anoa.com/wismacare/internal/entity"
	"anoa.com/wismacare/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, request *entity.MaintenanceRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MaintenanceRequest, error)
	// FindVisibleToResident returns the resident's non-deleted requests plus
	// those soft-deleted by an Admin. Requests the resident deleted
	// themselves stay hidden.
	FindVisibleToResident(ctx context.Context, residentID uuid.UUID) ([]entity.MaintenanceRequest, error)
	FindAssignedToTechnician(ctx context.Context, technicianID uuid.UUID) ([]entity.MaintenanceRequest, error)
	FindAllActive(ctx context.Context) ([]entity.MaintenanceRequest, error)
	// UpdateVersioned writes all mutable columns conditional on the version
	// the caller loaded; a concurrent writer winning the race surfaces as
	// apperror.ErrConflict.
	UpdateVersioned(ctx context.Context, request *entity.MaintenanceRequest) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, request *entity.MaintenanceRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MaintenanceRequest, error) {
	var request entity.MaintenanceRequest
	if err := r.db.WithContext(ctx).
		Preload("Resident").
		Preload("Technician").
		Where("id = ?", id).
		First(&request).Error; err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *repository) FindVisibleToResident(ctx context.Context, residentID uuid.UUID) ([]entity.MaintenanceRequest, error) {
	var requests []entity.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Technician").
		Where("resident_id = ?", residentID).
		Where("is_deleted = ? OR deleted_by_role = ?", false, entity.RoleAdmin).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAssignedToTechnician(ctx context.Context, technicianID uuid.UUID) ([]entity.MaintenanceRequest, error) {
	var requests []entity.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Resident").
		Where("technician_id = ? AND is_deleted = ?", technicianID, false).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) FindAllActive(ctx context.Context) ([]entity.MaintenanceRequest, error) {
	var requests []entity.MaintenanceRequest
	err := r.db.WithContext(ctx).
		Preload("Resident").
		Preload("Technician").
		Where("is_deleted = ?", false).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

func (r *repository) UpdateVersioned(ctx context.Context, request *entity.MaintenanceRequest) error {
	loadedVersion := request.Version

	updates := map[string]interface{}{
		"technician_id":        request.TechnicianID,
		"status":               request.Status,
		"media_url":            request.MediaURL,
		"feedback_rating":      request.FeedbackRating,
		"feedback_comments":    request.FeedbackComments,
		"completion_media_url": request.CompletionMediaURL,
		"is_deleted":           request.IsDeleted,
		"deleted_by_role":      request.DeletedByRole,
		"assigned_at":          request.AssignedAt,
		"version":              loadedVersion + 1,
	}

	tx := r.db.WithContext(ctx).Model(&entity.MaintenanceRequest{}).
		Where("id = ? AND version = ?", request.ID, loadedVersion).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return fmt.Errorf("request was modified concurrently: %w", apperror.ErrConflict)
	}

	request.Version = loadedVersion + 1
	return nil
}
