package service

import (
	"context"
	"fmt"

	"anoa.com/wismacare/internal/entity"
	"anoa.com/wismacare/internal/modules/audit"
	userRepo "anoa.com/wismacare/internal/modules/user/repository"
	"anoa.com/wismacare/pkg/apperror"
	"anoa.com/wismacare/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AdminService interface {
	GetTechnicians(ctx context.Context) ([]entity.User, error)
	GetAllTechnicians(ctx context.Context) ([]entity.User, error)
	GetPendingTechnicians(ctx context.Context) ([]entity.User, error)
	GetTechniciansBySpecialization(ctx context.Context, specialization string) ([]entity.User, error)
	ApproveTechnician(ctx context.Context, technicianID uuid.UUID) (*entity.User, error)
	RejectTechnician(ctx context.Context, technicianID uuid.UUID) error
	GetAllUsers(ctx context.Context) ([]entity.User, error)
}

type adminService struct {
	userRepo     userRepo.UserRepository
	mediaStorage storage.MediaStorage
	auditLog     audit.Logger
}

func NewAdminService(userRepo userRepo.UserRepository, mediaStorage storage.MediaStorage, auditLog audit.Logger) AdminService {
	return &adminService{userRepo: userRepo, mediaStorage: mediaStorage, auditLog: auditLog}
}

func (s *adminService) GetTechnicians(ctx context.Context) ([]entity.User, error) {
	verified := true
	return s.userRepo.FindTechnicians(ctx, &verified, "")
}

func (s *adminService) GetAllTechnicians(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.FindTechnicians(ctx, nil, "")
}

func (s *adminService) GetPendingTechnicians(ctx context.Context) ([]entity.User, error) {
	verified := false
	return s.userRepo.FindTechnicians(ctx, &verified, "")
}

func (s *adminService) GetTechniciansBySpecialization(ctx context.Context, specialization string) ([]entity.User, error) {
	verified := true
	return s.userRepo.FindTechnicians(ctx, &verified, specialization)
}

func (s *adminService) ApproveTechnician(ctx context.Context, technicianID uuid.UUID) (*entity.User, error) {
	technician, err := s.findTechnician(ctx, technicianID)
	if err != nil {
		return nil, err
	}
	if technician.Verified {
		return technician, nil
	}

	technician.Verified = true
	if err := s.userRepo.Update(ctx, technician); err != nil {
		return nil, fmt.Errorf("failed to approve technician: %w", err)
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelInfo, "technician approved", map[string]interface{}{
			"technician_id": technician.ID.String(),
			"name":          technician.Name,
		})
	}

	return technician, nil
}

func (s *adminService) RejectTechnician(ctx context.Context, technicianID uuid.UUID) error {
	technician, err := s.findTechnician(ctx, technicianID)
	if err != nil {
		return err
	}

	// Rejection removes the account entirely so the same contact info
	// can register again later.
	if err := s.userRepo.Delete(ctx, technician.ID); err != nil {
		return fmt.Errorf("failed to reject technician: %w", err)
	}

	// Orphaned profile photo cleanup is best-effort.
	if s.mediaStorage != nil && technician.PhotoURL != nil {
		if err := s.mediaStorage.DeleteMedia(ctx, *technician.PhotoURL); err != nil {
			zap.L().Warn("failed to delete rejected technician photo", zap.Error(err))
		}
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelWarn, "technician rejected", map[string]interface{}{
			"technician_id": technician.ID.String(),
			"name":          technician.Name,
		})
	}

	return nil
}

func (s *adminService) GetAllUsers(ctx context.Context) ([]entity.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *adminService) findTechnician(ctx context.Context, technicianID uuid.UUID) (*entity.User, error) {
	user, err := s.userRepo.FindByID(ctx, technicianID)
	if err != nil {
		return nil, fmt.Errorf("technician not found: %w", apperror.ErrNotFound)
	}
	if user.Role != entity.RoleTechnician {
		return nil, fmt.Errorf("user is not a technician: %w", apperror.ErrInvalidInput)
	}
	return user, nil
}
