package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"anoa.com/wismacare/internal/entity"
	"anoa.com/wismacare/internal/modules/audit"
	notifService "anoa.com/wismacare/internal/modules/notification/service"
	requestDto "anoa.com/wismacare/internal/modules/request/dto"
	repo "anoa.com/wismacare/internal/modules/request/repository"
	searchService "anoa.com/wismacare/internal/modules/search/service"
	userRepo "anoa.com/wismacare/internal/modules/user/repository"
	"anoa.com/wismacare/pkg/apperror"
	commonDto "anoa.com/wismacare/pkg/dto"
	"anoa.com/wismacare/pkg/response"
	"anoa.com/wismacare/pkg/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Legal successors for each status. Assignment is the admin override path
// and is validated separately in Assign.
var transitions = map[string][]string{
	entity.StatusNew:        {entity.StatusAssigned},
	entity.StatusAssigned:   {entity.StatusInProgress, entity.StatusResolved},
	entity.StatusInProgress: {entity.StatusResolved},
	entity.StatusResolved:   {},
}

func canTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Service interface {
	Create(ctx context.Context, caller response.Caller, input requestDto.CreateRequestRequest, media *commonDto.Upload) (*entity.MaintenanceRequest, error)
	List(ctx context.Context, caller response.Caller) ([]entity.MaintenanceRequest, error)
	UpdateStatus(ctx context.Context, caller response.Caller, id uuid.UUID, input requestDto.UpdateStatusRequest) (*entity.MaintenanceRequest, error)
	Assign(ctx context.Context, caller response.Caller, id, technicianID uuid.UUID) (*entity.MaintenanceRequest, error)
	Resolve(ctx context.Context, caller response.Caller, id uuid.UUID, input requestDto.ResolveRequestInput, proof *commonDto.Upload) (*requestDto.ResolveResult, error)
	SubmitFeedback(ctx context.Context, caller response.Caller, id uuid.UUID, input requestDto.FeedbackRequest) (*entity.MaintenanceRequest, error)
	Delete(ctx context.Context, caller response.Caller, id uuid.UUID) error
	Search(ctx context.Context, query string, limit int64) ([]searchService.RequestDocument, error)
}

type service struct {
	repo          repo.Repository
	userRepo      userRepo.UserRepository
	mediaStorage  storage.MediaStorage
	auditLog      audit.Logger
	search        searchService.SearchService
	notifications notifService.NotificationService
}

func NewService(
	repo repo.Repository,
	userRepo userRepo.UserRepository,
	mediaStorage storage.MediaStorage,
	auditLog audit.Logger,
	search searchService.SearchService,
	notifications notifService.NotificationService,
) Service {
	return &service{
		repo:          repo,
		userRepo:      userRepo,
		mediaStorage:  mediaStorage,
		auditLog:      auditLog,
		search:        search,
		notifications: notifications,
	}
}

func (s *service) Create(ctx context.Context, caller response.Caller, input requestDto.CreateRequestRequest, media *commonDto.Upload) (*entity.MaintenanceRequest, error) {
	if caller.Role != entity.RoleResident && caller.Role != entity.RoleAdmin {
		return nil, fmt.Errorf("only residents can file requests: %w", apperror.ErrForbidden)
	}

	request := &entity.MaintenanceRequest{
		ResidentID:  caller.ID,
		Category:    input.Category,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Location:    input.Location,
		Status:      entity.StatusNew,
	}

	// The media store is a synchronous dependency: if the blob can't be
	// persisted the whole creation fails.
	if media != nil {
		url, err := s.mediaStorage.UploadMedia(ctx, media.Reader, "requests", media.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to store media: %w", err)
		}
		request.MediaURL = &url
	}

	if err := s.repo.Create(ctx, request); err != nil {
		return nil, err
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelInfo, fmt.Sprintf("New request created: %s", request.ID), map[string]interface{}{
			"userId":   caller.ID.String(),
			"category": input.Category,
			"hasMedia": request.MediaURL != nil,
		})
	}

	s.indexAsync(request)

	return request, nil
}

func (s *service) List(ctx context.Context, caller response.Caller) ([]entity.MaintenanceRequest, error) {
	switch caller.Role {
	case entity.RoleResident:
		return s.repo.FindVisibleToResident(ctx, caller.ID)
	case entity.RoleTechnician:
		return s.repo.FindAssignedToTechnician(ctx, caller.ID)
	case entity.RoleAdmin:
		return s.repo.FindAllActive(ctx)
	}
	return nil, fmt.Errorf("unknown role %q: %w", caller.Role, apperror.ErrForbidden)
}

func (s *service) UpdateStatus(ctx context.Context, caller response.Caller, id uuid.UUID, input requestDto.UpdateStatusRequest) (*entity.MaintenanceRequest, error) {
	request, err := s.findRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Allowed(ActionUpdateStatus, caller, request) {
		return nil, fmt.Errorf("only technicians or admins can update status: %w", apperror.ErrForbidden)
	}

	if !entity.IsValidStatus(input.Status) {
		return nil, fmt.Errorf("unknown status %q: %w", input.Status, apperror.ErrInvalidInput)
	}
	if !canTransition(request.Status, input.Status) {
		return nil, fmt.Errorf("cannot move request from %s to %s: %w", request.Status, input.Status, apperror.ErrInvalidInput)
	}

	oldStatus := request.Status
	request.Status = input.Status

	if err := s.repo.UpdateVersioned(ctx, request); err != nil {
		return nil, err
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelInfo, fmt.Sprintf("Request %s status updated to %s", id, input.Status), map[string]interface{}{
			"userId":    caller.ID.String(),
			"oldStatus": oldStatus,
			"notes":     input.Notes,
		})
	}

	s.indexAsync(request)

	return request, nil
}

func (s *service) Assign(ctx context.Context, caller response.Caller, id, technicianID uuid.UUID) (*entity.MaintenanceRequest, error) {
	request, err := s.findRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Allowed(ActionAssign, caller, request) {
		return nil, fmt.Errorf("only admins can assign technicians: %w", apperror.ErrForbidden)
	}

	if request.Status == entity.StatusResolved {
		return nil, fmt.Errorf("cannot assign a resolved request: %w", apperror.ErrInvalidInput)
	}

	technician, err := s.userRepo.FindByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("technician not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if technician.Role != entity.RoleTechnician || !technician.Verified {
		return nil, fmt.Errorf("user %s is not a verified technician: %w", technicianID, apperror.ErrInvalidInput)
	}

	// Re-assignment simply overwrites; assigned_at tracks the most recent
	// assignment for the delay calculation.
	now := time.Now()
	request.TechnicianID = &technicianID
	request.Status = entity.StatusAssigned
	request.AssignedAt = &now

	if err := s.repo.UpdateVersioned(ctx, request); err != nil {
		return nil, err
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelInfo, fmt.Sprintf("Request %s assigned to technician %s", id, technicianID), map[string]interface{}{
			"adminId": caller.ID.String(),
		})
	}

	s.notify(ctx, technicianID, request.ID, entity.NotificationAssigned,
		fmt.Sprintf("You have been assigned to request %q", request.Title))
	s.notify(ctx, request.ResidentID, request.ID, entity.NotificationAssigned,
		fmt.Sprintf("A technician has been assigned to your request %q", request.Title))
	s.indexAsync(request)

	return request, nil
}

func (s *service) Resolve(ctx context.Context, caller response.Caller, id uuid.UUID, input requestDto.ResolveRequestInput, proof *commonDto.Upload) (*requestDto.ResolveResult, error) {
	request, err := s.findRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Allowed(ActionResolve, caller, request) {
		return nil, fmt.Errorf("you are not assigned to this request: %w", apperror.ErrForbidden)
	}

	if request.Status == entity.StatusResolved {
		return nil, fmt.Errorf("request is already resolved: %w", apperror.ErrInvalidInput)
	}

	// Delay penalty is advisory metadata computed from time since
	// assignment: >72h is a major delay, >48h a moderate one.
	delayPenalty := 0
	delayDays := 0
	if request.AssignedAt != nil {
		hoursDiff := time.Since(*request.AssignedAt).Hours()
		delayDays = int(hoursDiff / 24)

		if hoursDiff > 72 {
			delayPenalty = 2
		} else if hoursDiff > 48 {
			delayPenalty = 1
		}
	}

	if proof != nil {
		url, err := s.mediaStorage.UploadMedia(ctx, proof.Reader, "proof", proof.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to store completion proof: %w", err)
		}
		request.CompletionMediaURL = &url
	}

	request.Status = entity.StatusResolved

	if err := s.repo.UpdateVersioned(ctx, request); err != nil {
		return nil, err
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelInfo, fmt.Sprintf("Request %s marked as resolved by %s", id, caller.ID), map[string]interface{}{
			"notes":        input.Notes,
			"hasProof":     request.CompletionMediaURL != nil,
			"delayDays":    delayDays,
			"delayPenalty": delayPenalty,
		})
	}

	s.notify(ctx, request.ResidentID, request.ID, entity.NotificationResolved,
		fmt.Sprintf("Your request %q has been resolved", request.Title))
	s.indexAsync(request)

	result := &requestDto.ResolveResult{
		Request:      request,
		DelayPenalty: delayPenalty,
		DelayDays:    delayDays,
	}
	if delayPenalty > 0 {
		result.Note = fmt.Sprintf("Late resolution: -%d rating penalty applied", delayPenalty)
	}

	return result, nil
}

func (s *service) SubmitFeedback(ctx context.Context, caller response.Caller, id uuid.UUID, input requestDto.FeedbackRequest) (*entity.MaintenanceRequest, error) {
	request, err := s.findRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	if !Allowed(ActionFeedback, caller, request) {
		return nil, fmt.Errorf("only the resident who filed the request can leave feedback: %w", apperror.ErrForbidden)
	}

	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5: %w", apperror.ErrInvalidInput)
	}

	// Feedback only makes sense on finished work; enforced here so no
	// transport path can skip it.
	if request.Status != entity.StatusResolved {
		return nil, fmt.Errorf("feedback can only be submitted on resolved requests: %w", apperror.ErrInvalidInput)
	}

	request.FeedbackRating = &input.Rating
	if input.Comments != "" {
		request.FeedbackComments = &input.Comments
	}

	if err := s.repo.UpdateVersioned(ctx, request); err != nil {
		return nil, err
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelInfo, fmt.Sprintf("Feedback received for request %s: rating %d", id, input.Rating), map[string]interface{}{
			"residentId":   caller.ID.String(),
			"technicianId": request.TechnicianID,
		})
	}

	return request, nil
}

func (s *service) Delete(ctx context.Context, caller response.Caller, id uuid.UUID) error {
	request, err := s.findRequest(ctx, id)
	if err != nil {
		return err
	}

	if !Allowed(ActionDelete, caller, request) {
		return fmt.Errorf("you can only delete your own requests: %w", apperror.ErrForbidden)
	}

	if request.Status == entity.StatusResolved && caller.Role != entity.RoleAdmin {
		return fmt.Errorf("cannot delete a resolved request: %w", apperror.ErrInvalidInput)
	}

	role := caller.Role
	request.IsDeleted = true
	request.DeletedByRole = &role

	if err := s.repo.UpdateVersioned(ctx, request); err != nil {
		return err
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelWarn, fmt.Sprintf("Request %s soft-deleted by user %s", id, caller.ID), map[string]interface{}{
			"role": caller.Role,
		})
	}

	if s.search != nil {
		go func() {
			if err := s.search.RemoveRequest(request.ID.String()); err != nil {
				zap.L().Warn("failed to remove request from search index", zap.Error(err))
			}
		}()
	}

	return nil
}

func (s *service) Search(ctx context.Context, query string, limit int64) ([]searchService.RequestDocument, error) {
	if s.search == nil {
		return []searchService.RequestDocument{}, nil
	}
	return s.search.Search(query, limit)
}

func (s *service) findRequest(ctx context.Context, id uuid.UUID) (*entity.MaintenanceRequest, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	return request, nil
}

// notify is best-effort: a notification problem never fails the mutation
// that produced it.
func (s *service) notify(ctx context.Context, userID, requestID uuid.UUID, notifType, message string) {
	if s.notifications == nil {
		return
	}

	rid := requestID
	notification := &entity.Notification{
		UserID:    userID,
		RequestID: &rid,
		Type:      notifType,
		Message:   message,
	}

	if err := s.notifications.CreateNotification(ctx, notification); err != nil {
		zap.L().Warn("failed to create notification", zap.Error(err))
	}
}

func (s *service) indexAsync(request *entity.MaintenanceRequest) {
	if s.search == nil {
		return
	}

	snapshot := *request
	go func() {
		if err := s.search.IndexRequest(&snapshot); err != nil {
			zap.L().Warn("failed to index request", zap.Error(err))
		}
	}()
}
