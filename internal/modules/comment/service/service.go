package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"anoa.com/wismacare/internal/entity"
	commentRepo "anoa.com/wismacare/internal/modules/comment/repository"
	requestRepo "anoa.com/wismacare/internal/modules/request/repository"
	requestService "anoa.com/wismacare/internal/modules/request/service"
	"anoa.com/wismacare/pkg/apperror"
	"anoa.com/wismacare/pkg/response"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentService interface {
	AddComment(ctx context.Context, caller response.Caller, requestID uuid.UUID, message string) (*entity.Comment, error)
	GetComments(ctx context.Context, caller response.Caller, requestID uuid.UUID) ([]entity.Comment, error)
}

type commentService struct {
	repo        commentRepo.CommentRepository
	requestRepo requestRepo.Repository
}

func NewCommentService(repo commentRepo.CommentRepository, requestRepo requestRepo.Repository) CommentService {
	return &commentService{
		repo:        repo,
		requestRepo: requestRepo,
	}
}

func (s *commentService) AddComment(ctx context.Context, caller response.Caller, requestID uuid.UUID, message string) (*entity.Comment, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("comment message is required: %w", apperror.ErrInvalidInput)
	}

	request, err := s.findActiveRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !requestService.Allowed(requestService.ActionComment, caller, request) {
		return nil, fmt.Errorf("access denied to this request: %w", apperror.ErrForbidden)
	}

	comment := &entity.Comment{
		RequestID: requestID,
		UserID:    caller.ID,
		Message:   message,
	}

	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *commentService) GetComments(ctx context.Context, caller response.Caller, requestID uuid.UUID) ([]entity.Comment, error) {
	request, err := s.findActiveRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if !requestService.Allowed(requestService.ActionComment, caller, request) {
		return nil, fmt.Errorf("access denied to this request: %w", apperror.ErrForbidden)
	}

	return s.repo.FindByRequestID(ctx, requestID)
}

func (s *commentService) findActiveRequest(ctx context.Context, requestID uuid.UUID) (*entity.MaintenanceRequest, error) {
	request, err := s.requestRepo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("request not found: %w", apperror.ErrNotFound)
		}
		return nil, err
	}
	if request.IsDeleted {
		return nil, fmt.Errorf("request not found: %w", apperror.ErrNotFound)
	}
	return request, nil
}
