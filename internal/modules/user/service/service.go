package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"time"

	"anoa.com/wismacare/internal/entity"
	"anoa.com/wismacare/internal/modules/audit"
	"anoa.com/wismacare/internal/modules/user/dto"
	"anoa.com/wismacare/internal/modules/user/repository"
	"anoa.com/wismacare/pkg/apperror"
	commonDto "anoa.com/wismacare/pkg/dto"
	"anoa.com/wismacare/pkg/storage"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Minimum 6 characters, at least one letter and one digit.
var (
	digitPattern  = regexp.MustCompile(`[0-9]`)
	letterPattern = regexp.MustCompile(`[A-Za-z]`)
)

const resetTokenTTL = 30 * time.Minute

type AuthService interface {
	Register(ctx context.Context, input dto.RegisterRequest, photo *commonDto.Upload) (*entity.User, error)
	Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error)
	ForgotPassword(ctx context.Context, contactInfo string) (string, error)
	ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error
}

type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

type authService struct {
	repo         repository.UserRepository
	mediaStorage storage.MediaStorage
	auditLog     audit.Logger
	secret       string
	tokenTTL     time.Duration
}

func NewAuthService(repo repository.UserRepository, mediaStorage storage.MediaStorage, auditLog audit.Logger, secret string, tokenTTL time.Duration) AuthService {
	if secret == "" {
		secret = "change-me"
	}
	if tokenTTL == 0 {
		tokenTTL = time.Hour
	}

	return &authService{
		repo:         repo,
		mediaStorage: mediaStorage,
		auditLog:     auditLog,
		secret:       secret,
		tokenTTL:     tokenTTL,
	}
}

func validPassword(password string) bool {
	return len(password) >= 6 && letterPattern.MatchString(password) && digitPattern.MatchString(password)
}

func (s *authService) Register(ctx context.Context, input dto.RegisterRequest, photo *commonDto.Upload) (*entity.User, error) {
	if !validPassword(input.Password) {
		return nil, fmt.Errorf("password must be at least 6 characters long and contain at least one letter and one number: %w", apperror.ErrInvalidInput)
	}

	if _, err := s.repo.FindByContactInfo(ctx, input.ContactInfo); err == nil {
		return nil, fmt.Errorf("user with this contact info already exists: %w", apperror.ErrBadRequest)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = entity.RoleResident
	}

	user := &entity.User{
		Name:         input.Name,
		ContactInfo:  input.ContactInfo,
		PasswordHash: string(hashed),
		Role:         role,
		// Technicians wait for admin approval; everyone else is active at once.
		Verified: role != entity.RoleTechnician,
	}

	if input.EmployeeID != "" {
		user.EmployeeID = &input.EmployeeID
	}
	if input.Phone != "" {
		user.Phone = &input.Phone
	}
	if role == entity.RoleTechnician && input.Specialization != "" {
		user.Specialization = &input.Specialization
	}

	// Profile photo goes to the blob store first; a store failure fails the
	// whole registration.
	if photo != nil {
		url, err := s.mediaStorage.UploadMedia(ctx, photo.Reader, "avatars", photo.Filename)
		if err != nil {
			return nil, fmt.Errorf("failed to store photo: %w", err)
		}
		user.PhotoURL = &url
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelInfo, fmt.Sprintf("New user registered: %s", user.Name), map[string]interface{}{
			"userId":   user.ID.String(),
			"role":     user.Role,
			"verified": user.Verified,
		})
	}

	return user, nil
}

func (s *authService) Login(ctx context.Context, input dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.repo.FindByContactInfo(ctx, input.ContactInfo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.logFailedLogin(input.ContactInfo, "user not found")
			return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.logFailedLogin(input.ContactInfo, "invalid password")
		return nil, fmt.Errorf("invalid credentials: %w", apperror.ErrUnauthorized)
	}

	if !user.Verified {
		return nil, fmt.Errorf("account pending admin verification: %w", apperror.ErrForbidden)
	}

	token, expiresAt, err := s.generateToken(user)
	if err != nil {
		return nil, err
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelInfo, fmt.Sprintf("User logged in: %s", user.Name), map[string]interface{}{
			"userId": user.ID.String(),
		})
	}

	user.PasswordHash = ""

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   expiresAt,
		User:        user,
	}, nil
}

// ForgotPassword stores a short-lived 6-digit reset code and returns it so a
// mailer (or the dev-mode handler) can deliver it. An unknown contact returns
// an empty code with no error, so callers can't probe for accounts.
func (s *authService) ForgotPassword(ctx context.Context, contactInfo string) (string, error) {
	user, err := s.repo.FindByContactInfo(ctx, contactInfo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}

	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	token := fmt.Sprintf("%06d", n.Int64()+100000)

	expires := time.Now().Add(resetTokenTTL)
	user.PasswordResetToken = &token
	user.PasswordResetExpires = &expires

	if err := s.repo.Update(ctx, user); err != nil {
		return "", err
	}

	return token, nil
}

func (s *authService) ResetPassword(ctx context.Context, input dto.ResetPasswordRequest) error {
	if !validPassword(input.Password) {
		return fmt.Errorf("password must be at least 6 characters with 1 letter and 1 number: %w", apperror.ErrInvalidInput)
	}

	user, err := s.repo.FindByContactInfo(ctx, input.ContactInfo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("invalid or expired reset token: %w", apperror.ErrBadRequest)
		}
		return err
	}

	if user.PasswordResetToken == nil || user.PasswordResetExpires == nil ||
		*user.PasswordResetToken != input.Token ||
		time.Now().After(*user.PasswordResetExpires) {
		return fmt.Errorf("invalid or expired reset token: %w", apperror.ErrBadRequest)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user.PasswordHash = string(hashed)
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil

	if err := s.repo.Update(ctx, user); err != nil {
		return err
	}

	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelInfo, fmt.Sprintf("Password reset for: %s", user.ContactInfo), map[string]interface{}{
			"userId": user.ID.String(),
		})
	}

	return nil
}

func (s *authService) logFailedLogin(contactInfo, reason string) {
	if s.auditLog != nil {
		s.auditLog.Log(audit.LevelWarn, fmt.Sprintf("Failed login attempt for: %s", contactInfo), map[string]interface{}{
			"reason": reason,
		})
	}
}

func (s *authService) generateToken(user *entity.User) (string, int64, error) {
	expiresAt := time.Now().Add(s.tokenTTL)

	claims := tokenClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", 0, err
	}

	return signed, expiresAt.Unix(), nil
}
