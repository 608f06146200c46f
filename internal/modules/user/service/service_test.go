package service_test

import (
	"context"
	"testing"
	"time"

	"anoa.com/wismacare/internal/entity"
	"anoa.com/wismacare/internal/modules/user/dto"
	userRepo "anoa.com/wismacare/internal/modules/user/repository"
	userService "anoa.com/wismacare/internal/modules/user/service"
	"anoa.com/wismacare/pkg/apperror"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testSecret = "test-secret"

func setupService(t *testing.T) (userService.AuthService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}))

	svc := userService.NewAuthService(userRepo.NewUserRepository(db), nil, nil, testSecret, time.Hour)
	return svc, db
}

func register(t *testing.T, svc userService.AuthService, name, role string) *entity.User {
	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:        name,
		ContactInfo: name + "@example.com",
		Password:    "secret1",
		Role:        role,
	}, nil)
	require.NoError(t, err)
	return user
}

func TestRegisterResidentIsVerified(t *testing.T) {
	svc, _ := setupService(t)

	user := register(t, svc, "rina", entity.RoleResident)
	assert.True(t, user.Verified)
	assert.Equal(t, entity.RoleResident, user.Role)
	assert.NotEqual(t, "secret1", user.PasswordHash)
}

func TestRegisterTechnicianIsPending(t *testing.T) {
	svc, _ := setupService(t)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:           "tono",
		ContactInfo:    "tono@example.com",
		Password:       "secret1",
		Role:           entity.RoleTechnician,
		Specialization: "Plumbing",
	}, nil)
	require.NoError(t, err)
	assert.False(t, user.Verified)
	require.NotNil(t, user.Specialization)
	assert.Equal(t, "Plumbing", *user.Specialization)
}

func TestRegisterDefaultsToResident(t *testing.T) {
	svc, _ := setupService(t)

	user, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:        "budi",
		ContactInfo: "budi@example.com",
		Password:    "secret1",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleResident, user.Role)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc, _ := setupService(t)

	for _, password := range []string{"short", "onlyletters", "1234567"} {
		_, err := svc.Register(context.Background(), dto.RegisterRequest{
			Name:        "rina",
			ContactInfo: "rina@example.com",
			Password:    password,
		}, nil)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, "password %q", password)
	}
}

func TestRegisterDuplicateContactInfo(t *testing.T) {
	svc, _ := setupService(t)

	register(t, svc, "rina", entity.RoleResident)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:        "other",
		ContactInfo: "rina@example.com",
		Password:    "secret1",
	}, nil)
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestLogin(t *testing.T) {
	svc, _ := setupService(t)
	user := register(t, svc, "rina", entity.RoleResident)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		ContactInfo: "rina@example.com",
		Password:    "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.User.PasswordHash)

	// The token carries the user id as subject and the role as a claim.
	parsed, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims := parsed.Claims.(jwt.MapClaims)
	sub, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), sub)
	assert.Equal(t, entity.RoleResident, claims["role"])
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := setupService(t)
	register(t, svc, "rina", entity.RoleResident)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		ContactInfo: "rina@example.com",
		Password:    "wrong1",
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		ContactInfo: "ghost@example.com",
		Password:    "secret1",
	})
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)
}

func TestLoginUnverifiedTechnicianBlocked(t *testing.T) {
	svc, _ := setupService(t)
	register(t, svc, "tono", entity.RoleTechnician)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		ContactInfo: "tono@example.com",
		Password:    "secret1",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestForgotPasswordFlow(t *testing.T) {
	svc, db := setupService(t)
	register(t, svc, "rina", entity.RoleResident)

	token, err := svc.ForgotPassword(context.Background(), "rina@example.com")
	require.NoError(t, err)
	require.Len(t, token, 6)

	err = svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		ContactInfo: "rina@example.com",
		Token:       token,
		Password:    "fresh42",
	})
	require.NoError(t, err)

	var stored entity.User
	require.NoError(t, db.First(&stored, "contact_info = ?", "rina@example.com").Error)
	assert.Nil(t, stored.PasswordResetToken)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("fresh42")))

	// The code is single use.
	err = svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		ContactInfo: "rina@example.com",
		Token:       token,
		Password:    "again99",
	})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestForgotPasswordUnknownAccount(t *testing.T) {
	svc, _ := setupService(t)

	// Unknown accounts yield no error and no code, so the endpoint can't be
	// used to probe for registered contacts.
	token, err := svc.ForgotPassword(context.Background(), "ghost@example.com")
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestResetPasswordWrongToken(t *testing.T) {
	svc, _ := setupService(t)
	register(t, svc, "rina", entity.RoleResident)

	_, err := svc.ForgotPassword(context.Background(), "rina@example.com")
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		ContactInfo: "rina@example.com",
		Token:       "000000",
		Password:    "fresh42",
	})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, db := setupService(t)
	register(t, svc, "rina", entity.RoleResident)

	token, err := svc.ForgotPassword(context.Background(), "rina@example.com")
	require.NoError(t, err)

	expired := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&entity.User{}).
		Where("contact_info = ?", "rina@example.com").
		Update("password_reset_expires", expired).Error)

	err = svc.ResetPassword(context.Background(), dto.ResetPasswordRequest{
		ContactInfo: "rina@example.com",
		Token:       token,
		Password:    "fresh42",
	})
	assert.ErrorIs(t, err, apperror.ErrBadRequest)
}
