package repository_test

import (
	"context"
	"testing"

	"anoa.com/wismacare/internal/entity"
	requestRepo "anoa.com/wismacare/internal/modules/request/repository"
	"anoa.com/wismacare/pkg/apperror"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.User{}, &entity.MaintenanceRequest{}))
	return db
}

func seedRequest(t *testing.T, db *gorm.DB) *entity.MaintenanceRequest {
	resident := &entity.User{
		Name:         "rina",
		ContactInfo:  "rina@example.com",
		PasswordHash: "x",
		Role:         entity.RoleResident,
		Verified:     true,
	}
	require.NoError(t, db.Create(resident).Error)

	request := &entity.MaintenanceRequest{
		ResidentID:  resident.ID,
		Category:    entity.CategoryPlumbing,
		Title:       "Leaking tap",
		Description: "Drips all night",
		Priority:    "low",
		Location:    "Unit 1A",
		Status:      entity.StatusNew,
	}
	require.NoError(t, db.Create(request).Error)
	return request
}

func TestUpdateVersionedBumpsVersion(t *testing.T) {
	db := setupTestDB(t)
	repo := requestRepo.NewRepository(db)
	request := seedRequest(t, db)

	loaded, err := repo.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, loaded.Version)

	loaded.Status = entity.StatusAssigned
	require.NoError(t, repo.UpdateVersioned(context.Background(), loaded))
	assert.Equal(t, 1, loaded.Version)

	stored, err := repo.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusAssigned, stored.Status)
	assert.Equal(t, 1, stored.Version)
}

func TestUpdateVersionedConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := requestRepo.NewRepository(db)
	request := seedRequest(t, db)

	first, err := repo.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(context.Background(), request.ID)
	require.NoError(t, err)

	first.Status = entity.StatusAssigned
	require.NoError(t, repo.UpdateVersioned(context.Background(), first))

	// The second writer still holds the old version and must lose.
	second.IsDeleted = true
	err = repo.UpdateVersioned(context.Background(), second)
	assert.ErrorIs(t, err, apperror.ErrConflict)

	stored, err := repo.FindByID(context.Background(), request.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsDeleted)
	assert.Equal(t, entity.StatusAssigned, stored.Status)
}

func TestFindByIDMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := requestRepo.NewRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
