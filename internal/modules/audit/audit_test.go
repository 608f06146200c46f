package audit

import (
	"testing"

	"anoa.com/wismacare/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.AuditEntry{}))
	return db
}

func TestLogDrainsOnClose(t *testing.T) {
	db := setupTestDB(t)
	logger := NewService(db, zap.NewNop()).(*service)

	logger.Log(LevelInfo, "first", map[string]interface{}{"key": "value"})
	logger.Log(LevelWarn, "second", nil)
	logger.Close()

	var entries []entity.AuditEntry
	require.NoError(t, db.Order("id ASC").Find(&entries).Error)
	require.Len(t, entries, 2)

	assert.Equal(t, LevelInfo, entries[0].Level)
	assert.Equal(t, "first", entries[0].Message)
	require.NotNil(t, entries[0].Meta)
	assert.JSONEq(t, `{"key":"value"}`, *entries[0].Meta)

	assert.Equal(t, LevelWarn, entries[1].Level)
	assert.Nil(t, entries[1].Meta)
}

func TestLogNeverBlocksWhenFull(t *testing.T) {
	db := setupTestDB(t)
	s := &service{
		db:      db,
		log:     zap.NewNop(),
		entries: make(chan entity.AuditEntry, 1),
		done:    make(chan struct{}),
	}

	// No writer running: the second entry hits a full buffer and is dropped
	// instead of blocking.
	s.Log(LevelInfo, "kept", nil)
	s.Log(LevelInfo, "dropped", nil)

	go s.writeLoop()
	s.Close()

	var count int64
	require.NoError(t, db.Model(&entity.AuditEntry{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
