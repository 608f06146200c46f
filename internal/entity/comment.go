package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is the append-only discussion thread on a request. Comments are
// never edited or deleted.
type Comment struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	RequestID uuid.UUID           `gorm:"type:uuid;not null;index" json:"request_id"`
	Request   *MaintenanceRequest `gorm:"foreignKey:RequestID" json:"-"`
	UserID    uuid.UUID           `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User               `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Message   string              `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == uuid.Nil {
		c.ID, err = uuid.NewV7()
	}
	return
}
