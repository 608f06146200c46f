package entity

import "time"

// AuditEntry is a free-form operational log row. Writes are fire-and-forget:
// a failed or dropped entry never fails the operation that produced it.
type AuditEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Level     string    `gorm:"size:10;not null" json:"level"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Meta      *string   `gorm:"type:text" json:"meta,omitempty"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
