package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusNew        = "New"
	StatusAssigned   = "Assigned"
	StatusInProgress = "In-Progress"
	StatusResolved   = "Resolved"
)

const (
	CategoryPlumbing   = "Plumbing"
	CategoryElectrical = "Electrical"
	CategoryPainting   = "Painting"
	CategoryOther      = "Other"
)

func IsValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusAssigned, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

type MaintenanceRequest struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ResidentID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"resident_id"`
	Resident     *User      `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	TechnicianID *uuid.UUID `gorm:"type:uuid;index" json:"technician_id,omitempty"`
	Technician   *User      `gorm:"foreignKey:TechnicianID" json:"technician,omitempty"`
	Category     string     `gorm:"size:30;not null" json:"category"`
	Title        string     `gorm:"size:255;not null" json:"title"`
	Description  string     `gorm:"type:text;not null" json:"description"`
	Priority     string     `gorm:"size:10;not null" json:"priority"`
	Location     string     `gorm:"size:255;not null" json:"location"`
	MediaURL     *string    `gorm:"type:text" json:"media_url,omitempty"`
	Status       string     `gorm:"size:20;not null;default:'New'" json:"status"`

	FeedbackRating     *int    `json:"feedback_rating,omitempty"`
	FeedbackComments   *string `gorm:"type:text" json:"feedback_comments,omitempty"`
	CompletionMediaURL *string `gorm:"type:text" json:"completion_media_url,omitempty"`

	// Soft delete only; rows are never removed. DeletedByRole drives the
	// asymmetric resident visibility rule in the repository.
	IsDeleted     bool    `gorm:"not null;default:false" json:"is_deleted"`
	DeletedByRole *string `gorm:"size:20" json:"deleted_by_role,omitempty"`

	AssignedAt *time.Time `json:"assigned_at,omitempty"`

	// Optimistic lock: mutations are conditional on the loaded version.
	Version int `gorm:"not null;default:0" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *MaintenanceRequest) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == uuid.Nil {
		r.ID, err = uuid.NewV7()
	}
	return
}
