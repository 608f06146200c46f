package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleResident   = "Resident"
	RoleTechnician = "Technician"
	RoleAdmin      = "Admin"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleResident, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name           string    `gorm:"size:100;not null" json:"name"`
	ContactInfo    string    `gorm:"size:100;uniqueIndex;not null" json:"contact_info"`
	PasswordHash   string    `gorm:"size:255;not null" json:"-"`
	Role           string    `gorm:"size:20;not null;default:'Resident'" json:"role"`
	EmployeeID     *string   `gorm:"size:50" json:"employee_id,omitempty"`
	Phone          *string   `gorm:"size:20" json:"phone,omitempty"`
	Specialization *string   `gorm:"size:50" json:"specialization,omitempty"`
	PhotoURL       *string   `gorm:"type:text" json:"photo_url,omitempty"`
	// Technicians require admin approval before they can log in.
	Verified             bool       `gorm:"not null;default:true" json:"verified"`
	PasswordResetToken   *string    `gorm:"size:10" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`
	CreatedAt            time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
