package bootstrap

import (
	"log"

	"anoa.com/wismacare/internal/entity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.MaintenanceRequest{},
		&entity.Comment{},
		&entity.Notification{},
		&entity.AuditEntry{},
	)
}

func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.User{}).
		Where("contact_info = ?", "admin@wismacare.local").
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Admin user already exists, skipping seed")
		return nil
	}

	password := "admin123"
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := entity.User{
		Name:         "Administrator",
		ContactInfo:  "admin@wismacare.local",
		PasswordHash: string(hashedPasswordBytes),
		Role:         entity.RoleAdmin,
		Verified:     true,
	}

	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	log.Println("✅ Admin user seeded successfully")
	log.Println("   Contact: admin@wismacare.local")
	log.Println("   Password: admin123")

	return nil
}
