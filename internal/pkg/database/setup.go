package database

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/TuanPhamVN/CloudSentry/app/models"
	"github.com/TuanPhamVN/CloudSentry/internal/pkg/env"
)

var DB *gorm.DB

const maxRetries = 5
const retryDelay = 5 * time.Second

func SetupDatabase() {
	var err error
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		env.GetEnv("DB_USER", ""),
		env.GetEnv("DB_PASSWORD", ""),
		env.GetEnv("DB_HOST", "127.0.0.1"),
		env.GetEnv("DB_PORT", "3306"),
		env.GetEnv("DB_NAME", ""),
	)

	for i := 0; i < maxRetries; i++ {
		DB, err = gorm.Open(mysql.New(mysql.Config{
			DSN:                      dsn,
			DefaultStringSize:        256,
			DisableDatetimePrecision: true,
			DontSupportRenameIndex:   true,
			DontSupportRenameColumn:  true,
		}), &gorm.Config{})
		if err == nil {
			DB.AutoMigrate(
				&models.User{},
				&models.ProviderAccount{},
				&models.ManagedResource{},
				&models.NotifyConfig{},
			)
			seedAdminUser(DB)
			return
		}

		log.Errorf("Failed to connect to database (try %d/%d): %v", i+1, maxRetries, err)
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}

	if err != nil {
		panic(err)
	}
}

// GetDB returns the shared database handle.
func GetDB() *gorm.DB {
	return DB
}

// seedAdminUser creates the default admin account on an empty installation so
// the control surface is reachable after first boot.
func seedAdminUser(db *gorm.DB) {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	password := env.GetEnv("ADMIN_PASSWORD", "changeme")
	admin, err := models.CreateUser("admin", password, models.ROLE_ADMIN)
	if err != nil {
		log.Errorf("[Database] Failed to build admin user: %v", err)
		return
	}
	if err := db.Create(admin).Error; err != nil {
		log.Errorf("[Database] Failed to seed admin user: %v", err)
		return
	}
	log.Info("[Database] Seeded default admin user")
}
