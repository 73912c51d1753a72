package db

import (
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MedVetSolutions/vet-scheduler/internal/config"
	"github.com/MedVetSolutions/vet-scheduler/internal/models"
	"github.com/MedVetSolutions/vet-scheduler/internal/timezone"
)

func NewDB(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
	})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}

	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}

	db.Exec(`
        UPDATE clinics
        SET timezone = ?
        WHERE timezone IS NULL OR timezone = ''
    `, timezone.DefaultTimezone)

	return db
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Clinic{},
		&models.User{},
		&models.Client{},
		&models.Pet{},
		&models.AvailabilitySlot{},
		&models.Holiday{},
		&models.Appointment{},
		&models.PlanFeature{},
		&models.SubscriptionPlan{},
		&models.Subscription{},
		&models.AuditLog{},
	)
}
