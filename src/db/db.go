package db

import (
	"log"

	"pcs/src/config"
	"pcs/src/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var db *gorm.DB

func GetDb() *gorm.DB {
	if db != nil {
		return db
	}
	_db, err := gorm.Open(postgres.Open(config.GetDSN()))
	if err != nil {
		log.Printf("Error connecting to database: %s\n", err.Error())
		panic(err)
	}
	sqlDB, err := _db.DB()
	if err != nil {
		log.Fatalf("Error establishing connection to database: %s\n", err.Error())
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	db = _db
	return _db
}

// NewDB replaces the shared instance, used by tests to install a mock.
func NewDB(newdb *gorm.DB) {
	db = newdb
}

// Migrate creates the schema. The partial unique index backs the invariant
// that a booking carries at most one pending cancellation request; the
// check-then-insert in application code is not atomic across callers.
func Migrate(d *gorm.DB) error {
	if err := d.AutoMigrate(
		&models.User{},
		&models.Booking{},
		&models.CancellationRequest{},
		&models.ContactMessage{},
		&models.Notification{},
	); err != nil {
		return err
	}
	return d.Exec(`
	CREATE UNIQUE INDEX IF NOT EXISTS idx_cancellation_requests_pending
	ON cancellation_requests (booking_id)
	WHERE status = 'pending' AND deleted_at IS NULL;
	`).Error
}
