package database

import (
	"log"
	"strings"

	"tourstay/internal/domain"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"

	// cgo-free sqlite, registers database/sql driver "sqlite"
	_ "modernc.org/sqlite"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	}

	log.Println("Using SQLite:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{TranslateError: true},
	)
}

// Migrate creates or updates the schema for every persisted entity.
// Called by cmd/seed and the test suites; production schemas are managed
// the same way for now.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Property{},
		&domain.Room{},
		&domain.Departure{},
		&domain.CapacityDay{},
		&domain.Customer{},
		&domain.Booking{},
		&domain.Admin{},
	)
}
