package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"

	"github.com/MHYAnate/rootafapi/internal/domain"
)

func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("Connecting to PostgreSQL...")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("Using SQLite for local development:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}

// Migrate creates/updates all tables. cmd/api and the test suites share
// this list so schemas never drift between them.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.VerificationDocument{},
		&domain.UserSession{},
		&domain.AdminUser{},
		&domain.AdminSession{},
		&domain.AdminActivityLog{},
		&domain.Notification{},
		&domain.MemberProfile{},
		&domain.ClientProfile{},
		&domain.Product{},
		&domain.Service{},
		&domain.Rating{},
		&domain.PasswordResetRequest{},
	)
}
