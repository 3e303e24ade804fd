package main

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/MHYAnate/rootafapi/internal/config"
	"github.com/MHYAnate/rootafapi/internal/database"
	"github.com/MHYAnate/rootafapi/internal/domain"
)

// Seeds the bootstrap SUPER_ADMIN. Every other admin is created through
// the API by an admin who can manage admins.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using process environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}

	username := envOr("SEED_ADMIN_USERNAME", "superadmin")
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is empty")
	}

	var existing int64
	if err := db.Model(&domain.AdminUser{}).Where("username = ?", username).Count(&existing).Error; err != nil {
		log.Fatal(err)
	}
	if existing > 0 {
		log.Printf("admin %q already exists, nothing to do", username)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cfg.BcryptCost)
	if err != nil {
		log.Fatal(err)
	}

	admin := &domain.AdminUser{
		Username:           username,
		PasswordHash:       string(hash),
		FullName:           envOr("SEED_ADMIN_FULL_NAME", "Platform Super Admin"),
		Role:               domain.RoleSuperAdmin,
		Capabilities:       domain.DefaultCapabilities(domain.RoleSuperAdmin),
		IsActive:           true,
		MustChangePassword: true,
	}
	if err := db.Create(admin).Error; err != nil {
		log.Fatal(err)
	}

	log.Printf("created SUPER_ADMIN %q (id=%d); password change required at first login", username, admin.ID)

	if cfg.AppEnv != "production" && os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(db, cfg.BcryptCost); err != nil {
			log.Fatal(err)
		}
		log.Println("created demo member, client and listings (password: demo-pass-123)")
	}
}

// seedDemoData gives a dev database something to click through: one
// verified member with a product and a service, and one verified client.
func seedDemoData(db *gorm.DB, bcryptCost int) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("demo-pass-123"), bcryptCost)
	if err != nil {
		return err
	}

	now := time.Now()
	verified := func(phone, name string, t domain.UserType) *domain.User {
		return &domain.User{
			PhoneNumber:             phone,
			PasswordHash:            string(hash),
			FullName:                name,
			UserType:                t,
			VerificationStatus:      domain.VerificationVerified,
			IsActive:                true,
			VerificationSubmittedAt: &now,
			VerifiedAt:              &now,
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		member := verified("08010000001", "Demo Farmer", domain.UserTypeMember)
		if err := tx.Create(member).Error; err != nil {
			return err
		}
		if err := tx.Create(&domain.MemberProfile{
			UserID:              member.ID,
			ProviderType:        "FARMER",
			State:               "Lagos",
			LocalGovernmentArea: "Ikeja",
		}).Error; err != nil {
			return err
		}

		client := verified("08010000002", "Demo Client", domain.UserTypeClient)
		if err := tx.Create(client).Error; err != nil {
			return err
		}
		if err := tx.Create(&domain.ClientProfile{
			UserID:              client.ID,
			State:               "Lagos",
			LocalGovernmentArea: "Ikeja",
		}).Error; err != nil {
			return err
		}

		if err := tx.Create(&domain.Product{
			MemberID:    member.ID,
			Name:        "Fresh Tomatoes",
			Description: "Basket of fresh tomatoes",
			Price:       15000,
			Unit:        "basket",
			IsActive:    true,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Service{
			MemberID:    member.ID,
			Name:        "Farm Produce Delivery",
			Description: "Same-day delivery within Lagos",
			Price:       5000,
			PriceType:   "per_trip",
			IsActive:    true,
		}).Error
	})
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
