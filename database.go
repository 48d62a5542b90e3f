package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	godotenv.Load()

	host := os.Getenv("DB_HOST")
	user := os.Getenv("DB_USER")
	pass := os.Getenv("DB_PASS")
	name := os.Getenv("DB_NAME")
	port := os.Getenv("DB_PORT")

	if host == "" || user == "" || pass == "" || name == "" || port == "" {
		log.Fatalf("DATABASE ENV MISSING — check .env file")
	}

	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, pass, name, port,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	DB = db

	if err := DB.AutoMigrate(&Profile{}, &Event{}, &Participant{}); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	log.Println("database connected and migrated")
}

// BootstrapAdmin makes sure an admin account exists when ADMIN_EMAIL and
// ADMIN_PASSWORD are set. Admin accounts cannot be created through the API,
// so this is the only way in for a fresh install.
func BootstrapAdmin(ctx context.Context, profiles ProfileRepository) {
	email := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	if _, err := profiles.GetByEmail(ctx, email); err == nil {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	_, err = profiles.Insert(ctx, Profile{
		Email:        email,
		FullName:     "Administrator",
		Role:         RoleAdmin,
		PasswordHash: string(hash),
	})
	if err != nil {
		log.Fatalf("bootstrap admin account: %v", err)
	}
	log.Println("admin account bootstrapped:", email)
}
