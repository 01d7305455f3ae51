package main

import (
	"context" // Store calls
	"flag"    // Command line flags

	"crowdfunding/internal/config" // Configuration
	"crowdfunding/internal/db"     // Database connection
	"crowdfunding/internal/domain" // Domain models and validation
	"crowdfunding/internal/store"  // Persistence layer
	"crowdfunding/internal/utils"  // Password hashing

	"github.com/sirupsen/logrus" // Logrus for structured logging
)

// Creates a staff + superuser account, the only way to obtain the admin listing
func main() {
	username := flag.String("username", "", "username")
	email := flag.String("email", "", "email address")
	phone := flag.String("phone", "", "phone number (01 followed by 9 digits)")
	password := flag.String("password", "", "password")
	flag.Parse()

	normalized := domain.NormalizeEmail(*email)
	if err := domain.ValidateUser(*username, normalized, *phone, *password); err != nil {
		logrus.Fatalf("invalid user: %v", err)
	}

	cfg := config.LoadConfig()
	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		logrus.Fatalf("failed to hash password: %v", err)
	}
	user := domain.User{
		Username:    *username,
		Email:       normalized,
		Phone:       *phone,
		Password:    hash,
		IsStaff:     true,
		IsSuperuser: true,
	}
	if err := store.New(gdb).CreateUser(context.Background(), &user); err != nil {
		logrus.Fatalf("failed to create superuser: %v", err)
	}
	logrus.WithField("user_id", user.ID).Info("Superuser created")
}
