package models

import (
	"context"
	"log"
	"os"

	"github.com/akshayWork-19/RightTutor-Backend/config"
	"github.com/akshayWork-19/RightTutor-Backend/utils"
)

func MigrateTable() {
	db := config.GetDB()

	err := db.AutoMigrate(
		&Admin{},
		&Record{},
		&Repository{},
	)
	if err != nil {
		log.Fatal(err)
	}

	seedAdmin()
}

// seedAdmin bootstraps the first dashboard login from the environment so a
// fresh deployment is reachable without manual SQL.
func seedAdmin() {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		return
	}

	logger := config.GetLogger()
	store := NewAdminStore(config.GetDB())
	ctx := context.Background()

	existing, err := store.GetByEmail(ctx, email)
	if err != nil {
		config.LogError(logger, "models", "seedAdmin", "lookup failed", email, err)
		return
	}
	if existing != nil {
		return
	}

	hashed, err := utils.HashPassword(password)
	if err != nil {
		config.LogError(logger, "models", "seedAdmin", "hash failed", email, err)
		return
	}

	name := os.Getenv("ADMIN_NAME")
	if name == "" {
		name = "Admin"
	}
	admin := Admin{
		Name:     name,
		Email:    email,
		Password: string(hashed),
		Avatar:   "https://api.dicebear.com/7.x/initials/svg?seed=" + name,
		Role:     "admin",
	}
	if err := store.Create(ctx, &admin); err != nil {
		config.LogError(logger, "models", "seedAdmin", "create failed", email, err)
		return
	}
	logger.WithField("email", email).Info("seeded admin account")
}
