// internal/database/seeder.go
package database

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"dkt-api-server/config"
	"dkt-api-server/internal/auth"
	"dkt-api-server/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// SeedAdmin creates the first admin account if none with the configured email exists.
// Admins are never self-registered, so this is the only way in on a fresh database.
func SeedAdmin(ctx context.Context, db *mongo.Database, cfg config.AdminSeedConfig) error {
	email := strings.ToLower(strings.TrimSpace(cfg.Email))
	if email == "" || cfg.Password == "" {
		log.Println("WARN: admin seed email or password not configured. Seeding skipped.")
		return nil
	}
	admins := db.Collection("admins")

	count, err := admins.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return err
	}
	if count > 0 {
		log.Println("Admin already exists. Seeding skipped.")
		return nil
	}

	log.Println("Admin not found. Seeding...")
	hashedPassword, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return err
	}

	admin := models.Admin{
		AccountBase: models.AccountBase{
			Email:     email,
			Password:  hashedPassword,
			Verify:    models.ApprovalApproved,
			CreatedAt: time.Now(),
		},
		Name: cfg.Name,
	}
	if _, err = admins.InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return errors.Join(errors.New("failed to seed admin"), err)
	}

	log.Println("Admin seeded successfully.")
	return nil
}
