// Command createadmin seeds an admin account. It does nothing when a user
// with the admin email already exists.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/arzan03/UserDirectory/internal/config"
	"github.com/arzan03/UserDirectory/internal/db"
	"github.com/arzan03/UserDirectory/internal/models"
	"github.com/arzan03/UserDirectory/internal/repository"
	"github.com/arzan03/UserDirectory/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()
	client, err := db.ConnectMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Disconnect(client)

	repo := repository.NewMongoUserRepository(client.Database(cfg.MongoDB).Collection(repository.UsersCollection))
	if err := repo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	email := services.NormalizeEmail(getenv("ADMIN_EMAIL", "admin@example.com"))
	password := getenv("ADMIN_PASSWORD", "admin123")

	created, err := seedAdmin(ctx, repo, adminFromEnv(email), password)
	if err != nil {
		log.Printf("Error creating admin user: %v", err)
		return
	}
	if created {
		log.Println("✓ Admin user created successfully!")
	} else {
		log.Println("Admin user already exists!")
	}
	log.Printf("Email: %s", email)
}

func adminFromEnv(email string) *models.User {
	return &models.User{
		Name:    getenv("ADMIN_NAME", "Admin User"),
		Email:   email,
		Phone:   getenv("ADMIN_PHONE", "1234567890"),
		State:   getenv("ADMIN_STATE", "California"),
		City:    getenv("ADMIN_CITY", "San Francisco"),
		Country: getenv("ADMIN_COUNTRY", "USA"),
		Pincode: getenv("ADMIN_PINCODE", "94102"),
	}
}

// seedAdmin inserts admin with the admin role unless the email is taken. A
// phone number that belongs to another account is an error.
func seedAdmin(ctx context.Context, repo repository.UserRepository, admin *models.User, password string) (bool, error) {
	existing, err := repo.FindByEmailOrPhone(ctx, admin.Email, admin.Phone)
	switch {
	case err == nil && existing.Email == admin.Email:
		return false, nil
	case err == nil:
		return false, fmt.Errorf("phone %s already belongs to %s", admin.Phone, existing.Email)
	case !errors.Is(err, repository.ErrUserNotFound):
		return false, err
	}

	hash, err := services.HashPassword(password)
	if err != nil {
		return false, err
	}
	admin.ID = primitive.NewObjectID()
	admin.Password = hash
	admin.Role = models.RoleAdmin
	admin.CreatedAt = time.Now().UTC()

	if err := repo.Create(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
