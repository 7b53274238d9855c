package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/arzan03/UserDirectory/internal/config"
	"github.com/arzan03/UserDirectory/internal/db"
	"github.com/arzan03/UserDirectory/internal/repository"
	"github.com/arzan03/UserDirectory/internal/server"
	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/arzan03/UserDirectory/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx := context.Background()

	// Connect to MongoDB
	client, err := db.ConnectMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Disconnect(client)

	userRepo := repository.NewMongoUserRepository(client.Database(cfg.MongoDB).Collection(repository.UsersCollection))
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Fatalf("Failed to create indexes: %v", err)
	}

	store, err := newImageStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialise image store: %v", err)
	}

	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTRefresh, cfg.AccessTTL, cfg.RefreshTTL)
	uploads := services.NewUploadService(store, cfg.MaxImageBytes)

	app := server.New(server.Options{
		Development:    cfg.IsDevelopment(),
		ClientURL:      cfg.ClientURL,
		BodyLimit:      cfg.BodyLimit,
		AuthRateLimit:  cfg.AuthRateLimit,
		AuthRateWindow: cfg.AuthRateWindow,
	}, server.Dependencies{
		Tokens:  tokens,
		Auth:    services.NewAuthService(userRepo, tokens, uploads),
		Users:   services.NewUserService(userRepo, uploads),
		Uploads: uploads,
		DB:      db.Pinger{Client: client},
	})

	go func() {
		log.Printf("Server running on port %s (%s)", cfg.Port, cfg.Env)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

func newImageStore(ctx context.Context, cfg *config.Config) (storage.ImageStore, error) {
	if cfg.UploadDriver == config.DriverMinio {
		store, err := storage.NewMinioStore(ctx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := storage.NewDiskStore(cfg.UploadDir)
	if err != nil {
		return nil, err
	}
	log.Printf("Uploads will be stored in: %s", store.Dir())
	return store, nil
}
