package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverDisk  = "disk"
	DriverMinio = "minio"
)

type Config struct {
	Port       string
	Env        string
	ClientURL  string
	BodyLimit  int
	MongoURI   string
	MongoDB    string
	JWTSecret  string
	JWTRefresh string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	UploadDriver  string
	UploadDir     string
	MaxImageBytes int64

	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	AuthRateLimit  int
	AuthRateWindow time.Duration
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading it, using environment variables")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:       getenv("PORT", "8080"),
		Env:        getenv("APP_ENV", "production"),
		ClientURL:  getenv("CLIENT_URL", "http://localhost:3000"),
		BodyLimit:  atoi("BODY_LIMIT_BYTES", 10*1024*1024),
		MongoURI:   getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:    getenv("MONGO_DATABASE", "user_directory"),
		JWTSecret:  os.Getenv("JWT_SECRET"),
		JWTRefresh: os.Getenv("JWT_REFRESH_SECRET"),

		UploadDriver:  getenv("UPLOAD_DRIVER", DriverDisk),
		UploadDir:     getenv("UPLOAD_DIR", "uploads"),
		MaxImageBytes: int64(atoi("MAX_IMAGE_BYTES", 2*1024*1024)),

		MinioEndpoint:  getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", "minioadmin"),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", "minioadmin"),
		MinioBucket:    getenv("MINIO_BUCKET", "profile-images"),

		AuthRateLimit: atoi("AUTH_RATE_LIMIT", 100),
	}

	var err error
	if cfg.AccessTTL, err = duration("ACCESS_TOKEN_TTL", time.Hour); err != nil {
		return nil, err
	}
	if cfg.RefreshTTL, err = duration("REFRESH_TOKEN_TTL", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if cfg.AuthRateWindow, err = duration("AUTH_RATE_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}
	if cfg.MinioUseSSL, err = boolean("MINIO_USE_SSL", false); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) validate() error {
	if c.JWTSecret == "" || c.JWTRefresh == "" {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET must be set")
	}
	if c.UploadDriver != DriverDisk && c.UploadDriver != DriverMinio {
		return fmt.Errorf("unsupported UPLOAD_DRIVER %q", c.UploadDriver)
	}
	if c.ClientURL == "*" {
		return errors.New("CLIENT_URL must name an origin, not a wildcard")
	}
	if c.MaxImageBytes <= 0 {
		return errors.New("MAX_IMAGE_BYTES must be positive")
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("Invalid %s=%q, defaulting to %d", key, v, def)
	}
	return def
}

func duration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func boolean(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
