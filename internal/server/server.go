package server

import (
	"context"
	"log"
	"time"

	"github.com/arzan03/UserDirectory/internal/handlers"
	"github.com/arzan03/UserDirectory/internal/middleware"
	"github.com/arzan03/UserDirectory/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Pinger is satisfied by the database handle backing /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Options struct {
	Development    bool
	ClientURL      string
	BodyLimit      int
	AuthRateLimit  int
	AuthRateWindow time.Duration
	// DisableAccessLog keeps test output quiet.
	DisableAccessLog bool
}

type Dependencies struct {
	Tokens  *services.TokenService
	Auth    *services.AuthService
	Users   *services.UserService
	Uploads *services.UploadService
	DB      Pinger
}

// New assembles the Fiber application: middleware stack, routes and the
// error handler that shapes every failure response.
func New(opts Options, deps Dependencies) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "UserDirectory",
		BodyLimit:    opts.BodyLimit,
		ErrorHandler: handlers.ErrorHandler(opts.Development),
	})

	app.Use(recover.New())
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     opts.ClientURL,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
	}))
	if !opts.DisableAccessLog {
		app.Use(logger.New())
	}

	authHandler := handlers.NewAuthHandler(deps.Auth)
	userHandler := handlers.NewUserHandler(deps.Users)
	adminHandler := handlers.NewAdminHandler(deps.Users)
	fileHandler := handlers.NewFileHandler(deps.Uploads)
	authenticated := middleware.Authenticated(deps.Tokens)

	// Auth Routes
	auth := app.Group("/auth", limiter.New(limiter.Config{
		Max:        opts.AuthRateLimit,
		Expiration: opts.AuthRateWindow,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"message": "Too many requests from this IP, please try again later",
			})
		},
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh-token", authHandler.RefreshToken)
	auth.Post("/logout", authenticated, authHandler.Logout)

	// User Routes
	users := app.Group("/users", authenticated)
	users.Get("/", middleware.AdminOnly, adminHandler.ListUsers)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", middleware.AdminOnly, adminHandler.DeleteUser)

	app.Get("/uploads/:name", fileHandler.Serve)
	app.Get("/health", health(deps.DB))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Route not found"})
	})

	return app
}

func health(db Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "OK", fiber.StatusOK
		if db != nil {
			if err := db.Ping(c.UserContext()); err != nil {
				log.Printf("Health check failed: %v", err)
				status, code = "DEGRADED", fiber.StatusServiceUnavailable
			}
		}
		return c.Status(code).JSON(fiber.Map{
			"status":    status,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
