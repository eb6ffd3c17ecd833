package main

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"studioflow/internal/config"
	"studioflow/internal/domain"
	"studioflow/internal/handler"
	"studioflow/internal/middleware"
	"studioflow/internal/realtime"
	"studioflow/internal/repository"
	"studioflow/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()
	appLogger := log.New(os.Stdout, "", log.LstdFlags)

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redisClient, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (delivery files will not work)", err)
	}

	hub := realtime.NewHub(appLogger)

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redisClient, minioClient, hub, cfg, appLogger)
	handlers := handler.NewHandlers(services, repos, hub, appLogger)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
		BodyLimit:    512 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService service.AuthService) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", h.Auth.Logout)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/auth/me", h.Auth.Me)

	app.Get("/ws", middleware.AuthRequired(authService), h.WS.Upgrade, h.WS.Serve())

	users := protected.Group("/users")
	users.Put("/me", h.User.UpdateProfile)
	users.Get("/", middleware.RequireGlobalRole(domain.RoleAdmin), h.User.List)
	users.Get("/:id", h.User.Get)
	users.Patch("/:id/role", middleware.RequireGlobalRole(domain.RoleAdmin), h.User.UpdateRole)

	clients := protected.Group("/clients")
	clients.Post("/", h.Client.Create)
	clients.Get("/", h.Client.List)
	clients.Get("/:id", h.Client.Get)
	clients.Put("/:id", h.Client.Update)
	clients.Delete("/:id", h.Client.Delete)
	clients.Get("/:id/projects", h.Client.Projects)

	projects := protected.Group("/projects")
	projects.Post("/", h.Project.Create)
	projects.Get("/", h.Project.List)
	projects.Get("/:id", h.Project.Get)
	projects.Put("/:id", h.Project.Update)
	projects.Post("/:id/archive", h.Project.Archive)
	projects.Get("/:id/members", h.Project.Members)
	projects.Post("/:id/members", h.Project.AddMember)
	projects.Delete("/:id/members/:userId", h.Project.RemoveMember)
	projects.Get("/:id/stats", h.Project.Stats)

	projects.Get("/:projectId/tasks", h.Task.ListByProject)
	projects.Post("/:projectId/tasks", h.Task.Create)
	projects.Get("/:projectId/board", h.Task.Board)
	projects.Get("/:projectId/deliveries", h.Delivery.ListByProject)
	projects.Post("/:projectId/deliveries", h.Delivery.Create)

	tasks := protected.Group("/tasks")
	tasks.Get("/me", h.Task.MyTasks)
	tasks.Get("/:id", h.Task.Get)
	tasks.Put("/:id", h.Task.Update)
	tasks.Patch("/:id/move", h.Task.Move)
	tasks.Delete("/:id", h.Task.Delete)
	tasks.Get("/:id/subtasks", h.Task.Subtasks)

	deliveries := protected.Group("/deliveries")
	deliveries.Get("/:id", h.Delivery.Get)
	deliveries.Post("/:id/file", h.Delivery.UploadFile)
	deliveries.Post("/:id/submit", h.Delivery.SubmitForReview)
	deliveries.Post("/:id/approve", h.Delivery.Approve)
	deliveries.Post("/:id/reject", h.Delivery.Reject)
	deliveries.Post("/:id/request-revision", h.Delivery.RequestRevision)
	deliveries.Get("/:id/approvals", h.Delivery.Approvals)
	deliveries.Get("/:id/download", h.Delivery.Download)

	comments := protected.Group("/comments")
	comments.Post("/", h.Comment.Create)
	comments.Get("/:entityType/:entityId", h.Comment.ListByEntity)
	comments.Put("/:id", h.Comment.Update)
	comments.Delete("/:id", h.Comment.Delete)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.UnreadCount)
	notifications.Patch("/:id/read", h.Notification.MarkRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllRead)

	dashboard := protected.Group("/dashboard")
	dashboard.Get("/", h.Dashboard.Me)
	dashboard.Get("/platform", middleware.RequireGlobalRole(domain.RoleAdmin), h.Dashboard.PlatformStats)

	audit := protected.Group("/audit")
	audit.Get("/", middleware.RequireGlobalRole(domain.RoleAdmin), h.Audit.List)
}
