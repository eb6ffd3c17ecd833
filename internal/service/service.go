package service

import (
	"log"

	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"studioflow/internal/config"
	"studioflow/internal/realtime"
	"studioflow/internal/repository"
)

type Services struct {
	Auth         AuthService
	Access       AccessService
	User         UserService
	Client       ClientService
	Project      ProjectService
	Task         TaskService
	Delivery     DeliveryService
	Comment      CommentService
	Notification NotificationService
	Email        EmailService
	File         FileService
	Audit        AuditService
	Dashboard    DashboardService
}

func NewServices(repos *repository.Repositories, redisClient *redis.Client, minioClient *minio.Client, hub *realtime.Hub, cfg *config.Config, logger *log.Logger) *Services {
	emailService := NewEmailService(cfg)
	authService := NewAuthService(repos.User, repos.Session, emailService, cfg, logger)
	accessService := NewAccessService(repos.User, repos.Project, repos.Client)
	auditService := NewAuditService(repos.AuditLog, logger)
	notificationService := NewNotificationService(repos.Notification, hub, logger)
	fileService := NewFileService(minioClient, cfg)
	userService := NewUserService(repos.User, auditService)
	clientService := NewClientService(repos.Client, accessService, auditService)
	projectService := NewProjectService(repos.Project, repos.User, accessService, notificationService, emailService, auditService, hub, logger)
	taskService := NewTaskService(repos.Task, accessService, notificationService, auditService, hub, logger)
	deliveryService := NewDeliveryService(repos.Delivery, repos.Project, repos.User, accessService, notificationService, emailService, auditService, fileService, logger)
	commentService := NewCommentService(repos.Comment, repos.User, accessService, notificationService, logger)
	dashboardService := NewDashboardService(repos.Stats, repos.Project, repos.Task, repos.Delivery, repos.Notification, repos.Client, redisClient, logger)

	return &Services{
		Auth:         authService,
		Access:       accessService,
		User:         userService,
		Client:       clientService,
		Project:      projectService,
		Task:         taskService,
		Delivery:     deliveryService,
		Comment:      commentService,
		Notification: notificationService,
		Email:        emailService,
		File:         fileService,
		Audit:        auditService,
		Dashboard:    dashboardService,
	}
}
