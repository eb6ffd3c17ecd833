package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/realtime"
	"studioflow/internal/repository"
	"studioflow/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Client       *ClientHandler
	Project      *ProjectHandler
	Task         *TaskHandler
	Delivery     *DeliveryHandler
	Comment      *CommentHandler
	Notification *NotificationHandler
	Dashboard    *DashboardHandler
	Audit        *AuditHandler
	WS           *WSHandler
}

func NewHandlers(services *service.Services, repos *repository.Repositories, hub *realtime.Hub, logger *log.Logger) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		User:         NewUserHandler(services.User),
		Client:       NewClientHandler(services.Client),
		Project:      NewProjectHandler(services.Project),
		Task:         NewTaskHandler(services.Task),
		Delivery:     NewDeliveryHandler(services.Delivery),
		Comment:      NewCommentHandler(services.Comment),
		Notification: NewNotificationHandler(services.Notification),
		Dashboard:    NewDashboardHandler(services.Dashboard),
		Audit:        NewAuditHandler(services.Audit),
		WS:           NewWSHandler(hub, repos.Project, repos.Client, logger),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.PaginationParams{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 20),
	}
	params.Normalize()
	return params
}

func parseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, domain.Validation("invalid %s", name)
	}
	return id, nil
}
