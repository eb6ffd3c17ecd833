package handler

import (
	"github.com/gofiber/fiber/v2"

	"studioflow/internal/middleware"
	"studioflow/internal/service"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)
	unreadOnly := c.QueryBool("unread", false)

	result, err := h.notificationService.List(c.Context(), userID, unreadOnly, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	count, err := h.notificationService.UnreadCount(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"count": count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.notificationService.MarkRead(c.Context(), id, userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "marked read"})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID := middleware.GetCurrentUserID(c)

	count, err := h.notificationService.MarkAllRead(c.Context(), userID)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"marked": count})
}
