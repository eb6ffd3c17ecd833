package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/service"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// List is admin-scoped via route middleware.
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var filter domain.AuditFilter

	if u := c.Query("user_id"); u != "" {
		userID, err := uuid.Parse(u)
		if err != nil {
			return domain.Validation("invalid user_id")
		}
		filter.UserID = &userID
	}
	if a := c.Query("action"); a != "" {
		filter.Action = &a
	}
	if e := c.Query("entity_type"); e != "" {
		filter.EntityType = &e
	}

	result, err := h.auditService.List(c.Context(), filter, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(result)
}
