package handler

import (
	"github.com/gofiber/fiber/v2"

	"studioflow/internal/domain"
	"studioflow/internal/middleware"
	"studioflow/internal/service"
)

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

func (h *CommentHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	var input domain.CreateCommentInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	comment, err := h.commentService.Create(c.Context(), user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

func (h *CommentHandler) ListByEntity(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	entityType := domain.EntityType(c.Params("entityType"))
	entityID, err := parseUUIDParam(c, "entityId")
	if err != nil {
		return err
	}

	comments, err := h.commentService.ListByEntity(c.Context(), user, entityType, entityID)
	if err != nil {
		return err
	}

	return c.JSON(comments)
}

func (h *CommentHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&body); err != nil {
		return domain.Validation("invalid request body")
	}

	comment, err := h.commentService.Update(c.Context(), user, id, body.Content)
	if err != nil {
		return err
	}

	return c.JSON(comment)
}

func (h *CommentHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.commentService.Delete(c.Context(), user, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "comment deleted"})
}
