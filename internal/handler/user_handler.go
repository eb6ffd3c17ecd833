package handler

import (
	"github.com/gofiber/fiber/v2"

	"studioflow/internal/domain"
	"studioflow/internal/middleware"
	"studioflow/internal/service"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	var input domain.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	updated, err := h.userService.UpdateProfile(c.Context(), user, input)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// List is admin-scoped via route middleware.
func (h *UserHandler) List(c *fiber.Ctx) error {
	params := getPaginationParams(c)

	var role *domain.GlobalRole
	if r := c.Query("role"); r != "" {
		gr := domain.GlobalRole(r)
		if !gr.IsValid() {
			return domain.Validation("invalid role %q", r)
		}
		role = &gr
	}

	var search *string
	if q := c.Query("search"); q != "" {
		search = &q
	}

	result, err := h.userService.List(c.Context(), role, search, params)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *UserHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	user, err := h.userService.GetProfile(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(user)
}

func (h *UserHandler) UpdateRole(c *fiber.Ctx) error {
	actor := middleware.GetCurrentUser(c)
	if actor == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var body struct {
		Role domain.GlobalRole `json:"role"`
	}
	if err := c.BodyParser(&body); err != nil {
		return domain.Validation("invalid request body")
	}

	if err := h.userService.UpdateRole(c.Context(), actor, id, body.Role); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "role updated"})
}
