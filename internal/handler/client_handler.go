package handler

import (
	"github.com/gofiber/fiber/v2"

	"studioflow/internal/domain"
	"studioflow/internal/middleware"
	"studioflow/internal/service"
)

type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func (h *ClientHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	var input domain.CreateClientInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	client, err := h.clientService.Create(c.Context(), user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(client)
}

func (h *ClientHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	var search *string
	if q := c.Query("search"); q != "" {
		search = &q
	}

	result, err := h.clientService.List(c.Context(), user, search, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *ClientHandler) Get(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	client, err := h.clientService.Get(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(client)
}

func (h *ClientHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.UpdateClientInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	client, err := h.clientService.Update(c.Context(), user, id, input)
	if err != nil {
		return err
	}

	return c.JSON(client)
}

func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.clientService.Delete(c.Context(), user, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "client deleted"})
}

func (h *ClientHandler) Projects(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	projects, err := h.clientService.Projects(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(projects)
}
