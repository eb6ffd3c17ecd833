package handler

import (
	"github.com/gofiber/fiber/v2"

	"studioflow/internal/domain"
	"studioflow/internal/middleware"
	"studioflow/internal/service"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	var input domain.CreateProjectInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	project, err := h.projectService.Create(c.Context(), user, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(project)
}

func (h *ProjectHandler) List(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	params := getPaginationParams(c)

	var status *domain.ProjectStatus
	if s := c.Query("status"); s != "" {
		ps := domain.ProjectStatus(s)
		if !ps.IsValid() {
			return domain.Validation("invalid status %q", s)
		}
		status = &ps
	}

	result, err := h.projectService.List(c.Context(), user, status, params)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	project, err := h.projectService.Get(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(project)
}

func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.UpdateProjectInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	project, err := h.projectService.Update(c.Context(), user, id, input)
	if err != nil {
		return err
	}

	return c.JSON(project)
}

func (h *ProjectHandler) Archive(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.projectService.Archive(c.Context(), user, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "project archived"})
}

func (h *ProjectHandler) Members(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	members, err := h.projectService.Members(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(members)
}

func (h *ProjectHandler) AddMember(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.AddMemberInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	if err := h.projectService.AddMember(c.Context(), user, id, input); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "member added"})
}

func (h *ProjectHandler) RemoveMember(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	userID, err := parseUUIDParam(c, "userId")
	if err != nil {
		return err
	}

	if err := h.projectService.RemoveMember(c.Context(), user, id, userID); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "member removed"})
}

func (h *ProjectHandler) Stats(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	stats, err := h.projectService.Stats(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(stats)
}
