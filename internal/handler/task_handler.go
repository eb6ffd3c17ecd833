package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/middleware"
	"studioflow/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	projectID, err := parseUUIDParam(c, "projectId")
	if err != nil {
		return err
	}

	var input domain.CreateTaskInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	task, err := h.taskService.Create(c.Context(), user, projectID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

func (h *TaskHandler) ListByProject(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	projectID, err := parseUUIDParam(c, "projectId")
	if err != nil {
		return err
	}

	var filter domain.TaskFilter
	if s := c.Query("status"); s != "" {
		ts := domain.TaskStatus(s)
		if !ts.IsValid() {
			return domain.Validation("invalid status %q", s)
		}
		filter.Status = &ts
	}
	if p := c.Query("priority"); p != "" {
		pr := domain.Priority(p)
		if !pr.IsValid() {
			return domain.Validation("invalid priority %q", p)
		}
		filter.Priority = &pr
	}
	if a := c.Query("assignee_id"); a != "" {
		assigneeID, err := uuid.Parse(a)
		if err != nil {
			return domain.Validation("invalid assignee_id")
		}
		filter.AssigneeID = &assigneeID
	}
	if q := c.Query("search"); q != "" {
		filter.Search = &q
	}

	tasks, err := h.taskService.ListByProject(c.Context(), user, projectID, filter)
	if err != nil {
		return err
	}

	return c.JSON(tasks)
}

func (h *TaskHandler) Board(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	projectID, err := parseUUIDParam(c, "projectId")
	if err != nil {
		return err
	}

	board, err := h.taskService.Board(c.Context(), user, projectID)
	if err != nil {
		return err
	}

	return c.JSON(board)
}

func (h *TaskHandler) Get(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(task)
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.UpdateTaskInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	task, err := h.taskService.Update(c.Context(), user, id, input)
	if err != nil {
		return err
	}

	return c.JSON(task)
}

func (h *TaskHandler) Move(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.MoveTaskInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	task, err := h.taskService.Move(c.Context(), user, id, input)
	if err != nil {
		return err
	}

	return c.JSON(task)
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(c.Context(), user, id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "task deleted"})
}

func (h *TaskHandler) Subtasks(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	subtasks, err := h.taskService.Subtasks(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(subtasks)
}

func (h *TaskHandler) MyTasks(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	result, err := h.taskService.MyTasks(c.Context(), user, getPaginationParams(c))
	if err != nil {
		return err
	}

	return c.JSON(result)
}
