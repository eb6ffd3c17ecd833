package handler

import (
	"github.com/gofiber/fiber/v2"

	"studioflow/internal/domain"
	"studioflow/internal/middleware"
	"studioflow/internal/service"
)

type DeliveryHandler struct {
	deliveryService service.DeliveryService
}

func NewDeliveryHandler(deliveryService service.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

func (h *DeliveryHandler) Create(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	projectID, err := parseUUIDParam(c, "projectId")
	if err != nil {
		return err
	}

	var input domain.CreateDeliveryInput
	if err := c.BodyParser(&input); err != nil {
		return domain.Validation("invalid request body")
	}

	delivery, err := h.deliveryService.Create(c.Context(), user, projectID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(delivery)
}

func (h *DeliveryHandler) ListByProject(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	projectID, err := parseUUIDParam(c, "projectId")
	if err != nil {
		return err
	}

	deliveries, err := h.deliveryService.ListByProject(c.Context(), user, projectID)
	if err != nil {
		return err
	}

	return c.JSON(deliveries)
}

func (h *DeliveryHandler) Get(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	delivery, err := h.deliveryService.Get(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(delivery)
}

func (h *DeliveryHandler) UploadFile(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return domain.Validation("file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return domain.Validation("cannot read uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	delivery, err := h.deliveryService.AttachFile(c.Context(), user, id, fileHeader.Filename, contentType, fileHeader.Size, file)
	if err != nil {
		return err
	}

	return c.JSON(delivery)
}

func (h *DeliveryHandler) SubmitForReview(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	delivery, err := h.deliveryService.SubmitForReview(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(delivery)
}

func (h *DeliveryHandler) Approve(c *fiber.Ctx) error {
	return h.review(c, domain.VerdictApproved)
}

func (h *DeliveryHandler) Reject(c *fiber.Ctx) error {
	return h.review(c, domain.VerdictRejected)
}

func (h *DeliveryHandler) RequestRevision(c *fiber.Ctx) error {
	return h.review(c, domain.VerdictRevision)
}

func (h *DeliveryHandler) review(c *fiber.Ctx, verdict domain.ApprovalVerdict) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var input domain.ReviewInput
	if err := c.BodyParser(&input); err != nil && len(c.Body()) > 0 {
		return domain.Validation("invalid request body")
	}

	approval, err := h.deliveryService.Review(c.Context(), user, id, verdict, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(approval)
}

func (h *DeliveryHandler) Approvals(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	approvals, err := h.deliveryService.Approvals(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(approvals)
}

func (h *DeliveryHandler) Download(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	url, err := h.deliveryService.DownloadURL(c.Context(), user, id)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"url": url})
}
