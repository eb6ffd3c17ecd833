package handler

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"studioflow/internal/domain"
	"studioflow/internal/middleware"
	"studioflow/internal/realtime"
	"studioflow/internal/repository"
)

type WSHandler struct {
	hub         *realtime.Hub
	projectRepo repository.ProjectRepository
	clientRepo  repository.ClientRepository
	logger      *log.Logger
}

func NewWSHandler(hub *realtime.Hub, projectRepo repository.ProjectRepository, clientRepo repository.ClientRepository, logger *log.Logger) *WSHandler {
	return &WSHandler{
		hub:         hub,
		projectRepo: projectRepo,
		clientRepo:  clientRepo,
		logger:      logger,
	}
}

// Upgrade gates the route to websocket requests and resolves the caller's
// room set before the protocol switch, while the Fiber context is still
// usable.
func (h *WSHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	user := middleware.GetCurrentUser(c)
	if user == nil {
		return domain.Unauthorized("not authenticated")
	}

	projectIDs, err := h.roomIDs(c, user)
	if err != nil {
		return err
	}

	c.Locals("ws_projects", projectIDs)
	return c.Next()
}

// Serve runs the connection. Every socket joins the user's personal channel
// plus a project room per visible project.
func (h *WSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, ok := conn.Locals(middleware.UserIDContextKey).(uuid.UUID)
		if !ok || userID == uuid.Nil {
			conn.Close()
			return
		}

		projectIDs, _ := conn.Locals("ws_projects").([]uuid.UUID)
		h.hub.Register(conn, userID, projectIDs)
	})
}

func (h *WSHandler) roomIDs(c *fiber.Ctx, user *domain.User) ([]uuid.UUID, error) {
	if user.Role.AtLeast(domain.RoleManager) {
		return h.projectRepo.ListActiveProjectIDs(c.Context())
	}

	memberIDs, err := h.projectRepo.ListProjectIDsForMember(c.Context(), user.ID)
	if err != nil {
		return nil, err
	}

	clientIDs, err := h.clientRepo.ListProjectIDsForUser(c.Context(), user.ID)
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]struct{}, len(memberIDs)+len(clientIDs))
	ids := make([]uuid.UUID, 0, len(memberIDs)+len(clientIDs))
	for _, id := range append(memberIDs, clientIDs...) {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}
