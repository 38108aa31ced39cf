package notify

import (
	"net/http"

	"tourstay/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	admin.GET("/events/ws", h.ServeEvents)
}

// ServeEvents upgrades the connection and attaches it to the event hub.
// Auth middleware has already validated the admin token.
func (h *Handler) ServeEvents(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "WS_UPGRADE_FAILED", "Could not upgrade connection")
		return
	}

	h.hub.ServeWS(conn, c.GetInt64("admin_id"))
}
