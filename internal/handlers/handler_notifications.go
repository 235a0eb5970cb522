package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/sitesutra/construction_erp_app/internal/adapters/notify"
	"github.com/sitesutra/construction_erp_app/internal/core/domain"
	"github.com/sitesutra/construction_erp_app/internal/middleware"
)

// notificationHandler upgrades connections onto the event hub.
type notificationHandler struct {
	hub       *notify.Hub
	jwtSecret string
	upgrader  websocket.Upgrader
}

func newNotificationHandler(hub *notify.Hub, jwtSecret string) *notificationHandler {
	return &notificationHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers cannot set headers on WebSocket handshakes, so
			// auth happens via the token query param instead.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// registerNotificationRoutes registers the WebSocket endpoint. It sits
// outside the authenticated group because the handshake carries its
// token as a query parameter.
func registerNotificationRoutes(rg *gin.RouterGroup, hub *notify.Hub, jwtSecret string) {
	h := newNotificationHandler(hub, jwtSecret)
	rg.GET("/ws", h.subscribe)
}

// subscribe godoc
// @Summary Subscribe to live workflow events
// @Description Upgrades to a WebSocket and streams events for the caller's company, plus any projects passed via repeated projectID params
// @Tags notifications
// @Param token query string true "JWT access token"
// @Param projectID query []string false "Project topics to join"
// @Success 101 {string} string "Switching protocols"
// @Failure 401 {object} map[string]string "Invalid token"
// @Router /ws [get]
func (h *notificationHandler) subscribe(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actor, err := middleware.ParseActorToken(h.jwtSecret, c.Query("token"))
	if err != nil {
		logger.Warn("Rejected WebSocket handshake", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
		return
	}

	topics := []string{domain.CompanyTopic(actor.CompanyID)}
	for _, projectID := range c.QueryArray("projectID") {
		if projectID != "" {
			topics = append(topics, domain.ProjectTopic(projectID))
		}
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	logger.Info("WebSocket subscriber connected",
		slog.String("user_id", actor.UserID),
		slog.String("company_id", actor.CompanyID),
		slog.Int("topics", len(topics)))
	h.hub.Subscribe(conn, topics)
}
