package handler

import (
	"strings"

	"quality-review-be/internal/pkg/logger"
	"quality-review-be/internal/pkg/serverutils"
	internalWS "quality-review-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// ReviewFeedHandler streams review events to reviewers over a websocket.
type ReviewFeedHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewReviewFeedHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *ReviewFeedHandler {
	return &ReviewFeedHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *ReviewFeedHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/review/v1/ws", h.ServeWs)
}

// ServeWs authenticates the handshake and upgrades. Browsers cannot set headers on
// a websocket handshake, so the token is read from ?token= first.
func (h *ReviewFeedHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		if auth := c.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
			tokenStr = strings.TrimPrefix(auth, "Bearer ")
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Missing token"))
	}

	reviewerId, err := serverutils.ParseReviewerToken(tokenStr, h.jwtSecret)
	if err != nil {
		h.logger.Warn("ReviewFeedHandler", "Invalid token in websocket handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, "Invalid token"))
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ReviewFeedHandler", "Feed session started", map[string]interface{}{"reviewer_id": reviewerId})
		internalWS.ServeWs(h.hub, conn, reviewerId)
		h.logger.Info("ReviewFeedHandler", "Feed session ended", map[string]interface{}{"reviewer_id": reviewerId})
	})(c)
}
