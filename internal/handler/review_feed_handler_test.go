package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"quality-review-be/internal/pkg/logger"
	internalWS "quality-review-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeedApp() *fiber.App {
	log := logger.NewNopLogger()
	app := fiber.New()
	NewReviewFeedHandler(internalWS.NewHub(nil, log), "secret", log).RegisterRoutes(app.Group("/api"))
	return app
}

func TestServeWsRejectsMissingOrBadToken(t *testing.T) {
	app := newFeedApp()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/review/v1/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/review/v1/ws?token=garbage", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestServeWsRequiresUpgrade(t *testing.T) {
	app := newFeedApp()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "rev-1"}).SignedString([]byte("secret"))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/review/v1/ws?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
