package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"quality-review-be/internal/pkg/logger"
	"quality-review-be/internal/pkg/serverutils"
	"quality-review-be/internal/repository/memory"
	"quality-review-be/internal/service"
	"quality-review-be/pkg/qualityapi"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, reviewerId string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": reviewerId}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// qualityBackend fakes session 100. submitStatus != 200 makes the review call fail.
func qualityBackend(t *testing.T, submitStatus int) *qualityapi.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/quality/sessions/100", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":{"id":100,"platform":"taobao","score":60}}`)
	})
	mux.HandleFunc("/quality/sessions/100/messages", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":[{"id":1,"sender_type":"customer","content":"hello"},{"id":2,"sender_type":"agent","content":"hi"}]}`)
	})
	mux.HandleFunc("/quality/sessions/100/tags", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":[]}`)
	})
	mux.HandleFunc("/quality/rules", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"success":true,"data":[{"id":1,"name":"Greeting"}]}`)
	})
	mux.HandleFunc("/quality/sessions/100/review", func(w http.ResponseWriter, r *http.Request) {
		if submitStatus != http.StatusOK {
			w.WriteHeader(submitStatus)
			fmt.Fprint(w, `{"success":false,"message":"session locked"}`)
			return
		}
		fmt.Fprint(w, `{"success":true,"message":"review saved","data":{}}`)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return qualityapi.NewClient(qualityapi.Config{BaseURL: server.URL, Timeout: time.Second})
}

func newTestApp(t *testing.T, submitStatus int) *fiber.App {
	t.Helper()
	svc := service.NewReviewService(
		qualityBackend(t, submitStatus),
		memory.NewDraftRepository(),
		memory.NewWorkspaceRepository(time.Hour),
		nil,
		logger.NewNopLogger(),
	)
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	NewReviewController(svc, testSecret).RegisterRoutes(app.Group("/api"))
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func openWorkspace(t *testing.T, app *fiber.App, token string) string {
	t.Helper()
	status, env := call(t, app, http.MethodPost, "/api/review/v1/workspaces", token, map[string]interface{}{"session_id": 100})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, http.StatusCreated, env.Code)

	var ws struct {
		Id     string `json:"id"`
		Rating int    `json:"rating"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ws))
	assert.Equal(t, 3, ws.Rating)
	return ws.Id
}

func TestReviewRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, http.StatusOK)

	status, _ := call(t, app, http.MethodPost, "/api/review/v1/workspaces", "", map[string]interface{}{"session_id": 100})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestReviewFlowOverHTTP(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	token := signToken(t, "rev-1")
	id := openWorkspace(t, app, token)
	base := "/api/review/v1/workspaces/" + id

	status, _ := call(t, app, http.MethodPut, base+"/rating", token, map[string]interface{}{"rating": 6})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = call(t, app, http.MethodPut, base+"/rating", token, map[string]interface{}{"rating": 4})
	assert.Equal(t, http.StatusOK, status)

	status, env := call(t, app, http.MethodPut, base+"/message-tags", token, map[string]interface{}{
		"tags": []map[string]interface{}{{"id": 5, "name": "Slow"}},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "no message selected", env.Message)

	status, _ = call(t, app, http.MethodPut, base+"/selection", token, map[string]interface{}{"message_id": 2})
	require.Equal(t, http.StatusOK, status)

	status, _ = call(t, app, http.MethodPut, base+"/message-tags", token, map[string]interface{}{
		"tags": []map[string]interface{}{{"id": 5, "name": "Slow"}},
	})
	require.Equal(t, http.StatusOK, status)

	status, env = call(t, app, http.MethodGet, base+"/messages/2/tags", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"message_id":2,"tags":[{"id":5,"name":"Slow","color":""}]}`, string(env.Data))

	status, env = call(t, app, http.MethodGet, base+"/preview", token, nil)
	require.Equal(t, http.StatusOK, status)
	var preview qualityapi.ReviewPayload
	require.NoError(t, json.Unmarshal(env.Data, &preview))
	assert.Equal(t, 80, preview.Score)
	assert.Equal(t, "B", preview.Grade)

	status, env = call(t, app, http.MethodPost, base+"/submit", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "review saved", env.Message)

	status, _ = call(t, app, http.MethodGet, base, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestSubmitFailureSurfacesBackendMessage(t *testing.T) {
	app := newTestApp(t, http.StatusConflict)
	token := signToken(t, "rev-1")
	id := openWorkspace(t, app, token)

	status, env := call(t, app, http.MethodPost, "/api/review/v1/workspaces/"+id+"/submit", token, nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Success)
	assert.Equal(t, "session locked", env.Message)

	status, _ = call(t, app, http.MethodGet, "/api/review/v1/workspaces/"+id, token, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestOtherReviewerIsForbidden(t *testing.T) {
	app := newTestApp(t, http.StatusOK)
	id := openWorkspace(t, app, signToken(t, "rev-1"))

	status, _ := call(t, app, http.MethodGet, "/api/review/v1/workspaces/"+id, signToken(t, "rev-2"), nil)
	assert.Equal(t, http.StatusForbidden, status)
}
