package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func decode(t *testing.T, body io.Reader) BaseResponse[any] {
	t.Helper()
	var out BaseResponse[any]
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestJwtMiddleware(t *testing.T) {
	app := fiber.New()
	app.Get("/me", JwtMiddleware(testSecret), func(ctx *fiber.Ctx) error {
		return ctx.JSON(SuccessResponse("me", ReviewerId(ctx)))
	})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", fiber.StatusUnauthorized},
		{"garbage token", "Bearer nope", fiber.StatusUnauthorized},
		{"wrong secret", "Bearer " + func() string {
			tok, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": "r1"}).SignedString([]byte("other"))
			return tok
		}(), fiber.StatusUnauthorized},
		{"missing user_id", "Bearer " + signToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()}), fiber.StatusUnauthorized},
		{"valid", "Bearer " + signToken(t, jwt.MapClaims{"user_id": "r1"}), fiber.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == fiber.StatusOK {
				assert.Equal(t, "r1", decode(t, resp.Body).Data)
			}
		})
	}
}

type createReq struct {
	Name string `json:"name" validate:"required"`
	Size int    `json:"size" validate:"min=0,max=5"`
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware())
	app.Get("/app", func(ctx *fiber.Ctx) error {
		return NewAppError(fiber.StatusConflict, "already there", errors.New("dup"))
	})
	app.Get("/fiber", func(ctx *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "nothing here")
	})
	app.Get("/plain", func(ctx *fiber.Ctx) error {
		return errors.New("kaboom")
	})
	app.Post("/bind", func(ctx *fiber.Ctx) error {
		var req createReq
		if err := BindAndValidate(ctx, &req); err != nil {
			return err
		}
		return ctx.JSON(SuccessResponse("ok", req))
	})

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{"app error", "GET", "/app", "", fiber.StatusConflict, "already there"},
		{"fiber error", "GET", "/fiber", "", fiber.StatusNotFound, "nothing here"},
		{"plain error", "GET", "/plain", "", fiber.StatusInternalServerError, "Internal server error"},
		{"bad json", "POST", "/bind", "{", fiber.StatusBadRequest, "Invalid request body"},
		{"validation", "POST", "/bind", `{"size":9}`, fiber.StatusBadRequest, ""},
		{"ok", "POST", "/bind", `{"name":"a","size":2}`, fiber.StatusOK, "ok"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			}
			req := httptest.NewRequest(tt.method, tt.path, body)
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)

			out := decode(t, resp.Body)
			assert.Equal(t, tt.status == fiber.StatusOK, out.Success)
			if tt.message != "" {
				assert.Equal(t, tt.message, out.Message)
			} else {
				assert.Contains(t, out.Message, "validation error")
			}
		})
	}
}

func TestCreatedResponseCarriesCreatedCode(t *testing.T) {
	res := CreatedResponse("Success create", 7)

	assert.True(t, res.Success)
	assert.Equal(t, fiber.StatusCreated, res.Code)
	assert.Equal(t, 7, res.Data)
	assert.Equal(t, fiber.StatusOK, SuccessResponse("ok", 7).Code)
}
