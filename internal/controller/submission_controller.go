package controller

import (
	"quality-review-be/internal/dto"
	"quality-review-be/internal/pkg/serverutils"
	"quality-review-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISubmissionController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
}

type submissionController struct {
	service   service.ISubmissionService
	jwtSecret string
}

func NewSubmissionController(service service.ISubmissionService, jwtSecret string) ISubmissionController {
	return &submissionController{service: service, jwtSecret: jwtSecret}
}

func (c *submissionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/review/v1/submissions")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Get("", c.GetAll)
}

func (c *submissionController) GetAll(ctx *fiber.Ctx) error {
	var req dto.ListSubmissionsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid query", err)
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.List(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get submissions", res))
}
