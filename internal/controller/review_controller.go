package controller

import (
	"quality-review-be/internal/dto"
	"quality-review-be/internal/pkg/serverutils"
	"quality-review-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IReviewController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	SelectMessage(ctx *fiber.Ctx) error
	SetRating(ctx *fiber.Ctx) error
	SetComment(ctx *fiber.Ctx) error
	SetSessionTags(ctx *fiber.Ctx) error
	SetMessageTags(ctx *fiber.Ctx) error
	MessageTags(ctx *fiber.Ctx) error
	Preview(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	EditMessage(ctx *fiber.Ctx) error
	CheckCase(ctx *fiber.Ctx) error
	AddCase(ctx *fiber.Ctx) error
}

type reviewController struct {
	service   service.IReviewService
	jwtSecret string
}

func NewReviewController(service service.IReviewService, jwtSecret string) IReviewController {
	return &reviewController{service: service, jwtSecret: jwtSecret}
}

func (c *reviewController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/review/v1/workspaces")
	h.Use(serverutils.JwtMiddleware(c.jwtSecret))
	h.Post("", c.Open)
	h.Get(":id", c.Show)
	h.Delete(":id", c.Close)
	h.Put(":id/selection", c.SelectMessage)
	h.Put(":id/rating", c.SetRating)
	h.Put(":id/comment", c.SetComment)
	h.Put(":id/session-tags", c.SetSessionTags)
	h.Put(":id/message-tags", c.SetMessageTags)
	h.Get(":id/messages/:messageId/tags", c.MessageTags)
	h.Put(":id/messages/:messageId", c.EditMessage)
	h.Get(":id/preview", c.Preview)
	h.Post(":id/submit", c.Submit)
	h.Get(":id/case", c.CheckCase)
	h.Post(":id/case", c.AddCase)
}

func (c *reviewController) Open(ctx *fiber.Ctx) error {
	var req dto.OpenWorkspaceRequest
	if err := serverutils.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Open(ctx.UserContext(), serverutils.ReviewerId(ctx), &req)
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success open review workspace", res))
}

func (c *reviewController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Show(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"))
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show review workspace", res))
}

func (c *reviewController) Close(ctx *fiber.Ctx) error {
	if err := c.service.Close(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id")); err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success close review workspace", nil))
}

func (c *reviewController) SelectMessage(ctx *fiber.Ctx) error {
	var req dto.SelectMessageRequest
	if err := serverutils.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SelectMessage(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"), &req)
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success select message", res))
}

func (c *reviewController) SetRating(ctx *fiber.Ctx) error {
	var req dto.SetRatingRequest
	if err := serverutils.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetRating(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"), &req)
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set rating", res))
}

func (c *reviewController) SetComment(ctx *fiber.Ctx) error {
	var req dto.SetCommentRequest
	if err := serverutils.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetComment(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"), &req)
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set comment", res))
}

func (c *reviewController) SetSessionTags(ctx *fiber.Ctx) error {
	var req dto.SetSessionTagsRequest
	if err := serverutils.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetSessionTags(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"), &req)
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set session tags", res))
}

func (c *reviewController) SetMessageTags(ctx *fiber.Ctx) error {
	var req dto.SetMessageTagsRequest
	if err := serverutils.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SetMessageTags(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"), &req)
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set message tags", res))
}

func (c *reviewController) MessageTags(ctx *fiber.Ctx) error {
	messageId, err := ctx.ParamsInt("messageId")
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid message id", err)
	}

	res, err := c.service.MessageTags(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"), int64(messageId))
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get message tags", res))
}

func (c *reviewController) Preview(ctx *fiber.Ctx) error {
	res, err := c.service.Preview(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"))
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success preview review", res))
}

func (c *reviewController) Submit(ctx *fiber.Ctx) error {
	res, err := c.service.Submit(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"))
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse(res.Message, res))
}

func (c *reviewController) EditMessage(ctx *fiber.Ctx) error {
	messageId, err := ctx.ParamsInt("messageId")
	if err != nil {
		return serverutils.NewAppError(fiber.StatusBadRequest, "Invalid message id", err)
	}

	var req dto.EditMessageRequest
	if err := serverutils.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.EditMessage(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"), int64(messageId), &req)
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success edit message", res))
}

func (c *reviewController) CheckCase(ctx *fiber.Ctx) error {
	res, err := c.service.CheckCase(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"))
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.JSON(serverutils.SuccessResponse("Success check case library", res))
}

func (c *reviewController) AddCase(ctx *fiber.Ctx) error {
	var req dto.AddCaseRequest
	if err := serverutils.BindAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.AddCase(ctx.UserContext(), serverutils.ReviewerId(ctx), ctx.Params("id"), &req)
	if err != nil {
		return mapReviewError(err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.CreatedResponse("Success add to case library", res))
}
