package controller

import (
	"github.com/gofiber/fiber/v2"

	"nutri-coach-be/internal/dto"
	"nutri-coach-be/internal/pkg/serverutils"
	"nutri-coach-be/internal/service"
)

type IIntakeController interface {
	RegisterRoutes(r fiber.Router)
	SubmitConsent(ctx *fiber.Ctx) error
	SubmitPreEvaluation(ctx *fiber.Ctx) error
}

type intakeController struct {
	service service.IIntakeService
}

func NewIntakeController(service service.IIntakeService) IIntakeController {
	return &intakeController{service: service}
}

func (c *intakeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/intake")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/consent", c.SubmitConsent)
	h.Post("/pre-evaluation", c.SubmitPreEvaluation)
}

func (c *intakeController) SubmitConsent(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}

	var req dto.ConsentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.SubmitConsent(ctx.Context(), userId, &req)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Consent recorded", res))
}

func (c *intakeController) SubmitPreEvaluation(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}

	var req dto.PreEvaluationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.SubmitPreEvaluation(ctx.Context(), userId, &req)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Pre-evaluation recorded", res))
}
