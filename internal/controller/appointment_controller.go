package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"nutri-coach-be/internal/dto"
	"nutri-coach-be/internal/pkg/serverutils"
	"nutri-coach-be/internal/service"
)

type IAppointmentController interface {
	RegisterRoutes(r fiber.Router)
	Book(ctx *fiber.Ctx) error
	ListMine(ctx *fiber.Ctx) error
	Availability(ctx *fiber.Ctx) error
	Reschedule(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	AcceptProposal(ctx *fiber.Ctx) error
}

type appointmentController struct {
	service service.IAppointmentService
}

func NewAppointmentController(service service.IAppointmentService) IAppointmentController {
	return &appointmentController{service: service}
}

func (c *appointmentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/appointments")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.Book)
	h.Get("/", c.ListMine)
	h.Get("/availability", c.Availability)
	h.Post("/:id/reschedule", c.Reschedule)
	h.Post("/:id/cancel", c.Cancel)
	h.Post("/:id/accept-proposal", c.AcceptProposal)
}

func (c *appointmentController) Book(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}

	var req dto.BookAppointmentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Book(ctx.Context(), userId, &req)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Appointment booked", res))
}

func (c *appointmentController) ListMine(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}

	res, err := c.service.ListMine(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Appointments", res))
}

func (c *appointmentController) Availability(ctx *fiber.Ctx) error {
	date := ctx.Query("date")
	if date == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "date query parameter is required"))
	}

	res, err := c.service.GetAvailability(ctx.Context(), date)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Available slots", res))
}

func (c *appointmentController) Reschedule(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}
	apptId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid appointment ID"))
	}

	var req dto.RescheduleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.ClientReschedule(ctx.Context(), userId, apptId, &req)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Reschedule requested", res))
}

func (c *appointmentController) Cancel(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}
	apptId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid appointment ID"))
	}

	res, err := c.service.ClientCancel(ctx.Context(), userId, apptId)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Appointment cancelled", res))
}

func (c *appointmentController) AcceptProposal(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}
	apptId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid appointment ID"))
	}

	res, err := c.service.ClientAcceptProposal(ctx.Context(), userId, apptId)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Reschedule accepted", res))
}

// currentUserId reads the subject set by the JWT middleware.
func currentUserId(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	return uuid.Parse(raw)
}
