package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"nutri-coach-be/internal/dto"
	"nutri-coach-be/internal/pkg/serverutils"
	"nutri-coach-be/internal/service"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	ListAppointments(ctx *fiber.Ctx) error
	UpdateStatus(ctx *fiber.Ctx) error
	ApplyNoShowPenalty(ctx *fiber.Ctx) error
	ListClients(ctx *fiber.Ctx) error
	RunBillingSweep(ctx *fiber.Ctx) error
}

type adminController struct {
	appointmentService service.IAppointmentService
	programService     service.IProgramService
	userService        service.IUserService
}

func NewAdminController(
	appointmentService service.IAppointmentService,
	programService service.IProgramService,
	userService service.IUserService,
) IAdminController {
	return &adminController{
		appointmentService: appointmentService,
		programService:     programService,
		userService:        userService,
	}
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")
	h.Use(serverutils.JwtMiddleware)
	h.Use(serverutils.AdminOnly)
	h.Get("/appointments", c.ListAppointments)
	h.Patch("/appointments/:id/status", c.UpdateStatus)
	h.Post("/appointments/:id/no-show-penalty", c.ApplyNoShowPenalty)
	h.Get("/clients", c.ListClients)
	h.Post("/billing/sweep", c.RunBillingSweep)
}

func (c *adminController) ListAppointments(ctx *fiber.Ctx) error {
	res, err := c.appointmentService.AdminList(ctx.Context(), ctx.Query("date"))
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Appointments", res))
}

func (c *adminController) UpdateStatus(ctx *fiber.Ctx) error {
	apptId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid appointment ID"))
	}

	var req dto.UpdateStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.appointmentService.AdminUpdateStatus(ctx.Context(), apptId, &req)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Status updated", res))
}

func (c *adminController) ApplyNoShowPenalty(ctx *fiber.Ctx) error {
	apptId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid appointment ID"))
	}

	res, err := c.appointmentService.AdminApplyNoShowPenalty(ctx.Context(), apptId)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("No-show penalty applied", res))
}

func (c *adminController) ListClients(ctx *fiber.Ctx) error {
	res, err := c.userService.ListClients(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Clients", res))
}

// RunBillingSweep triggers the daily pass manually, same code path as the
// scheduler.
func (c *adminController) RunBillingSweep(ctx *fiber.Ctx) error {
	res, err := c.programService.RunBillingSweep(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Billing sweep finished", res))
}
