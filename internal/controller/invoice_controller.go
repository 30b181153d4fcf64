package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"nutri-coach-be/internal/dto"
	"nutri-coach-be/internal/pkg/serverutils"
	"nutri-coach-be/internal/service"
)

type IInvoiceController interface {
	RegisterRoutes(r fiber.Router)
	ListMine(ctx *fiber.Ctx) error
	GetOne(ctx *fiber.Ctx) error
	CreateCustom(ctx *fiber.Ctx) error
	Reissue(ctx *fiber.Ctx) error
	SendReminders(ctx *fiber.Ctx) error
	Webhook(ctx *fiber.Ctx) error
}

type invoiceController struct {
	service service.IInvoiceService
}

func NewInvoiceController(service service.IInvoiceService) IInvoiceController {
	return &invoiceController{service: service}
}

func (c *invoiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/invoices")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.ListMine)
	h.Get("/:id", c.GetOne)

	admin := r.Group("/admin/invoices")
	admin.Use(serverutils.JwtMiddleware)
	admin.Use(serverutils.AdminOnly)
	admin.Post("/", c.CreateCustom)
	admin.Post("/:id/reissue", c.Reissue)
	admin.Post("/reminders", c.SendReminders)

	// Payment provider callback; authenticated by signature, not JWT.
	r.Post("/payments/webhook", c.Webhook)
}

func (c *invoiceController) ListMine(ctx *fiber.Ctx) error {
	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}

	res, err := c.service.ListForUser(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Invoices", res))
}

func (c *invoiceController) GetOne(ctx *fiber.Ctx) error {
	invoiceId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid invoice ID"))
	}

	// Admins see any invoice; clients only their own.
	role, _ := ctx.Locals("role").(string)
	if role == "admin" {
		res, gerr := c.service.GetById(ctx.Context(), invoiceId)
		if gerr != nil {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, gerr.Error()))
		}
		return ctx.JSON(serverutils.SuccessResponse("Invoice", res))
	}

	userId, err := currentUserId(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid session"))
	}
	res, err := c.service.GetByIdForUser(ctx.Context(), userId, invoiceId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Invoice", res))
}

func (c *invoiceController) CreateCustom(ctx *fiber.Ctx) error {
	var req dto.CreateCustomInvoiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.CreateCustomInvoice(ctx.Context(), &req)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Invoice created", res))
}

func (c *invoiceController) Reissue(ctx *fiber.Ctx) error {
	invoiceId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid invoice ID"))
	}

	var req dto.ReissueInvoiceRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Reissue(ctx.Context(), invoiceId, &req)
	if err != nil {
		return serverutils.MapDomainError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Invoice reissued", res))
}

func (c *invoiceController) SendReminders(ctx *fiber.Ctx) error {
	count, err := c.service.SendReminders(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Reminders sent", map[string]int{"count": count}))
}

func (c *invoiceController) Webhook(ctx *fiber.Ctx) error {
	var req dto.MidtransWebhookRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid notification body"))
	}

	if err := c.service.HandleWebhook(ctx.Context(), &req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("OK", nil))
}
