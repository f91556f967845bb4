package controller

import (
	"quizbank-be/internal/dto"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/serverutils"
	"quizbank-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IBlueprintController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	BuildItems(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type blueprintController struct {
	service service.IBlueprintService
}

func NewBlueprintController(svc service.IBlueprintService) IBlueprintController {
	return &blueprintController{service: svc}
}

func (c *blueprintController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/blueprint/v1")
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Post(":id/items", c.BuildItems)
}

func (c *blueprintController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateBlueprintRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Blueprint created", res))
}

func (c *blueprintController) BuildItems(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid blueprint id")
	}

	res, err := c.service.BuildItems(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Blueprint items built", res))
}

func (c *blueprintController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid blueprint id")
	}

	res, err := c.service.Get(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Blueprint details", res))
}
