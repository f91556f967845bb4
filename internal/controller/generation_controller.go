package controller

import (
	"quizbank-be/internal/dto"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/serverutils"
	"quizbank-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IGenerationController interface {
	RegisterRoutes(r fiber.Router)
	StartRun(ctx *fiber.Ctx) error
	ShowRun(ctx *fiber.Ctx) error
	RunQuestions(ctx *fiber.Ctx) error
}

type generationController struct {
	service service.IGenerationService
}

func NewGenerationController(svc service.IGenerationService) IGenerationController {
	return &generationController{service: svc}
}

func (c *generationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/generation/v1")
	h.Post("runs", c.StartRun)
	h.Get("runs/:id", c.ShowRun)
	h.Get("runs/:id/questions", c.RunQuestions)
}

func (c *generationController) StartRun(ctx *fiber.Ctx) error {
	var req dto.StartRunRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.StartRun(ctx.Context(), req.BlueprintId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Generation run started", res))
}

func (c *generationController) ShowRun(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid run id")
	}

	res, err := c.service.GetRun(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Run details", res))
}

func (c *generationController) RunQuestions(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid run id")
	}

	res, err := c.service.GetQuestions(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Run questions", res))
}
