package controller

import (
	"io"
	"path/filepath"
	"strings"

	"quizbank-be/internal/dto"
	"quizbank-be/internal/pkg/apperror"
	"quizbank-be/internal/pkg/serverutils"
	"quizbank-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	RequestParse(ctx *fiber.Ctx) error
	RequestIndex(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Pages(ctx *fiber.Ctx) error
	Chunks(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type documentController struct {
	service   service.IDocumentService
	retrieval service.IRetrievalService
}

func NewDocumentController(svc service.IDocumentService, retrieval service.IRetrievalService) IDocumentController {
	return &documentController{service: svc, retrieval: retrieval}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document/v1")
	h.Get("", c.GetAll)
	h.Post("", c.Upload)
	h.Get(":id", c.Show)
	h.Post(":id/parse", c.RequestParse)
	h.Post(":id/index", c.RequestIndex)
	h.Get(":id/pages", c.Pages)
	h.Get(":id/chunks", c.Chunks)
	h.Post(":id/search", c.Search)
}

func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return apperror.Invalid("file is required")
	}

	title := strings.TrimSpace(ctx.FormValue("title"))
	if title == "" {
		title = fileHeader.Filename
	}

	fileType := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	if fileType == "" {
		return apperror.Invalid("file must have an extension")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}

	res, err := c.service.Upload(ctx.Context(), title, fileType, data)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document uploaded", res))
}

func (c *documentController) RequestParse(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid document id")
	}

	res, err := c.service.RequestParse(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Parse requested", res))
}

func (c *documentController) RequestIndex(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid document id")
	}

	res, err := c.service.RequestIndex(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Indexing requested", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid document id")
	}

	res, err := c.service.Show(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document details", res))
}

func (c *documentController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Documents", res))
}

func (c *documentController) Pages(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid document id")
	}

	res, err := c.service.Pages(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document pages", res))
}

func (c *documentController) Chunks(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid document id")
	}

	res, err := c.service.Chunks(ctx.Context(), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Document chunks", res))
}

func (c *documentController) Search(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperror.Invalid("invalid document id")
	}

	var req dto.SearchRequest
	if err := serverutils.ParseAndValidate(ctx, &req); err != nil {
		return err
	}

	res, err := c.retrieval.Search(ctx.Context(), id, req.Query, req.TopK)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Search results", res))
}
