package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/engenho/estoque-api/internal/application/catalog"
	"github.com/engenho/estoque-api/internal/application/dto"
)

// CatalogHandler maneja las peticiones HTTP de los catálogos Tipo y Color.
// Ambos catálogos comparten DTOs y reglas, así que un solo handler parametrizado
// por las operaciones del caso de uso sirve las dos familias de rutas.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// catalogOps operaciones de un catálogo concreto (tipos o colores).
type catalogOps struct {
	create     func(context.Context, dto.CreateCatalogRequest) (*dto.CatalogResponse, error)
	get        func(context.Context, string) (*dto.CatalogResponse, error)
	list       func(context.Context, *bool) ([]dto.CatalogResponse, error)
	update     func(context.Context, string, dto.UpdateCatalogRequest) (*dto.CatalogResponse, error)
	deactivate func(context.Context, string) error
}

func (h *CatalogHandler) typeOps() catalogOps {
	return catalogOps{
		create:     h.uc.CreateType,
		get:        h.uc.GetType,
		list:       h.uc.ListTypes,
		update:     h.uc.UpdateType,
		deactivate: h.uc.DeactivateType,
	}
}

func (h *CatalogHandler) colorOps() catalogOps {
	return catalogOps{
		create:     h.uc.CreateColor,
		get:        h.uc.GetColor,
		list:       h.uc.ListColors,
		update:     h.uc.UpdateColor,
		deactivate: h.uc.DeactivateColor,
	}
}

// CreateType godoc
// @Summary      Crear tipo de producto
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCatalogRequest  true  "code (2 caracteres) y name"
// @Success      201   {object}  dto.CatalogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/types [post]
func (h *CatalogHandler) CreateType(c *fiber.Ctx) error { return create(c, h.typeOps()) }

// GetType godoc
// @Summary      Obtener tipo por ID
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID del tipo"
// @Success      200  {object}  dto.CatalogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/types/{id} [get]
func (h *CatalogHandler) GetType(c *fiber.Ctx) error { return get(c, h.typeOps()) }

// ListTypes godoc
// @Summary      Listar tipos
// @Tags         catalog
// @Produce      json
// @Param        active  query  bool  false  "Filtrar por activo"
// @Success      200     {array}  dto.CatalogResponse
// @Router       /api/types [get]
func (h *CatalogHandler) ListTypes(c *fiber.Ctx) error { return list(c, h.typeOps()) }

// UpdateType godoc
// @Summary      Actualizar tipo
// @Description  Editar el código no reescribe barcodes ya emitidos.
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del tipo"
// @Param        body  body  dto.UpdateCatalogRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.CatalogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/types/{id} [put]
func (h *CatalogHandler) UpdateType(c *fiber.Ctx) error { return update(c, h.typeOps()) }

// DeactivateType godoc
// @Summary      Desactivar tipo
// @Tags         catalog
// @Param        id  path  string  true  "ID del tipo"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/types/{id} [delete]
func (h *CatalogHandler) DeactivateType(c *fiber.Ctx) error { return deactivate(c, h.typeOps()) }

// CreateColor godoc
// @Summary      Crear color
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCatalogRequest  true  "code (2 caracteres) y name"
// @Success      201   {object}  dto.CatalogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/colors [post]
func (h *CatalogHandler) CreateColor(c *fiber.Ctx) error { return create(c, h.colorOps()) }

// GetColor godoc
// @Summary      Obtener color por ID
// @Tags         catalog
// @Produce      json
// @Param        id   path  string  true  "ID del color"
// @Success      200  {object}  dto.CatalogResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/colors/{id} [get]
func (h *CatalogHandler) GetColor(c *fiber.Ctx) error { return get(c, h.colorOps()) }

// ListColors godoc
// @Summary      Listar colores
// @Tags         catalog
// @Produce      json
// @Param        active  query  bool  false  "Filtrar por activo"
// @Success      200     {array}  dto.CatalogResponse
// @Router       /api/colors [get]
func (h *CatalogHandler) ListColors(c *fiber.Ctx) error { return list(c, h.colorOps()) }

// UpdateColor godoc
// @Summary      Actualizar color
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del color"
// @Param        body  body  dto.UpdateCatalogRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.CatalogResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/colors/{id} [put]
func (h *CatalogHandler) UpdateColor(c *fiber.Ctx) error { return update(c, h.colorOps()) }

// DeactivateColor godoc
// @Summary      Desactivar color
// @Tags         catalog
// @Param        id  path  string  true  "ID del color"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/colors/{id} [delete]
func (h *CatalogHandler) DeactivateColor(c *fiber.Ctx) error { return deactivate(c, h.colorOps()) }

func create(c *fiber.Ctx, ops catalogOps) error {
	var in dto.CreateCatalogRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := ops.create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func get(c *fiber.Ctx, ops catalogOps) error {
	out, err := ops.get(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func list(c *fiber.Ctx, ops catalogOps) error {
	var active *bool
	if raw := c.Query("active"); raw != "" {
		v := raw == "true" || raw == "1"
		active = &v
	}
	out, err := ops.list(c.Context(), active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func update(c *fiber.Ctx, ops catalogOps) error {
	var in dto.UpdateCatalogRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := ops.update(c.Context(), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func deactivate(c *fiber.Ctx, ops catalogOps) error {
	if err := ops.deactivate(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
