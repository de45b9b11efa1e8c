package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/engenho/estoque-api/internal/application/dto"
	"github.com/engenho/estoque-api/internal/application/inventory"
	"github.com/engenho/estoque-api/internal/domain/entity"
	"github.com/engenho/estoque-api/internal/domain/repository"
)

// MovementHandler maneja las peticiones HTTP del libro de movimientos.
type MovementHandler struct {
	ledger *inventory.LedgerUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(ledger *inventory.LedgerUseCase) *MovementHandler {
	return &MovementHandler{ledger: ledger}
}

// Entrance godoc
// @Summary      Registrar entrada de stock
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "product_id o barcode, quantity > 0"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/entrance [post]
func (h *MovementHandler) Entrance(c *fiber.Ctx) error {
	return h.apply(c, entity.MovementKindEntrance)
}

// Exit godoc
// @Summary      Registrar salida de stock
// @Description  Falla con 400 INSUFFICIENT_STOCK si la salida dejaría el stock negativo.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "product_id o barcode, quantity > 0"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/exit [post]
func (h *MovementHandler) Exit(c *fiber.Ctx) error {
	return h.apply(c, entity.MovementKindExit)
}

// Adjustment godoc
// @Summary      Ajustar stock a un valor absoluto
// @Description  quantity es el stock objetivo (>= 0), no un delta.
// @Tags         movements
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "product_id o barcode, quantity >= 0"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/adjustment [post]
func (h *MovementHandler) Adjustment(c *fiber.Ctx) error {
	return h.apply(c, entity.MovementKindAdjustment)
}

func (h *MovementHandler) apply(c *fiber.Ctx, kind string) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.ledger.ApplyMovement(c.Context(), inventory.MovementInput{
		ProductID: in.ProductID,
		Barcode:   in.Barcode,
		Kind:      kind,
		Quantity:  in.Quantity,
		Note:      in.Note,
		Actor:     in.Actor,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar movimientos
// @Tags         movements
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        kind        query  string  false  "ENTRANCE | EXIT | ADJUSTMENT"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Límite"  default(100)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {object}  dto.MovementListResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		ProductID: c.Query("product_id"),
		Kind:      c.Query("kind"),
		Limit:     c.QueryInt("limit", 0),
		Offset:    c.QueryInt("offset", 0),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, se espera RFC3339"})
		}
		filter.From = &t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, se espera RFC3339"})
		}
		filter.To = &t
	}
	out, err := h.ledger.ListMovements(c.Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListRecent godoc
// @Summary      Listar movimientos recientes
// @Description  Ventana deslizante de las últimas N horas (1..720, default 24).
// @Tags         movements
// @Produce      json
// @Param        hours  query  int  false  "Horas hacia atrás"  default(24)
// @Success      200    {array}  dto.MovementResponse
// @Router       /api/movements/recent [get]
func (h *MovementHandler) ListRecent(c *fiber.Ctx) error {
	out, err := h.ledger.ListRecent(c.Context(), c.QueryInt("hours", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por ID
// @Tags         movements
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [get]
func (h *MovementHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.ledger.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// HistoryByProduct godoc
// @Summary      Historial de movimientos de un producto
// @Description  Movimientos del producto, más recientes primero, acotado por limit.
// @Tags         movements
// @Produce      json
// @Param        id     path   string  true   "ID del producto"
// @Param        limit  query  int     false  "Límite"  default(50)
// @Success      200    {array}   dto.MovementResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/products/{id}/movements [get]
func (h *MovementHandler) HistoryByProduct(c *fiber.Ctx) error {
	out, err := h.ledger.HistoryByProduct(c.Context(), c.Params("id"), c.QueryInt("limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
