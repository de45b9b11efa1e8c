package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/engenho/estoque-api/internal/application/product"
)

// ReportHandler maneja las consultas agregadas de solo lectura.
type ReportHandler struct {
	uc *product.UseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *product.UseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// Dashboard godoc
// @Summary      Resumen del estoque
// @Description  Totales de productos, activos, inactivos, stock bajo y stock cero.
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Reporte de stock bajo
// @Tags         reports
// @Produce      json
// @Success      200  {array}  dto.ProductResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.ListLowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
