package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products. El código de producto y el
// código de barras se generan en el servidor; InitialStock registra la entrada inicial.
type CreateProductRequest struct {
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	TypeID       string          `json:"type_id"`
	ColorID      string          `json:"color_id"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	MinimumStock int             `json:"minimum_stock"`
	InitialStock int             `json:"initial_stock"`
	Notes        string          `json:"notes,omitempty"`
}

// UpdateProductRequest body para PUT /api/products/:id (actualización parcial).
// ProductCode y Barcode son inmutables; el stock solo cambia vía movimientos.
type UpdateProductRequest struct {
	Name         *string          `json:"name,omitempty"`
	Description  *string          `json:"description,omitempty"`
	TypeID       *string          `json:"type_id,omitempty"`
	ColorID      *string          `json:"color_id,omitempty"`
	CostPrice    *decimal.Decimal `json:"cost_price,omitempty"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	MinimumStock *int             `json:"minimum_stock,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// ProductResponse representación de un producto en respuestas.
type ProductResponse struct {
	ID           string          `json:"id"`
	ProductCode  string          `json:"product_code"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	TypeID       string          `json:"type_id"`
	ColorID      string          `json:"color_id"`
	Barcode      string          `json:"barcode"`
	CostPrice    decimal.Decimal `json:"cost_price"`
	SalePrice    decimal.Decimal `json:"sale_price"`
	CurrentStock int             `json:"current_stock"`
	MinimumStock int             `json:"minimum_stock"`
	Notes        string          `json:"notes,omitempty"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ProductListResponse listado paginado de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
