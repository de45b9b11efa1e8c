package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo identificado por código de barras.
// CurrentStock es el contador materializado del libro de movimientos: solo el
// ledger lo muta, y siempre junto con la inserción del movimiento correspondiente.
type Product struct {
	ID           string
	ProductCode  string // secuencial de 4 dígitos, único
	Name         string
	Description  string
	TypeID       string
	ColorID      string
	Barcode      string // ProductCode(4) + Type.Code(2) + Color.Code(2), único
	CostPrice    decimal.Decimal
	SalePrice    decimal.Decimal
	CurrentStock int // nunca negativo
	MinimumStock int // umbral de reporte, no es un piso duro
	Notes        string
	Active       bool // soft delete; productos inactivos rechazan movimientos
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LowStock indica si el producto está en o por debajo de su stock mínimo.
func (p *Product) LowStock() bool {
	return p.CurrentStock <= p.MinimumStock
}
