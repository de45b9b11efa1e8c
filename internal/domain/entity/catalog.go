package entity

import "time"

// ProductType catálogo de tipos de producto. Code se congela dentro del código
// de barras al crear cada producto; editarlo después no reescribe barcodes emitidos.
type ProductType struct {
	ID        string
	Code      string // 2 caracteres, único
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Color catálogo de colores. Mismas reglas que ProductType.
type Color struct {
	ID        string
	Code      string // 2 caracteres, único
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
