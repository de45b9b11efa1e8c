package dto

import "time"

// CreateCatalogRequest body para crear tipos y colores (misma forma).
type CreateCatalogRequest struct {
	Code string `json:"code"` // exactamente 2 caracteres
	Name string `json:"name"`
}

// UpdateCatalogRequest body para actualizar tipos y colores (parcial).
// Cambiar Code no reescribe códigos de barras ya emitidos.
type UpdateCatalogRequest struct {
	Code *string `json:"code,omitempty"`
	Name *string `json:"name,omitempty"`
}

// CatalogResponse representación de un tipo o color en respuestas.
type CatalogResponse struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
