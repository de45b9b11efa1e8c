package dto

import "time"

// MovementRequest body para POST /api/movements/{entrance,exit,adjustment}.
// El producto se identifica por ProductID o por Barcode (ruta de escáner);
// si vienen ambos, ProductID tiene prioridad.
type MovementRequest struct {
	ProductID string `json:"product_id,omitempty"`
	Barcode   string `json:"barcode,omitempty"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty"`
	Actor     string `json:"actor,omitempty"`
}

// MovementResponse representación de un movimiento en respuestas.
type MovementResponse struct {
	ID             string    `json:"id"`
	ProductID      string    `json:"product_id"`
	Kind           string    `json:"kind"`
	Quantity       int       `json:"quantity"`
	PriorStock     int       `json:"prior_stock"`
	ResultingStock int       `json:"resulting_stock"`
	Note           string    `json:"note,omitempty"`
	Actor          string    `json:"actor,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// MovementListResponse listado paginado de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
