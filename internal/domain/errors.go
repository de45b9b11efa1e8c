package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrProductNotFound  = errors.New("producto no encontrado")
	ErrTypeNotFound     = errors.New("tipo no encontrado")
	ErrColorNotFound    = errors.New("color no encontrado")
	ErrMovementNotFound = errors.New("movimiento no encontrado")

	ErrInvalidInput    = errors.New("entrada inválida")
	ErrInvalidQuantity = errors.New("cantidad inválida")
	ErrDuplicate       = errors.New("recurso duplicado")

	ErrProductInactive   = errors.New("producto inactivo")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrBarcodeCollision  = errors.New("código de barras ya existe")

	// Errores del generador de códigos.
	ErrInvalidCodeFormat     = errors.New("formato de código inválido")
	ErrCodeSpaceExhausted    = errors.New("espacio de códigos secuenciales agotado")
	ErrInvalidArgumentLength = errors.New("longitud de argumento inválida")
)

// InsufficientStockError detalla una salida rechazada: stock disponible y cantidad solicitada.
// errors.Is(err, ErrInsufficientStock) devuelve true para este error.
type InsufficientStockError struct {
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente: disponible %d, solicitado %d", e.Available, e.Requested)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}
