package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementKindEntrance   = "ENTRANCE"   // entrada: suma Quantity al stock
	MovementKindExit       = "EXIT"       // salida: resta Quantity del stock
	MovementKindAdjustment = "ADJUSTMENT" // ajuste: Quantity es el stock objetivo absoluto
)

// ValidMovementKind verifica que el tipo sea uno de los soportados.
func ValidMovementKind(kind string) bool {
	return kind == MovementKindEntrance || kind == MovementKindExit || kind == MovementKindAdjustment
}

// Movement es un registro inmutable del libro de movimientos: se crea una sola
// vez como efecto de una mutación de stock y nunca se actualiza ni se borra.
// Invariante: ResultingStock == PriorStock + Quantity (ENTRANCE),
// PriorStock - Quantity (EXIT) o Quantity (ADJUSTMENT).
type Movement struct {
	ID             string
	ProductID      string
	Kind           string
	Quantity       int
	PriorStock     int
	ResultingStock int
	Note           string
	Actor          string
	OccurredAt     time.Time
}
