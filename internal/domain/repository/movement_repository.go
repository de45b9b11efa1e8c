package repository

import (
	"time"

	"github.com/engenho/estoque-api/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	ProductID string
	Kind      string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// MovementRepository define el puerto de persistencia para el libro de
// movimientos. Es append-only: no expone update ni delete (pista de auditoría).
type MovementRepository interface {
	Create(movement *entity.Movement) error
	GetByID(id string) (*entity.Movement, error)
	// List devuelve movimientos ordenados del más reciente al más antiguo.
	List(filter MovementFilter) ([]*entity.Movement, error)
	ListByProduct(productID string, limit int) ([]*entity.Movement, error)
}
