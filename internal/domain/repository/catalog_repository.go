package repository

import "github.com/engenho/estoque-api/internal/domain/entity"

// TypeRepository define el puerto de persistencia para ProductType (DIP).
// Los tipos nunca se borran, solo se desactivan.
type TypeRepository interface {
	Create(t *entity.ProductType) error
	GetByID(id string) (*entity.ProductType, error)
	GetByCode(code string) (*entity.ProductType, error)
	List(active *bool) ([]*entity.ProductType, error)
	Update(t *entity.ProductType) error
	Deactivate(id string) error
}

// ColorRepository define el puerto de persistencia para Color (DIP).
type ColorRepository interface {
	Create(c *entity.Color) error
	GetByID(id string) (*entity.Color, error)
	GetByCode(code string) (*entity.Color, error)
	List(active *bool) ([]*entity.Color, error)
	Update(c *entity.Color) error
	Deactivate(id string) error
}
