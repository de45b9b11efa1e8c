package repository

import "github.com/engenho/estoque-api/internal/domain/entity"

// ProductFilter filtros para listar productos.
type ProductFilter struct {
	Active  *bool
	TypeID  string
	ColorID string
	Search  string // busca en nombre y código de barras
	Limit   int
	Offset  int
}

// StockSummary resumen agregado para el dashboard de estoque.
type StockSummary struct {
	TotalProducts    int
	ActiveProducts   int
	InactiveProducts int
	LowStock         int
	ZeroStock        int
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las variantes ForUpdate bloquean la fila (SELECT FOR UPDATE) y solo tienen
// sentido dentro de una transacción del TxRunner.
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByBarcode(barcode string) (*entity.Product, error)
	GetByIDForUpdate(id string) (*entity.Product, error)
	GetByBarcodeForUpdate(barcode string) (*entity.Product, error)
	// GetLastCreated devuelve el producto creado más recientemente (fuente del
	// último código secuencial) o nil si no hay ninguno.
	GetLastCreated() (*entity.Product, error)
	Update(product *entity.Product) error
	// UpdateStock fija el contador de stock. Solo el ledger debe llamarlo, y
	// siempre en la misma transacción que inserta el movimiento.
	UpdateStock(productID string, stock int) error
	Deactivate(id string) error
	List(filter ProductFilter) ([]*entity.Product, error)
	ListLowStock() ([]*entity.Product, error)
	Summary() (*StockSummary, error)
}
