package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/engenho/estoque-api/internal/domain"
	"github.com/engenho/estoque-api/internal/domain/entity"
	"github.com/engenho/estoque-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `id, product_code, name, description, type_id, color_id, barcode,
		cost_price, sale_price, current_stock, minimum_stock, notes, active, created_at, updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto. Los constraints únicos de product_code y
// barcode son la última defensa contra códigos duplicados bajo concurrencia;
// una violación se reporta como colisión de barcode para que el caller reintente.
func (r *ProductRepo) Create(product *entity.Product) error {
	query := `
		INSERT INTO products (id, product_code, name, description, type_id, color_id, barcode,
			cost_price, sale_price, current_stock, minimum_stock, notes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		product.ID, product.ProductCode, product.Name, product.Description,
		product.TypeID, product.ColorID, product.Barcode,
		product.CostPrice, product.SalePrice, product.CurrentStock, product.MinimumStock,
		product.Notes, product.Active, product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBarcodeCollision
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
}

// GetByBarcode obtiene un producto por código de barras.
func (r *ProductRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE barcode = $1`, barcode)
}

// GetByIDForUpdate obtiene un producto bloqueando su fila (SELECT FOR UPDATE).
// Solo tiene sentido dentro de una transacción del TxRunner.
func (r *ProductRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE id = $1 FOR UPDATE`, id)
}

// GetByBarcodeForUpdate obtiene un producto por barcode bloqueando su fila.
func (r *ProductRepo) GetByBarcodeForUpdate(barcode string) (*entity.Product, error) {
	return r.getOne(`SELECT `+productColumns+` FROM products WHERE barcode = $1 FOR UPDATE`, barcode)
}

// GetLastCreated devuelve el producto creado más recientemente, o nil si el
// catálogo está vacío. Es la fuente del último código secuencial emitido
// (los productos nunca se borran, solo se desactivan).
func (r *ProductRepo) GetLastCreated() (*entity.Product, error) {
	return r.getOne(`SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC, product_code DESC LIMIT 1`)
}

func (r *ProductRepo) getOne(query string, args ...any) (*entity.Product, error) {
	var p entity.Product
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&p.ID, &p.ProductCode, &p.Name, &p.Description, &p.TypeID, &p.ColorID, &p.Barcode,
		&p.CostPrice, &p.SalePrice, &p.CurrentStock, &p.MinimumStock,
		&p.Notes, &p.Active, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// Update actualiza campos editables. No toca product_code, barcode, current_stock
// ni active (congelados o manejados por ledger/deactivate).
func (r *ProductRepo) Update(product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, type_id = $4, color_id = $5,
			cost_price = $6, sale_price = $7, minimum_stock = $8, notes = $9, updated_at = $10
		WHERE id = $1`
	cmd, err := r.q.Exec(context.Background(), query,
		product.ID, product.Name, product.Description, product.TypeID, product.ColorID,
		product.CostPrice, product.SalePrice, product.MinimumStock, product.Notes, product.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// UpdateStock fija el contador de stock (usado solo por el ledger, dentro de la tx).
func (r *ProductRepo) UpdateStock(productID string, stock int) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET current_stock = $2, updated_at = now() WHERE id = $1`,
		productID, stock,
	)
	if err != nil {
		return fmt.Errorf("update product stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// Deactivate marca el producto como inactivo (soft delete).
func (r *ProductRepo) Deactivate(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE products SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// List lista productos con filtros y paginación, más recientes primero.
func (r *ProductRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	pos := 1
	if filter.Active != nil {
		query += fmt.Sprintf(" AND active = $%d", pos)
		args = append(args, *filter.Active)
		pos++
	}
	if filter.TypeID != "" {
		query += fmt.Sprintf(" AND type_id = $%d", pos)
		args = append(args, filter.TypeID)
		pos++
	}
	if filter.ColorID != "" {
		query += fmt.Sprintf(" AND color_id = $%d", pos)
		args = append(args, filter.ColorID)
		pos++
	}
	if filter.Search != "" {
		query += fmt.Sprintf(" AND (name ILIKE $%d OR barcode ILIKE $%d)", pos, pos)
		args = append(args, "%"+filter.Search+"%")
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, filter.Limit, filter.Offset)

	return r.list(query, args...)
}

// ListLowStock lista productos activos en o por debajo de su stock mínimo.
func (r *ProductRepo) ListLowStock() ([]*entity.Product, error) {
	query := `SELECT ` + productColumns + `
		FROM products
		WHERE active = true AND current_stock <= minimum_stock
		ORDER BY current_stock ASC`
	return r.list(query)
}

// Summary calcula el resumen agregado del estoque en una sola consulta.
func (r *ProductRepo) Summary() (*repository.StockSummary, error) {
	query := `
		SELECT count(*),
			count(*) FILTER (WHERE active),
			count(*) FILTER (WHERE NOT active),
			count(*) FILTER (WHERE active AND current_stock <= minimum_stock),
			count(*) FILTER (WHERE active AND current_stock = 0)
		FROM products`
	var s repository.StockSummary
	err := r.q.QueryRow(context.Background(), query).Scan(
		&s.TotalProducts, &s.ActiveProducts, &s.InactiveProducts, &s.LowStock, &s.ZeroStock,
	)
	if err != nil {
		return nil, fmt.Errorf("stock summary: %w", err)
	}
	return &s, nil
}

func (r *ProductRepo) list(query string, args ...any) ([]*entity.Product, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(
			&p.ID, &p.ProductCode, &p.Name, &p.Description, &p.TypeID, &p.ColorID, &p.Barcode,
			&p.CostPrice, &p.SalePrice, &p.CurrentStock, &p.MinimumStock,
			&p.Notes, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
