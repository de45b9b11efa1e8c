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

var _ repository.TypeRepository = (*TypeRepo)(nil)
var _ repository.ColorRepository = (*ColorRepo)(nil)

const catalogColumns = `id, code, name, active, created_at, updated_at`

// TypeRepo implementación de TypeRepository sobre PostgreSQL (usable con pool o tx).
type TypeRepo struct {
	q Querier
}

// NewTypeRepository construye el adaptador para tipos. Pasar pool o tx (Querier).
func NewTypeRepository(q Querier) *TypeRepo {
	return &TypeRepo{q: q}
}

// Create persiste un nuevo tipo. El código es único.
func (r *TypeRepo) Create(t *entity.ProductType) error {
	query := `
		INSERT INTO product_types (id, code, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query, t.ID, t.Code, t.Name, t.Active, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert type: %w", err)
	}
	return nil
}

// GetByID obtiene un tipo por ID.
func (r *TypeRepo) GetByID(id string) (*entity.ProductType, error) {
	return r.getOne(`SELECT `+catalogColumns+` FROM product_types WHERE id = $1`, id)
}

// GetByCode obtiene un tipo por código.
func (r *TypeRepo) GetByCode(code string) (*entity.ProductType, error) {
	return r.getOne(`SELECT `+catalogColumns+` FROM product_types WHERE code = $1`, code)
}

func (r *TypeRepo) getOne(query string, args ...any) (*entity.ProductType, error) {
	var t entity.ProductType
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&t.ID, &t.Code, &t.Name, &t.Active, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get type: %w", err)
	}
	return &t, nil
}

// List lista tipos, opcionalmente filtrados por activo.
func (r *TypeRepo) List(active *bool) ([]*entity.ProductType, error) {
	query := `SELECT ` + catalogColumns + ` FROM product_types`
	args := []any{}
	if active != nil {
		query += ` WHERE active = $1`
		args = append(args, *active)
	}
	query += ` ORDER BY code`
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list types: %w", err)
	}
	defer rows.Close()
	var list []*entity.ProductType
	for rows.Next() {
		var t entity.ProductType
		if err := rows.Scan(&t.ID, &t.Code, &t.Name, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan type: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// Update actualiza código y nombre de un tipo.
func (r *TypeRepo) Update(t *entity.ProductType) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE product_types SET code = $2, name = $3, updated_at = $4 WHERE id = $1`,
		t.ID, t.Code, t.Name, t.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update type: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTypeNotFound
	}
	return nil
}

// Deactivate marca el tipo como inactivo (los tipos nunca se borran).
func (r *TypeRepo) Deactivate(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE product_types SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate type: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrTypeNotFound
	}
	return nil
}

// ColorRepo implementación de ColorRepository sobre PostgreSQL (usable con pool o tx).
type ColorRepo struct {
	q Querier
}

// NewColorRepository construye el adaptador para colores. Pasar pool o tx (Querier).
func NewColorRepository(q Querier) *ColorRepo {
	return &ColorRepo{q: q}
}

// Create persiste un nuevo color. El código es único.
func (r *ColorRepo) Create(c *entity.Color) error {
	query := `
		INSERT INTO colors (id, code, name, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query, c.ID, c.Code, c.Name, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert color: %w", err)
	}
	return nil
}

// GetByID obtiene un color por ID.
func (r *ColorRepo) GetByID(id string) (*entity.Color, error) {
	return r.getOne(`SELECT `+catalogColumns+` FROM colors WHERE id = $1`, id)
}

// GetByCode obtiene un color por código.
func (r *ColorRepo) GetByCode(code string) (*entity.Color, error) {
	return r.getOne(`SELECT `+catalogColumns+` FROM colors WHERE code = $1`, code)
}

func (r *ColorRepo) getOne(query string, args ...any) (*entity.Color, error) {
	var c entity.Color
	err := r.q.QueryRow(context.Background(), query, args...).Scan(
		&c.ID, &c.Code, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get color: %w", err)
	}
	return &c, nil
}

// List lista colores, opcionalmente filtrados por activo.
func (r *ColorRepo) List(active *bool) ([]*entity.Color, error) {
	query := `SELECT ` + catalogColumns + ` FROM colors`
	args := []any{}
	if active != nil {
		query += ` WHERE active = $1`
		args = append(args, *active)
	}
	query += ` ORDER BY code`
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list colors: %w", err)
	}
	defer rows.Close()
	var list []*entity.Color
	for rows.Next() {
		var c entity.Color
		if err := rows.Scan(&c.ID, &c.Code, &c.Name, &c.Active, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan color: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// Update actualiza código y nombre de un color.
func (r *ColorRepo) Update(c *entity.Color) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE colors SET code = $2, name = $3, updated_at = $4 WHERE id = $1`,
		c.ID, c.Code, c.Name, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update color: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrColorNotFound
	}
	return nil
}

// Deactivate marca el color como inactivo (los colores nunca se borran).
func (r *ColorRepo) Deactivate(id string) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE colors SET active = false, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate color: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrColorNotFound
	}
	return nil
}
