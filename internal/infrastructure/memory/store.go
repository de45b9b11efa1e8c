// Package memory implementa los puertos de persistencia en memoria para tests
// unitarios. El TxRunner serializa transacciones con un mutex (equivalente al
// bloqueo de fila de PostgreSQL) y restaura un snapshot ante error, de modo que
// una operación fallida no deja escrituras parciales.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/engenho/estoque-api/internal/application/inventory"
	"github.com/engenho/estoque-api/internal/domain"
	"github.com/engenho/estoque-api/internal/domain/entity"
	"github.com/engenho/estoque-api/internal/domain/repository"
)

var (
	_ inventory.TxRunner            = (*txRunner)(nil)
	_ repository.ProductRepository  = (*productRepo)(nil)
	_ repository.MovementRepository = (*movementRepo)(nil)
	_ repository.TypeRepository     = (*typeRepo)(nil)
	_ repository.ColorRepository    = (*colorRepo)(nil)
)

// Store estado compartido de los repositorios en memoria.
type Store struct {
	mu        sync.Mutex
	products  map[string]*entity.Product
	order     []string // ids de producto en orden de creación
	movements []*entity.Movement
	types     map[string]*entity.ProductType
	colors    map[string]*entity.Color
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		products: make(map[string]*entity.Product),
		types:    make(map[string]*entity.ProductType),
		colors:   make(map[string]*entity.Color),
	}
}

// ProductRepository devuelve el repo de productos atado al pool (toma el lock por operación).
func (s *Store) ProductRepository() repository.ProductRepository {
	return &productRepo{s: s}
}

// MovementRepository devuelve el repo de movimientos atado al pool.
func (s *Store) MovementRepository() repository.MovementRepository {
	return &movementRepo{s: s}
}

// TypeRepository devuelve el repo de tipos.
func (s *Store) TypeRepository() repository.TypeRepository {
	return &typeRepo{s: s}
}

// ColorRepository devuelve el repo de colores.
func (s *Store) ColorRepository() repository.ColorRepository {
	return &colorRepo{s: s}
}

// TxRunner devuelve un runner que serializa transacciones y revierte ante error.
func (s *Store) TxRunner() inventory.TxRunner {
	return &txRunner{s: s}
}

type txRunner struct {
	s *Store
}

// Run toma el lock (transacciones serializadas, como SELECT FOR UPDATE sobre la
// misma fila), ejecuta fn con repos atados a la "tx" y restaura el snapshot si
// fn falla: commit o rollback, nunca escrituras parciales.
func (r *txRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	snapshot := r.s.snapshot()
	err := fn(&productRepo{s: r.s, inTx: true}, &movementRepo{s: r.s, inTx: true})
	if err != nil {
		r.s.restore(snapshot)
		return err
	}
	return nil
}

type storeSnapshot struct {
	products  map[string]*entity.Product
	order     []string
	movements []*entity.Movement
}

// snapshot copia el estado mutable por una transacción. Llamar con el lock tomado.
func (s *Store) snapshot() storeSnapshot {
	products := make(map[string]*entity.Product, len(s.products))
	for id, p := range s.products {
		cp := *p
		products[id] = &cp
	}
	return storeSnapshot{
		products:  products,
		order:     append([]string(nil), s.order...),
		movements: append([]*entity.Movement(nil), s.movements...),
	}
}

func (s *Store) restore(snap storeSnapshot) {
	s.products = snap.products
	s.order = snap.order
	s.movements = snap.movements
}

// withLock ejecuta fn tomando el lock salvo que ya esté tomado por una tx.
func (s *Store) withLock(inTx bool, fn func()) {
	if !inTx {
		s.mu.Lock()
		defer s.mu.Unlock()
	}
	fn()
}

// ── Productos ────────────────────────────────────────────────────────────────

type productRepo struct {
	s    *Store
	inTx bool
}

func (r *productRepo) Create(product *entity.Product) error {
	var err error
	r.s.withLock(r.inTx, func() {
		for _, p := range r.s.products {
			if p.Barcode == product.Barcode || p.ProductCode == product.ProductCode {
				err = domain.ErrBarcodeCollision
				return
			}
		}
		cp := *product
		r.s.products[product.ID] = &cp
		r.s.order = append(r.s.order, product.ID)
	})
	return err
}

func (r *productRepo) GetByID(id string) (*entity.Product, error) {
	var out *entity.Product
	r.s.withLock(r.inTx, func() {
		if p, ok := r.s.products[id]; ok {
			cp := *p
			out = &cp
		}
	})
	return out, nil
}

func (r *productRepo) GetByBarcode(barcode string) (*entity.Product, error) {
	var out *entity.Product
	r.s.withLock(r.inTx, func() {
		for _, p := range r.s.products {
			if p.Barcode == barcode {
				cp := *p
				out = &cp
				return
			}
		}
	})
	return out, nil
}

// Las variantes ForUpdate equivalen a Get: el lock del TxRunner ya serializa.
func (r *productRepo) GetByIDForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *productRepo) GetByBarcodeForUpdate(barcode string) (*entity.Product, error) {
	return r.GetByBarcode(barcode)
}

func (r *productRepo) GetLastCreated() (*entity.Product, error) {
	var out *entity.Product
	r.s.withLock(r.inTx, func() {
		if len(r.s.order) == 0 {
			return
		}
		cp := *r.s.products[r.s.order[len(r.s.order)-1]]
		out = &cp
	})
	return out, nil
}

func (r *productRepo) Update(product *entity.Product) error {
	err := domain.ErrProductNotFound
	r.s.withLock(r.inTx, func() {
		if existing, ok := r.s.products[product.ID]; ok {
			cp := *product
			cp.CurrentStock = existing.CurrentStock // el stock solo cambia vía UpdateStock
			cp.Active = existing.Active
			r.s.products[product.ID] = &cp
			err = nil
		}
	})
	return err
}

func (r *productRepo) UpdateStock(productID string, stock int) error {
	err := domain.ErrProductNotFound
	r.s.withLock(r.inTx, func() {
		if p, ok := r.s.products[productID]; ok {
			p.CurrentStock = stock
			p.UpdatedAt = time.Now()
			err = nil
		}
	})
	return err
}

func (r *productRepo) Deactivate(id string) error {
	err := domain.ErrProductNotFound
	r.s.withLock(r.inTx, func() {
		if p, ok := r.s.products[id]; ok {
			p.Active = false
			p.UpdatedAt = time.Now()
			err = nil
		}
	})
	return err
}

func (r *productRepo) List(filter repository.ProductFilter) ([]*entity.Product, error) {
	var out []*entity.Product
	r.s.withLock(r.inTx, func() {
		// Recorre en orden de creación inverso (más recientes primero).
		for i := len(r.s.order) - 1; i >= 0; i-- {
			p := r.s.products[r.s.order[i]]
			if filter.Active != nil && p.Active != *filter.Active {
				continue
			}
			if filter.TypeID != "" && p.TypeID != filter.TypeID {
				continue
			}
			if filter.ColorID != "" && p.ColorID != filter.ColorID {
				continue
			}
			if filter.Search != "" {
				s := strings.ToLower(filter.Search)
				if !strings.Contains(strings.ToLower(p.Name), s) &&
					!strings.Contains(strings.ToLower(p.Barcode), s) {
					continue
				}
			}
			cp := *p
			out = append(out, &cp)
		}
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *productRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	r.s.withLock(r.inTx, func() {
		for _, id := range r.s.order {
			p := r.s.products[id]
			if p.Active && p.CurrentStock <= p.MinimumStock {
				cp := *p
				out = append(out, &cp)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].CurrentStock < out[j].CurrentStock })
	})
	return out, nil
}

func (r *productRepo) Summary() (*repository.StockSummary, error) {
	s := &repository.StockSummary{}
	r.s.withLock(r.inTx, func() {
		for _, p := range r.s.products {
			s.TotalProducts++
			if !p.Active {
				s.InactiveProducts++
				continue
			}
			s.ActiveProducts++
			if p.CurrentStock <= p.MinimumStock {
				s.LowStock++
			}
			if p.CurrentStock == 0 {
				s.ZeroStock++
			}
		}
	})
	return s, nil
}

// ── Movimientos ──────────────────────────────────────────────────────────────

type movementRepo struct {
	s    *Store
	inTx bool
}

func (r *movementRepo) Create(movement *entity.Movement) error {
	r.s.withLock(r.inTx, func() {
		cp := *movement
		r.s.movements = append(r.s.movements, &cp)
	})
	return nil
}

func (r *movementRepo) GetByID(id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.s.withLock(r.inTx, func() {
		for _, m := range r.s.movements {
			if m.ID == id {
				cp := *m
				out = &cp
				return
			}
		}
	})
	return out, nil
}

func (r *movementRepo) List(filter repository.MovementFilter) ([]*entity.Movement, error) {
	var out []*entity.Movement
	r.s.withLock(r.inTx, func() {
		for i := len(r.s.movements) - 1; i >= 0; i-- {
			m := r.s.movements[i]
			if filter.ProductID != "" && m.ProductID != filter.ProductID {
				continue
			}
			if filter.Kind != "" && m.Kind != filter.Kind {
				continue
			}
			if filter.From != nil && m.OccurredAt.Before(*filter.From) {
				continue
			}
			if filter.To != nil && m.OccurredAt.After(*filter.To) {
				continue
			}
			cp := *m
			out = append(out, &cp)
		}
	})
	return paginate(out, filter.Limit, filter.Offset), nil
}

func (r *movementRepo) ListByProduct(productID string, limit int) ([]*entity.Movement, error) {
	return r.List(repository.MovementFilter{ProductID: productID, Limit: limit})
}

// ── Tipos y colores ──────────────────────────────────────────────────────────

type typeRepo struct {
	s *Store
}

func (r *typeRepo) Create(t *entity.ProductType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.types {
		if existing.Code == t.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *t
	r.s.types[t.ID] = &cp
	return nil
}

func (r *typeRepo) GetByID(id string) (*entity.ProductType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.types[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, nil
}

func (r *typeRepo) GetByCode(code string) (*entity.ProductType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.types {
		if t.Code == code {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *typeRepo) List(active *bool) ([]*entity.ProductType, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ProductType
	for _, t := range r.s.types {
		if active != nil && t.Active != *active {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *typeRepo) Update(t *entity.ProductType) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.types[t.ID]; !ok {
		return domain.ErrTypeNotFound
	}
	for _, existing := range r.s.types {
		if existing.ID != t.ID && existing.Code == t.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *t
	r.s.types[t.ID] = &cp
	return nil
}

func (r *typeRepo) Deactivate(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.types[id]
	if !ok {
		return domain.ErrTypeNotFound
	}
	t.Active = false
	t.UpdatedAt = time.Now()
	return nil
}

type colorRepo struct {
	s *Store
}

func (r *colorRepo) Create(c *entity.Color) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.colors {
		if existing.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.colors[c.ID] = &cp
	return nil
}

func (r *colorRepo) GetByID(id string) (*entity.Color, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.colors[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r *colorRepo) GetByCode(code string) (*entity.Color, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.colors {
		if c.Code == code {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *colorRepo) List(active *bool) ([]*entity.Color, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Color
	for _, c := range r.s.colors {
		if active != nil && c.Active != *active {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (r *colorRepo) Update(c *entity.Color) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.colors[c.ID]; !ok {
		return domain.ErrColorNotFound
	}
	for _, existing := range r.s.colors {
		if existing.ID != c.ID && existing.Code == c.Code {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.s.colors[c.ID] = &cp
	return nil
}

func (r *colorRepo) Deactivate(id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.colors[id]
	if !ok {
		return domain.ErrColorNotFound
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	return nil
}

func paginate[T any](list []*T, limit, offset int) []*T {
	if offset > 0 {
		if offset >= len(list) {
			return nil
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
