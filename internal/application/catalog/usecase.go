// Package catalog administra los catálogos de referencia Tipo y Color.
// Ambos siguen las mismas reglas: código único de 2 caracteres (se embebe en el
// código de barras), nunca se borran (solo se desactivan) y editar el código no
// reescribe barcodes ya emitidos.
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/engenho/estoque-api/internal/application/dto"
	"github.com/engenho/estoque-api/internal/domain"
	"github.com/engenho/estoque-api/internal/domain/barcode"
	"github.com/engenho/estoque-api/internal/domain/entity"
	"github.com/engenho/estoque-api/internal/domain/repository"
)

// UseCase casos de uso CRUD para tipos y colores.
type UseCase struct {
	typeRepo  repository.TypeRepository
	colorRepo repository.ColorRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(typeRepo repository.TypeRepository, colorRepo repository.ColorRepository) *UseCase {
	return &UseCase{typeRepo: typeRepo, colorRepo: colorRepo}
}

func validCatalogCode(code string) bool {
	return len(code) == barcode.AttributeCodeLength
}

// ── Tipos ────────────────────────────────────────────────────────────────────

// CreateType crea un tipo con código único de 2 caracteres.
func (uc *UseCase) CreateType(ctx context.Context, in dto.CreateCatalogRequest) (*dto.CatalogResponse, error) {
	if in.Name == "" || !validCatalogCode(in.Code) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.typeRepo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	t := &entity.ProductType{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.typeRepo.Create(t); err != nil {
		return nil, err
	}
	return typeResponse(t), nil
}

// GetType obtiene un tipo por ID.
func (uc *UseCase) GetType(ctx context.Context, id string) (*dto.CatalogResponse, error) {
	t, err := uc.typeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTypeNotFound
	}
	return typeResponse(t), nil
}

// ListTypes lista tipos, opcionalmente filtrados por activo.
func (uc *UseCase) ListTypes(ctx context.Context, active *bool) ([]dto.CatalogResponse, error) {
	list, err := uc.typeRepo.List(active)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogResponse, 0, len(list))
	for _, t := range list {
		items = append(items, *typeResponse(t))
	}
	return items, nil
}

// UpdateType actualiza nombre y/o código de un tipo, revalidando unicidad.
func (uc *UseCase) UpdateType(ctx context.Context, id string, in dto.UpdateCatalogRequest) (*dto.CatalogResponse, error) {
	t, err := uc.typeRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTypeNotFound
	}
	if in.Code != nil && *in.Code != t.Code {
		if !validCatalogCode(*in.Code) {
			return nil, domain.ErrInvalidInput
		}
		existing, err := uc.typeRepo.GetByCode(*in.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		t.Code = *in.Code
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		t.Name = *in.Name
	}
	t.UpdatedAt = time.Now()
	if err := uc.typeRepo.Update(t); err != nil {
		return nil, err
	}
	return typeResponse(t), nil
}

// DeactivateType desactiva un tipo (soft delete).
func (uc *UseCase) DeactivateType(ctx context.Context, id string) error {
	return uc.typeRepo.Deactivate(id)
}

// ── Colores ──────────────────────────────────────────────────────────────────

// CreateColor crea un color con código único de 2 caracteres.
func (uc *UseCase) CreateColor(ctx context.Context, in dto.CreateCatalogRequest) (*dto.CatalogResponse, error) {
	if in.Name == "" || !validCatalogCode(in.Code) {
		return nil, domain.ErrInvalidInput
	}
	existing, err := uc.colorRepo.GetByCode(in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	c := &entity.Color{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.colorRepo.Create(c); err != nil {
		return nil, err
	}
	return colorResponse(c), nil
}

// GetColor obtiene un color por ID.
func (uc *UseCase) GetColor(ctx context.Context, id string) (*dto.CatalogResponse, error) {
	c, err := uc.colorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrColorNotFound
	}
	return colorResponse(c), nil
}

// ListColors lista colores, opcionalmente filtrados por activo.
func (uc *UseCase) ListColors(ctx context.Context, active *bool) ([]dto.CatalogResponse, error) {
	list, err := uc.colorRepo.List(active)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *colorResponse(c))
	}
	return items, nil
}

// UpdateColor actualiza nombre y/o código de un color, revalidando unicidad.
func (uc *UseCase) UpdateColor(ctx context.Context, id string, in dto.UpdateCatalogRequest) (*dto.CatalogResponse, error) {
	c, err := uc.colorRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrColorNotFound
	}
	if in.Code != nil && *in.Code != c.Code {
		if !validCatalogCode(*in.Code) {
			return nil, domain.ErrInvalidInput
		}
		existing, err := uc.colorRepo.GetByCode(*in.Code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
		c.Code = *in.Code
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		c.Name = *in.Name
	}
	c.UpdatedAt = time.Now()
	if err := uc.colorRepo.Update(c); err != nil {
		return nil, err
	}
	return colorResponse(c), nil
}

// DeactivateColor desactiva un color (soft delete).
func (uc *UseCase) DeactivateColor(ctx context.Context, id string) error {
	return uc.colorRepo.Deactivate(id)
}

func typeResponse(t *entity.ProductType) *dto.CatalogResponse {
	return &dto.CatalogResponse{
		ID:        t.ID,
		Code:      t.Code,
		Name:      t.Name,
		Active:    t.Active,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

func colorResponse(c *entity.Color) *dto.CatalogResponse {
	return &dto.CatalogResponse{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
