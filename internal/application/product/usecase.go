package product

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/engenho/estoque-api/internal/application/dto"
	"github.com/engenho/estoque-api/internal/application/inventory"
	"github.com/engenho/estoque-api/internal/domain"
	"github.com/engenho/estoque-api/internal/domain/barcode"
	"github.com/engenho/estoque-api/internal/domain/entity"
	"github.com/engenho/estoque-api/internal/domain/repository"
)

// Movimiento sintético de stock inicial escrito junto con el producto.
const (
	initialStockNote = "stock inicial"
	systemActor      = "system"
)

// firstProductCode código previo implícito cuando el catálogo está vacío.
const firstProductCode = "0000"

// UseCase casos de uso del ciclo de vida de productos. La creación es la única
// operación que toca el generador de códigos; el stock se muta solo vía ledger.
type UseCase struct {
	txRunner    inventory.TxRunner
	productRepo repository.ProductRepository
	typeRepo    repository.TypeRepository
	colorRepo   repository.ColorRepository
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner inventory.TxRunner,
	productRepo repository.ProductRepository,
	typeRepo repository.TypeRepository,
	colorRepo repository.ColorRepository,
) *UseCase {
	return &UseCase{txRunner: txRunner, productRepo: productRepo, typeRepo: typeRepo, colorRepo: colorRepo}
}

// Create crea un producto generando código secuencial y código de barras, y
// registra la entrada de stock inicial en la misma transacción. Ante una
// colisión de barcode (dos creaciones concurrentes leyendo el mismo último
// código) reintenta una vez con un código recién derivado.
func (uc *UseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.Name == "" || in.TypeID == "" || in.ColorID == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.InitialStock < 0 || in.MinimumStock < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if err := validatePrices(in.CostPrice, in.SalePrice); err != nil {
		return nil, err
	}

	ptype, err := uc.typeRepo.GetByID(in.TypeID)
	if err != nil {
		return nil, err
	}
	if ptype == nil {
		return nil, domain.ErrTypeNotFound
	}
	color, err := uc.colorRepo.GetByID(in.ColorID)
	if err != nil {
		return nil, err
	}
	if color == nil {
		return nil, domain.ErrColorNotFound
	}

	created, err := uc.createWithGeneratedCode(ctx, in, ptype, color)
	if errors.Is(err, domain.ErrBarcodeCollision) {
		// Otra creación concurrente ganó el código; derivar uno fresco y
		// reintentar una sola vez antes de devolver el error al caller.
		created, err = uc.createWithGeneratedCode(ctx, in, ptype, color)
	}
	if err != nil {
		return nil, err
	}
	return toProductResponse(created), nil
}

// createWithGeneratedCode ejecuta un intento de creación: lee el último código
// dentro de la transacción, compone el barcode e inserta producto y movimiento
// inicial como unidad atómica. El constraint único de barcode es la última
// línea de defensa contra códigos duplicados.
func (uc *UseCase) createWithGeneratedCode(
	ctx context.Context,
	in dto.CreateProductRequest,
	ptype *entity.ProductType,
	color *entity.Color,
) (*entity.Product, error) {
	var created *entity.Product
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
	) error {
		lastCode := firstProductCode
		last, err := productRepo.GetLastCreated()
		if err != nil {
			return err
		}
		if last != nil {
			lastCode = last.ProductCode
		}
		code, err := barcode.NextProductCode(lastCode)
		if err != nil {
			return err
		}
		bc, err := barcode.ComposeBarcode(code, ptype.Code, color.Code)
		if err != nil {
			return err
		}

		now := time.Now()
		product := &entity.Product{
			ID:           uuid.New().String(),
			ProductCode:  code,
			Name:         in.Name,
			Description:  in.Description,
			TypeID:       ptype.ID,
			ColorID:      color.ID,
			Barcode:      bc,
			CostPrice:    in.CostPrice,
			SalePrice:    in.SalePrice,
			CurrentStock: in.InitialStock,
			MinimumStock: in.MinimumStock,
			Notes:        in.Notes,
			Active:       true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := productRepo.Create(product); err != nil {
			return err
		}
		if in.InitialStock > 0 {
			mov := &entity.Movement{
				ID:             uuid.New().String(),
				ProductID:      product.ID,
				Kind:           entity.MovementKindEntrance,
				Quantity:       in.InitialStock,
				PriorStock:     0,
				ResultingStock: in.InitialStock,
				Note:           initialStockNote,
				Actor:          systemActor,
				OccurredAt:     now,
			}
			if err := movementRepo.Create(mov); err != nil {
				return err
			}
		}
		created = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID obtiene un producto por ID.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// GetByBarcode obtiene un producto por código de barras (ruta del escáner).
func (uc *UseCase) GetByBarcode(ctx context.Context, code string) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByBarcode(code)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return toProductResponse(product), nil
}

// Update actualiza campos editables. ProductCode y Barcode están congelados una
// vez emitidos; el stock solo cambia vía el ledger de movimientos.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.productRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.TypeID != nil {
		ptype, err := uc.typeRepo.GetByID(*in.TypeID)
		if err != nil {
			return nil, err
		}
		if ptype == nil {
			return nil, domain.ErrTypeNotFound
		}
		product.TypeID = ptype.ID
	}
	if in.ColorID != nil {
		color, err := uc.colorRepo.GetByID(*in.ColorID)
		if err != nil {
			return nil, err
		}
		if color == nil {
			return nil, domain.ErrColorNotFound
		}
		product.ColorID = color.ID
	}
	if in.CostPrice != nil {
		product.CostPrice = *in.CostPrice
	}
	if in.SalePrice != nil {
		product.SalePrice = *in.SalePrice
	}
	if err := validatePrices(product.CostPrice, product.SalePrice); err != nil {
		return nil, err
	}
	if in.MinimumStock != nil {
		if *in.MinimumStock < 0 {
			return nil, domain.ErrInvalidQuantity
		}
		product.MinimumStock = *in.MinimumStock
	}
	if in.Notes != nil {
		product.Notes = *in.Notes
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// Deactivate marca el producto como inactivo (soft delete). Los productos
// inactivos rechazan movimientos nuevos pero conservan su historial.
func (uc *UseCase) Deactivate(ctx context.Context, id string) error {
	return uc.productRepo.Deactivate(id)
}

// List lista productos con filtros y paginación, más recientes primero.
func (uc *UseCase) List(ctx context.Context, filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	if filter.Limit > 1000 {
		filter.Limit = 1000
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.productRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// ListLowStock lista productos activos con CurrentStock <= MinimumStock.
func (uc *UseCase) ListLowStock(ctx context.Context) ([]dto.ProductResponse, error) {
	list, err := uc.productRepo.ListLowStock()
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return items, nil
}

// Dashboard devuelve el resumen agregado del estoque.
func (uc *UseCase) Dashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	s, err := uc.productRepo.Summary()
	if err != nil {
		return nil, err
	}
	return &dto.DashboardResponse{
		TotalProducts:    s.TotalProducts,
		ActiveProducts:   s.ActiveProducts,
		InactiveProducts: s.InactiveProducts,
		LowStock:         s.LowStock,
		ZeroStock:        s.ZeroStock,
	}, nil
}

// validatePrices rechaza precio de venta por debajo del costo (cuando ambos > 0).
func validatePrices(cost, sale decimal.Decimal) error {
	if cost.IsNegative() || sale.IsNegative() {
		return domain.ErrInvalidInput
	}
	if sale.IsPositive() && cost.IsPositive() && sale.LessThan(cost) {
		return domain.ErrInvalidInput
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		ProductCode:  p.ProductCode,
		Name:         p.Name,
		Description:  p.Description,
		TypeID:       p.TypeID,
		ColorID:      p.ColorID,
		Barcode:      p.Barcode,
		CostPrice:    p.CostPrice,
		SalePrice:    p.SalePrice,
		CurrentStock: p.CurrentStock,
		MinimumStock: p.MinimumStock,
		Notes:        p.Notes,
		Active:       p.Active,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
