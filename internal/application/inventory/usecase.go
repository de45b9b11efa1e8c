package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/engenho/estoque-api/internal/application/dto"
	"github.com/engenho/estoque-api/internal/domain"
	"github.com/engenho/estoque-api/internal/domain/entity"
	"github.com/engenho/estoque-api/internal/domain/repository"
)

// Límites de los listados de movimientos.
const (
	DefaultListLimit    = 100
	MaxListLimit        = 1000
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
	DefaultRecentHours  = 24
	MaxRecentHours      = 720
)

// LedgerUseCase es el único mutador de Product.CurrentStock. Cada mutación
// produce exactamente un Movement; el contador y el libro nunca divergen porque
// ambos se escriben dentro de la misma transacción, con la fila del producto
// bloqueada (SELECT FOR UPDATE) desde la lectura del stock previo.
type LedgerUseCase struct {
	txRunner     TxRunner
	productRepo  repository.ProductRepository
	movementRepo repository.MovementRepository
}

// NewLedgerUseCase construye el caso de uso. productRepo y movementRepo se usan
// solo para las consultas de lectura (fuera de transacción).
func NewLedgerUseCase(txRunner TxRunner, productRepo repository.ProductRepository, movementRepo repository.MovementRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, productRepo: productRepo, movementRepo: movementRepo}
}

// MovementInput entrada para aplicar un movimiento. El producto se identifica
// por ProductID o Barcode; ProductID tiene prioridad si vienen ambos.
type MovementInput struct {
	ProductID string
	Barcode   string
	Kind      string
	Quantity  int
	Note      string
	Actor     string
}

// ApplyMovement aplica una entrada, salida o ajuste sobre el stock del producto
// y registra el movimiento resultante de forma atómica.
//
// Para EXIT la verificación de stock suficiente se hace contra el valor leído
// dentro de la misma transacción que escribe, con la fila bloqueada: dos salidas
// concurrentes nunca pueden ambas leer el mismo stock previo y ambas confirmar.
func (uc *LedgerUseCase) ApplyMovement(ctx context.Context, input MovementInput) (*dto.MovementResponse, error) {
	if !entity.ValidMovementKind(input.Kind) {
		return nil, domain.ErrInvalidInput
	}
	if input.ProductID == "" && input.Barcode == "" {
		return nil, domain.ErrInvalidInput
	}
	// ENTRANCE y EXIT exigen cantidad positiva; ADJUSTMENT admite cero
	// (fijar el stock en cero es una operación legítima).
	if input.Kind == entity.MovementKindAdjustment {
		if input.Quantity < 0 {
			return nil, domain.ErrInvalidQuantity
		}
	} else if input.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var created *entity.Movement
	err := uc.txRunner.Run(ctx, func(
		productRepo repository.ProductRepository,
		movementRepo repository.MovementRepository,
	) error {
		product, err := lockProduct(productRepo, input.ProductID, input.Barcode)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if !product.Active {
			return domain.ErrProductInactive
		}

		prior := product.CurrentStock
		var resulting int
		switch input.Kind {
		case entity.MovementKindEntrance:
			resulting = prior + input.Quantity
		case entity.MovementKindExit:
			resulting = prior - input.Quantity
			if resulting < 0 {
				return &domain.InsufficientStockError{Available: prior, Requested: input.Quantity}
			}
		case entity.MovementKindAdjustment:
			resulting = input.Quantity
		}

		if err := productRepo.UpdateStock(product.ID, resulting); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:             uuid.New().String(),
			ProductID:      product.ID,
			Kind:           input.Kind,
			Quantity:       input.Quantity,
			PriorStock:     prior,
			ResultingStock: resulting,
			Note:           input.Note,
			Actor:          input.Actor,
			OccurredAt:     time.Now(),
		}
		if err := movementRepo.Create(mov); err != nil {
			return err
		}
		created = mov
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(created), nil
}

// lockProduct resuelve el producto por id o código de barras bloqueando su fila.
func lockProduct(repo repository.ProductRepository, productID, barcode string) (*entity.Product, error) {
	if productID != "" {
		return repo.GetByIDForUpdate(productID)
	}
	return repo.GetByBarcodeForUpdate(barcode)
}

// ListMovements lista movimientos con filtros, del más reciente al más antiguo.
// Los listados no necesitan ser linealizables con escrituras concurrentes.
func (uc *LedgerUseCase) ListMovements(ctx context.Context, filter repository.MovementFilter) (*dto.MovementListResponse, error) {
	if filter.Kind != "" && !entity.ValidMovementKind(filter.Kind) {
		return nil, domain.ErrInvalidInput
	}
	filter.Limit = clampLimit(filter.Limit, DefaultListLimit, MaxListLimit)
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	list, err := uc.movementRepo.List(filter)
	if err != nil {
		return nil, err
	}
	return toMovementList(list, filter.Limit, filter.Offset), nil
}

// ListRecent lista los movimientos de las últimas N horas (1..720, default 24).
// La ventana se consulta por tiempo, no por página, así que devuelve la lista
// plana; el tope interno de lectura solo evita respuestas desbordadas.
func (uc *LedgerUseCase) ListRecent(ctx context.Context, hours int) ([]dto.MovementResponse, error) {
	if hours <= 0 {
		hours = DefaultRecentHours
	}
	if hours > MaxRecentHours {
		hours = MaxRecentHours
	}
	from := time.Now().Add(-time.Duration(hours) * time.Hour)
	list, err := uc.movementRepo.List(repository.MovementFilter{From: &from, Limit: MaxListLimit})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return items, nil
}

// HistoryByProduct devuelve el historial acotado de un producto, más reciente primero.
func (uc *LedgerUseCase) HistoryByProduct(ctx context.Context, productID string, limit int) ([]dto.MovementResponse, error) {
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	limit = clampLimit(limit, DefaultHistoryLimit, MaxHistoryLimit)
	list, err := uc.movementRepo.ListByProduct(productID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return items, nil
}

// GetByID obtiene un movimiento del libro.
func (uc *LedgerUseCase) GetByID(ctx context.Context, id string) (*dto.MovementResponse, error) {
	mov, err := uc.movementRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if mov == nil {
		return nil, domain.ErrMovementNotFound
	}
	return toMovementResponse(mov), nil
}

func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

func toMovementResponse(m *entity.Movement) *dto.MovementResponse {
	if m == nil {
		return nil
	}
	return &dto.MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		Kind:           m.Kind,
		Quantity:       m.Quantity,
		PriorStock:     m.PriorStock,
		ResultingStock: m.ResultingStock,
		Note:           m.Note,
		Actor:          m.Actor,
		OccurredAt:     m.OccurredAt,
	}
}

func toMovementList(list []*entity.Movement, limit, offset int) *dto.MovementListResponse {
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
}
