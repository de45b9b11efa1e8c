package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engenho/estoque-api/internal/application/inventory"
	"github.com/engenho/estoque-api/internal/domain"
	"github.com/engenho/estoque-api/internal/domain/entity"
	"github.com/engenho/estoque-api/internal/domain/repository"
	"github.com/engenho/estoque-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// newLedger construye el caso de uso sobre el almacén en memoria.
func newLedger(store *memory.Store) *inventory.LedgerUseCase {
	return inventory.NewLedgerUseCase(store.TxRunner(), store.ProductRepository(), store.MovementRepository())
}

var productSeq int

// seedProduct inserta un producto activo con el stock indicado.
func seedProduct(t *testing.T, store *memory.Store, stock int) *entity.Product {
	t.Helper()
	productSeq++
	now := time.Now()
	p := &entity.Product{
		ID:           uuid.New().String(),
		ProductCode:  fmt.Sprintf("%04d", productSeq),
		Name:         "Camiseta",
		Barcode:      fmt.Sprintf("%04d0305", productSeq),
		CurrentStock: stock,
		MinimumStock: 2,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, store.ProductRepository().Create(p), "debe insertarse el producto semilla")
	return p
}

func repositoryFilter(productID, kind string) repository.MovementFilter {
	return repository.MovementFilter{ProductID: productID, Kind: kind}
}

func currentStock(t *testing.T, store *memory.Store, id string) int {
	t.Helper()
	p, err := store.ProductRepository().GetByID(id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.CurrentStock
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests ApplyMovement
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: Una entrada suma al stock y registra el snapshot previo/resultante.
func TestApplyMovement_EntradaSumaStock(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 10)

	out, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID,
		Kind:      entity.MovementKindEntrance,
		Quantity:  5,
		Actor:     "ana",
	})
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, entity.MovementKindEntrance, out.Kind)
	assert.Equal(t, 10, out.PriorStock, "el snapshot previo debe ser el stock antes del movimiento")
	assert.Equal(t, 15, out.ResultingStock)
	assert.Equal(t, 15, currentStock(t, store, p.ID), "el contador debe coincidir con el último movimiento")
}

// Caso 2: Una salida resta del stock.
func TestApplyMovement_SalidaRestaStock(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 10)

	out, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID,
		Kind:      entity.MovementKindExit,
		Quantity:  4,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, out.PriorStock)
	assert.Equal(t, 6, out.ResultingStock)
	assert.Equal(t, 6, currentStock(t, store, p.ID))
}

// Caso 3: Una salida mayor al stock disponible falla sin registrar movimiento
// ni tocar el contador.
func TestApplyMovement_SalidaInsuficienteFallaSinEscribir(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 3)

	out, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID,
		Kind:      entity.MovementKindExit,
		Quantity:  5,
	})
	require.Error(t, err)
	assert.Nil(t, out)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "3", "el mensaje debe incluir el stock disponible")
	assert.Contains(t, err.Error(), "5", "el mensaje debe incluir la cantidad solicitada")

	assert.Equal(t, 3, currentStock(t, store, p.ID), "el stock no debe cambiar")
	history, err := ledger.HistoryByProduct(context.Background(), p.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history, "no debe quedar ningún movimiento registrado")
}

// Caso 4: Un ajuste fija el stock en un valor absoluto, no un delta.
func TestApplyMovement_AjusteFijaValorAbsoluto(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 40)

	out, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID,
		Kind:      entity.MovementKindAdjustment,
		Quantity:  12,
		Note:      "conteo físico",
	})
	require.NoError(t, err)
	assert.Equal(t, 40, out.PriorStock)
	assert.Equal(t, 12, out.ResultingStock)
	assert.Equal(t, 12, currentStock(t, store, p.ID))
}

// Caso 5: Ajustar a cero es legítimo; a negativo no.
func TestApplyMovement_AjusteACeroPermitido(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 7)

	out, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID,
		Kind:      entity.MovementKindAdjustment,
		Quantity:  0,
	})
	require.NoError(t, err)
	assert.Equal(t, 0, out.ResultingStock)

	_, err = ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID,
		Kind:      entity.MovementKindAdjustment,
		Quantity:  -1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

// Caso 6: Entradas y salidas exigen cantidad estrictamente positiva.
func TestApplyMovement_CantidadInvalida(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 10)

	for _, kind := range []string{entity.MovementKindEntrance, entity.MovementKindExit} {
		for _, qty := range []int{0, -3} {
			_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
				ProductID: p.ID,
				Kind:      kind,
				Quantity:  qty,
			})
			assert.ErrorIs(t, err, domain.ErrInvalidQuantity, "kind=%s qty=%d", kind, qty)
		}
	}
	assert.Equal(t, 10, currentStock(t, store, p.ID))
}

// Caso 7: Tipo de movimiento desconocido.
func TestApplyMovement_TipoDesconocido(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 10)

	_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID,
		Kind:      "TRANSFER",
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Caso 8: Producto inexistente e identificación por barcode.
func TestApplyMovement_ResolucionDeProducto(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 10)

	// Por barcode (ruta del escáner)
	out, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		Barcode:  p.Barcode,
		Kind:     entity.MovementKindEntrance,
		Quantity: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, p.ID, out.ProductID)

	// Inexistente
	_, err = ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: uuid.New().String(),
		Kind:      entity.MovementKindEntrance,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	// Sin identificador
	_, err = ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		Kind:     entity.MovementKindEntrance,
		Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Caso 9: Un producto inactivo rechaza movimientos nuevos.
func TestApplyMovement_ProductoInactivoRechaza(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 10)
	require.NoError(t, store.ProductRepository().Deactivate(p.ID))

	_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID,
		Kind:      entity.MovementKindEntrance,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrProductInactive)
}

// Caso 10: El libro es consistente tras una secuencia mixta: cada movimiento
// encadena con el anterior y el contador termina igual al último resultante.
func TestApplyMovement_LibroConsistente(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 0)

	steps := []struct {
		kind string
		qty  int
	}{
		{entity.MovementKindEntrance, 20},
		{entity.MovementKindExit, 8},
		{entity.MovementKindAdjustment, 15},
		{entity.MovementKindExit, 15},
		{entity.MovementKindEntrance, 3},
	}
	for _, s := range steps {
		_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
			ProductID: p.ID,
			Kind:      s.kind,
			Quantity:  s.qty,
		})
		require.NoError(t, err, "paso %s %d", s.kind, s.qty)
	}

	history, err := ledger.HistoryByProduct(context.Background(), p.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, len(steps))

	// El historial llega del más reciente al más antiguo.
	for i := 0; i < len(history)-1; i++ {
		assert.Equal(t, history[i].PriorStock, history[i+1].ResultingStock,
			"cada movimiento debe partir del resultado del anterior")
	}
	assert.Equal(t, history[0].ResultingStock, currentStock(t, store, p.ID),
		"el contador debe ser el resultante del último movimiento")
	assert.Equal(t, 3, currentStock(t, store, p.ID))
}

// Caso 11: Dos salidas concurrentes de 6 sobre stock 10 no pueden confirmar
// ambas: exactamente una gana y la otra recibe stock insuficiente.
func TestApplyMovement_SalidasConcurrentesNoSobregiran(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = ledger.ApplyMovement(context.Background(), inventory.MovementInput{
				ProductID: p.ID,
				Kind:      entity.MovementKindExit,
				Quantity:  6,
			})
		}(i)
	}
	wg.Wait()

	var oks, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			oks++
		case errors.Is(err, domain.ErrInsufficientStock):
			insufficient++
		}
	}
	assert.Equal(t, 1, oks, "exactamente una salida debe confirmar")
	assert.Equal(t, 1, insufficient, "la otra debe fallar por stock insuficiente")
	assert.Equal(t, 4, currentStock(t, store, p.ID))

	history, err := ledger.HistoryByProduct(context.Background(), p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1, "solo la salida ganadora deja movimiento")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListMovements_FiltroPorTipo(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 0)

	for _, s := range []struct {
		kind string
		qty  int
	}{
		{entity.MovementKindEntrance, 10},
		{entity.MovementKindExit, 2},
		{entity.MovementKindEntrance, 5},
	} {
		_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
			ProductID: p.ID, Kind: s.kind, Quantity: s.qty,
		})
		require.NoError(t, err)
	}

	out, err := ledger.ListMovements(context.Background(), repositoryFilter(p.ID, entity.MovementKindEntrance))
	require.NoError(t, err)
	assert.Len(t, out.Items, 2)
	for _, m := range out.Items {
		assert.Equal(t, entity.MovementKindEntrance, m.Kind)
	}

	// Tipo inválido en el filtro
	_, err = ledger.ListMovements(context.Background(), repositoryFilter(p.ID, "BOGUS"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryByProduct_ProductoInexistente(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)

	_, err := ledger.HistoryByProduct(context.Background(), uuid.New().String(), 10)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetByID_MovimientoInexistente(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)

	_, err := ledger.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)
}

func TestListRecent_SoloVentana(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 0)

	// Movimiento viejo insertado directo en el repo (fuera de la ventana).
	old := &entity.Movement{
		ID:             uuid.New().String(),
		ProductID:      p.ID,
		Kind:           entity.MovementKindEntrance,
		Quantity:       1,
		PriorStock:     0,
		ResultingStock: 1,
		OccurredAt:     time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, store.MovementRepository().Create(old))

	_, err := ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: p.ID, Kind: entity.MovementKindEntrance, Quantity: 2,
	})
	require.NoError(t, err)

	out, err := ledger.ListRecent(context.Background(), 24)
	require.NoError(t, err)
	require.Len(t, out, 1, "el movimiento de hace 48h queda fuera de la ventana de 24h")
	assert.Equal(t, 2, out[0].Quantity)
}

// seedMovementAt inserta un movimiento directo en el repo con la marca temporal indicada.
func seedMovementAt(t *testing.T, store *memory.Store, productID string, at time.Time) {
	t.Helper()
	require.NoError(t, store.MovementRepository().Create(&entity.Movement{
		ID:             uuid.New().String(),
		ProductID:      productID,
		Kind:           entity.MovementKindEntrance,
		Quantity:       1,
		PriorStock:     0,
		ResultingStock: 1,
		OccurredAt:     at,
	}))
}

// La ventana de horas se acota a 1..720: pedir más de 720 no agranda la
// ventana, y un valor no positivo cae al default de 24.
func TestListRecent_HorasAcotadas(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)
	p := seedProduct(t, store, 0)

	seedMovementAt(t, store, p.ID, time.Now().Add(-700*time.Hour))  // dentro del máximo
	seedMovementAt(t, store, p.ID, time.Now().Add(-800*time.Hour))  // fuera incluso del máximo
	seedMovementAt(t, store, p.ID, time.Now().Add(-30*time.Hour))   // fuera del default de 24
	seedMovementAt(t, store, p.ID, time.Now().Add(-1*time.Hour))    // dentro del default

	huge, err := ledger.ListRecent(context.Background(), 100000)
	require.NoError(t, err)
	assert.Len(t, huge, 3, "pedir 100000 horas se acota a 720: el de 800h queda fuera")

	def, err := ledger.ListRecent(context.Background(), -5)
	require.NoError(t, err)
	require.Len(t, def, 1, "horas no positivas caen al default de 24")
	assert.Equal(t, 1, def[0].Quantity)
}

// Los límites de paginación se acotan: cero cae al default y los excesos al máximo.
func TestListMovements_LimiteAcotado(t *testing.T) {
	store := memory.NewStore()
	ledger := newLedger(store)

	cases := []struct {
		limit int
		want  int
	}{
		{0, inventory.DefaultListLimit},
		{-4, inventory.DefaultListLimit},
		{7, 7},
		{inventory.MaxListLimit, inventory.MaxListLimit},
		{5000, inventory.MaxListLimit},
	}
	for _, tc := range cases {
		out, err := ledger.ListMovements(context.Background(), repository.MovementFilter{Limit: tc.limit})
		require.NoError(t, err, "limit=%d", tc.limit)
		assert.Equal(t, tc.want, out.Page.Limit, "limit=%d", tc.limit)
	}
}
