package product_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/engenho/estoque-api/internal/application/catalog"
	"github.com/engenho/estoque-api/internal/application/dto"
	"github.com/engenho/estoque-api/internal/application/inventory"
	"github.com/engenho/estoque-api/internal/application/product"
	"github.com/engenho/estoque-api/internal/domain"
	"github.com/engenho/estoque-api/internal/domain/entity"
	"github.com/engenho/estoque-api/internal/domain/repository"
	"github.com/engenho/estoque-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store   *memory.Store
	uc      *product.UseCase
	ledger  *inventory.LedgerUseCase
	typeID  string
	colorID string
}

// newFixture construye el caso de uso con un tipo "03" y un color "05" sembrados.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	catalogUC := catalog.NewUseCase(store.TypeRepository(), store.ColorRepository())

	ptype, err := catalogUC.CreateType(context.Background(), dto.CreateCatalogRequest{Code: "03", Name: "Camiseta"})
	require.NoError(t, err)
	color, err := catalogUC.CreateColor(context.Background(), dto.CreateCatalogRequest{Code: "05", Name: "Azul"})
	require.NoError(t, err)

	return &fixture{
		store:   store,
		uc:      product.NewUseCase(store.TxRunner(), store.ProductRepository(), store.TypeRepository(), store.ColorRepository()),
		ledger:  inventory.NewLedgerUseCase(store.TxRunner(), store.ProductRepository(), store.MovementRepository()),
		typeID:  ptype.ID,
		colorID: color.ID,
	}
}

func (f *fixture) createRequest() dto.CreateProductRequest {
	return dto.CreateProductRequest{
		Name:         "Camiseta azul",
		TypeID:       f.typeID,
		ColorID:      f.colorID,
		CostPrice:    decimal.NewFromInt(10),
		SalePrice:    decimal.NewFromInt(15),
		MinimumStock: 2,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de creación
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: El primer producto recibe el código "0001" y un barcode de 8
// caracteres compuesto por código + tipo + color.
func TestCreate_GeneraCodigoYBarcode(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)
	require.NotNil(t, out)

	assert.Equal(t, "0001", out.ProductCode)
	assert.Equal(t, "00010305", out.Barcode)
	assert.Len(t, out.Barcode, 8)
	assert.True(t, out.Active)
}

// Caso 2: Los códigos son secuenciales entre creaciones.
func TestCreate_CodigosSecuenciales(t *testing.T) {
	f := newFixture(t)

	for i, want := range []string{"0001", "0002", "0003"} {
		in := f.createRequest()
		out, err := f.uc.Create(context.Background(), in)
		require.NoError(t, err, "creación %d", i+1)
		assert.Equal(t, want, out.ProductCode)
	}
}

// Caso 3: Con stock inicial positivo se registra exactamente una entrada
// sintética con nota "stock inicial" y actor "system".
func TestCreate_StockInicialRegistraEntrada(t *testing.T) {
	f := newFixture(t)

	in := f.createRequest()
	in.InitialStock = 20
	out, err := f.uc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 20, out.CurrentStock)

	history, err := f.ledger.HistoryByProduct(context.Background(), out.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	mov := history[0]
	assert.Equal(t, entity.MovementKindEntrance, mov.Kind)
	assert.Equal(t, 0, mov.PriorStock)
	assert.Equal(t, 20, mov.ResultingStock)
	assert.Equal(t, "stock inicial", mov.Note)
	assert.Equal(t, "system", mov.Actor)
}

// Caso 4: Con stock inicial cero no se registra ningún movimiento.
func TestCreate_SinStockInicialSinMovimiento(t *testing.T) {
	f := newFixture(t)

	out, err := f.uc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)
	assert.Equal(t, 0, out.CurrentStock)

	history, err := f.ledger.HistoryByProduct(context.Background(), out.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, history)
}

// Caso 5: Tipo o color inexistente.
func TestCreate_TipoOColorInexistente(t *testing.T) {
	f := newFixture(t)

	in := f.createRequest()
	in.TypeID = uuid.New().String()
	_, err := f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrTypeNotFound)

	in = f.createRequest()
	in.ColorID = uuid.New().String()
	_, err = f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrColorNotFound)
}

// Caso 6: Validaciones de entrada: nombre requerido, stocks no negativos,
// venta por debajo del costo rechazada.
func TestCreate_Validaciones(t *testing.T) {
	f := newFixture(t)

	in := f.createRequest()
	in.Name = ""
	_, err := f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = f.createRequest()
	in.InitialStock = -1
	_, err = f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	in = f.createRequest()
	in.CostPrice = decimal.NewFromInt(20)
	in.SalePrice = decimal.NewFromInt(15)
	_, err = f.uc.Create(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "venta por debajo del costo")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de colisión de barcode
// ──────────────────────────────────────────────────────────────────────────────

// collidingTxRunner envuelve el runner real simulando un creador concurrente:
// en las primeras `collisions` transacciones deja confirmado el producto del
// rival (la tx real corre y comitea) pero reporta colisión de barcode, como si
// el constraint único hubiera disparado contra esa escritura ganadora.
type collidingTxRunner struct {
	inner      inventory.TxRunner
	collisions int
	calls      int
}

func (r *collidingTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movementRepo repository.MovementRepository,
) error) error {
	r.calls++
	err := r.inner.Run(ctx, fn)
	if err == nil && r.collisions > 0 {
		r.collisions--
		return domain.ErrBarcodeCollision
	}
	return err
}

// Caso C1: Ante una colisión el caso de uso reintenta exactamente una vez con
// un código recién derivado y absorbe el error.
func TestCreate_ReintentaUnaVezTrasColision(t *testing.T) {
	f := newFixture(t)
	runner := &collidingTxRunner{inner: f.store.TxRunner(), collisions: 1}
	uc := product.NewUseCase(runner, f.store.ProductRepository(), f.store.TypeRepository(), f.store.ColorRepository())

	out, err := uc.Create(context.Background(), f.createRequest())
	require.NoError(t, err, "una sola colisión debe absorberse con el reintento")

	assert.Equal(t, 2, runner.calls, "exactamente un reintento: dos transacciones en total")
	assert.Equal(t, "0002", out.ProductCode, "el reintento deriva un código fresco tras el del rival")
	assert.Equal(t, "00020305", out.Barcode)
}

// Caso C2: Una segunda colisión consecutiva ya no se reintenta y sube al caller.
func TestCreate_SegundaColisionSubeAlCaller(t *testing.T) {
	f := newFixture(t)
	runner := &collidingTxRunner{inner: f.store.TxRunner(), collisions: 2}
	uc := product.NewUseCase(runner, f.store.ProductRepository(), f.store.TypeRepository(), f.store.ColorRepository())

	_, err := uc.Create(context.Background(), f.createRequest())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrBarcodeCollision)
	assert.Equal(t, 2, runner.calls, "nunca más de dos intentos")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de consulta y actualización
// ──────────────────────────────────────────────────────────────────────────────

func TestGetByBarcode(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	out, err := f.uc.GetByBarcode(context.Background(), created.Barcode)
	require.NoError(t, err)
	assert.Equal(t, created.ID, out.ID)

	_, err = f.uc.GetByBarcode(context.Background(), "99999999")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

// Caso 7: La actualización es parcial y nunca toca código ni barcode.
func TestUpdate_CodigoYBarcodeCongelados(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	name := "Camiseta azul XL"
	out, err := f.uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, name, out.Name)
	assert.Equal(t, created.ProductCode, out.ProductCode, "el código no cambia tras emitirse")
	assert.Equal(t, created.Barcode, out.Barcode, "el barcode no cambia tras emitirse")
}

func TestUpdate_RevalidaPrecios(t *testing.T) {
	f := newFixture(t)

	created, err := f.uc.Create(context.Background(), f.createRequest())
	require.NoError(t, err)

	bad := decimal.NewFromInt(5) // por debajo del costo de 10
	_, err = f.uc.Update(context.Background(), created.ID, dto.UpdateProductRequest{SalePrice: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Caso 8: Desactivar es soft delete: el producto deja de aceptar movimientos
// pero conserva su historial.
func TestDeactivate_RechazaMovimientosConservaHistorial(t *testing.T) {
	f := newFixture(t)

	in := f.createRequest()
	in.InitialStock = 5
	created, err := f.uc.Create(context.Background(), in)
	require.NoError(t, err)

	require.NoError(t, f.uc.Deactivate(context.Background(), created.ID))

	_, err = f.ledger.ApplyMovement(context.Background(), inventory.MovementInput{
		ProductID: created.ID,
		Kind:      entity.MovementKindEntrance,
		Quantity:  1,
	})
	assert.ErrorIs(t, err, domain.ErrProductInactive)

	history, err := f.ledger.HistoryByProduct(context.Background(), created.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, 1, "el historial sobrevive a la desactivación")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestListLowStock(t *testing.T) {
	f := newFixture(t)

	low := f.createRequest()
	low.InitialStock = 1
	low.MinimumStock = 5
	lowCreated, err := f.uc.Create(context.Background(), low)
	require.NoError(t, err)

	ok := f.createRequest()
	ok.InitialStock = 50
	ok.MinimumStock = 5
	_, err = f.uc.Create(context.Background(), ok)
	require.NoError(t, err)

	out, err := f.uc.ListLowStock(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, lowCreated.ID, out[0].ID)
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)

	a := f.createRequest()
	a.InitialStock = 10
	_, err := f.uc.Create(context.Background(), a)
	require.NoError(t, err)

	b := f.createRequest()
	bCreated, err := f.uc.Create(context.Background(), b) // stock 0 → bajo y cero
	require.NoError(t, err)

	c := f.createRequest()
	cCreated, err := f.uc.Create(context.Background(), c)
	require.NoError(t, err)
	require.NoError(t, f.uc.Deactivate(context.Background(), cCreated.ID))

	out, err := f.uc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalProducts)
	assert.Equal(t, 2, out.ActiveProducts)
	assert.Equal(t, 1, out.InactiveProducts)
	assert.Equal(t, 1, out.LowStock, "solo el producto activo con stock %d cuenta", bCreated.CurrentStock)
	assert.Equal(t, 1, out.ZeroStock)
}
