package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: store compartido + TxRunner con snapshot/rollback.
// Las transacciones se serializan con txMu (equivalente al aislamiento de la
// BD real) y AdjustStock es check-and-apply atómico, como la sentencia
// server-side de PostgreSQL.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu        sync.Mutex
	txMu      sync.Mutex
	products  map[string]*entity.Product
	movements map[string]*entity.Movement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:  make(map[string]*entity.Product),
		movements: make(map[string]*entity.Movement),
	}
}

func (s *fakeStore) clone() (map[string]*entity.Product, map[string]*entity.Movement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps := make(map[string]*entity.Product, len(s.products))
	for k, v := range s.products {
		c := *v
		ps[k] = &c
	}
	ms := make(map[string]*entity.Movement, len(s.movements))
	for k, v := range s.movements {
		c := *v
		ms[k] = &c
	}
	return ps, ms
}

func (s *fakeStore) restore(ps map[string]*entity.Product, ms map[string]*entity.Movement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = ps
	s.movements = ms
}

func (s *fakeStore) seedProduct(id string, stock int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[id] = &entity.Product{ID: id, SKU: "SKU-" + id, Name: "Producto " + id, Stock: stock}
}

func (s *fakeStore) stockOf(t *testing.T, id string) int64 {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	require.True(t, ok, "producto %s debe existir", id)
	return p.Stock
}

func (s *fakeStore) movementCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.movements)
}

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(p *entity.Product) error { return nil }
func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[id]; ok {
		c := *p
		return &c, nil
	}
	return nil, nil
}
func (r *fakeProductRepo) GetBySKU(string) (*entity.Product, error) { return nil, nil }
func (r *fakeProductRepo) Update(*entity.Product) error             { return nil }
func (r *fakeProductRepo) List(string, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *fakeProductRepo) Delete(string) error { return nil }

// AdjustStock replica la semántica de la sentencia atómica:
// rechaza sin escribir si el resultado quedaría negativo.
func (r *fakeProductRepo) AdjustStock(productID string, delta int64) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[productID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	if p.Stock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.Stock += delta
	return p.Stock, nil
}

type fakeMovementRepo struct{ store *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.Movement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *m
	r.store.movements[m.ID] = &c
	return nil
}
func (r *fakeMovementRepo) GetByID(id string) (*entity.Movement, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if m, ok := r.store.movements[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}
func (r *fakeMovementRepo) Update(m *entity.Movement) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c := *m
	r.store.movements[m.ID] = &c
	return nil
}
func (r *fakeMovementRepo) Delete(id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.movements, id)
	return nil
}
func (r *fakeMovementRepo) List(string, string, *time.Time, *time.Time, int, int) ([]*entity.Movement, error) {
	return nil, nil
}
func (r *fakeMovementRepo) CountByProduct(string) (int64, error) { return 0, nil }

type fakeTxRunner struct{ store *fakeStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()
	ps, ms := r.store.clone()
	if err := fn(&fakeMovementRepo{r.store}, &fakeProductRepo{r.store}); err != nil {
		r.store.restore(ps, ms)
		return err
	}
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []inventory.MovementEvent
}

func (p *recordingPublisher) PublishMovementEvent(_ context.Context, ev inventory.MovementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) last(t *testing.T) inventory.MovementEvent {
	t.Helper()
	p.mu.Lock()
	defer p.mu.Unlock()
	require.NotEmpty(t, p.events, "debe haberse publicado al menos un evento")
	return p.events[len(p.events)-1]
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

const testUserID = "00000000-0000-0000-0000-0000000000aa"

func newTestLedger() (*inventory.LedgerUseCase, *fakeStore, *recordingPublisher) {
	store := newFakeStore()
	pub := &recordingPublisher{}
	uc := inventory.NewLedgerUseCase(&fakeTxRunner{store}, &fakeMovementRepo{store}, pub, zerolog.Nop())
	return uc, store, pub
}

func arrivalReq(productID string, qty int64) dto.MovementRequest {
	d := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	return dto.MovementRequest{ProductID: productID, Type: entity.MovementTypeArrival, Quantity: qty, ArrivalDate: &d}
}

func deliveryReq(productID string, qty int64) dto.MovementRequest {
	d := time.Date(2026, 8, 21, 0, 0, 0, 0, time.UTC)
	return dto.MovementRequest{
		ProductID: productID, Type: entity.MovementTypeDelivery, Quantity: qty,
		DeliveryDate: &d, DeliveryCompany: "Servientrega", OrderNumber: "ORD-1001",
	}
}

func pickupReq(productID string, qty int64) dto.MovementRequest {
	d := time.Date(2026, 8, 22, 0, 0, 0, 0, time.UTC)
	return dto.MovementRequest{
		ProductID: productID, Type: entity.MovementTypePickup, Quantity: qty,
		PickupBy: "Cliente Pérez", PickupDate: &d, OrderNumber: "ORD-2002", SKU: "SKU-p1",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// CreateMovement
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateMovement_ArrivalSumaExactamenteLaCantidad(t *testing.T) {
	uc, store, pub := newTestLedger()
	store.seedProduct("p1", 10)

	out, err := uc.CreateMovement(context.Background(), testUserID, arrivalReq("p1", 5))
	require.NoError(t, err)

	assert.Equal(t, int64(15), store.stockOf(t, "p1"), "ARRIVAL de 5 sobre 10 debe dejar 15")
	assert.Equal(t, int64(15), out.Stock)
	assert.Equal(t, "created", pub.last(t).Action)
	assert.Equal(t, int64(15), pub.last(t).StockAfter)
}

func TestCreateMovement_DeliveryRestaExactamenteLaCantidad(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)

	_, err := uc.CreateMovement(context.Background(), testUserID, deliveryReq("p1", 4))
	require.NoError(t, err)
	assert.Equal(t, int64(6), store.stockOf(t, "p1"))
}

func TestCreateMovement_PickupSinStockSuficiente_RechazaSinEscribir(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 3)

	_, err := uc.CreateMovement(context.Background(), testUserID, pickupReq("p1", 5))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), store.stockOf(t, "p1"), "el stock no debe cambiar ante un rechazo")
	assert.Equal(t, 0, store.movementCount(), "no debe insertarse el movimiento rechazado")
}

func TestCreateMovement_ProductoInexistente_RetornaNotFound(t *testing.T) {
	uc, store, _ := newTestLedger()

	_, err := uc.CreateMovement(context.Background(), testUserID, arrivalReq("no-existe", 5))
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, store.movementCount())
}

func TestCreateMovement_ArrivalSinFecha_ValidationErrorSinEfectos(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)

	in := arrivalReq("p1", 5)
	in.ArrivalDate = nil
	_, err := uc.CreateMovement(context.Background(), testUserID, in)
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr), "debe ser un ValidationError")
	assert.Contains(t, vErr.Fields, "arrival_date")
	assert.Equal(t, int64(10), store.stockOf(t, "p1"), "la validación no debe tocar el stock")
	assert.Equal(t, 0, store.movementCount())
}

func TestCreateMovement_ValidacionListaTodosLosCamposFaltantes(t *testing.T) {
	uc, _, _ := newTestLedger()

	// DELIVERY sin fecha, transportadora ni orden, cantidad inválida, sin producto.
	_, err := uc.CreateMovement(context.Background(), testUserID, dto.MovementRequest{
		Type: entity.MovementTypeDelivery,
	})
	require.Error(t, err)

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	for _, campo := range []string{"product_id", "quantity", "delivery_date", "delivery_company", "order_number"} {
		assert.Contains(t, vErr.Fields, campo)
	}
}

func TestCreateMovement_TipoDesconocido_ValidationError(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)

	_, err := uc.CreateMovement(context.Background(), testUserID, dto.MovementRequest{
		ProductID: "p1", Type: "TRANSFER", Quantity: 5,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, int64(10), store.stockOf(t, "p1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// DeleteMovement — el reverso es inverso exacto de la creación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteMovement_RestauraElStockPrevio(t *testing.T) {
	uc, store, pub := newTestLedger()
	store.seedProduct("p1", 10)

	out, err := uc.CreateMovement(context.Background(), testUserID, deliveryReq("p1", 7))
	require.NoError(t, err)
	require.Equal(t, int64(3), store.stockOf(t, "p1"))

	require.NoError(t, uc.DeleteMovement(context.Background(), out.ID))
	assert.Equal(t, int64(10), store.stockOf(t, "p1"),
		"borrar el movimiento debe dejar el stock como si nunca hubiera existido")
	assert.Equal(t, 0, store.movementCount())
	assert.Equal(t, "deleted", pub.last(t).Action)
}

func TestDeleteMovement_Inexistente_RetornaNotFound(t *testing.T) {
	uc, _, _ := newTestLedger()
	err := uc.DeleteMovement(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteMovement_ReversoDeArrivalConStockYaConsumido_Rechaza(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 0)

	arr, err := uc.CreateMovement(context.Background(), testUserID, arrivalReq("p1", 5))
	require.NoError(t, err)
	_, err = uc.CreateMovement(context.Background(), testUserID, pickupReq("p1", 4))
	require.NoError(t, err)
	require.Equal(t, int64(1), store.stockOf(t, "p1"))

	// Revertir el ARRIVAL dejaría el stock en −4: debe rechazarse completo.
	err = uc.DeleteMovement(context.Background(), arr.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(1), store.stockOf(t, "p1"))
	assert.Equal(t, 2, store.movementCount(), "el movimiento no debe borrarse si el reverso falla")
}

// ──────────────────────────────────────────────────────────────────────────────
// UpdateMovement — delta neto en un solo ajuste
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateMovement_ComponeIgualQueBorrarYCrear(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)

	// (ARRIVAL, 5): 10 → 15
	out, err := uc.CreateMovement(context.Background(), testUserID, arrivalReq("p1", 5))
	require.NoError(t, err)
	require.Equal(t, int64(15), store.stockOf(t, "p1"))

	// Editar a (DELIVERY, 3): estado final = 10 − 3 = 7, solo cuenta la nueva contribución.
	updated, err := uc.UpdateMovement(context.Background(), out.ID, deliveryReq("p1", 3))
	require.NoError(t, err)
	assert.Equal(t, int64(7), store.stockOf(t, "p1"))
	assert.Equal(t, int64(7), updated.Stock)
	assert.Equal(t, 1, store.movementCount(), "la edición no debe duplicar el movimiento")
}

func TestUpdateMovement_MismaDireccionAplicaSoloLaDiferencia(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)

	out, err := uc.CreateMovement(context.Background(), testUserID, deliveryReq("p1", 2))
	require.NoError(t, err)
	require.Equal(t, int64(8), store.stockOf(t, "p1"))

	// DELIVERY 2 → DELIVERY 6: delta neto −4.
	_, err = uc.UpdateMovement(context.Background(), out.ID, deliveryReq("p1", 6))
	require.NoError(t, err)
	assert.Equal(t, int64(4), store.stockOf(t, "p1"))
}

func TestUpdateMovement_NetoInsuficiente_NoDejaEstadoIntermedio(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)

	out, err := uc.CreateMovement(context.Background(), testUserID, deliveryReq("p1", 2))
	require.NoError(t, err)
	require.Equal(t, int64(8), store.stockOf(t, "p1"))

	// DELIVERY 2 → DELIVERY 20: neto −18 sobre 8 → rechazo sin estado parcial
	// (con el esquema de dos pasos del diseño original quedaría el reverso aplicado).
	_, err = uc.UpdateMovement(context.Background(), out.ID, deliveryReq("p1", 20))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(8), store.stockOf(t, "p1"), "el rechazo no debe dejar aplicado el reverso")

	mov, err := uc.GetMovement(out.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), mov.Quantity, "el movimiento debe conservar su cantidad original")
}

func TestUpdateMovement_CambioDeProducto_MueveElDeltaEntreProductos(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)
	store.seedProduct("p2", 10)

	out, err := uc.CreateMovement(context.Background(), testUserID, deliveryReq("p1", 4))
	require.NoError(t, err)
	require.Equal(t, int64(6), store.stockOf(t, "p1"))

	_, err = uc.UpdateMovement(context.Background(), out.ID, deliveryReq("p2", 4))
	require.NoError(t, err)
	assert.Equal(t, int64(10), store.stockOf(t, "p1"), "el producto original recupera su stock")
	assert.Equal(t, int64(6), store.stockOf(t, "p2"), "el nuevo producto absorbe el delta")
}

func TestUpdateMovement_Inexistente_RetornaNotFound(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)

	_, err := uc.UpdateMovement(context.Background(), "no-existe", arrivalReq("p1", 5))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenario completo del invariante (10 → 15 → 15 → 0 → 15)
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_EscenarioCompleto(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)
	ctx := context.Background()

	// ARRIVAL 5 → 15
	_, err := uc.CreateMovement(ctx, testUserID, arrivalReq("p1", 5))
	require.NoError(t, err)
	assert.Equal(t, int64(15), store.stockOf(t, "p1"))

	// DELIVERY 20 → rechazo, sigue 15
	_, err = uc.CreateMovement(ctx, testUserID, deliveryReq("p1", 20))
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(15), store.stockOf(t, "p1"))

	// DELIVERY 15 → 0
	out, err := uc.CreateMovement(ctx, testUserID, deliveryReq("p1", 15))
	require.NoError(t, err)
	assert.Equal(t, int64(0), store.stockOf(t, "p1"))

	// borrar ese DELIVERY → 15
	require.NoError(t, uc.DeleteMovement(ctx, out.ID))
	assert.Equal(t, int64(15), store.stockOf(t, "p1"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia: dos PICKUP de 6 sobre stock 10 → a lo sumo uno gana
// ──────────────────────────────────────────────────────────────────────────────

func TestLedger_PickupsConcurrentes_NoPierdenActualizaciones(t *testing.T) {
	uc, store, _ := newTestLedger()
	store.seedProduct("p1", 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.CreateMovement(context.Background(), testUserID, pickupReq("p1", 6))
		}(i)
	}
	wg.Wait()

	oks := 0
	for _, err := range errs {
		if err == nil {
			oks++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, oks, "exactamente un PICKUP de 6 cabe en stock 10")
	assert.Equal(t, int64(4), store.stockOf(t, "p1"))
	assert.GreaterOrEqual(t, store.stockOf(t, "p1"), int64(0), "el stock nunca baja de cero")
}
