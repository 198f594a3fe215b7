package ledger_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/ledger"
)

// ──────────────────────────────────────────────────────────────────────────────
// SignOf — el signo se deriva del tipo, nunca lo aporta el caller
// ──────────────────────────────────────────────────────────────────────────────

func TestSignOf_ArrivalEsPositivo(t *testing.T) {
	sign, err := ledger.SignOf(entity.MovementTypeArrival)
	require.NoError(t, err)
	assert.Equal(t, int64(+1), sign, "ARRIVAL debe sumar stock")
}

func TestSignOf_PickupYDeliverySonNegativos(t *testing.T) {
	for _, tipo := range []string{entity.MovementTypePickup, entity.MovementTypeDelivery} {
		sign, err := ledger.SignOf(tipo)
		require.NoError(t, err, tipo)
		assert.Equal(t, int64(-1), sign, "%s debe restar stock", tipo)
	}
}

func TestSignOf_TipoDesconocido_RetornaValidationError(t *testing.T) {
	_, err := ledger.SignOf("TRANSFER")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"un tipo desconocido debe reportarse como entrada inválida")
}

// ──────────────────────────────────────────────────────────────────────────────
// DeltaOf y Reversal
// ──────────────────────────────────────────────────────────────────────────────

func TestDeltaOf_AplicaSignoALaCantidad(t *testing.T) {
	cases := []struct {
		tipo     string
		qty      int64
		expected int64
	}{
		{entity.MovementTypeArrival, 5, +5},
		{entity.MovementTypePickup, 3, -3},
		{entity.MovementTypeDelivery, 10, -10},
	}
	for _, c := range cases {
		delta, err := ledger.DeltaOf(c.tipo, c.qty)
		require.NoError(t, err, c.tipo)
		assert.Equal(t, c.expected, delta)
	}
}

func TestDeltaOf_CantidadNoPositiva_RetornaValidationError(t *testing.T) {
	for _, qty := range []int64{0, -1} {
		_, err := ledger.DeltaOf(entity.MovementTypeArrival, qty)
		require.Error(t, err, "cantidad %d debe rechazarse", qty)

		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr))
		assert.Contains(t, vErr.Fields, "quantity",
			"el error debe nombrar el campo quantity")
	}
}

func TestReversal_EsInversoExacto(t *testing.T) {
	delta, err := ledger.DeltaOf(entity.MovementTypeDelivery, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(0), delta+ledger.Reversal(delta),
		"reverso + delta original debe anularse")
}
