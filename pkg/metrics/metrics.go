// Package metrics define los contadores Prometheus de la aplicación.
// Se registran en el registry por defecto y se exponen en /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MovementsRegistered movimientos de stock confirmados, por tipo.
	MovementsRegistered = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "movements_registered_total",
		Help:      "Movimientos de stock confirmados, por tipo (ARRIVAL, PICKUP, DELIVERY).",
	}, []string{"type"})

	// StockRejections operaciones rechazadas por stock insuficiente.
	StockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "stock_rejections_total",
		Help:      "Operaciones del ledger rechazadas porque dejarían el stock en negativo.",
	})

	// DeliveryTransitions cambios de estado de entregas, por estado destino.
	DeliveryTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "almacen",
		Name:      "delivery_transitions_total",
		Help:      "Transiciones de estado del workflow de entregas, por estado destino.",
	}, []string{"to"})
)
