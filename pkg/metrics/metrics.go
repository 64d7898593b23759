// Package metrics define y registra las métricas Prometheus del servicio.
// Todas se registran en el registro por defecto al importar el paquete.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "bodega"

// ── Inventario ────────────────────────────────────────────────────────────────

// InventoryMutationsTotal mutaciones confirmadas por tipo (create, add, reduce, replace, sale, delete).
var InventoryMutationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inventory_mutations_total",
		Help:      "Total de mutaciones de inventario confirmadas, por tipo.",
	},
	[]string{"kind"},
)

// ── Ventas ────────────────────────────────────────────────────────────────────

// SalesTotal intentos de venta por resultado (committed, rejected).
var SalesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sales_total",
		Help:      "Total de ventas confirmadas o rechazadas.",
	},
	[]string{"result"},
)

// SoldUnitsTotal unidades vendidas en ventas confirmadas.
var SoldUnitsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "sold_units_total",
		Help:      "Total de unidades vendidas.",
	},
)

// ── Roles ─────────────────────────────────────────────────────────────────────

// RoleRequestsTotal eventos del flujo de roles (submitted, approved, rejected, direct_change).
var RoleRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_requests_total",
		Help:      "Total de eventos del flujo de solicitudes de rol.",
	},
	[]string{"action"},
)

// ── Worker ────────────────────────────────────────────────────────────────────

// RetentionDeletedTotal filas borradas por el barrido de retención.
var RetentionDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "retention_deleted_total",
		Help:      "Filas borradas por el barrido de retención.",
	},
	[]string{"kind"},
)

// CredentialDeletionsTotal resultados del borrado de credenciales (deleted, failed).
var CredentialDeletionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credential_deletions_total",
		Help:      "Resultados del procesamiento del outbox de credenciales.",
	},
	[]string{"result"},
)

// ── HTTP ──────────────────────────────────────────────────────────────────────

// HTTPRequestsTotal peticiones por método, ruta y código.
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total de peticiones HTTP.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration latencia de peticiones.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duración de las peticiones HTTP.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)
