package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa los contadores/gauges del motor de reservas.
// Usa un registry propio para poder levantar varios routers en tests
// sin chocar con el registry global.
type Metrics struct {
	reg *prometheus.Registry

	reservationsCreated  prometheus.Counter
	bookingConflicts     prometheus.Counter
	roomsByStatus        *prometheus.GaugeVec
	reservationsByStatus *prometheus.GaugeVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		reg: reg,
		reservationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boarding_reservations_created_total",
			Help: "Reservas creadas (estado inicial Pending).",
		}),
		bookingConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "boarding_booking_conflicts_total",
			Help: "Solicitudes de reserva rechazadas por falta de disponibilidad.",
		}),
		roomsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "boarding_rooms_by_status",
			Help: "Habitaciones por estado actual.",
		}, []string{"status"}),
		reservationsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "boarding_reservations_by_status",
			Help: "Reservas por estado actual.",
		}, []string{"status"}),
	}

	reg.MustRegister(
		m.reservationsCreated,
		m.bookingConflicts,
		m.roomsByStatus,
		m.reservationsByStatus,
	)

	return m
}

// Handler expone el endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Los métodos toleran receiver nil para que los servicios puedan
// construirse sin métricas (tests, herramientas).

func (m *Metrics) ReservationCreated() {
	if m == nil {
		return
	}
	m.reservationsCreated.Inc()
}

func (m *Metrics) BookingConflict() {
	if m == nil {
		return
	}
	m.bookingConflicts.Inc()
}

func (m *Metrics) SetRoomsByStatus(status string, n int) {
	if m == nil {
		return
	}
	m.roomsByStatus.WithLabelValues(status).Set(float64(n))
}

func (m *Metrics) SetReservationsByStatus(status string, n int) {
	if m == nil {
		return
	}
	m.reservationsByStatus.WithLabelValues(status).Set(float64(n))
}
