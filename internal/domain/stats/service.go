package stats

import (
	"context"

	"pet-boarding/internal/domain/reservations"
	"pet-boarding/internal/domain/rooms"
	"pet-boarding/internal/platform/metrics"
)

// Service es el agregador de solo-lectura del dashboard. Recalcula
// todo en cada llamada; al volumen esperado no hace falta mantener
// contadores incrementales (sería lo primero a materializar si crece).
type Service struct {
	rooms        *rooms.Service
	reservations *reservations.Service
	metrics      *metrics.Metrics
}

func NewService(roomsSvc *rooms.Service, resSvc *reservations.Service, m *metrics.Metrics) *Service {
	return &Service{
		rooms:        roomsSvc,
		reservations: resSvc,
		metrics:      m,
	}
}

type Dashboard struct {
	RoomsByStatus        map[rooms.RoomStatus]int               `json:"rooms_by_status"`
	ReservationsByStatus map[reservations.ReservationStatus]int `json:"reservations_by_status"`

	// Ocupación sobre habitaciones en servicio (excluye Maintenance y
	// OutOfService del denominador).
	RoomsInService int     `json:"rooms_in_service"`
	RoomsOccupied  int     `json:"rooms_occupied"`
	OccupancyRate  float64 `json:"occupancy_rate"`

	MonthReservations int   `json:"month_reservations"`
	MonthTotalCents   int64 `json:"month_total_cents"`
	MonthAvgCents     int64 `json:"month_avg_cents"`
}

func (s *Service) Dashboard(ctx context.Context) (Dashboard, error) {
	roomCounts, err := s.rooms.Statistics(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	resStats, err := s.reservations.Stats(ctx)
	if err != nil {
		return Dashboard{}, err
	}

	d := Dashboard{
		RoomsByStatus:        roomCounts,
		ReservationsByStatus: resStats.ByStatus,
		MonthReservations:    resStats.MonthCount,
		MonthTotalCents:      resStats.MonthTotalCents,
		MonthAvgCents:        resStats.MonthAvgCents,
	}

	for st, n := range roomCounts {
		if st.Bookable() {
			d.RoomsInService += n
		}
		if st == rooms.StatusOccupied {
			d.RoomsOccupied = n
		}
	}
	if d.RoomsInService > 0 {
		d.OccupancyRate = float64(d.RoomsOccupied) / float64(d.RoomsInService)
	}

	// Refrescar gauges de prometheus con la foto actual.
	for st, n := range roomCounts {
		s.metrics.SetRoomsByStatus(string(st), n)
	}
	for st, n := range resStats.ByStatus {
		s.metrics.SetReservationsByStatus(string(st), n)
	}

	return d, nil
}
