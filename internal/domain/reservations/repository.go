package reservations

import (
	"context"
	"time"

	"pet-boarding/internal/domain/rooms"
)

type Repository interface {
	Create(ctx context.Context, rv Reservation) error
	Update(ctx context.Context, rv Reservation) error
	GetByID(ctx context.Context, id string) (Reservation, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Reservation, error)
	ListByPet(ctx context.Context, petID string) ([]Reservation, error)

	// ListConflicting devuelve reservas Confirmed/Active de la
	// habitación cuyo rango se intersecta con stay. excludeID (si no
	// es vacío) se omite del resultado: edición in-place de fechas.
	ListConflicting(ctx context.Context, roomID string, stay StayRange, excludeID string) ([]Reservation, error)

	// CheckIn pasa la reserva a Active y su habitación a Occupied en
	// una sola transacción. Falla con ErrRoomNotAvailable si la
	// habitación no está Available (invariante Available → Occupied).
	CheckIn(ctx context.Context, reservationID, roomID string, at time.Time) error

	// CloseOut persiste la reserva (ya en su estado final) y deja la
	// habitación en roomStatus, atómicamente.
	CloseOut(ctx context.Context, rv Reservation, roomStatus rooms.RoomStatus) error

	// DeleteReleasing borra la reserva y libera su habitación en la
	// misma transacción (borrado de una estadía Active).
	DeleteReleasing(ctx context.Context, id, roomID string, roomStatus rooms.RoomStatus, at time.Time) error

	CountByStatus(ctx context.Context) (map[ReservationStatus]int, error)

	// SumTotalsBetween suma TotalCents de reservas creadas en
	// [from, to) y cuántas son. Alimenta las métricas mensuales.
	SumTotalsBetween(ctx context.Context, from, to time.Time) (totalCents int64, count int, err error)
}
