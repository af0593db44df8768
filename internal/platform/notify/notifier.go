package notify

import (
	"context"
	"time"
)

// ReservationEvent es el evento que se publica en cada cambio de estado
// de una reserva (creación incluida). Los consumidores típicos son el
// panel de recepción y el servicio de notificaciones a dueños.
type ReservationEvent struct {
	ReservationID string    `json:"reservation_id"`
	PetID         string    `json:"pet_id"`
	RoomID        string    `json:"room_id,omitempty"`
	Status        string    `json:"status"`
	At            time.Time `json:"at"`
}

type Notifier interface {
	ReservationStatusChanged(ctx context.Context, ev ReservationEvent) error
}

// Nop descarta los eventos. Default cuando no hay broker configurado.
type Nop struct{}

func (Nop) ReservationStatusChanged(context.Context, ReservationEvent) error { return nil }
