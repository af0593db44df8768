package reservations

import (
	"context"

	"pet-boarding/internal/domain/rooms"
)

// CameraEligibility es la vista derivada que consume el monitoreo por
// cámara. No se almacena: se recalcula por consulta.
type CameraEligibility struct {
	Eligible      bool
	ReservationID string
	RoomID        string
	RoomNumber    string
}

// CameraEligibilityFor: una mascota es elegible si tiene una reserva
// Confirmed o Active en una habitación IndividualWithCamera cuyo rango
// cubre "ahora" (o es indefinida). Usa el reloj inyectado del servicio.
func (s *Service) CameraEligibilityFor(ctx context.Context, petID string) (CameraEligibility, error) {
	items, err := s.ListByPet(ctx, petID)
	if err != nil {
		return CameraEligibility{}, err
	}

	today := DateOnly(s.now())

	for _, rv := range items {
		if rv.Status != StatusConfirmed && rv.Status != StatusActive {
			continue
		}
		if !rv.Stay().Covers(today) {
			continue
		}

		rm, err := s.rooms.GetByID(ctx, rv.RoomID)
		if err != nil {
			continue
		}
		if rm.Type != rooms.TypeIndividualWithCamera {
			continue
		}

		return CameraEligibility{
			Eligible:      true,
			ReservationID: rv.ID,
			RoomID:        rm.ID,
			RoomNumber:    rm.Number,
		}, nil
	}

	return CameraEligibility{}, nil
}
