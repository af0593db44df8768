package rooms

import (
	"strings"
	"time"
)

// RoomType define los tipos de habitación de la instalación.
// @Enum Individual, IndividualWithCamera, SpecialCare
type RoomType string

const (
	TypeIndividual           RoomType = "Individual"
	TypeIndividualWithCamera RoomType = "IndividualWithCamera"
	TypeSpecialCare          RoomType = "SpecialCare"
)

func ParseRoomType(s string) (RoomType, bool) {
	switch RoomType(strings.TrimSpace(s)) {
	case TypeIndividual:
		return TypeIndividual, true
	case TypeIndividualWithCamera:
		return TypeIndividualWithCamera, true
	case TypeSpecialCare:
		return TypeSpecialCare, true
	default:
		return "", false
	}
}

// RoomStatus es el estado operativo actual de la habitación. Es la
// fuente de verdad para saber si puede pasar a Occupied: solo una
// habitación Available admite un check-in.
// @Enum Available, Occupied, Cleaning, Maintenance, OutOfService
type RoomStatus string

const (
	StatusAvailable    RoomStatus = "Available"
	StatusOccupied     RoomStatus = "Occupied"
	StatusCleaning     RoomStatus = "Cleaning"
	StatusMaintenance  RoomStatus = "Maintenance"
	StatusOutOfService RoomStatus = "OutOfService"
)

func ParseRoomStatus(s string) (RoomStatus, bool) {
	switch RoomStatus(strings.TrimSpace(s)) {
	case StatusAvailable:
		return StatusAvailable, true
	case StatusOccupied:
		return StatusOccupied, true
	case StatusCleaning:
		return StatusCleaning, true
	case StatusMaintenance:
		return StatusMaintenance, true
	case StatusOutOfService:
		return StatusOutOfService, true
	default:
		return "", false
	}
}

// Bookable indica si la habitación acepta reservas futuras. Una
// habitación Occupied o Cleaning hoy puede reservarse para un rango
// futuro; Maintenance y OutOfService quedan fuera del calendario.
func (s RoomStatus) Bookable() bool {
	switch s {
	case StatusMaintenance, StatusOutOfService:
		return false
	default:
		return true
	}
}

type Room struct {
	ID     string
	Number string
	Type   RoomType
	Status RoomStatus

	LastCleanedAt *time.Time
	LastCleanedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}
