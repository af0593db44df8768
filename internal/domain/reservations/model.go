package reservations

import (
	"strings"
	"time"
)

// ReservationStatus es el conjunto canónico cerrado de estados.
// "CheckedIn" llega desde clientes viejos como sinónimo de Active y se
// normaliza en el parse; nunca se persiste.
// @Enum Pending, Confirmed, Active, Completed, Cancelled
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "Pending"
	StatusConfirmed ReservationStatus = "Confirmed"
	StatusActive    ReservationStatus = "Active"
	StatusCompleted ReservationStatus = "Completed"
	StatusCancelled ReservationStatus = "Cancelled"
)

func ParseReservationStatus(s string) (ReservationStatus, bool) {
	switch strings.TrimSpace(s) {
	case string(StatusPending):
		return StatusPending, true
	case string(StatusConfirmed):
		return StatusConfirmed, true
	case string(StatusActive), "CheckedIn":
		return StatusActive, true
	case string(StatusCompleted):
		return StatusCompleted, true
	case string(StatusCancelled):
		return StatusCancelled, true
	default:
		return "", false
	}
}

func (s ReservationStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// transitions es el grafo guardado del ciclo de vida:
// Pending → Confirmed → Active → Completed, con Cancelled alcanzable
// desde cualquier estado no terminal. El override de staff (force)
// salta esta tabla, nunca la invariante de habitación.
var transitions = map[ReservationStatus][]ReservationStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusActive, StatusCancelled},
	StatusActive:    {StatusCompleted, StatusCancelled},
	StatusCompleted: {},
	StatusCancelled: {},
}

func CanTransition(from, to ReservationStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AssistanceLevel define cuánta atención del personal requiere la estadía.
// @Enum Basic, Medium, Full
type AssistanceLevel string

const (
	AssistanceBasic  AssistanceLevel = "Basic"
	AssistanceMedium AssistanceLevel = "Medium"
	AssistanceFull   AssistanceLevel = "Full"
)

func ParseAssistanceLevel(s string) (AssistanceLevel, bool) {
	switch AssistanceLevel(strings.TrimSpace(s)) {
	case AssistanceBasic, "":
		return AssistanceBasic, true
	case AssistanceMedium:
		return AssistanceMedium, true
	case AssistanceFull:
		return AssistanceFull, true
	default:
		return "", false
	}
}

// StaySchedule es la categoría de agenda de la estadía.
// @Enum Daycare, Overnight, Extended
type StaySchedule string

const (
	ScheduleDaycare   StaySchedule = "Daycare"
	ScheduleOvernight StaySchedule = "Overnight"
	ScheduleExtended  StaySchedule = "Extended"
)

func ParseStaySchedule(s string) (StaySchedule, bool) {
	switch StaySchedule(strings.TrimSpace(s)) {
	case ScheduleDaycare:
		return ScheduleDaycare, true
	case ScheduleOvernight, "":
		return ScheduleOvernight, true
	case ScheduleExtended:
		return ScheduleExtended, true
	default:
		return "", false
	}
}

// AdditionalServices son los extras contratados para la estadía.
type AdditionalServices struct {
	Grooming   bool `json:"grooming"`
	Training   bool `json:"training"`
	ExtraWalks bool `json:"extra_walks"`
}

// Reservation referencia exactamente una mascota y una habitación
// asignada al crearse. EndDate es nil si y solo si IsIndefinite.
type Reservation struct {
	ID     string
	PetID  string
	RoomID string

	StartDate    time.Time
	EndDate      *time.Time
	IsIndefinite bool

	Status     ReservationStatus
	Assistance AssistanceLevel
	Services   AdditionalServices
	Schedule   StaySchedule

	// Costos en centavos. TotalCents es 0 en estadías indefinidas:
	// se liquida al check-out con la tarifa diaria.
	DailyRateCents int64
	TotalCents     int64
	Paid           bool

	SpecialInstructions string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stay devuelve el rango de fechas de la reserva.
func (rv Reservation) Stay() StayRange {
	return StayRange{Start: rv.StartDate, End: rv.EndDate}
}
