package reservations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-boarding/internal/domain/rooms"
	"pet-boarding/internal/platform/logger"
	"pet-boarding/internal/platform/metrics"
	"pet-boarding/internal/platform/notify"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrNotFound          = errors.New("not found")
	ErrNoAvailability    = errors.New("no availability")
	ErrRoomNotAvailable  = errors.New("room not available")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Tarifas diarias base por tipo de habitación, en centavos.
var baseDailyRateCents = map[rooms.RoomType]int64{
	rooms.TypeIndividual:           3500,
	rooms.TypeIndividualWithCamera: 4500,
	rooms.TypeSpecialCare:          6000,
}

var assistanceSurchargeCents = map[AssistanceLevel]int64{
	AssistanceBasic:  0,
	AssistanceMedium: 1000,
	AssistanceFull:   2500,
}

// Recargos fijos por estadía.
const (
	groomingCents   = 2000
	trainingCents   = 2500
	extraWalksCents = 1000
)

type Service struct {
	repo     Repository
	rooms    *rooms.Service
	locks    *roomLocks
	notifier notify.Notifier
	metrics  *metrics.Metrics
	log      logger.Logger
	now      func() time.Time
}

type Options struct {
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Logger   logger.Logger
}

func NewService(repo Repository, roomsSvc *rooms.Service, opts Options) *Service {
	n := opts.Notifier
	if n == nil {
		n = notify.Nop{}
	}
	l := opts.Logger
	if l == nil {
		l = logger.Nop()
	}

	return &Service{
		repo:     repo,
		rooms:    roomsSvc,
		locks:    newRoomLocks(),
		notifier: n,
		metrics:  opts.Metrics,
		log:      l,
		now:      time.Now,
	}
}

type CreateInput struct {
	PetID        string
	StartDate    time.Time
	EndDate      *time.Time
	IsIndefinite bool
	RoomType     string
	Assistance   string
	Services     AdditionalServices
	Schedule     string
}

// Create valida la solicitud, busca una habitación libre del tipo
// pedido y registra la reserva en Pending. El par chequeo+insert se
// serializa por habitación (ver roomLocks).
func (s *Service) Create(ctx context.Context, in CreateInput) (Reservation, error) {
	petID := strings.TrimSpace(in.PetID)
	if petID == "" {
		return Reservation{}, ErrInvalidInput
	}

	roomType, ok := rooms.ParseRoomType(in.RoomType)
	if !ok {
		return Reservation{}, fmt.Errorf("%w: unknown room type %q", ErrInvalidInput, in.RoomType)
	}
	assistance, ok := ParseAssistanceLevel(in.Assistance)
	if !ok {
		return Reservation{}, fmt.Errorf("%w: unknown assistance level %q", ErrInvalidInput, in.Assistance)
	}
	schedule, ok := ParseStaySchedule(in.Schedule)
	if !ok {
		return Reservation{}, fmt.Errorf("%w: unknown stay schedule %q", ErrInvalidInput, in.Schedule)
	}

	stay, err := buildStay(in.StartDate, in.EndDate, in.IsIndefinite)
	if err != nil {
		return Reservation{}, err
	}

	candidates, err := s.rooms.ListBookableByType(ctx, roomType)
	if err != nil {
		return Reservation{}, err
	}

	now := s.now()
	for _, rm := range candidates {
		unlock := s.locks.lock(rm.ID)

		conflicts, err := s.repo.ListConflicting(ctx, rm.ID, stay, "")
		if err != nil {
			unlock()
			return Reservation{}, err
		}
		if len(conflicts) > 0 {
			unlock()
			continue
		}

		rv := Reservation{
			ID:           uuid.NewString(),
			PetID:        petID,
			RoomID:       rm.ID,
			StartDate:    stay.Start,
			EndDate:      stay.End,
			IsIndefinite: in.IsIndefinite,
			Status:       StatusPending,
			Assistance:   assistance,
			Services:     in.Services,
			Schedule:     schedule,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		rv.DailyRateCents, rv.TotalCents = priceStay(rm.Type, assistance, in.Services, stay)

		if err := s.repo.Create(ctx, rv); err != nil {
			unlock()
			return Reservation{}, err
		}
		unlock()

		s.metrics.ReservationCreated()
		s.publish(ctx, rv)
		return rv, nil
	}

	s.metrics.BookingConflict()
	return Reservation{}, ErrNoAvailability
}

// RangeAvailable responde si la habitación está libre en el rango,
// ignorando excludeID (edición de fechas de una reserva existente).
func (s *Service) RangeAvailable(ctx context.Context, roomID string, stay StayRange, excludeID string) (bool, error) {
	conflicts, err := s.repo.ListConflicting(ctx, strings.TrimSpace(roomID), stay, strings.TrimSpace(excludeID))
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// FindRoom busca la primera habitación del tipo con el rango libre.
func (s *Service) FindRoom(ctx context.Context, roomType rooms.RoomType, stay StayRange, excludeID string) (rooms.Room, bool, error) {
	candidates, err := s.rooms.ListBookableByType(ctx, roomType)
	if err != nil {
		return rooms.Room{}, false, err
	}

	for _, rm := range candidates {
		free, err := s.RangeAvailable(ctx, rm.ID, stay, excludeID)
		if err != nil {
			return rooms.Room{}, false, err
		}
		if free {
			return rm, true, nil
		}
	}
	return rooms.Room{}, false, nil
}

// UpdateStatus aplica una transición del ciclo de vida. Con force un
// staff puede saltar la tabla de transiciones (override manual), pero
// nunca la invariante de habitación: un check-in forzado igual exige
// habitación Available.
func (s *Service) UpdateStatus(ctx context.Context, id, newStatus string, force bool) (Reservation, error) {
	st, ok := ParseReservationStatus(newStatus)
	if !ok {
		return Reservation{}, fmt.Errorf("%w: unknown reservation status %q", ErrInvalidInput, newStatus)
	}

	rv, err := s.GetByID(ctx, id)
	if err != nil {
		return Reservation{}, err
	}

	if rv.Status == st {
		return rv, nil // idempotente
	}

	if !force && !CanTransition(rv.Status, st) {
		return Reservation{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rv.Status, st)
	}

	wasActive := rv.Status == StatusActive
	now := s.now()

	switch st {
	case StatusConfirmed:
		// Confirmar es lo que bloquea la habitación para el rango:
		// dos Pending solapadas pueden compartir habitación, pero solo
		// una puede llegar a Confirmed. Chequeo+update bajo el lock de
		// la habitación, igual que en Create.
		unlock := s.locks.lock(rv.RoomID)
		if !force {
			conflicts, cerr := s.repo.ListConflicting(ctx, rv.RoomID, rv.Stay(), rv.ID)
			if cerr != nil {
				unlock()
				return Reservation{}, cerr
			}
			if len(conflicts) > 0 {
				unlock()
				s.metrics.BookingConflict()
				return Reservation{}, ErrNoAvailability
			}
		}
		rv.Status = StatusConfirmed
		rv.UpdatedAt = now
		err = s.repo.Update(ctx, rv)
		unlock()
		if err != nil {
			return Reservation{}, err
		}

	case StatusActive:
		// Check-in: reserva Active + habitación Occupied en una sola
		// transacción del storage.
		unlock := s.locks.lock(rv.RoomID)
		err = s.repo.CheckIn(ctx, rv.ID, rv.RoomID, now)
		unlock()
		if err != nil {
			return Reservation{}, err
		}
		rv.Status = StatusActive
		rv.UpdatedAt = now

	case StatusCompleted:
		rv.Status = StatusCompleted
		rv.UpdatedAt = now
		if wasActive {
			// Check-out: la habitación queda en limpieza.
			if err := s.repo.CloseOut(ctx, rv, rooms.StatusCleaning); err != nil {
				return Reservation{}, err
			}
		} else {
			if err := s.repo.Update(ctx, rv); err != nil {
				return Reservation{}, err
			}
		}

	case StatusCancelled:
		return s.Cancel(ctx, id, "")

	default:
		rv.Status = st
		rv.UpdatedAt = now
		if err := s.repo.Update(ctx, rv); err != nil {
			return Reservation{}, err
		}
	}

	s.publish(ctx, rv)
	return rv, nil
}

// Cancel es idempotente sobre una reserva ya cancelada y rechaza
// cancelar una estadía Completed (terminal). La razón queda anexada a
// las instrucciones especiales.
func (s *Service) Cancel(ctx context.Context, id, reason string) (Reservation, error) {
	rv, err := s.GetByID(ctx, id)
	if err != nil {
		return Reservation{}, err
	}

	if rv.Status == StatusCancelled {
		return rv, nil
	}
	if rv.Status == StatusCompleted {
		return Reservation{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, rv.Status, StatusCancelled)
	}

	wasActive := rv.Status == StatusActive
	now := s.now()

	rv.Status = StatusCancelled
	rv.UpdatedAt = now
	if reason = strings.TrimSpace(reason); reason != "" {
		if rv.SpecialInstructions != "" {
			rv.SpecialInstructions += "\n"
		}
		rv.SpecialInstructions += "cancelled: " + reason
	}

	if wasActive {
		// La mascota estaba alojada: liberar habitación a limpieza.
		if err := s.repo.CloseOut(ctx, rv, rooms.StatusCleaning); err != nil {
			return Reservation{}, err
		}
	} else {
		if err := s.repo.Update(ctx, rv); err != nil {
			return Reservation{}, err
		}
	}

	s.publish(ctx, rv)
	return rv, nil
}

// Delete es el borrado duro administrativo. Si la estadía estaba
// Active libera la habitación en la misma transacción; borrarla sin
// liberar dejaría la habitación Occupied para siempre.
func (s *Service) Delete(ctx context.Context, id string) error {
	rv, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if rv.Status == StatusActive {
		return s.repo.DeleteReleasing(ctx, rv.ID, rv.RoomID, rooms.StatusCleaning, s.now())
	}
	return s.repo.Delete(ctx, rv.ID)
}

func (s *Service) GetByID(ctx context.Context, id string) (Reservation, error) {
	rv, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Reservation{}, ErrNotFound
	}
	return rv, nil
}

func (s *Service) List(ctx context.Context) ([]Reservation, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByPet(ctx context.Context, petID string) ([]Reservation, error) {
	return s.repo.ListByPet(ctx, strings.TrimSpace(petID))
}

type Stats struct {
	ByStatus        map[ReservationStatus]int
	MonthTotalCents int64
	MonthCount      int
	MonthAvgCents   int64
}

// Stats recalcula conteos por estado y la facturación del mes en
// curso (reservas creadas este mes).
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}

	now := s.now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	total, count, err := s.repo.SumTotalsBetween(ctx, from, to)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		ByStatus:        byStatus,
		MonthTotalCents: total,
		MonthCount:      count,
	}
	if count > 0 {
		st.MonthAvgCents = total / int64(count)
	}
	return st, nil
}

func (s *Service) publish(ctx context.Context, rv Reservation) {
	err := s.notifier.ReservationStatusChanged(ctx, notify.ReservationEvent{
		ReservationID: rv.ID,
		PetID:         rv.PetID,
		RoomID:        rv.RoomID,
		Status:        string(rv.Status),
		At:            rv.UpdatedAt,
	})
	if err != nil {
		// Best-effort: un broker caído no afecta la operación.
		s.log.Warn("reservation event publish failed", map[string]any{
			"reservation_id": rv.ID,
			"status":         string(rv.Status),
			"err":            err.Error(),
		})
	}
}

func buildStay(start time.Time, end *time.Time, indefinite bool) (StayRange, error) {
	if start.IsZero() {
		return StayRange{}, fmt.Errorf("%w: start date required", ErrInvalidInput)
	}

	startDay := DateOnly(start)

	if indefinite {
		if end != nil {
			return StayRange{}, fmt.Errorf("%w: indefinite stay cannot carry an end date", ErrInvalidInput)
		}
		return StayRange{Start: startDay}, nil
	}

	if end == nil {
		return StayRange{}, fmt.Errorf("%w: end date required", ErrInvalidInput)
	}
	endDay := DateOnly(*end)
	if !endDay.After(startDay) {
		return StayRange{}, fmt.Errorf("%w: end date must be after start date", ErrInvalidInput)
	}

	return StayRange{Start: startDay, End: &endDay}, nil
}

func priceStay(t rooms.RoomType, a AssistanceLevel, sv AdditionalServices, stay StayRange) (dailyCents, totalCents int64) {
	dailyCents = baseDailyRateCents[t] + assistanceSurchargeCents[a]

	if stay.Indefinite() {
		// Se liquida al check-out con la tarifa diaria.
		return dailyCents, 0
	}

	nights := int64(stay.End.Sub(stay.Start) / (24 * time.Hour))
	totalCents = dailyCents * nights
	if sv.Grooming {
		totalCents += groomingCents
	}
	if sv.Training {
		totalCents += trainingCents
	}
	if sv.ExtraWalks {
		totalCents += extraWalksCents
	}
	return dailyCents, totalCents
}
