package rooms

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Create da de alta una habitación en estado Available.
// Número duplicado es input inválido, no conflicto de reserva.
func (s *Service) Create(ctx context.Context, number, roomType string) (Room, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return Room{}, ErrInvalidInput
	}

	t, ok := ParseRoomType(roomType)
	if !ok {
		return Room{}, fmt.Errorf("%w: unknown room type %q", ErrInvalidInput, roomType)
	}

	if _, err := s.repo.GetByNumber(ctx, number); err == nil {
		return Room{}, fmt.Errorf("%w: room number %s already in use", ErrInvalidInput, number)
	}

	now := s.now()
	rm := Room{
		ID:        uuid.NewString(),
		Number:    number,
		Type:      t,
		Status:    StatusAvailable,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, rm); err != nil {
		return Room{}, err
	}
	return rm, nil
}

// ChangeStatus acepta cualquier transición entre estados reconocidos.
// Recepción corrige estados a mano (p.ej. Maintenance → Available sin
// pasar por Cleaning); el camino guardado de check-in vive en el
// repositorio de reservas, que solo ocupa habitaciones Available.
func (s *Service) ChangeStatus(ctx context.Context, roomID, newStatus string) (Room, error) {
	st, ok := ParseRoomStatus(newStatus)
	if !ok {
		return Room{}, fmt.Errorf("%w: unknown room status %q", ErrInvalidInput, newStatus)
	}

	rm, err := s.repo.GetByID(ctx, strings.TrimSpace(roomID))
	if err != nil {
		return Room{}, ErrNotFound
	}

	rm.Status = st
	rm.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, rm); err != nil {
		return Room{}, err
	}
	return rm, nil
}

// RegisterCleaning estampa la última limpieza. No toca el estado: el
// paso Cleaning → Available lo decide recepción vía ChangeStatus.
func (s *Service) RegisterCleaning(ctx context.Context, roomID, performedBy string) (Room, error) {
	performedBy = strings.TrimSpace(performedBy)
	if performedBy == "" {
		return Room{}, ErrInvalidInput
	}

	rm, err := s.repo.GetByID(ctx, strings.TrimSpace(roomID))
	if err != nil {
		return Room{}, ErrNotFound
	}

	now := s.now()
	rm.LastCleanedAt = &now
	rm.LastCleanedBy = performedBy
	rm.UpdatedAt = now

	if err := s.repo.Update(ctx, rm); err != nil {
		return Room{}, err
	}
	return rm, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Room, error) {
	rm, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Room{}, ErrNotFound
	}
	return rm, nil
}

func (s *Service) List(ctx context.Context) ([]Room, error) {
	return s.repo.List(ctx)
}

// ListBookableByType devuelve las candidatas para asignar una reserva
// nueva del tipo pedido (excluye Maintenance/OutOfService).
func (s *Service) ListBookableByType(ctx context.Context, t RoomType) ([]Room, error) {
	items, err := s.repo.ListByType(ctx, t)
	if err != nil {
		return nil, err
	}

	out := make([]Room, 0, len(items))
	for _, rm := range items {
		if rm.Status.Bookable() {
			out = append(out, rm)
		}
	}
	return out, nil
}

// Statistics cuenta habitaciones por estado. Se recalcula en cada
// llamada; el volumen esperado no justifica contadores materializados.
func (s *Service) Statistics(ctx context.Context) (map[RoomStatus]int, error) {
	return s.repo.CountByStatus(ctx)
}
