package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-boarding/internal/domain/rooms"
)

type RoomRepo struct {
	mu   sync.RWMutex
	byID map[string]rooms.Room
}

func NewRoomRepo() *RoomRepo {
	return &RoomRepo{byID: make(map[string]rooms.Room)}
}

func (r *RoomRepo) Create(ctx context.Context, rm rooms.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rm.ID) == "" {
		return errors.New("room id required")
	}
	if _, exists := r.byID[rm.ID]; exists {
		return errors.New("room already exists")
	}
	r.byID[rm.ID] = rm
	return nil
}

func (r *RoomRepo) Update(ctx context.Context, rm rooms.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rm.ID]; !exists {
		return ErrNotFound
	}
	r.byID[rm.ID] = rm
	return nil
}

func (r *RoomRepo) GetByID(ctx context.Context, id string) (rooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rm, ok := r.byID[id]
	if !ok {
		return rooms.Room{}, ErrNotFound
	}
	return rm, nil
}

func (r *RoomRepo) GetByNumber(ctx context.Context, number string) (rooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rm := range r.byID {
		if rm.Number == number {
			return rm, nil
		}
	}
	return rooms.Room{}, ErrNotFound
}

func (r *RoomRepo) List(ctx context.Context) ([]rooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rooms.Room, 0, len(r.byID))
	for _, rm := range r.byID {
		out = append(out, rm)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *RoomRepo) ListByType(ctx context.Context, t rooms.RoomType) ([]rooms.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]rooms.Room, 0)
	for _, rm := range r.byID {
		if rm.Type == t {
			out = append(out, rm)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Number < out[j].Number
	})
	return out, nil
}

func (r *RoomRepo) CountByStatus(ctx context.Context) (map[rooms.RoomStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[rooms.RoomStatus]int)
	for _, rm := range r.byID {
		out[rm.Status]++
	}
	return out, nil
}

// setStatus lo usa el repo de reservas para el acople reserva/habitación.
// guardAvailable aplica la invariante Available → Occupied del check-in.
func (r *RoomRepo) setStatus(id string, status rooms.RoomStatus, guardAvailable bool, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rm, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	if guardAvailable && rm.Status != rooms.StatusAvailable {
		return errors.New("room not available")
	}

	rm.Status = status
	rm.UpdatedAt = at
	r.byID[id] = rm
	return nil
}
