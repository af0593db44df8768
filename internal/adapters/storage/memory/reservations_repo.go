package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pet-boarding/internal/domain/reservations"
	"pet-boarding/internal/domain/rooms"
)

// ReservationRepo mantiene las reservas y aplica los acoples
// reserva/habitación contra el RoomRepo compartido, emulando las
// transacciones de los adapters SQL.
type ReservationRepo struct {
	mu    sync.RWMutex
	byID  map[string]reservations.Reservation
	rooms *RoomRepo
}

func NewReservationRepo(roomsRepo *RoomRepo) *ReservationRepo {
	return &ReservationRepo{
		byID:  make(map[string]reservations.Reservation),
		rooms: roomsRepo,
	}
}

func (r *ReservationRepo) Create(ctx context.Context, rv reservations.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(rv.ID) == "" {
		return errors.New("reservation id required")
	}
	if _, exists := r.byID[rv.ID]; exists {
		return errors.New("reservation already exists")
	}
	r.byID[rv.ID] = rv
	return nil
}

func (r *ReservationRepo) Update(ctx context.Context, rv reservations.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[rv.ID]; !exists {
		return reservations.ErrNotFound
	}
	r.byID[rv.ID] = rv
	return nil
}

func (r *ReservationRepo) GetByID(ctx context.Context, id string) (reservations.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rv, ok := r.byID[id]
	if !ok {
		return reservations.Reservation{}, reservations.ErrNotFound
	}
	return rv, nil
}

func (r *ReservationRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return reservations.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *ReservationRepo) List(ctx context.Context) ([]reservations.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reservations.Reservation, 0, len(r.byID))
	for _, rv := range r.byID {
		out = append(out, rv)
	}
	sortByCreation(out)
	return out, nil
}

func (r *ReservationRepo) ListByPet(ctx context.Context, petID string) ([]reservations.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reservations.Reservation, 0)
	for _, rv := range r.byID {
		if rv.PetID == petID {
			out = append(out, rv)
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *ReservationRepo) ListConflicting(ctx context.Context, roomID string, stay reservations.StayRange, excludeID string) ([]reservations.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]reservations.Reservation, 0)
	for _, rv := range r.byID {
		if rv.RoomID != roomID {
			continue
		}
		if excludeID != "" && rv.ID == excludeID {
			continue
		}
		if rv.Status != reservations.StatusConfirmed && rv.Status != reservations.StatusActive {
			continue
		}
		if reservations.Overlaps(stay, rv.Stay()) {
			out = append(out, rv)
		}
	}
	sortByCreation(out)
	return out, nil
}

func (r *ReservationRepo) CheckIn(ctx context.Context, reservationID, roomID string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rv, ok := r.byID[reservationID]
	if !ok {
		return reservations.ErrNotFound
	}

	if err := r.rooms.setStatus(roomID, rooms.StatusOccupied, true, at); err != nil {
		if errors.Is(err, ErrNotFound) {
			return reservations.ErrNotFound
		}
		return reservations.ErrRoomNotAvailable
	}

	rv.Status = reservations.StatusActive
	rv.UpdatedAt = at
	r.byID[reservationID] = rv
	return nil
}

func (r *ReservationRepo) CloseOut(ctx context.Context, rv reservations.Reservation, roomStatus rooms.RoomStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[rv.ID]; !ok {
		return reservations.ErrNotFound
	}

	if err := r.rooms.setStatus(rv.RoomID, roomStatus, false, rv.UpdatedAt); err != nil {
		return err
	}
	r.byID[rv.ID] = rv
	return nil
}

func (r *ReservationRepo) DeleteReleasing(ctx context.Context, id, roomID string, roomStatus rooms.RoomStatus, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return reservations.ErrNotFound
	}

	if err := r.rooms.setStatus(roomID, roomStatus, false, at); err != nil {
		return err
	}
	delete(r.byID, id)
	return nil
}

func (r *ReservationRepo) CountByStatus(ctx context.Context) (map[reservations.ReservationStatus]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[reservations.ReservationStatus]int)
	for _, rv := range r.byID {
		out[rv.Status]++
	}
	return out, nil
}

func (r *ReservationRepo) SumTotalsBetween(ctx context.Context, from, to time.Time) (int64, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	var n int
	for _, rv := range r.byID {
		if rv.CreatedAt.Before(from) || !rv.CreatedAt.Before(to) {
			continue
		}
		total += rv.TotalCents
		n++
	}
	return total, n, nil
}

func sortByCreation(items []reservations.Reservation) {
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
