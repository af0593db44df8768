package reservations

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet-boarding/internal/domain/rooms"
)

// -------------------------
// Test repos (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRoomsRepo struct {
	byID map[string]rooms.Room
}

func newTestRoomsRepo() *testRoomsRepo {
	return &testRoomsRepo{byID: map[string]rooms.Room{}}
}

func (r *testRoomsRepo) Create(ctx context.Context, rm rooms.Room) error {
	r.byID[rm.ID] = rm
	return nil
}

func (r *testRoomsRepo) Update(ctx context.Context, rm rooms.Room) error {
	if _, ok := r.byID[rm.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[rm.ID] = rm
	return nil
}

func (r *testRoomsRepo) GetByID(ctx context.Context, id string) (rooms.Room, error) {
	rm, ok := r.byID[id]
	if !ok {
		return rooms.Room{}, errRepoNotFound
	}
	return rm, nil
}

func (r *testRoomsRepo) GetByNumber(ctx context.Context, number string) (rooms.Room, error) {
	for _, rm := range r.byID {
		if rm.Number == number {
			return rm, nil
		}
	}
	return rooms.Room{}, errRepoNotFound
}

func (r *testRoomsRepo) List(ctx context.Context) ([]rooms.Room, error) {
	out := make([]rooms.Room, 0, len(r.byID))
	for _, rm := range r.byID {
		out = append(out, rm)
	}
	return out, nil
}

func (r *testRoomsRepo) ListByType(ctx context.Context, t rooms.RoomType) ([]rooms.Room, error) {
	out := make([]rooms.Room, 0)
	for _, rm := range r.byID {
		if rm.Type == t {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r *testRoomsRepo) CountByStatus(ctx context.Context) (map[rooms.RoomStatus]int, error) {
	out := make(map[rooms.RoomStatus]int)
	for _, rm := range r.byID {
		out[rm.Status]++
	}
	return out, nil
}

type testRepo struct {
	byID  map[string]Reservation
	rooms *testRoomsRepo
}

func newTestRepo(roomsRepo *testRoomsRepo) *testRepo {
	return &testRepo{byID: map[string]Reservation{}, rooms: roomsRepo}
}

func (r *testRepo) Create(ctx context.Context, rv Reservation) error {
	if _, ok := r.byID[rv.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[rv.ID] = rv
	return nil
}

func (r *testRepo) Update(ctx context.Context, rv Reservation) error {
	if _, ok := r.byID[rv.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[rv.ID] = rv
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Reservation, error) {
	rv, ok := r.byID[id]
	if !ok {
		return Reservation{}, errRepoNotFound
	}
	return rv, nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) List(ctx context.Context) ([]Reservation, error) {
	out := make([]Reservation, 0, len(r.byID))
	for _, rv := range r.byID {
		out = append(out, rv)
	}
	return out, nil
}

func (r *testRepo) ListByPet(ctx context.Context, petID string) ([]Reservation, error) {
	out := make([]Reservation, 0)
	for _, rv := range r.byID {
		if rv.PetID == petID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *testRepo) ListConflicting(ctx context.Context, roomID string, stay StayRange, excludeID string) ([]Reservation, error) {
	out := make([]Reservation, 0)
	for _, rv := range r.byID {
		if rv.RoomID != roomID {
			continue
		}
		if excludeID != "" && rv.ID == excludeID {
			continue
		}
		if rv.Status != StatusConfirmed && rv.Status != StatusActive {
			continue
		}
		if Overlaps(stay, rv.Stay()) {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *testRepo) CheckIn(ctx context.Context, reservationID, roomID string, at time.Time) error {
	rv, ok := r.byID[reservationID]
	if !ok {
		return ErrNotFound
	}
	rm, ok := r.rooms.byID[roomID]
	if !ok {
		return ErrNotFound
	}
	if rm.Status != rooms.StatusAvailable {
		return ErrRoomNotAvailable
	}

	rm.Status = rooms.StatusOccupied
	rm.UpdatedAt = at
	r.rooms.byID[roomID] = rm

	rv.Status = StatusActive
	rv.UpdatedAt = at
	r.byID[reservationID] = rv
	return nil
}

func (r *testRepo) CloseOut(ctx context.Context, rv Reservation, roomStatus rooms.RoomStatus) error {
	if _, ok := r.byID[rv.ID]; !ok {
		return ErrNotFound
	}
	rm, ok := r.rooms.byID[rv.RoomID]
	if !ok {
		return ErrNotFound
	}

	rm.Status = roomStatus
	rm.UpdatedAt = rv.UpdatedAt
	r.rooms.byID[rv.RoomID] = rm

	r.byID[rv.ID] = rv
	return nil
}

func (r *testRepo) DeleteReleasing(ctx context.Context, id, roomID string, roomStatus rooms.RoomStatus, at time.Time) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	rm, ok := r.rooms.byID[roomID]
	if !ok {
		return ErrNotFound
	}

	rm.Status = roomStatus
	rm.UpdatedAt = at
	r.rooms.byID[roomID] = rm

	delete(r.byID, id)
	return nil
}

func (r *testRepo) CountByStatus(ctx context.Context) (map[ReservationStatus]int, error) {
	out := make(map[ReservationStatus]int)
	for _, rv := range r.byID {
		out[rv.Status]++
	}
	return out, nil
}

func (r *testRepo) SumTotalsBetween(ctx context.Context, from, to time.Time) (int64, int, error) {
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

// -------------------------
// Helpers
// -------------------------

var testClock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *testRepo, *testRoomsRepo) {
	roomsRepo := newTestRoomsRepo()
	repo := newTestRepo(roomsRepo)

	svc := NewService(repo, rooms.NewService(roomsRepo), Options{})
	svc.now = func() time.Time { return testClock }
	return svc, repo, roomsRepo
}

func addRoom(r *testRoomsRepo, id, number string, t rooms.RoomType, st rooms.RoomStatus) {
	r.byID[id] = rooms.Room{
		ID:        id,
		Number:    number,
		Type:      t,
		Status:    st,
		CreatedAt: testClock,
		UpdatedAt: testClock,
	}
}

func mustCreate(t *testing.T, svc *Service, in CreateInput) Reservation {
	t.Helper()
	rv, err := svc.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return rv
}

func closedStay(startDay, endDay int) CreateInput {
	end := day(2026, 3, endDay)
	return CreateInput{
		PetID:     "pet-1",
		StartDate: day(2026, 3, startDay),
		EndDate:   &end,
		RoomType:  string(rooms.TypeIndividual),
	}
}

// -------------------------
// Tests
// -------------------------

func TestCreate_AssignsRoomAndPrices(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	in := closedStay(11, 13)
	in.Assistance = string(AssistanceMedium)
	in.Services = AdditionalServices{Grooming: true}

	rv := mustCreate(t, svc, in)

	if rv.Status != StatusPending {
		t.Fatalf("status = %s, want Pending", rv.Status)
	}
	if rv.RoomID != "room-1" {
		t.Fatalf("room = %s, want room-1", rv.RoomID)
	}
	if rv.DailyRateCents != 3500+1000 {
		t.Fatalf("daily rate = %d, want 4500", rv.DailyRateCents)
	}
	// 2 noches a 4500 + grooming 2000
	if rv.TotalCents != 2*4500+2000 {
		t.Fatalf("total = %d, want 11000", rv.TotalCents)
	}
	if !rv.CreatedAt.Equal(testClock) {
		t.Fatalf("created_at = %v, want reloj fijo %v", rv.CreatedAt, testClock)
	}
}

func TestCreate_IndefiniteStay(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeSpecialCare, rooms.StatusAvailable)

	rv := mustCreate(t, svc, CreateInput{
		PetID:        "pet-1",
		StartDate:    day(2026, 3, 11),
		IsIndefinite: true,
		RoomType:     string(rooms.TypeSpecialCare),
		Assistance:   string(AssistanceFull),
	})

	if rv.EndDate != nil {
		t.Fatalf("end date = %v, want nil", rv.EndDate)
	}
	if rv.DailyRateCents != 6000+2500 {
		t.Fatalf("daily rate = %d, want 8500", rv.DailyRateCents)
	}
	// Sin fecha de fin el total se liquida al check-out.
	if rv.TotalCents != 0 {
		t.Fatalf("total = %d, want 0 para estadía indefinida", rv.TotalCents)
	}
}

func TestCreate_Validation(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	end := day(2026, 3, 15)

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"sin pet", CreateInput{StartDate: day(2026, 3, 11), EndDate: &end, RoomType: "Individual"}},
		{"tipo desconocido", CreateInput{PetID: "p", StartDate: day(2026, 3, 11), EndDate: &end, RoomType: "Suite"}},
		{"sin fecha de inicio", CreateInput{PetID: "p", EndDate: &end, RoomType: "Individual"}},
		{"sin fin y no indefinida", CreateInput{PetID: "p", StartDate: day(2026, 3, 11), RoomType: "Individual"}},
		{"indefinida con fin", CreateInput{PetID: "p", StartDate: day(2026, 3, 11), EndDate: &end, IsIndefinite: true, RoomType: "Individual"}},
		{"fin igual al inicio", CreateInput{PetID: "p", StartDate: day(2026, 3, 15), EndDate: &end, RoomType: "Individual"}},
		{"fin antes del inicio", CreateInput{PetID: "p", StartDate: day(2026, 3, 20), EndDate: &end, RoomType: "Individual"}},
		{"asistencia desconocida", CreateInput{PetID: "p", StartDate: day(2026, 3, 11), EndDate: &end, RoomType: "Individual", Assistance: "VIP"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tc.in); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestCreate_OverlapTakesNextRoom(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)
	addRoom(roomsRepo, "room-2", "102", rooms.TypeIndividual, rooms.StatusAvailable)

	first := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.UpdateStatus(context.Background(), first.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	second := mustCreate(t, svc, closedStay(13, 18))
	if second.RoomID == first.RoomID {
		t.Fatalf("la segunda estadía solapada debería ir a otra habitación, ambas en %s", first.RoomID)
	}
}

func TestCreate_NoAvailability(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	first := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.UpdateStatus(context.Background(), first.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if _, err := svc.Create(context.Background(), closedStay(14, 20)); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("err = %v, want ErrNoAvailability", err)
	}

	// Un rango disjunto en la misma habitación sí entra.
	if _, err := svc.Create(context.Background(), closedStay(20, 25)); err != nil {
		t.Fatalf("rango disjunto: %v", err)
	}
}

func TestCreate_SkipsUnbookableRooms(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusMaintenance)
	addRoom(roomsRepo, "room-2", "102", rooms.TypeIndividual, rooms.StatusOutOfService)

	if _, err := svc.Create(context.Background(), closedStay(11, 15)); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("err = %v, want ErrNoAvailability con todas las habitaciones fuera de servicio", err)
	}

	// Occupied hoy sigue siendo reservable para un rango futuro.
	addRoom(roomsRepo, "room-3", "103", rooms.TypeIndividual, rooms.StatusOccupied)
	if _, err := svc.Create(context.Background(), closedStay(11, 15)); err != nil {
		t.Fatalf("reserva futura sobre habitación ocupada hoy: %v", err)
	}
}

func TestRangeAvailable_ExcludesReservation(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	rv := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.UpdateStatus(context.Background(), rv.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	stay := StayRange{Start: day(2026, 3, 12), End: dayPtr(2026, 3, 16)}

	free, err := svc.RangeAvailable(context.Background(), "room-1", stay, "")
	if err != nil {
		t.Fatalf("RangeAvailable: %v", err)
	}
	if free {
		t.Fatal("el rango choca con la reserva confirmada, no debería estar libre")
	}

	// Excluyendo la propia reserva (edición de fechas) el rango queda libre.
	free, err = svc.RangeAvailable(context.Background(), "room-1", stay, rv.ID)
	if err != nil {
		t.Fatalf("RangeAvailable exclude: %v", err)
	}
	if !free {
		t.Fatal("excluyendo la propia reserva el rango debería estar libre")
	}
}

func TestUpdateStatus_CheckInOccupiesRoom(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	rv := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.UpdateStatus(context.Background(), rv.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	got, err := svc.UpdateStatus(context.Background(), rv.ID, "Active", false)
	if err != nil {
		t.Fatalf("check-in: %v", err)
	}
	if got.Status != StatusActive {
		t.Fatalf("status = %s, want Active", got.Status)
	}
	if roomsRepo.byID["room-1"].Status != rooms.StatusOccupied {
		t.Fatalf("room status = %s, want Occupied", roomsRepo.byID["room-1"].Status)
	}
}

func TestUpdateStatus_CheckedInAlias(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	rv := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.UpdateStatus(context.Background(), rv.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Clientes viejos mandan "CheckedIn"; se normaliza a Active.
	got, err := svc.UpdateStatus(context.Background(), rv.ID, "CheckedIn", false)
	if err != nil {
		t.Fatalf("check-in con alias: %v", err)
	}
	if got.Status != StatusActive {
		t.Fatalf("status = %s, want Active", got.Status)
	}
}

func TestUpdateStatus_CheckInRequiresAvailableRoom(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	rv := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.UpdateStatus(context.Background(), rv.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	// Alguien dejó la habitación en limpieza entre medio.
	rm := roomsRepo.byID["room-1"]
	rm.Status = rooms.StatusCleaning
	roomsRepo.byID["room-1"] = rm

	if _, err := svc.UpdateStatus(context.Background(), rv.ID, "Active", false); !errors.Is(err, ErrRoomNotAvailable) {
		t.Fatalf("err = %v, want ErrRoomNotAvailable", err)
	}

	// force salta la tabla de transiciones pero no esta invariante.
	if _, err := svc.UpdateStatus(context.Background(), rv.ID, "Active", true); !errors.Is(err, ErrRoomNotAvailable) {
		t.Fatalf("err con force = %v, want ErrRoomNotAvailable", err)
	}
}

func TestUpdateStatus_GuardedTransitions(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	rv := mustCreate(t, svc, closedStay(11, 15))

	// Pending → Completed no es un paso del ciclo.
	if _, err := svc.UpdateStatus(context.Background(), rv.ID, "Completed", false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}

	// Con force (override de admin) el salto procede.
	got, err := svc.UpdateStatus(context.Background(), rv.ID, "Completed", true)
	if err != nil {
		t.Fatalf("force: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status = %s, want Completed", got.Status)
	}
	// La habitación no se toca: la reserva nunca estuvo Active.
	if roomsRepo.byID["room-1"].Status != rooms.StatusAvailable {
		t.Fatalf("room status = %s, want Available", roomsRepo.byID["room-1"].Status)
	}
}

func TestUpdateStatus_ConfirmRechecksAvailability(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)
	ctx := context.Background()

	// Pending no bloquea: dos solicitudes solapadas comparten la única
	// habitación, pero solo una puede llegar a Confirmed.
	first := mustCreate(t, svc, closedStay(11, 15))
	second := mustCreate(t, svc, closedStay(12, 16))
	if first.RoomID != second.RoomID {
		t.Fatalf("rooms = %s / %s, want same room", first.RoomID, second.RoomID)
	}

	if _, err := svc.UpdateStatus(ctx, first.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm first: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, second.ID, "Confirmed", false); !errors.Is(err, ErrNoAvailability) {
		t.Fatalf("err = %v, want ErrNoAvailability", err)
	}

	// Una estadía disjunta sí confirma.
	third := mustCreate(t, svc, closedStay(20, 24))
	if _, err := svc.UpdateStatus(ctx, third.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm disjoint: %v", err)
	}

	// El override de admin asume la responsabilidad del solape.
	if _, err := svc.UpdateStatus(ctx, second.ID, "Confirmed", true); err != nil {
		t.Fatalf("force confirm: %v", err)
	}
}

func TestUpdateStatus_CancelledIsTerminal(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)
	ctx := context.Background()

	rv := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.Cancel(ctx, rv.ID, ""); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if _, err := svc.UpdateStatus(ctx, rv.ID, "Active", false); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition desde Cancelled", err)
	}

	// El override de admin puede revivir una cancelación por error de
	// mostrador; la habitación igual debe estar Available.
	got, err := svc.UpdateStatus(ctx, rv.ID, "Active", true)
	if err != nil {
		t.Fatalf("force: %v", err)
	}
	if got.Status != StatusActive {
		t.Fatalf("status = %s, want Active", got.Status)
	}
	if roomsRepo.byID["room-1"].Status != rooms.StatusOccupied {
		t.Fatalf("room status = %s, want Occupied", roomsRepo.byID["room-1"].Status)
	}
}

func TestUpdateStatus_Idempotent(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	rv := mustCreate(t, svc, closedStay(11, 15))

	got, err := svc.UpdateStatus(context.Background(), rv.ID, "Pending", false)
	if err != nil {
		t.Fatalf("mismo estado: %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("status = %s, want Pending", got.Status)
	}
}

func TestUpdateStatus_CheckOutLeavesRoomCleaning(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	rv := mustCreate(t, svc, closedStay(11, 15))
	ctx := context.Background()
	if _, err := svc.UpdateStatus(ctx, rv.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, rv.ID, "Active", false); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	got, err := svc.UpdateStatus(ctx, rv.ID, "Completed", false)
	if err != nil {
		t.Fatalf("check-out: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status = %s, want Completed", got.Status)
	}
	if roomsRepo.byID["room-1"].Status != rooms.StatusCleaning {
		t.Fatalf("room status = %s, want Cleaning tras check-out", roomsRepo.byID["room-1"].Status)
	}
}

func TestCancel(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)
	ctx := context.Background()

	rv := mustCreate(t, svc, closedStay(11, 15))

	got, err := svc.Cancel(ctx, rv.ID, "viaje suspendido")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Fatalf("status = %s, want Cancelled", got.Status)
	}
	if got.SpecialInstructions != "cancelled: viaje suspendido" {
		t.Fatalf("instrucciones = %q, want razón anexada", got.SpecialInstructions)
	}

	// Cancelar lo cancelado es idempotente.
	again, err := svc.Cancel(ctx, rv.ID, "otra razón")
	if err != nil {
		t.Fatalf("cancel idempotente: %v", err)
	}
	if again.SpecialInstructions != got.SpecialInstructions {
		t.Fatal("una segunda cancelación no debería re-anexar la razón")
	}
}

func TestCancel_CompletedIsRejected(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)

	rv := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.UpdateStatus(context.Background(), rv.ID, "Completed", true); err != nil {
		t.Fatalf("force complete: %v", err)
	}

	if _, err := svc.Cancel(context.Background(), rv.ID, ""); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancel_ActiveReleasesRoom(t *testing.T) {
	svc, _, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)
	ctx := context.Background()

	rv := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.UpdateStatus(ctx, rv.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, rv.ID, "Active", false); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	if _, err := svc.Cancel(ctx, rv.ID, "retiro anticipado"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if roomsRepo.byID["room-1"].Status != rooms.StatusCleaning {
		t.Fatalf("room status = %s, want Cleaning al cancelar una estadía activa", roomsRepo.byID["room-1"].Status)
	}
}

func TestDelete_ActiveReleasesRoom(t *testing.T) {
	svc, repo, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)
	ctx := context.Background()

	rv := mustCreate(t, svc, closedStay(11, 15))
	if _, err := svc.UpdateStatus(ctx, rv.ID, "Confirmed", false); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, rv.ID, "Active", false); err != nil {
		t.Fatalf("check-in: %v", err)
	}

	if err := svc.Delete(ctx, rv.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok := repo.byID[rv.ID]; ok {
		t.Fatal("la reserva debería haberse borrado")
	}
	if roomsRepo.byID["room-1"].Status != rooms.StatusCleaning {
		t.Fatalf("room status = %s, want Cleaning tras borrar una estadía activa", roomsRepo.byID["room-1"].Status)
	}
}

func TestStats_CurrentMonthOnly(t *testing.T) {
	svc, repo, roomsRepo := newTestService()
	addRoom(roomsRepo, "room-1", "101", rooms.TypeIndividual, rooms.StatusAvailable)
	ctx := context.Background()

	// Dos del mes en curso (reloj fijo: marzo 2026), una de febrero.
	repo.byID["r1"] = Reservation{ID: "r1", Status: StatusConfirmed, TotalCents: 10000, CreatedAt: day(2026, 3, 2)}
	repo.byID["r2"] = Reservation{ID: "r2", Status: StatusPending, TotalCents: 6000, CreatedAt: day(2026, 3, 9)}
	repo.byID["r3"] = Reservation{ID: "r3", Status: StatusCompleted, TotalCents: 99999, CreatedAt: day(2026, 2, 20)}

	st, err := svc.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if st.MonthCount != 2 {
		t.Fatalf("month count = %d, want 2", st.MonthCount)
	}
	if st.MonthTotalCents != 16000 {
		t.Fatalf("month total = %d, want 16000", st.MonthTotalCents)
	}
	if st.MonthAvgCents != 8000 {
		t.Fatalf("month avg = %d, want 8000", st.MonthAvgCents)
	}
	if st.ByStatus[StatusConfirmed] != 1 || st.ByStatus[StatusPending] != 1 || st.ByStatus[StatusCompleted] != 1 {
		t.Fatalf("by status = %v", st.ByStatus)
	}
}

func TestCameraEligibility(t *testing.T) {
	svc, repo, roomsRepo := newTestService()
	addRoom(roomsRepo, "cam-1", "201", rooms.TypeIndividualWithCamera, rooms.StatusOccupied)
	addRoom(roomsRepo, "plain-1", "101", rooms.TypeIndividual, rooms.StatusOccupied)
	ctx := context.Background()

	// Estadía activa que cubre el día del reloj fijo (2026-03-10).
	repo.byID["rv-cam"] = Reservation{
		ID: "rv-cam", PetID: "pet-cam", RoomID: "cam-1",
		StartDate: day(2026, 3, 8), EndDate: dayPtr(2026, 3, 12),
		Status: StatusActive,
	}
	// Misma ventana pero en habitación sin cámara.
	repo.byID["rv-plain"] = Reservation{
		ID: "rv-plain", PetID: "pet-plain", RoomID: "plain-1",
		StartDate: day(2026, 3, 8), EndDate: dayPtr(2026, 3, 12),
		Status: StatusActive,
	}
	// Con cámara pero la estadía ya venció.
	repo.byID["rv-past"] = Reservation{
		ID: "rv-past", PetID: "pet-past", RoomID: "cam-1",
		StartDate: day(2026, 2, 1), EndDate: dayPtr(2026, 2, 5),
		Status: StatusCompleted,
	}

	elig, err := svc.CameraEligibilityFor(ctx, "pet-cam")
	if err != nil {
		t.Fatalf("camera: %v", err)
	}
	if !elig.Eligible || elig.RoomNumber != "201" || elig.ReservationID != "rv-cam" {
		t.Fatalf("elegibilidad = %+v, want eligible en la 201", elig)
	}

	for _, petID := range []string{"pet-plain", "pet-past", "pet-unknown"} {
		elig, err := svc.CameraEligibilityFor(ctx, petID)
		if err != nil {
			t.Fatalf("camera %s: %v", petID, err)
		}
		if elig.Eligible {
			t.Fatalf("%s no debería ser elegible", petID)
		}
	}
}
