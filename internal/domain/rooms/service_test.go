package rooms

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Room
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Room{}}
}

func (r *testRepo) Create(ctx context.Context, rm Room) error {
	if _, ok := r.byID[rm.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[rm.ID] = rm
	return nil
}

func (r *testRepo) Update(ctx context.Context, rm Room) error {
	if _, ok := r.byID[rm.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[rm.ID] = rm
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Room, error) {
	rm, ok := r.byID[id]
	if !ok {
		return Room{}, errRepoNotFound
	}
	return rm, nil
}

func (r *testRepo) GetByNumber(ctx context.Context, number string) (Room, error) {
	for _, rm := range r.byID {
		if rm.Number == number {
			return rm, nil
		}
	}
	return Room{}, errRepoNotFound
}

func (r *testRepo) List(ctx context.Context) ([]Room, error) {
	out := make([]Room, 0, len(r.byID))
	for _, rm := range r.byID {
		out = append(out, rm)
	}
	return out, nil
}

func (r *testRepo) ListByType(ctx context.Context, t RoomType) ([]Room, error) {
	out := make([]Room, 0)
	for _, rm := range r.byID {
		if rm.Type == t {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r *testRepo) CountByStatus(ctx context.Context) (map[RoomStatus]int, error) {
	out := make(map[RoomStatus]int)
	for _, rm := range r.byID {
		out[rm.Status]++
	}
	return out, nil
}

var testClock = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestService() (*Service, *testRepo) {
	repo := newTestRepo()
	svc := NewService(repo)
	svc.now = func() time.Time { return testClock }
	return svc, repo
}

func TestCreate_StartsAvailable(t *testing.T) {
	svc, _ := newTestService()

	rm, err := svc.Create(context.Background(), "101", "Individual")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rm.Status != StatusAvailable {
		t.Fatalf("status = %s, want Available", rm.Status)
	}
	if rm.Type != TypeIndividual {
		t.Fatalf("type = %s, want Individual", rm.Type)
	}
	if !rm.CreatedAt.Equal(testClock) {
		t.Fatalf("created_at = %v, want reloj fijo", rm.CreatedAt)
	}
}

func TestCreate_DuplicateNumber(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "101", "Individual"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Create(ctx, "101", "SpecialCare"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput por número duplicado", err)
	}
}

func TestCreate_UnknownType(t *testing.T) {
	svc, _ := newTestService()

	if _, err := svc.Create(context.Background(), "101", "Penthouse"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Create(context.Background(), "", "Individual"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput sin número", err)
	}
}

func TestChangeStatus_AnyKnownTransition(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	rm, err := svc.Create(ctx, "101", "Individual")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Recepción corrige a mano: Maintenance → Available directo.
	for _, st := range []string{"Maintenance", "Available", "OutOfService", "Cleaning"} {
		got, err := svc.ChangeStatus(ctx, rm.ID, st)
		if err != nil {
			t.Fatalf("change to %s: %v", st, err)
		}
		if string(got.Status) != st {
			t.Fatalf("status = %s, want %s", got.Status, st)
		}
	}

	if _, err := svc.ChangeStatus(ctx, rm.ID, "Closed"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput para estado desconocido", err)
	}
	if _, err := svc.ChangeStatus(ctx, "nope", "Available"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRegisterCleaning_StampsWithoutStatusChange(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	rm, err := svc.Create(ctx, "101", "Individual")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.ChangeStatus(ctx, rm.ID, "Cleaning"); err != nil {
		t.Fatalf("change: %v", err)
	}

	got, err := svc.RegisterCleaning(ctx, rm.ID, "staff-7")
	if err != nil {
		t.Fatalf("cleaning: %v", err)
	}
	if got.LastCleanedBy != "staff-7" {
		t.Fatalf("cleaned by = %q, want staff-7", got.LastCleanedBy)
	}
	if got.LastCleanedAt == nil || !got.LastCleanedAt.Equal(testClock) {
		t.Fatalf("cleaned at = %v, want reloj fijo", got.LastCleanedAt)
	}
	// El pase Cleaning → Available lo decide recepción, no el estampado.
	if repo.byID[rm.ID].Status != StatusCleaning {
		t.Fatalf("status = %s, want Cleaning", repo.byID[rm.ID].Status)
	}

	if _, err := svc.RegisterCleaning(ctx, rm.ID, "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput sin responsable", err)
	}
}

func TestListBookableByType(t *testing.T) {
	svc, repo := newTestService()

	repo.byID["a"] = Room{ID: "a", Number: "101", Type: TypeIndividual, Status: StatusAvailable}
	repo.byID["b"] = Room{ID: "b", Number: "102", Type: TypeIndividual, Status: StatusOccupied}
	repo.byID["c"] = Room{ID: "c", Number: "103", Type: TypeIndividual, Status: StatusMaintenance}
	repo.byID["d"] = Room{ID: "d", Number: "104", Type: TypeIndividual, Status: StatusOutOfService}
	repo.byID["e"] = Room{ID: "e", Number: "201", Type: TypeSpecialCare, Status: StatusAvailable}

	got, err := svc.ListBookableByType(context.Background(), TypeIndividual)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("candidatas = %d, want 2 (Available y Occupied)", len(got))
	}
	for _, rm := range got {
		if rm.ID == "c" || rm.ID == "d" || rm.ID == "e" {
			t.Fatalf("candidata inesperada %s", rm.ID)
		}
	}
}

func TestStatistics(t *testing.T) {
	svc, repo := newTestService()

	repo.byID["a"] = Room{ID: "a", Status: StatusAvailable}
	repo.byID["b"] = Room{ID: "b", Status: StatusAvailable}
	repo.byID["c"] = Room{ID: "c", Status: StatusOccupied}

	got, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if got[StatusAvailable] != 2 || got[StatusOccupied] != 1 {
		t.Fatalf("conteo = %v", got)
	}
}
