package stats

import (
	"context"
	"testing"
	"time"

	"pet-boarding/internal/adapters/storage/memory"
	"pet-boarding/internal/domain/reservations"
	"pet-boarding/internal/domain/rooms"
	"pet-boarding/internal/platform/metrics"
)

func dayFromNow(days int) time.Time {
	return time.Now().UTC().AddDate(0, 0, days)
}

func TestDashboard(t *testing.T) {
	ctx := context.Background()

	roomRepo := memory.NewRoomRepo()
	resRepo := memory.NewReservationRepo(roomRepo)

	roomsSvc := rooms.NewService(roomRepo)
	resSvc := reservations.NewService(resRepo, roomsSvc, reservations.Options{})
	svc := NewService(roomsSvc, resSvc, metrics.New())

	mustRoom := func(number, roomType string) rooms.Room {
		rm, err := roomsSvc.Create(ctx, number, roomType)
		if err != nil {
			t.Fatalf("create room %s: %v", number, err)
		}
		return rm
	}

	mustRoom("101", "Individual")
	occupied := mustRoom("102", "Individual")
	maintenance := mustRoom("103", "SpecialCare")

	if _, err := roomsSvc.ChangeStatus(ctx, occupied.ID, "Occupied"); err != nil {
		t.Fatalf("occupy: %v", err)
	}
	if _, err := roomsSvc.ChangeStatus(ctx, maintenance.ID, "Maintenance"); err != nil {
		t.Fatalf("maintenance: %v", err)
	}

	d, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	// Maintenance queda fuera del denominador de ocupación.
	if d.RoomsInService != 2 {
		t.Fatalf("rooms in service = %d, want 2", d.RoomsInService)
	}
	if d.RoomsOccupied != 1 {
		t.Fatalf("rooms occupied = %d, want 1", d.RoomsOccupied)
	}
	if d.OccupancyRate != 0.5 {
		t.Fatalf("occupancy = %v, want 0.5", d.OccupancyRate)
	}
	if d.RoomsByStatus[rooms.StatusMaintenance] != 1 {
		t.Fatalf("rooms by status = %v", d.RoomsByStatus)
	}
}

func TestDashboard_ReservationFigures(t *testing.T) {
	ctx := context.Background()

	roomRepo := memory.NewRoomRepo()
	resRepo := memory.NewReservationRepo(roomRepo)

	roomsSvc := rooms.NewService(roomRepo)
	resSvc := reservations.NewService(resRepo, roomsSvc, reservations.Options{})
	svc := NewService(roomsSvc, resSvc, metrics.New())

	if _, err := roomsSvc.Create(ctx, "101", "Individual"); err != nil {
		t.Fatalf("create room: %v", err)
	}
	if _, err := roomsSvc.Create(ctx, "102", "Individual"); err != nil {
		t.Fatalf("create room: %v", err)
	}

	end := reservations.DateOnly(dayFromNow(3))
	start := reservations.DateOnly(dayFromNow(1))

	rv, err := resSvc.Create(ctx, reservations.CreateInput{
		PetID:     "pet-1",
		StartDate: start,
		EndDate:   &end,
		RoomType:  "Individual",
	})
	if err != nil {
		t.Fatalf("create reservation: %v", err)
	}

	d, err := svc.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}

	if d.ReservationsByStatus[reservations.StatusPending] != 1 {
		t.Fatalf("reservations by status = %v", d.ReservationsByStatus)
	}
	if d.MonthReservations != 1 {
		t.Fatalf("month reservations = %d, want 1", d.MonthReservations)
	}
	if d.MonthTotalCents != rv.TotalCents {
		t.Fatalf("month total = %d, want %d", d.MonthTotalCents, rv.TotalCents)
	}
	if d.MonthAvgCents != rv.TotalCents {
		t.Fatalf("month avg = %d, want %d", d.MonthAvgCents, rv.TotalCents)
	}
}
