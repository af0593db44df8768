package reservations

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b StayRange
		want bool
	}{
		{
			name: "disjuntos",
			a:    StayRange{Start: day(2026, 3, 1), End: dayPtr(2026, 3, 5)},
			b:    StayRange{Start: day(2026, 3, 10), End: dayPtr(2026, 3, 12)},
			want: false,
		},
		{
			name: "extremos compartidos: mismo día de salida y entrada choca",
			a:    StayRange{Start: day(2026, 3, 1), End: dayPtr(2026, 3, 5)},
			b:    StayRange{Start: day(2026, 3, 5), End: dayPtr(2026, 3, 8)},
			want: true,
		},
		{
			name: "contenido",
			a:    StayRange{Start: day(2026, 3, 1), End: dayPtr(2026, 3, 10)},
			b:    StayRange{Start: day(2026, 3, 4), End: dayPtr(2026, 3, 6)},
			want: true,
		},
		{
			name: "adyacentes con un día de separación",
			a:    StayRange{Start: day(2026, 3, 1), End: dayPtr(2026, 3, 5)},
			b:    StayRange{Start: day(2026, 3, 6), End: dayPtr(2026, 3, 8)},
			want: false,
		},
		{
			name: "indefinida contra rango futuro",
			a:    StayRange{Start: day(2026, 3, 1)},
			b:    StayRange{Start: day(2026, 9, 1), End: dayPtr(2026, 9, 10)},
			want: true,
		},
		{
			name: "indefinida que arranca después del fin del rango",
			a:    StayRange{Start: day(2026, 3, 20)},
			b:    StayRange{Start: day(2026, 3, 1), End: dayPtr(2026, 3, 10)},
			want: false,
		},
		{
			name: "dos indefinidas siempre chocan",
			a:    StayRange{Start: day(2026, 1, 1)},
			b:    StayRange{Start: day(2026, 12, 1)},
			want: true,
		},
		{
			name: "la hora del día no participa",
			a:    StayRange{Start: time.Date(2026, 3, 5, 23, 0, 0, 0, time.UTC), End: dayPtr(2026, 3, 6)},
			b:    StayRange{Start: time.Date(2026, 3, 6, 1, 0, 0, 0, time.UTC), End: dayPtr(2026, 3, 8)},
			want: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Overlaps(tc.a, tc.b); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
			// La intersección es simétrica.
			if got := Overlaps(tc.b, tc.a); got != tc.want {
				t.Fatalf("Overlaps(%v, %v) = %v, want %v (simetría)", tc.b, tc.a, got, tc.want)
			}
		})
	}
}

func TestCovers(t *testing.T) {
	closed := StayRange{Start: day(2026, 3, 10), End: dayPtr(2026, 3, 15)}

	if closed.Covers(day(2026, 3, 9)) {
		t.Fatal("no debería cubrir el día previo al inicio")
	}
	if !closed.Covers(day(2026, 3, 10)) {
		t.Fatal("debería cubrir el día de inicio (inclusive)")
	}
	if !closed.Covers(day(2026, 3, 15)) {
		t.Fatal("debería cubrir el día de fin (inclusive)")
	}
	if closed.Covers(day(2026, 3, 16)) {
		t.Fatal("no debería cubrir el día posterior al fin")
	}

	open := StayRange{Start: day(2026, 3, 10)}
	if !open.Covers(day(2030, 1, 1)) {
		t.Fatal("una estadía indefinida cubre cualquier día futuro")
	}
	if open.Covers(day(2026, 3, 9)) {
		t.Fatal("una estadía indefinida no cubre días previos al inicio")
	}
}

func TestDateOnly(t *testing.T) {
	got := DateOnly(time.Date(2026, 3, 10, 18, 45, 12, 99, time.FixedZone("X", -5*3600)))
	want := day(2026, 3, 10)
	if !got.Equal(want) {
		t.Fatalf("DateOnly = %v, want medianoche UTC del mismo día", got)
	}
}
