package reservations

import "time"

// Las fechas de estadía son date-only: la hora del día no participa en
// el chequeo de disponibilidad y ambos extremos son inclusivos.

// DateOnly trunca a medianoche UTC.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StayRange es la ventana [Start, End] inclusiva de una estadía.
// End nil representa una estadía indefinida: [Start, +inf).
type StayRange struct {
	Start time.Time
	End   *time.Time
}

func (r StayRange) Indefinite() bool {
	return r.End == nil
}

// Covers indica si el día cae dentro del rango (extremos inclusive).
func (r StayRange) Covers(day time.Time) bool {
	day = DateOnly(day)
	if day.Before(DateOnly(r.Start)) {
		return false
	}
	if r.End == nil {
		return true
	}
	return !day.After(DateOnly(*r.End))
}

// Overlaps es el chequeo clásico de intersección de intervalos
// (s1 ≤ e2 && s2 ≤ e1), con extremos inclusivos y soporte de rangos
// abiertos. Dos estadías indefinidas siempre chocan.
func Overlaps(a, b StayRange) bool {
	// a empieza después de que b terminó
	if b.End != nil && DateOnly(a.Start).After(DateOnly(*b.End)) {
		return false
	}
	// b empieza después de que a terminó
	if a.End != nil && DateOnly(b.Start).After(DateOnly(*a.End)) {
		return false
	}
	return true
}
