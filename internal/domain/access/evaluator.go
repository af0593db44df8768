package access

import (
	"context"
	"errors"
	"strings"

	"pet-boarding/internal/ports/auth"
)

var (
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
)

// PetOwnerResolver resuelve el userID dueño (vía Owner) de una mascota.
// Es una func y no una interface para evitar ciclos de imports con
// pets/owners: el router la arma componiendo ambos servicios.
type PetOwnerResolver func(ctx context.Context, petID string) (userID string, err error)

// Evaluator centraliza las reglas de alcance por rol. Toda lectura del
// core pasa por aquí; los handlers no re-derivan reglas por endpoint.
type Evaluator struct {
	ownerOf PetOwnerResolver
}

func NewEvaluator(ownerOf PetOwnerResolver) *Evaluator {
	return &Evaluator{ownerOf: ownerOf}
}

// Require valida que haya identidad en el request.
func Require(c auth.Claims) error {
	if strings.TrimSpace(c.UserID) == "" {
		return ErrUnauthorized
	}
	return nil
}

// RequireStaff: Administrator, Receptionist o Veterinarian.
func RequireStaff(c auth.Claims) error {
	if err := Require(c); err != nil {
		return err
	}
	if !IsStaff(ParseRole(c.Role)) {
		return ErrForbidden
	}
	return nil
}

// RequireAdmin: solo Administrator (borrados duros, overrides).
func RequireAdmin(c auth.Claims) error {
	if err := Require(c); err != nil {
		return err
	}
	if ParseRole(c.Role) != RoleAdministrator {
		return ErrForbidden
	}
	return nil
}

// FacilityWide indica si el caller ve todo (staff) o solo lo propio.
func FacilityWide(c auth.Claims) bool {
	return IsStaff(ParseRole(c.Role))
}

// CanAccessPet permite staff siempre; a un NormalUser solo si la mascota
// pertenece (Owner→User) al caller.
func (e *Evaluator) CanAccessPet(ctx context.Context, c auth.Claims, petID string) error {
	if err := Require(c); err != nil {
		return err
	}
	if FacilityWide(c) {
		return nil
	}

	if e == nil || e.ownerOf == nil {
		return ErrForbidden
	}

	ownerUserID, err := e.ownerOf(ctx, petID)
	if err != nil {
		// Mascota desconocida o sin dueño vinculado: mismo veredicto que
		// fuera de alcance, no filtramos existencia a terceros.
		return ErrForbidden
	}
	if ownerUserID == "" || ownerUserID != c.UserID {
		return ErrForbidden
	}
	return nil
}
