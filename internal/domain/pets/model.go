package pets

import (
	"strings"
	"time"
)

// Species define las especies aceptadas en la guardería.
// @Enum dog, cat
type Species string

const (
	SpeciesDog Species = "dog"
	SpeciesCat Species = "cat"
)

func ParseSpecies(s string) (Species, bool) {
	switch Species(strings.ToLower(strings.TrimSpace(s))) {
	case SpeciesDog:
		return SpeciesDog, true
	case SpeciesCat:
		return SpeciesCat, true
	default:
		return "", false
	}
}

// ApprovalStatus: una mascota nueva queda pending hasta que un
// veterinario o recepción revisa su ficha. Es descriptivo, no bloquea
// reservas por sí mismo.
// @Enum pending, approved
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
)

// Pet es la ficha de hospedaje de una mascota. Pertenece de forma
// exclusiva a un Owner.
type Pet struct {
	ID      string
	OwnerID string

	Name    string
	Species Species
	Breed   string

	Approval ApprovalStatus

	// Atributos de cuidado para la estadía.
	Allergies           string
	SpecialDiet         string
	BandageInstructions string
	Notes               string

	CreatedAt time.Time
	UpdatedAt time.Time
}
