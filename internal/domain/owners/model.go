package owners

import "time"

// Owner es el dueño registrado en recepción. Puede estar vinculado 1:1
// a una cuenta de usuario (UserID) o existir solo como registro de
// mostrador (UserID vacío).
type Owner struct {
	ID     string
	UserID string

	Name  string
	Phone string
	Email string

	// PetCount es un contador desnormalizado para el buscador de
	// recepción. Se actualiza best-effort al registrar mascotas.
	PetCount int

	CreatedAt time.Time
	UpdatedAt time.Time
}
