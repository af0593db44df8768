package access

import "strings"

// Role es el conjunto cerrado de roles que entrega el servicio de identidad.
type Role string

const (
	RoleAdministrator Role = "Administrator"
	RoleReceptionist  Role = "Receptionist"
	RoleVeterinarian  Role = "Veterinarian"
	RoleNormalUser    Role = "NormalUser"
)

// ParseRole normaliza el rol de los claims. Cualquier valor desconocido
// degrada a NormalUser: nunca ampliamos visibilidad por un rol malformado.
func ParseRole(s string) Role {
	switch strings.TrimSpace(s) {
	case string(RoleAdministrator):
		return RoleAdministrator
	case string(RoleReceptionist):
		return RoleReceptionist
	case string(RoleVeterinarian):
		return RoleVeterinarian
	default:
		return RoleNormalUser
	}
}

// IsStaff indica visibilidad de instalación completa.
func IsStaff(r Role) bool {
	switch r {
	case RoleAdministrator, RoleReceptionist, RoleVeterinarian:
		return true
	default:
		return false
	}
}
