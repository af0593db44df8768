package auth

// Claims representa la identidad ya autenticada de un request.
// El core confía en esto: la emisión/validación de credenciales vive
// en el servicio de identidad, no aquí.
type Claims struct {
	UserID string
	Role   string // Administrator | Receptionist | Veterinarian | NormalUser
	Email  string
}
