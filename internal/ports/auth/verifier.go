package auth

import "context"

// AuthVerifier valida un token de sesión y devuelve los claims del
// usuario. La implementación productiva vive en adapters/auth/identity
// (servicio de identidad externo); en desarrollo el middleware acepta
// los headers X-Debug-* sin verifier.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}
