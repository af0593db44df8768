package pets

import "context"

// OwnerOf expone el ownerID de una mascota.
// Se usa para armar el resolver del evaluador de accesos sin crear
// ciclos de imports (pets <-> access).
func (s *Service) OwnerOf(ctx context.Context, petID string) (string, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return "", err
	}
	return p.OwnerID, nil
}
