package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/platform/logger"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo   Repository
	owners *owners.Service
	log    logger.Logger
	now    func() time.Time
}

func NewService(repo Repository, ownersSvc *owners.Service, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:   repo,
		owners: ownersSvc,
		log:    log,
		now:    time.Now,
	}
}

type CreateInput struct {
	OwnerID             string
	Name                string
	Species             string
	Breed               string
	Allergies           string
	SpecialDiet         string
	BandageInstructions string
	Notes               string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Pet, error) {
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" || strings.TrimSpace(in.Name) == "" {
		return Pet{}, ErrInvalidInput
	}

	sp, ok := ParseSpecies(in.Species)
	if !ok {
		return Pet{}, ErrInvalidInput
	}

	if _, err := s.owners.GetByID(ctx, ownerID); err != nil {
		return Pet{}, ErrInvalidInput
	}

	now := s.now()
	p := Pet{
		ID:                  uuid.NewString(),
		OwnerID:             ownerID,
		Name:                strings.TrimSpace(in.Name),
		Species:             sp,
		Breed:               strings.TrimSpace(in.Breed),
		Approval:            ApprovalPending,
		Allergies:           strings.TrimSpace(in.Allergies),
		SpecialDiet:         strings.TrimSpace(in.SpecialDiet),
		BandageInstructions: strings.TrimSpace(in.BandageInstructions),
		Notes:               strings.TrimSpace(in.Notes),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}

	// Escritura secundaria best-effort: el contador desnormalizado del
	// dueño no puede abortar el alta de la mascota.
	if err := s.owners.BumpPetCount(ctx, ownerID); err != nil {
		s.log.Warn("owner pet count bump failed", map[string]any{
			"owner_id": ownerID,
			"pet_id":   p.ID,
			"err":      err.Error(),
		})
	}

	return p, nil
}

// Approve marca la ficha como revisada por staff.
func (s *Service) Approve(ctx context.Context, petID string) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}

	if p.Approval == ApprovalApproved {
		return p, nil // idempotente
	}

	p.Approval = ApprovalApproved
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Pet{}, ErrNotFound
	}
	return p, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Pet, error) {
	return s.repo.ListByOwner(ctx, strings.TrimSpace(ownerID))
}

func (s *Service) List(ctx context.Context) ([]Pet, error) {
	return s.repo.List(ctx)
}
