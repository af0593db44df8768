package owners

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type RegisterInput struct {
	UserID string // opcional: vínculo a cuenta
	Name   string
	Phone  string
	Email  string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Owner, error) {
	if strings.TrimSpace(in.Name) == "" {
		return Owner{}, ErrInvalidInput
	}

	// Un user solo puede tener un Owner vinculado.
	userID := strings.TrimSpace(in.UserID)
	if userID != "" {
		if _, err := s.repo.GetByUserID(ctx, userID); err == nil {
			return Owner{}, ErrInvalidInput
		}
	}

	now := s.now()
	o := Owner{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      strings.TrimSpace(in.Name),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     strings.TrimSpace(in.Email),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, err
	}
	return o, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Owner, error) {
	o, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Owner{}, ErrNotFound
	}
	return o, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Owner, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Owner{}, ErrNotFound
	}
	o, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return Owner{}, ErrNotFound
	}
	return o, nil
}

func (s *Service) List(ctx context.Context) ([]Owner, error) {
	return s.repo.List(ctx)
}

// UserOf expone el userID vinculado a un Owner (puede ser vacío).
// Lo usa el resolver de ownership del evaluador de accesos.
func (s *Service) UserOf(ctx context.Context, ownerID string) (string, error) {
	o, err := s.GetByID(ctx, ownerID)
	if err != nil {
		return "", err
	}
	return o.UserID, nil
}

// BumpPetCount incrementa el contador desnormalizado de mascotas.
// Es una escritura secundaria: los callers la tratan como best-effort.
func (s *Service) BumpPetCount(ctx context.Context, ownerID string) error {
	o, err := s.GetByID(ctx, ownerID)
	if err != nil {
		return err
	}
	o.PetCount++
	o.UpdatedAt = s.now()
	return s.repo.Update(ctx, o)
}
