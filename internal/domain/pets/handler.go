package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-boarding/internal/domain/access"
	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, ownersSvc *owners.Service, policy *access.Evaluator) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createPetHandler(svc, ownersSvc))
		pr.Get("/", listPetsHandler(svc, ownersSvc))
		pr.Get("/{petID}", getPetHandler(svc, policy))
		pr.Post("/{petID}/approve", approvePetHandler(svc))
	})
}

type createPetRequest struct {
	OwnerID             string `json:"owner_id"` // solo staff; un NormalUser registra sobre su propio Owner
	Name                string `json:"name"`
	Species             string `json:"species" enums:"dog,cat"`
	Breed               string `json:"breed"`
	Allergies           string `json:"allergies"`
	SpecialDiet         string `json:"special_diet"`
	BandageInstructions string `json:"bandage_instructions"`
	Notes               string `json:"notes"`
}

type petResponse struct {
	ID                  string         `json:"id"`
	OwnerID             string         `json:"owner_id"`
	Name                string         `json:"name"`
	Species             Species        `json:"species"`
	Breed               string         `json:"breed"`
	Approval            ApprovalStatus `json:"approval"`
	Allergies           string         `json:"allergies,omitempty"`
	SpecialDiet         string         `json:"special_diet,omitempty"`
	BandageInstructions string         `json:"bandage_instructions,omitempty"`
	Notes               string         `json:"notes,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// createPetHandler godoc
// @Summary Registrar mascota
// @Description Alta de la ficha de hospedaje. Staff puede indicar owner_id; un NormalUser registra sobre su propio Owner. La ficha nace en approval=pending.
// @Tags pets
// @Accept json
// @Produce json
// @Param payload body createPetRequest true "Datos de la mascota"
// @Success 201 {object} petResponse
// @Failure 400 {string} string "invalid input"
// @Failure 401 {string} string "unauthorized"
// @Router /pets [post]
func createPetHandler(svc *Service, ownersSvc *owners.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		ownerID := strings.TrimSpace(req.OwnerID)
		if access.FacilityWide(claims) {
			if ownerID == "" {
				http.Error(w, "owner_id required", http.StatusBadRequest)
				return
			}
		} else {
			// NormalUser: siempre su propio Owner, ignorando owner_id.
			o, err := ownersSvc.GetByUserID(r.Context(), claims.UserID)
			if err != nil {
				http.Error(w, "owner profile not found", http.StatusBadRequest)
				return
			}
			ownerID = o.ID
		}

		p, err := svc.Create(r.Context(), CreateInput{
			OwnerID:             ownerID,
			Name:                req.Name,
			Species:             req.Species,
			Breed:               req.Breed,
			Allergies:           req.Allergies,
			SpecialDiet:         req.SpecialDiet,
			BandageInstructions: req.BandageInstructions,
			Notes:               req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "invalid input", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

// listPetsHandler: staff ve todas; NormalUser solo las de su Owner.
func listPetsHandler(svc *Service, ownersSvc *owners.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var (
			items []Pet
			err   error
		)

		if access.FacilityWide(claims) {
			items, err = svc.List(r.Context())
		} else {
			o, oerr := ownersSvc.GetByUserID(r.Context(), claims.UserID)
			if oerr != nil {
				// Sin Owner vinculado no hay mascotas propias.
				writeJSON(w, http.StatusOK, []petResponse{})
				return
			}
			items, err = svc.ListByOwner(r.Context(), o.ID)
		}
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getPetHandler(svc *Service, policy *access.Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		petID := chi.URLParam(r, "petID")

		if err := policy.CanAccessPet(r.Context(), claims, petID); err != nil {
			writeAccessError(w, err)
			return
		}

		p, err := svc.GetByID(r.Context(), petID)
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func approvePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.RequireStaff(claims); err != nil {
			writeAccessError(w, err)
			return
		}

		p, err := svc.Approve(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				http.Error(w, "pet not found", http.StatusNotFound)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:                  p.ID,
		OwnerID:             p.OwnerID,
		Name:                p.Name,
		Species:             p.Species,
		Breed:               p.Breed,
		Approval:            p.Approval,
		Allergies:           p.Allergies,
		SpecialDiet:         p.SpecialDiet,
		BandageInstructions: p.BandageInstructions,
		Notes:               p.Notes,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func writeAccessError(w http.ResponseWriter, err error) {
	if errors.Is(err, access.ErrUnauthorized) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	http.Error(w, "forbidden", http.StatusForbidden)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
