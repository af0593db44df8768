package owners

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"pet-boarding/internal/domain/access"
	"pet-boarding/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Registro y listado son operaciones de mostrador (staff).
	r.Route("/owners", func(or chi.Router) {
		or.Post("/", registerOwnerHandler(svc))
		or.Get("/", listOwnersHandler(svc))
	})

	// El dueño autenticado consulta su propio registro.
	r.Get("/me/owner", myOwnerHandler(svc))
}

type registerOwnerRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
}

type ownerResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id,omitempty"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	PetCount  int       `json:"pet_count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// registerOwnerHandler godoc
// @Summary Registrar dueño
// @Description Alta de un dueño en recepción, opcionalmente vinculado a una cuenta de usuario. Solo staff.
// @Tags owners
// @Accept json
// @Produce json
// @Param payload body registerOwnerRequest true "Datos del dueño"
// @Success 201 {object} ownerResponse
// @Failure 400 {string} string "invalid input"
// @Failure 403 {string} string "forbidden"
// @Router /owners [post]
func registerOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.RequireStaff(claims); err != nil {
			writeAccessError(w, err)
			return
		}

		var req registerOwnerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.Register(r.Context(), RegisterInput{
			UserID: req.UserID,
			Name:   req.Name,
			Phone:  req.Phone,
			Email:  req.Email,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "invalid input", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toOwnerResponse(o))
	}
}

func listOwnersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.RequireStaff(claims); err != nil {
			writeAccessError(w, err)
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]ownerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOwnerResponse(o))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func myOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.Require(claims); err != nil {
			writeAccessError(w, err)
			return
		}

		o, err := svc.GetByUserID(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "owner not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:        o.ID,
		UserID:    o.UserID,
		Name:      o.Name,
		Phone:     o.Phone,
		Email:     o.Email,
		PetCount:  o.PetCount,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
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
