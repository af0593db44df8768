package rooms

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
	// Gestión de habitaciones: solo staff.
	r.Route("/rooms", func(rr chi.Router) {
		rr.Post("/", createRoomHandler(svc))
		rr.Get("/", listRoomsHandler(svc))
		rr.Put("/{roomID}/status", changeRoomStatusHandler(svc))
		rr.Post("/{roomID}/cleanings", registerCleaningHandler(svc))
	})
}

type createRoomRequest struct {
	Number string `json:"number"`
	Type   string `json:"type" enums:"Individual,IndividualWithCamera,SpecialCare"`
}

type changeStatusRequest struct {
	Status string `json:"status" enums:"Available,Occupied,Cleaning,Maintenance,OutOfService"`
}

type roomResponse struct {
	ID            string     `json:"id"`
	Number        string     `json:"number"`
	Type          RoomType   `json:"type"`
	Status        RoomStatus `json:"status"`
	LastCleanedAt *time.Time `json:"last_cleaned_at,omitempty"`
	LastCleanedBy string     `json:"last_cleaned_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// createRoomHandler godoc
// @Summary Crear habitación
// @Description Alta de una habitación física. Nace en estado Available. Solo staff.
// @Tags rooms
// @Accept json
// @Produce json
// @Param payload body createRoomRequest true "Número y tipo"
// @Success 201 {object} roomResponse
// @Failure 400 {string} string "invalid input / número duplicado"
// @Failure 403 {string} string "forbidden"
// @Router /rooms [post]
func createRoomHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.RequireStaff(claims); err != nil {
			writeAccessError(w, err)
			return
		}

		var req createRoomRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rm, err := svc.Create(r.Context(), req.Number, req.Type)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toRoomResponse(rm))
	}
}

func listRoomsHandler(svc *Service) http.HandlerFunc {
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

		out := make([]roomResponse, 0, len(items))
		for _, rm := range items {
			out = append(out, toRoomResponse(rm))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// changeRoomStatusHandler godoc
// @Summary Cambiar estado de habitación
// @Description Transición libre entre estados reconocidos (corrección manual de recepción). Solo staff.
// @Tags rooms
// @Accept json
// @Produce json
// @Param roomID path string true "ID de la habitación"
// @Param payload body changeStatusRequest true "Nuevo estado"
// @Success 200 {object} roomResponse
// @Failure 400 {string} string "estado desconocido"
// @Failure 404 {string} string "room not found"
// @Router /rooms/{roomID}/status [put]
func changeRoomStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.RequireStaff(claims); err != nil {
			writeAccessError(w, err)
			return
		}

		var req changeStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rm, err := svc.ChangeStatus(r.Context(), chi.URLParam(r, "roomID"), req.Status)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "room not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toRoomResponse(rm))
	}
}

type registerCleaningRequest struct {
	PerformedBy string `json:"performed_by"`
}

func registerCleaningHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.RequireStaff(claims); err != nil {
			writeAccessError(w, err)
			return
		}

		var req registerCleaningRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		rm, err := svc.RegisterCleaning(r.Context(), chi.URLParam(r, "roomID"), req.PerformedBy)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, "performed_by required", http.StatusBadRequest)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "room not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toRoomResponse(rm))
	}
}

func toRoomResponse(rm Room) roomResponse {
	return roomResponse{
		ID:            rm.ID,
		Number:        rm.Number,
		Type:          rm.Type,
		Status:        rm.Status,
		LastCleanedAt: rm.LastCleanedAt,
		LastCleanedBy: rm.LastCleanedBy,
		CreatedAt:     rm.CreatedAt,
		UpdatedAt:     rm.UpdatedAt,
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
