package reservations

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-boarding/internal/domain/access"
	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/domain/pets"
	"pet-boarding/internal/domain/rooms"
	"pet-boarding/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const dateLayout = "2006-01-02"

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service, ownersSvc *owners.Service, policy *access.Evaluator) {
	r.Route("/reservations", func(rr chi.Router) {
		rr.Post("/", createReservationHandler(svc, petsSvc, policy))
		rr.Get("/", listReservationsHandler(svc, petsSvc, ownersSvc))
		rr.Get("/availability", availabilityHandler(svc))
		rr.Get("/{reservationID}", getReservationHandler(svc, policy))
		rr.Put("/{reservationID}/status", updateStatusHandler(svc))
		rr.Post("/{reservationID}/cancel", cancelReservationHandler(svc, policy))
		rr.Delete("/{reservationID}", deleteReservationHandler(svc))
	})

	// Vista derivada para el monitoreo por cámara.
	r.Get("/pets/{petID}/camera", cameraHandler(svc, policy))
}

type createReservationRequest struct {
	PetID        string             `json:"pet_id"`
	StartDate    string             `json:"start_date"`         // YYYY-MM-DD
	EndDate      string             `json:"end_date,omitempty"` // YYYY-MM-DD; vacío si indefinida
	IsIndefinite bool               `json:"is_indefinite"`
	RoomType     string             `json:"room_type" enums:"Individual,IndividualWithCamera,SpecialCare"`
	Assistance   string             `json:"assistance" enums:"Basic,Medium,Full"`
	Services     AdditionalServices `json:"services"`
	Schedule     string             `json:"schedule" enums:"Daycare,Overnight,Extended"`
}

type reservationResponse struct {
	ID                  string             `json:"id"`
	PetID               string             `json:"pet_id"`
	RoomID              string             `json:"room_id"`
	StartDate           string             `json:"start_date"`
	EndDate             string             `json:"end_date,omitempty"`
	IsIndefinite        bool               `json:"is_indefinite"`
	Status              ReservationStatus  `json:"status"`
	Assistance          AssistanceLevel    `json:"assistance"`
	Services            AdditionalServices `json:"services"`
	Schedule            StaySchedule       `json:"schedule"`
	DailyRateCents      int64              `json:"daily_rate_cents"`
	TotalCents          int64              `json:"total_cents"`
	Paid                bool               `json:"paid"`
	SpecialInstructions string             `json:"special_instructions,omitempty"`
	CreatedAt           time.Time          `json:"created_at"`
	UpdatedAt           time.Time          `json:"updated_at"`
}

// createReservationHandler godoc
// @Summary Solicitar reserva
// @Description Crea una reserva en Pending si hay una habitación del tipo pedido con el rango libre. Un NormalUser solo reserva para sus propias mascotas.
// @Tags reservations
// @Accept json
// @Produce json
// @Param payload body createReservationRequest true "Solicitud de estadía"
// @Success 201 {object} reservationResponse
// @Failure 400 {string} string "fechas/enums inválidos"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "pet not found"
// @Failure 409 {string} string "no availability"
// @Router /reservations [post]
func createReservationHandler(svc *Service, petsSvc *pets.Service, policy *access.Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createReservationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if _, err := petsSvc.GetByID(r.Context(), req.PetID); err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}
		if err := policy.CanAccessPet(r.Context(), claims, req.PetID); err != nil {
			writeAccessError(w, err)
			return
		}

		start, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var end *time.Time
		if strings.TrimSpace(req.EndDate) != "" {
			t, err := time.Parse(dateLayout, strings.TrimSpace(req.EndDate))
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			end = &t
		}

		rv, err := svc.Create(r.Context(), CreateInput{
			PetID:        req.PetID,
			StartDate:    start,
			EndDate:      end,
			IsIndefinite: req.IsIndefinite,
			RoomType:     req.RoomType,
			Assistance:   req.Assistance,
			Services:     req.Services,
			Schedule:     req.Schedule,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReservationResponse(rv))
	}
}

// listReservationsHandler: staff ve todas; NormalUser las de sus mascotas.
func listReservationsHandler(svc *Service, petsSvc *pets.Service, ownersSvc *owners.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var items []Reservation

		if access.FacilityWide(claims) {
			all, err := svc.List(r.Context())
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			items = all
		} else {
			o, err := ownersSvc.GetByUserID(r.Context(), claims.UserID)
			if err != nil {
				writeJSON(w, http.StatusOK, []reservationResponse{})
				return
			}
			ownPets, err := petsSvc.ListByOwner(r.Context(), o.ID)
			if err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			for _, p := range ownPets {
				rvs, err := svc.ListByPet(r.Context(), p.ID)
				if err != nil {
					http.Error(w, "internal error", http.StatusInternalServerError)
					return
				}
				items = append(items, rvs...)
			}
		}

		out := make([]reservationResponse, 0, len(items))
		for _, rv := range items {
			out = append(out, toReservationResponse(rv))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type availabilityResponse struct {
	Available  bool   `json:"available"`
	RoomID     string `json:"room_id,omitempty"`
	RoomNumber string `json:"room_number,omitempty"`
}

// availabilityHandler godoc
// @Summary Consultar disponibilidad
// @Description Responde si existe una habitación del tipo con el rango [start_date, end_date] libre. exclude omite una reserva (edición in-place).
// @Tags reservations
// @Produce json
// @Param room_type query string true "Tipo de habitación"
// @Param start_date query string true "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD; omitir si indefinida"
// @Param exclude query string false "ID de reserva a ignorar"
// @Success 200 {object} availabilityResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Router /reservations/availability [get]
func availabilityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		q := r.URL.Query()

		roomType, ok := rooms.ParseRoomType(q.Get("room_type"))
		if !ok {
			http.Error(w, "unknown room_type", http.StatusBadRequest)
			return
		}

		start, err := time.Parse(dateLayout, strings.TrimSpace(q.Get("start_date")))
		if err != nil {
			http.Error(w, "start_date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		stay := StayRange{Start: DateOnly(start)}
		if raw := strings.TrimSpace(q.Get("end_date")); raw != "" {
			end, err := time.Parse(dateLayout, raw)
			if err != nil {
				http.Error(w, "end_date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			endDay := DateOnly(end)
			if !endDay.After(stay.Start) {
				http.Error(w, "end_date must be after start_date", http.StatusBadRequest)
				return
			}
			stay.End = &endDay
		}

		rm, found, err := svc.FindRoom(r.Context(), roomType, stay, q.Get("exclude"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := availabilityResponse{Available: found}
		if found {
			resp.RoomID = rm.ID
			resp.RoomNumber = rm.Number
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func getReservationHandler(svc *Service, policy *access.Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		rv, err := svc.GetByID(r.Context(), chi.URLParam(r, "reservationID"))
		if err != nil {
			http.Error(w, "reservation not found", http.StatusNotFound)
			return
		}

		if err := policy.CanAccessPet(r.Context(), claims, rv.PetID); err != nil {
			writeAccessError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReservationResponse(rv))
	}
}

type updateStatusRequest struct {
	Status string `json:"status" enums:"Pending,Confirmed,Active,Completed,Cancelled"`
	Force  bool   `json:"force"`
}

// updateStatusHandler godoc
// @Summary Cambiar estado de reserva
// @Description Aplica una transición del ciclo de vida (check-in: Active ocupa la habitación; check-out: Completed la deja en Cleaning). force (solo Administrator) salta la tabla de transiciones.
// @Tags reservations
// @Accept json
// @Produce json
// @Param reservationID path string true "ID de la reserva"
// @Param payload body updateStatusRequest true "Nuevo estado"
// @Success 200 {object} reservationResponse
// @Failure 400 {string} string "estado desconocido / transición inválida"
// @Failure 403 {string} string "forbidden"
// @Failure 404 {string} string "reservation not found"
// @Failure 409 {string} string "room not available"
// @Router /reservations/{reservationID}/status [put]
func updateStatusHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.RequireStaff(claims); err != nil {
			writeAccessError(w, err)
			return
		}

		var req updateStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if req.Force {
			if err := access.RequireAdmin(claims); err != nil {
				writeAccessError(w, err)
				return
			}
		}

		rv, err := svc.UpdateStatus(r.Context(), chi.URLParam(r, "reservationID"), req.Status, req.Force)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReservationResponse(rv))
	}
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func cancelReservationHandler(svc *Service, policy *access.Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		rv, err := svc.GetByID(r.Context(), chi.URLParam(r, "reservationID"))
		if err != nil {
			http.Error(w, "reservation not found", http.StatusNotFound)
			return
		}

		// El dueño puede cancelar su propia reserva; staff cualquiera.
		if err := policy.CanAccessPet(r.Context(), claims, rv.PetID); err != nil {
			writeAccessError(w, err)
			return
		}

		var req cancelRequest
		if r.Body != nil {
			_ = json.NewDecoder(r.Body).Decode(&req) // body opcional
		}

		rv, err = svc.Cancel(r.Context(), rv.ID, req.Reason)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReservationResponse(rv))
	}
}

func deleteReservationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.RequireAdmin(claims); err != nil {
			writeAccessError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), chi.URLParam(r, "reservationID")); err != nil {
			writeServiceError(w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type cameraResponse struct {
	Eligible      bool   `json:"eligible"`
	ReservationID string `json:"reservation_id,omitempty"`
	RoomID        string `json:"room_id,omitempty"`
	RoomNumber    string `json:"room_number,omitempty"`
}

// cameraHandler godoc
// @Summary Elegibilidad de cámara
// @Description Indica si la mascota tiene una estadía vigente (Confirmed/Active) en una habitación IndividualWithCamera. El streaming real queda en el cliente.
// @Tags reservations
// @Produce json
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} cameraResponse
// @Failure 403 {string} string "forbidden"
// @Router /pets/{petID}/camera [get]
func cameraHandler(svc *Service, policy *access.Evaluator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		petID := chi.URLParam(r, "petID")

		if err := policy.CanAccessPet(r.Context(), claims, petID); err != nil {
			writeAccessError(w, err)
			return
		}

		elig, err := svc.CameraEligibilityFor(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, cameraResponse{
			Eligible:      elig.Eligible,
			ReservationID: elig.ReservationID,
			RoomID:        elig.RoomID,
			RoomNumber:    elig.RoomNumber,
		})
	}
}

func toReservationResponse(rv Reservation) reservationResponse {
	resp := reservationResponse{
		ID:                  rv.ID,
		PetID:               rv.PetID,
		RoomID:              rv.RoomID,
		StartDate:           rv.StartDate.Format(dateLayout),
		IsIndefinite:        rv.IsIndefinite,
		Status:              rv.Status,
		Assistance:          rv.Assistance,
		Services:            rv.Services,
		Schedule:            rv.Schedule,
		DailyRateCents:      rv.DailyRateCents,
		TotalCents:          rv.TotalCents,
		Paid:                rv.Paid,
		SpecialInstructions: rv.SpecialInstructions,
		CreatedAt:           rv.CreatedAt,
		UpdatedAt:           rv.UpdatedAt,
	}
	if rv.EndDate != nil {
		resp.EndDate = rv.EndDate.Format(dateLayout)
	}
	return resp
}

// writeServiceError mapea los errores tipados del core al transporte:
// input/transición inválida→400, no encontrado→404, conflicto de
// disponibilidad→409, resto→500.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "reservation not found", http.StatusNotFound)
	case errors.Is(err, ErrNoAvailability), errors.Is(err, ErrRoomNotAvailable):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
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
