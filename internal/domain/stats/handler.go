package stats

import (
	"encoding/json"
	"errors"
	"net/http"

	"pet-boarding/internal/domain/access"
	"pet-boarding/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/stats/dashboard", dashboardHandler(svc))
}

// dashboardHandler godoc
// @Summary Dashboard de ocupación
// @Description Conteos de habitaciones y reservas por estado, tasa de ocupación y facturación del mes. Solo staff.
// @Tags stats
// @Produce json
// @Success 200 {object} Dashboard
// @Failure 403 {string} string "forbidden"
// @Router /stats/dashboard [get]
func dashboardHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		if err := access.RequireStaff(claims); err != nil {
			if errors.Is(err, access.ErrUnauthorized) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		d, err := svc.Dashboard(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(d)
	}
}
