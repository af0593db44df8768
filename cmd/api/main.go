package main

import (
	"net/http"
	"os"
	"time"

	"pet-boarding/internal/adapters/auth/identity"
	"pet-boarding/internal/platform/logger"
	"pet-boarding/internal/platform/metrics"
	"pet-boarding/internal/platform/notify"
	"pet-boarding/internal/ports/auth"
	"pet-boarding/internal/router"
)

// @title Pet Boarding API
// @version 1.0
// @description Reservas de alojamiento para mascotas: habitaciones, disponibilidad y ciclo de vida de la estadía.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	var verifier auth.AuthVerifier // nil = modo dev (headers X-Debug-*)
	if baseURL := os.Getenv("IDENTITY_BASE_URL"); baseURL != "" {
		client, err := identity.NewClient(identity.Config{
			BaseURL: baseURL,
			APIKey:  os.Getenv("IDENTITY_API_KEY"),
		})
		if err != nil {
			log.Error("identity client init failed", map[string]any{"err": err.Error()})
			os.Exit(1)
		}
		verifier = identity.NewVerifier(client)
	}

	var notifier notify.Notifier = notify.Nop{}
	if url := os.Getenv("NATS_URL"); url != "" {
		nn, err := notify.ConnectNats(url, os.Getenv("NATS_SUBJECT"))
		if err != nil {
			// Best-effort: sin broker el servicio opera igual.
			log.Warn("nats connect failed", map[string]any{"url": url, "err": err.Error()})
		} else {
			notifier = nn
			defer nn.Close()
		}
	}

	r := router.NewRouter(router.Options{
		AuthVerifier: verifier,
		SQLitePath:   os.Getenv("SQLITE_PATH"),
		Notifier:     notifier,
		Metrics:      metrics.New(),
		Logger:       log,
	})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"err": err.Error()})
		os.Exit(1)
	}
}
