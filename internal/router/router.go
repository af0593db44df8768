package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "pet-boarding/internal/adapters/storage/memory"
	pg "pet-boarding/internal/adapters/storage/postgres"
	sqlitedb "pet-boarding/internal/adapters/storage/sqlite"
	"pet-boarding/internal/domain/access"
	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/domain/pets"
	"pet-boarding/internal/domain/reservations"
	"pet-boarding/internal/domain/rooms"
	"pet-boarding/internal/domain/stats"
	"pet-boarding/internal/middleware"
	"pet-boarding/internal/platform/logger"
	"pet-boarding/internal/platform/metrics"
	"pet-boarding/internal/platform/notify"
	"pet-boarding/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pet-boarding/docs"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Opcional: si viene, usa Postgres. Si no, SQLITE_PATH o in-memory.
	DB *sql.DB

	// Opcional: archivo sqlite embebido. Se ignora si hay DB.
	SQLitePath string

	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Logger   logger.Logger
}

func NewRouter(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	var (
		ownerRepo owners.Repository
		petRepo   pets.Repository
		roomRepo  rooms.Repository
		resRepo   reservations.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			}
		}
	}

	sqlitePath := opts.SQLitePath
	if sqlitePath == "" {
		sqlitePath = os.Getenv("SQLITE_PATH")
	}

	switch {
	case db != nil:
		ownerRepo = pg.NewOwnersRepo(db)
		petRepo = pg.NewPetsRepo(db)
		roomRepo = pg.NewRoomsRepo(db)
		resRepo = pg.NewReservationsRepo(db)

	case sqlitePath != "":
		sdb, err := sqlitedb.Open(sqlitePath)
		if err == nil {
			ownerRepo = sqlitedb.NewOwnersRepo(sdb)
			petRepo = sqlitedb.NewPetsRepo(sdb)
			roomRepo = sqlitedb.NewRoomsRepo(sdb)
			resRepo = sqlitedb.NewReservationsRepo(sdb)
		}
	}

	if roomRepo == nil {
		memRooms := mem.NewRoomRepo()
		ownerRepo = mem.NewOwnerRepo()
		petRepo = mem.NewPetRepo()
		roomRepo = memRooms
		resRepo = mem.NewReservationRepo(memRooms)
	}

	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	// Services por módulo
	ownersSvc := owners.NewService(ownerRepo)
	petsSvc := pets.NewService(petRepo, ownersSvc, log)
	roomsSvc := rooms.NewService(roomRepo)
	resSvc := reservations.NewService(resRepo, roomsSvc, reservations.Options{
		Notifier: opts.Notifier,
		Metrics:  opts.Metrics,
		Logger:   log,
	})
	statsSvc := stats.NewService(roomsSvc, resSvc, opts.Metrics)

	// El resolver de tenencia compone mascota → dueño → usuario.
	policy := access.NewEvaluator(func(ctx context.Context, petID string) (string, error) {
		ownerID, err := petsSvc.OwnerOf(ctx, petID)
		if err != nil {
			return "", err
		}
		return ownersSvc.UserOf(ctx, ownerID)
	})

	// Rutas por módulo
	owners.RegisterRoutes(r, ownersSvc)
	pets.RegisterRoutes(r, petsSvc, ownersSvc, policy)
	rooms.RegisterRoutes(r, roomsSvc)
	reservations.RegisterRoutes(r, resSvc, petsSvc, ownersSvc, policy)
	stats.RegisterRoutes(r, statsSvc)

	if opts.Metrics != nil {
		r.Handle("/metrics", opts.Metrics.Handler())
	}

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}
