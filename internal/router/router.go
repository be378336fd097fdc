package router

import (
	"database/sql"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "pest-field-service/docs"
	"pest-field-service/internal/adapters/notify/webhook"
	mem "pest-field-service/internal/adapters/storage/memory"
	pg "pest-field-service/internal/adapters/storage/postgres"
	"pest-field-service/internal/domain/access"
	"pest-field-service/internal/domain/biocide"
	"pest-field-service/internal/domain/directory"
	"pest-field-service/internal/domain/feedback"
	"pest-field-service/internal/domain/identity"
	"pest-field-service/internal/domain/schedule"
	"pest-field-service/internal/middleware"
	"pest-field-service/internal/platform/httpclient"
	"pest-field-service/internal/platform/logger"
	"pest-field-service/internal/ports/auth"
	"pest-field-service/internal/ports/notify"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)

	// Para emitir tokens en /auth/login. Puede ser nil (login deshabilitado).
	TokenIssuer identity.TokenIssuer

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	// Opcional: URL de webhook para notificar cambios de agenda.
	WebhookURL string

	Log logger.Logger
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

	r.Get("/swagger/*", httpSwagger.Handler())

	log := opts.Log
	if log == nil {
		log = logger.NewFromEnv()
	}

	var (
		dirRepo      directory.Repository
		accessRepo   access.Repository
		scheduleRepo schedule.Repository
		feedbackRepo feedback.Repository
		biocideRepo  biocide.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err != nil {
				log.Warn("no se pudo abrir Postgres, usando repos in-memory", map[string]any{"error": err.Error()})
			} else {
				db = opened
			}
		}
	}

	if db != nil {
		dirRepo = pg.NewDirectoryRepo(db)
		accessRepo = pg.NewAccessRepo(db)
		scheduleRepo = pg.NewScheduleRepo(db)
		feedbackRepo = pg.NewFeedbackRepo(db)
		biocideRepo = pg.NewBiocideRepo(db)
	} else {
		dirRepo = mem.NewDirectoryRepo()
		accessRepo = mem.NewAccessRepo()
		scheduleRepo = mem.NewScheduleRepo()
		feedbackRepo = mem.NewFeedbackRepo()
		biocideRepo = mem.NewBiocideRepo()
	}

	var notifier notify.Notifier
	if opts.WebhookURL != "" {
		client := httpclient.New(10 * time.Second)
		notifier = webhook.NewNotifier(opts.WebhookURL, client, log)
	}

	// Services por módulo
	dirSvc := directory.NewService(dirRepo)
	accessSvc := access.NewService(accessRepo, dirSvc)
	scheduleSvc := schedule.NewService(scheduleRepo, dirSvc, notifier)
	feedbackSvc := feedback.NewService(feedbackRepo, accessSvc)
	biocideSvc := biocide.NewService(biocideRepo, scheduleSvc)

	// Rutas por módulo
	directory.RegisterRoutes(r, dirSvc)
	access.RegisterRoutes(r, accessSvc)
	schedule.RegisterRoutes(r, scheduleSvc)
	feedback.RegisterRoutes(r, feedbackSvc)
	biocide.RegisterRoutes(r, biocideSvc)

	if opts.TokenIssuer != nil {
		identitySvc := identity.NewService(dirSvc, opts.TokenIssuer)
		identity.RegisterRoutes(r, identitySvc)
	}

	return r
}
