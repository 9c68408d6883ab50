package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"ai-care-backend/internal/achievement"
	"ai-care-backend/internal/compliance"
	"ai-care-backend/internal/config"
	"ai-care-backend/internal/conversation"
	"ai-care-backend/internal/dashboard"
	"ai-care-backend/internal/platform/gsheets"
	"ai-care-backend/internal/platform/workbook"
	"ai-care-backend/internal/report"
	"ai-care-backend/internal/schema"
	"ai-care-backend/internal/tabular"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logrus.New()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	if cfg.Environment == "production" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx := context.Background()

	backend, err := buildBackend(ctx, cfg, log)
	if err != nil {
		log.Fatalf("init backend: %v", err)
	}
	store := tabular.NewResilient(backend, cfg.CacheTTL, uint64(cfg.MaxRetries), log)

	if err := schema.NewReconciler(store, log).EnsureAll(ctx); err != nil {
		log.Fatalf("reconcile schema: %v", err)
	}

	reportRepo := report.NewRepository(store, log)
	reportSvc := report.NewService(reportRepo, log)
	reportHandler := report.NewHandler(reportSvc)

	convRepo := conversation.NewRepository(store, log)
	convSvc := conversation.NewService(convRepo)
	convHandler := conversation.NewHandler(convSvc)

	achRepo := achievement.NewRepository(store, log)
	achSvc := achievement.NewService(achRepo)
	achHandler := achievement.NewHandler(achSvc)

	compSvc := compliance.NewService(reportRepo, store)
	compHandler := compliance.NewHandler(compSvc)

	dashSvc := dashboard.NewService(reportRepo)
	dashHandler := dashboard.NewHandler(dashSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Route("/api", func(r chi.Router) {
		report.RegisterRoutes(r, reportHandler)
		conversation.RegisterRoutes(r, convHandler)
		achievement.RegisterRoutes(r, achHandler)
		compliance.RegisterRoutes(r, compHandler)
		dashboard.RegisterRoutes(r, dashHandler)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Infof("server listening on port %s (backend=%s)", cfg.Port, cfg.Backend)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func buildBackend(ctx context.Context, cfg *config.Config, log *logrus.Logger) (tabular.Backend, error) {
	switch cfg.Backend {
	case config.BackendGoogleSheets:
		if cfg.SpreadsheetID == "" {
			return nil, fmt.Errorf("SPREADSHEET_ID is required for the gsheets backend")
		}
		return gsheets.NewClient(ctx, cfg.SpreadsheetID, cfg.GoogleCredentialsFile)
	case config.BackendWorkbook:
		return workbook.Open(cfg.WorkbookPath)
	case config.BackendMemory:
		return tabular.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
