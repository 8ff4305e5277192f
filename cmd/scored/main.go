package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/pkg/errors"

	"github.com/mind-engage/commscore/internal/accesslog"
	api "github.com/mind-engage/commscore/internal/api/http"
	"github.com/mind-engage/commscore/internal/config"
	"github.com/mind-engage/commscore/internal/db"
	"github.com/mind-engage/commscore/internal/grading"
	"github.com/mind-engage/commscore/internal/rubric"
	"github.com/mind-engage/commscore/internal/scoring"
	"github.com/mind-engage/commscore/internal/stats"
	"github.com/mind-engage/commscore/internal/storage"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(ctx, os.Getenv("COMMSCORE_CONFIG"))
	if err != nil {
		clog.FatalContextf(ctx, "config: %v", err)
	}

	// --- Request log DB ---
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	dbh, err := db.Open(dbCtx, db.Driver(cfg.DB.Driver), cfg.DB.DSN)
	dbCancel()
	if err != nil {
		clog.FatalContextf(ctx, "db open failed: %v", err)
	}
	defer dbh.Close()
	logs := accesslog.NewRepo(dbh)

	// --- Scoring ---
	src, err := storage.NewStore(ctx, cfg.Rubric.Driver, cfg.Rubric.BasePath, storage.S3Config{
		Bucket:    cfg.S3.Bucket,
		Region:    cfg.S3.Region,
		Endpoint:  cfg.S3.Endpoint,
		AccessKey: cfg.S3.AccessKey,
		SecretKey: cfg.S3.SecretKey,
	})
	if err != nil {
		clog.FatalContextf(ctx, "rubric store: %v", err)
	}
	loader := rubric.NewLoader(src, rubric.Options{
		HeaderRow: cfg.Rubric.HeaderRowIndex(),
		Sheet:     cfg.Rubric.Sheet,
	})

	var statOpts []stats.Option
	if cfg.Grammar.Enabled {
		statOpts = append(statOpts, stats.WithGrammar(stats.NewLanguageTool(stats.LanguageToolConfig{
			Endpoint:     cfg.Grammar.URL,
			Language:     cfg.Grammar.Language,
			Timeout:      cfg.Grammar.Timeout,
			TokenURL:     cfg.Grammar.TokenURL,
			ClientID:     cfg.Grammar.ClientID,
			ClientSecret: cfg.Grammar.ClientSecret,
		})))
	}
	engine := grading.NewEngine(stats.NewCalculator(statOpts...),
		grading.WithDefaultDuration(cfg.DefaultDurationSec))

	svc := scoring.New(loader, cfg.Rubric.Source, engine)
	clog.InfoContextf(ctx, "loading rubric %s", src.Location(cfg.Rubric.Source))
	if err := svc.Load(ctx); err != nil {
		// keep serving so health checks report the failure
		clog.WarnContextf(ctx, "starting degraded: %v", err)
	} else {
		clog.InfoContextf(ctx, "scorer ready with %d rubric items", svc.Health().Rules)
	}

	// --- Router ---
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(accesslog.Middleware(logs))
	api.MountRoutes(r, svc, logs, cfg.DefaultDurationSec)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	clog.InfoContextf(ctx, "listening on %s (db=%s, rubric=%s)", cfg.HTTPAddr, cfg.DB.Driver, cfg.Rubric.Source)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		clog.FatalContextf(ctx, "serve: %v", err)
	}
}
