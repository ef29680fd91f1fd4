package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"brainplan/internal/attachments"
	"brainplan/internal/backend"
	"brainplan/internal/brainstorm"
	"brainplan/internal/shared/config"
	"brainplan/internal/shared/server"
	"brainplan/internal/shared/server/middleware"
	"brainplan/internal/shared/storage/db"
	"brainplan/internal/shared/storage/object"
	localstore "brainplan/internal/shared/storage/object/local"
	s3store "brainplan/internal/shared/storage/object/s3"
	"brainplan/internal/submissions"
	"brainplan/internal/web"
)

// App holds shared dependencies.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Store       object.Store
	History     *submissions.Service
	Intake      *attachments.Intake
	Sessions    *brainstorm.Sessions
	Live        brainstorm.Source
	WebHandler  *web.Handler
	APIHandler  *web.APIHandler
	RateLimiter *middleware.RateLimiter
}

// Build prepares shared dependencies and the router.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	history, err := buildHistory(cfg, sqlDB)
	if err != nil {
		return nil, err
	}

	live, err := buildLiveSource(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Store:       store,
		History:     history,
		Live:        live,
		RateLimiter: middleware.NewRateLimiter(nil),
		Intake: &attachments.Intake{
			Store:  store,
			Limits: cfg.Limits(),
		},
	}

	mode := cfg.Mode()
	mock := brainstorm.NewMockGenerator(cfg.MockDelay)
	app.Sessions, err = brainstorm.NewSessions(cfg.SessionCacheSize, func(sessionID string) *brainstorm.Coordinator {
		return brainstorm.NewCoordinator(mode,
			brainstorm.WithMockSource(mock),
			brainstorm.WithLiveSource(app.Live),
			brainstorm.WithRecorder(app.History),
			brainstorm.WithSession(sessionID),
			brainstorm.WithLimits(cfg.Limits()),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}

	app.WebHandler = web.NewHandler(app.Sessions, app.Intake, mode, cfg.Limits())
	app.APIHandler = web.NewAPIHandler(app.Sessions, app.Intake, app.History, mode)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:     app.Config,
		Web:        app.WebHandler,
		API:        app.APIHandler,
		RateLimits: app.RateLimiter,
	})

	log.Printf("bootstrap: mode=%s backend=%s store=%s history=%s", mode.Label(), mode.BackendBaseURL, cfg.ObjectStoreType, historyKind(sqlDB))
	return app, nil
}

// Close releases the database pool, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory history")
		return nil, nil
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory history: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory history: %v", err)
			return nil, nil
		}
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		store, err := s3store.New(ctx, cfg.AWSRegion, s3store.Options{
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			KMSKeyID: cfg.SSEKMSKeyID,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case "none":
		return nil, nil
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildHistory(cfg config.Config, sqlDB *sql.DB) (*submissions.Service, error) {
	if sqlDB != nil {
		return &submissions.Service{Repo: &submissions.PGRepo{DB: sqlDB}}, nil
	}
	repo, err := submissions.NewMemoryRepo(cfg.HistoryCacheSize)
	if err != nil {
		return nil, fmt.Errorf("history cache: %w", err)
	}
	return &submissions.Service{Repo: repo}, nil
}

// buildLiveSource returns nil in mock mode so the coordinator never holds a
// typed-nil client.
func buildLiveSource(cfg config.Config) (brainstorm.Source, error) {
	if cfg.UseMockData {
		return nil, nil
	}
	client, err := backend.NewClient(cfg.BackendURL, cfg.BackendTimeout)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func historyKind(sqlDB *sql.DB) string {
	if sqlDB != nil {
		return "postgres"
	}
	return "memory"
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
