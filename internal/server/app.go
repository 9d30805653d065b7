// Package server initializes and runs the catalog application server.
// It wires configuration, database, asset storage and services together,
// applies migrations, and runs the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/dmitrijs2005/movievault/internal/logging"
	"github.com/dmitrijs2005/movievault/internal/server/assets"
	"github.com/dmitrijs2005/movievault/internal/server/config"
	"github.com/dmitrijs2005/movievault/internal/server/httpapi"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/movievault/internal/server/services"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config          *config.Config
	logger          logging.Logger
	db              *sql.DB
	userService     *services.UserService
	movieService    *services.MovieService
	categoryService *services.CategoryService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	store, err := newAssetStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	us := services.NewUserService(db, rm, cfg, logger)
	ms := services.NewMovieService(db, rm, store, logger)
	cs := services.NewCategoryService(db, rm, logger)

	return &App{
		config:          cfg,
		logger:          logger,
		db:              db,
		userService:     us,
		movieService:    ms,
		categoryService: cs,
	}, nil
}

func newAssetStore(ctx context.Context, cfg *config.Config, logger logging.Logger) (assets.Store, error) {
	switch cfg.AssetBackend {
	case config.AssetBackendLocal:
		return assets.NewLocalStore(cfg.StorageRoot, cfg.PublicBaseURL, logger), nil
	case config.AssetBackendS3:
		return assets.NewS3Store(ctx, assets.S3Options{
			RootUser:     cfg.S3RootUser,
			RootPassword: cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		}, cfg.PublicBaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown asset backend: %s", cfg.AssetBackend)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	router := httpapi.Setup(app.config,
		httpapi.NewUserHandler(app.userService),
		httpapi.NewMovieHandler(app.movieService),
		httpapi.NewCategoryHandler(app.categoryService),
	)

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "server shutdown error", "error", err.Error())
		}
	}()

	app.logger.Info(ctx, "starting http server", "addr", app.config.EndpointAddr)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
