package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"blogfront/app/config"
	"blogfront/app/controllers"
	"blogfront/app/middleware"
	"blogfront/app/repositories"
	"blogfront/app/routes"
	"blogfront/app/services"
	"blogfront/app/theme"
	"blogfront/app/upstream"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
)

// App is the assembled web front end.
type App struct {
	Config  *config.Config
	Handler http.Handler
	Logger  logrus.FieldLogger

	db *badger.DB
}

// NewApp wires the web front end against api. Sessions live in an
// in-memory badger store that is dropped on Close.
func NewApp(cfg *config.Config, api upstream.PostsAPI, logger logrus.FieldLogger) (*App, error) {
	db, err := repositories.OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	sessionRepo := repositories.NewBadgerSessionRepository(db, cfg.Session.TTL)
	postService := services.NewPostService(api, logger, nil)

	postController, err := controllers.NewPostController(sessionRepo, postService, theme.Default(), cfg.Brand.Title, cfg.Feed.PageSize, logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	sessions, err := middleware.NewSessionManager(sessionRepo, cfg.Session.CookieName, cfg.Session.Secret, cfg.Session.TTL, cfg.Feed.ListOptions(), logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	if cfg.Session.Secret == "" {
		logger.Warn("No session secret configured; sessions will not survive a restart")
	}

	return &App{
		Config:  cfg,
		Handler: routes.SetupRoutes(postController, sessions, logger),
		Logger:  logger,
		db:      db,
	}, nil
}

// Close releases the session store.
func (a *App) Close() error {
	return a.db.Close()
}

// Serve accepts connections on l until ctx is cancelled, then shuts the
// server down gracefully within the configured timeout.
func (a *App) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:      a.Handler,
		ReadTimeout:  a.Config.Server.ReadTimeout,
		WriteTimeout: a.Config.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(l)
	}()
	a.Logger.WithField("addr", l.Addr().String()).Info("Starting blog front end")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := a.Config.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	a.Logger.Info("Shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// RunAppServer listens on the configured address and serves until ctx ends.
func RunAppServer(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger) error {
	api := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	app, err := NewApp(cfg, api, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	l, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.Server.Addr, err)
	}
	return app.Serve(ctx, l)
}
