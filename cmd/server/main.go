package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/willemschots/signups/assets"
	"github.com/willemschots/signups/internal"
	"github.com/willemschots/signups/internal/db"
	"github.com/willemschots/signups/internal/observability"
	"github.com/willemschots/signups/internal/users"
	usersdb "github.com/willemschots/signups/internal/users/db"
	"github.com/willemschots/signups/internal/web"
	"github.com/willemschots/signups/internal/web/view"
	"golang.org/x/sync/errgroup"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Stderr))
}

func run(ctx context.Context, w io.Writer) int {
	logger := slog.New(slog.NewTextHandler(w, nil))

	cfg, err := configFromEnv()
	if err != nil {
		logger.Error("failed to get config from environment", "error", err)
		return 1
	}

	logger, closeLog := newLogger(w, cfg)
	defer closeLog()

	conn, err := db.Open(ctx, cfg.dbConfig())
	if err != nil {
		logger.Error("failed to open database", "dialect", dialectOf(cfg.DatabaseURL), "error", err)
		return 1
	}

	defer func() {
		err := conn.Close()
		if err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	if cfg.DBMigrate {
		logger.Info("attempting to migrate database", "dialect", conn.Dialect)

		migrations, err := db.Migrate(ctx, conn)
		if err != nil {
			logger.Error("failed to migrate database", "error", err)
			return 1
		}

		for _, m := range migrations {
			logger.Info("migration ran", "version", m.Version, "filename", m.Filename, "duration", m.Duration)
		}
	}

	viewRenderer, err := newViewRenderer(logger, cfg)
	if err != nil {
		logger.Error("failed to create view renderer", "error", err)
		return 1
	}

	userService := users.NewService(usersdb.New(conn, time.Now))

	server := web.NewServer(&web.ServerDeps{
		Logger:       logger,
		ViewRenderer: viewRenderer,
		UserService:  userService,
		Metrics:      observability.NewMetrics(),
	}, web.ServerConfig{
		SSLRedirect: cfg.HTTPSSLRedirect,
	})

	srv := &http.Server{
		Addr:         cfg.Addr,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
		Handler:      server,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}

	// We need to run two tasks concurrently:
	// - Listen and serving of the HTTP server.
	// - Waiting for a signal to stop the server.

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.Addr, "build", internal.CurrentBuild)
		// ListenAndServe always returns a non-nil error,
		// g will cancel gCtx when an error is returned, so
		// this will also stop the other goroutine.
		return srv.ListenAndServe()
	})

	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("stopping http server")

		shutCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutCtx)
	})

	err = g.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server stopped with error", "error", err)
		return 1
	}

	logger.Info("http server stopped successfully")

	return 0
}

// newLogger creates the logger configured by cfg. When a log file is
// configured, logs are written to both w and the file.
func newLogger(w io.Writer, cfg config) (*slog.Logger, func()) {
	closeFunc := func() {}

	if cfg.LogFile != "" {
		file := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    100, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
		w = io.MultiWriter(w, file)
		closeFunc = func() { _ = file.Close() }
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}

	var h slog.Handler
	switch cfg.LogFormat {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}

	return slog.New(h), closeFunc
}

func newViewRenderer(logger *slog.Logger, cfg config) (web.ViewRenderer, error) {
	if cfg.HTTPViewDir != "" {
		logger.Info("loading templates from disk", "dir", cfg.HTTPViewDir)
		return view.NewFSRenderer(os.DirFS(cfg.HTTPViewDir)), nil
	}

	r, err := view.NewMemRenderer(assets.TemplateFS)
	if err != nil {
		return nil, err
	}

	logger.Info("parsed embedded templates", "views", r.Names())
	return r, nil
}

func dialectOf(url string) db.Dialect {
	if db.IsPostgresURL(url) {
		return db.Postgres
	}
	return db.SQLite
}
