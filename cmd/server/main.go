// Command studysync-server starts the StudySync HTTP API and the gRPC health listener.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/and161185/studysync/internal/config"
	"github.com/and161185/studysync/internal/hosting"
	"github.com/and161185/studysync/internal/limiter"
	"github.com/and161185/studysync/internal/logging"
	"github.com/and161185/studysync/internal/mailer"
	"github.com/and161185/studysync/internal/migrate"
	"github.com/and161185/studysync/internal/repository/postgres"
	grpcserver "github.com/and161185/studysync/internal/server/grpc"
	httpserver "github.com/and161185/studysync/internal/server/http"
	"github.com/and161185/studysync/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	cfgPath := flag.String("config", "", "path to YAML config (env STUDYSYNC_CONFIG)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("studysync-server %s (%s)\n", version, buildDate)
		return
	}
	if err := run(*cfgPath); err != nil {
		fmt.Fprintln(os.Stderr, "studysync-server:", err)
		os.Exit(1)
	}
}

// run loads configuration, migrates the database and serves until SIGINT/SIGTERM.
func run(cfgPath string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Server.Addr()),
		zap.Bool("signedUploads", cfg.Hosting.Signed()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.Database.DSN); err != nil {
		return err
	}

	db, pool, err := postgres.New(ctx, cfg.Database.DSN, postgres.PoolOptions{
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		return err
	}
	defer pool.Close()

	// Repositories
	users := postgres.NewUserRepo(db)
	sessions := postgres.NewSessionRepo(db)
	resets := postgres.NewResetRepo(db)
	profiles := postgres.NewProfileRepo(db)
	notes := postgres.NewNoteRepo(db)
	tasks := postgres.NewTaskRepo(db)
	resources := postgres.NewResourceRepo(db)
	activity := postgres.NewActivityRepo(db)

	lim := limiter.NewPG(pool, limiter.Settings{
		Window:   cfg.Limiter.Window,
		MaxFails: cfg.Limiter.MaxFails,
		BlockFor: cfg.Limiter.BlockFor,
	})

	// Services
	authSvc := service.NewAuthService(
		service.AuthRepos{Users: users, Sessions: sessions, Resets: resets, Profiles: profiles},
		service.AuthOptions{
			SignKey:   []byte(cfg.Auth.JWTSecret),
			AccessTTL: cfg.Auth.AccessTokenTTL,
			ResetTTL:  cfg.Auth.ResetTokenTTL,
		},
		lim,
		mailer.NewLogMailer(logger, cfg.Auth.ResetURL),
		logger,
	)
	profileSvc := service.NewProfileService(profiles, notes, tasks, logger)
	svc := httpserver.Services{
		Auth:      authSvc,
		Notes:     service.NewNoteService(notes, profiles, logger),
		Tasks:     service.NewTaskService(tasks, service.LogCelebrator{Log: logger}, logger),
		Resources: service.NewResourceService(hosting.New(cfg.Hosting, logger), resources, activity, logger),
		Profile:   profileSvc,
		Dashboard: service.NewDashboardService(authSvc, profileSvc, notes, tasks, activity),
	}

	api := httpserver.New(svc, httpserver.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		CORS:           cfg.CORS,
		Ping:           db.Ping,
	}, logger)
	hs := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      api.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	health := grpcserver.NewHealth(db, cfg.Health.PollInterval, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http listening", zap.String("addr", hs.Addr))
		if err := hs.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return health.Serve(gctx, cfg.Health.Addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", zap.Error(err))
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
