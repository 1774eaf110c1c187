package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	emailPkg "fitpro/internal/adapters/email"
	web "fitpro/internal/adapters/http"
	"fitpro/internal/adapters/http/perf"
	"fitpro/internal/adapters/storage"
	accountStore "fitpro/internal/adapters/storage/account"
	attendanceStore "fitpro/internal/adapters/storage/attendance"
	classStore "fitpro/internal/adapters/storage/class"
	memberStore "fitpro/internal/adapters/storage/member"
	trainerStore "fitpro/internal/adapters/storage/trainer"
	"fitpro/internal/adapters/token"
	"fitpro/internal/application/orchestrators"
	"fitpro/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func setupLogger(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(h))
}

func run(ctx context.Context, cfg config.Config) error {
	db, err := storage.Open(ctx, cfg.DatabaseURL, time.Duration(cfg.SlowQueryMs)*time.Millisecond)
	if err != nil {
		return err
	}
	defer db.Close()
	slog.Info("database_ready", "dialect", string(db.Dialect()), "schema", storage.LatestSchemaVersion())

	// Request and query timings feed the same ring buffer behind /api/admin/perf.
	collector := perf.NewCollector(perf.DefaultRingSize)
	db.Observe(collector.RecordQuery)

	stores := web.Stores{
		AccountStore:    accountStore.NewSQLStore(db),
		MemberStore:     memberStore.NewSQLStore(db),
		TrainerStore:    trainerStore.NewSQLStore(db),
		ClassStore:      classStore.NewSQLStore(db),
		AttendanceStore: attendanceStore.NewSQLStore(db),
	}

	if cfg.SeedAdminEmail != "" && cfg.SeedAdminPassword != "" {
		err := orchestrators.ExecuteSeedAdmin(ctx, orchestrators.SeedAdminInput{
			Username: "admin",
			Email:    cfg.SeedAdminEmail,
			Password: cfg.SeedAdminPassword,
		}, orchestrators.SeedAdminDeps{AccountStore: stores.AccountStore, BcryptCost: cfg.BcryptCost})
		if err != nil {
			return err
		}
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.EmailFrom)
		slog.Info("email_sender", "kind", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_sender", "kind", "noop", "note", "FITPRO_RESEND_KEY is not set; verification and reset emails are not delivered")
		} else {
			slog.Info("email_sender", "kind", "noop")
		}
	}

	var tokens *token.JWT
	if cfg.JWTSecret != "" {
		tokens = token.New([]byte(cfg.JWTSecret))
	} else {
		// Development only; Load refuses production without a secret.
		if tokens, err = token.NewEphemeral(); err != nil {
			return err
		}
		slog.Warn("jwt_secret_ephemeral", "note", "sessions end when the server restarts")
	}

	srv := web.NewServer(web.Deps{
		Stores:    stores,
		Tokens:    tokens,
		Notifier:  emailPkg.NewNotifier(sender, cfg.EmailFrom, cfg.ReplyTo),
		Config:    cfg,
		Collector: collector,
	})
	handler, err := srv.Handler(ctx)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_start", "version", version, "addr", cfg.Addr, "env", cfg.Env)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stop", "reason", "signal")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
