package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appanalysis "github.com/bryanwahyu/analysis-store/internal/application/analysis"
	"github.com/bryanwahyu/analysis-store/internal/config"
	"github.com/bryanwahyu/analysis-store/internal/infra/db"
	"github.com/bryanwahyu/analysis-store/internal/infra/httpserver"
	"github.com/bryanwahyu/analysis-store/internal/infra/seed"
	"github.com/bryanwahyu/analysis-store/internal/logging"
	"github.com/bryanwahyu/analysis-store/internal/middleware"
)

type rootOptions struct {
	configPath     string
	configRequired bool
	envFile        string
}

func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "analysis-api",
		Short:         "Serve the analysis record over HTTP",
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// config.yaml is optional unless pointed at explicitly
			opts.configRequired = cmd.Flag("config").Changed || os.Getenv("CONFIG_PATH") != ""
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	defaultConfig := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", defaultConfig, "path to config.yaml")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before config when present")

	rootCmd.AddCommand(newServeCommand(opts), newInitCommand(opts))
	return rootCmd
}

func newServeCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Initialize the store and serve HTTP until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}
}

func newInitCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the table and seed it if empty, then exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := bootstrap(ctx, opts)
			if err != nil {
				return err
			}
			defer app.close()

			seeded, err := app.svc.Initialize(ctx)
			if err != nil {
				app.log.Error("initialization failed", zap.Error(err))
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded=%t\n", seeded)
			return nil
		},
	}
}

// app is everything both subcommands need.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *sql.DB
	svc *appanalysis.Service
}

func (a *app) close() {
	a.db.Close()
	_ = a.log.Sync()
}

func bootstrap(ctx context.Context, opts *rootOptions) (*app, error) {
	if err := config.LoadDotEnv(opts.envFile); err != nil {
		return nil, fmt.Errorf("env file: %w", err)
	}

	cfg, err := config.Load(opts.configPath, opts.configRequired)
	if err != nil {
		return nil, fmt.Errorf("config load error: %w", err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}

	sqlDB, repo, err := db.Open(ctx, cfg)
	if err != nil {
		log.Error("database connect error", zap.String("driver", cfg.Database.Driver), zap.Error(err))
		return nil, err
	}

	src, err := seed.NewSource(cfg)
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("seed source: %w", err)
	}

	return &app{
		cfg: cfg,
		log: log,
		db:  sqlDB,
		svc: &appanalysis.Service{Repo: repo, Seed: src, Log: log},
	}, nil
}

func runServe(ctx context.Context, opts *rootOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	defer a.close()

	// no traffic against an uninitialized store
	seeded, err := a.svc.Initialize(ctx)
	if err != nil {
		a.log.Error("initialization failed", zap.Error(err))
		return err
	}
	a.log.Info("store ready",
		zap.String("driver", a.cfg.Database.Driver),
		zap.String("seed", a.cfg.Seed.Path),
		zap.Bool("seeded", seeded),
	)

	routerOpts := httpserver.Options{
		AllowedOrigins: a.cfg.Server.AllowedOrigins,
		Metrics:        middleware.NewMetrics(),
		Health: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: a.db},
		},
		Readiness: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: a.db},
			"record": middleware.CheckFunc(func(ctx context.Context) error {
				_, err := a.svc.Get(ctx)
				return err
			}),
		},
	}
	if a.cfg.RateLimit.Enabled {
		routerOpts.RateLimiter = middleware.NewRateLimiter(ctx, a.cfg.RateLimit.Capacity, a.cfg.RateLimit.RefillRate)
	}

	addr := fmt.Sprintf(":%d", a.cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpserver.NewRouter(a.svc, a.log, routerOpts),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.log.Error("server error", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("shutting down server...")
	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		a.log.Warn("shutdown error", zap.Error(err))
		return err
	}
	return nil
}
