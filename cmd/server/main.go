package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/diewo77/go-identity/auth"
	"github.com/diewo77/go-identity/internal/config"
	"github.com/diewo77/go-identity/internal/db"
	"github.com/diewo77/go-identity/internal/policy"
	"github.com/diewo77/go-identity/internal/services"
	"github.com/diewo77/go-identity/internal/store"
	"github.com/diewo77/go-identity/internal/telemetry"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "identityd",
		Short:         "Identity and authorization service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newSeedCmd(), newTokenCmd())
	return root
}

// setup loads .env and the environment, then configures logging.
func setup(ctx context.Context) (config.Config, error) {
	_ = godotenv.Load()
	cfg, err := config.Load(ctx)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	telemetry.SetupLogger(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}

func connect(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	log.Info().Str("dsn", db.MaskDSN(db.NormalizeDSN(cfg.DatabaseURL))).Msg("connecting to database")
	return db.Open(ctx, cfg.DatabaseURL, db.Options{
		Retries:    cfg.DBRetries,
		RetryDelay: cfg.DBRetryDelay,
		Debug:      cfg.DBDebug,
	})
}

func migrate(ctx context.Context, cfg config.Config, database *gorm.DB) error {
	if cfg.SQLMigrations {
		return db.MigrateSQL(cfg.DatabaseURL)
	}
	return db.Migrate(ctx, database)
}

func seed(ctx context.Context, cfg config.Config, database *gorm.DB) error {
	roles, err := db.ParseRoleSeeds(cfg.SeedRoles)
	if err != nil {
		return err
	}
	return db.Seed(ctx, database, roles)
}

func hasher(cfg config.Config) services.Hasher {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return services.BcryptHasher{Cost: cost}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func serve(ctx context.Context) error {
	cfg, err := setup(ctx)
	if err != nil {
		return err
	}
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	shutdownTracing, err := telemetry.InitTracing(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown")
		}
	}()

	database, err := connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = db.Close(database) }()

	if cfg.AutoMigrate {
		if err := migrate(ctx, cfg, database); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		log.Info().Msg("migrations completed")
		if err := seed(ctx, cfg, database); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	routerCfg := policy.NewRouterConfig(database, policy.Options{
		Tokens:         auth.NewTokens(cfg.SecretKey, cfg.TokenIssuer, cfg.TokenTTL),
		Hasher:         hasher(cfg),
		CallerCacheTTL: cfg.CallerCacheTTL,
	})
	tracedName := ""
	if cfg.OTLPEndpoint != "" {
		tracedName = cfg.ServiceName
	}
	app := NewApp(routerCfg, AppOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimit:      cfg.RateLimit,
		RequestTimeout: cfg.RequestTimeout,
		ServiceName:    tracedName,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app,
		ReadHeaderTimeout: cfg.RequestTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx)
			if err != nil {
				return err
			}
			database, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()
			if err := migrate(ctx, cfg, database); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			log.Info().Msg("migrations completed successfully")
			return nil
		},
	}
}

func newSeedCmd() *cobra.Command {
	var roles []string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert default roles and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx)
			if err != nil {
				return err
			}
			if len(roles) > 0 {
				cfg.SeedRoles = roles
			}
			database, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()
			if err := seed(ctx, cfg, database); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			log.Info().Int("roles", len(cfg.SeedRoles)).Msg("seeding completed successfully")
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&roles, "role", nil, "role:department pair to seed (repeatable, overrides SEED_ROLES)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an access token for an existing user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, err := setup(ctx)
			if err != nil {
				return err
			}
			if err := cfg.RequireSecret(); err != nil {
				return err
			}
			database, err := connect(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close(database) }()

			users := services.NewUserService(store.New(database), hasher(cfg))
			u, err := users.ByEmail(ctx, email)
			if err != nil {
				return err
			}
			token, err := auth.NewTokens(cfg.SecretKey, cfg.TokenIssuer, cfg.TokenTTL).Issue(u.PublicID)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user to mint a token for")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
