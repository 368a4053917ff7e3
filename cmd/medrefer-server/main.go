package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/medrefer/medrefer/internal/config"
	"github.com/medrefer/medrefer/internal/domain/account"
	"github.com/medrefer/medrefer/internal/domain/approval"
	"github.com/medrefer/medrefer/internal/platform/db"
	"github.com/medrefer/medrefer/internal/platform/gate"
	"github.com/medrefer/medrefer/internal/platform/middleware"
	"github.com/medrefer/medrefer/internal/platform/token"
)

// devSessionSecret signs tokens when no SESSION_SECRET is configured in
// development. Config validation refuses to start production without one.
const devSessionSecret = "medrefer-development-session-secret-do-not-use"

func main() {
	rootCmd := &cobra.Command{
		Use:   "medrefer-server",
		Short: "Healthcare referral platform API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the referral API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolSettings{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			count, err := db.NewMigrator(pool, dir).Up(ctx)
			if err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Printf("Applied %d migration(s) successfully.\n", count)
			return nil
		},
	}
	upCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(upCmd)

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, _ := cmd.Flags().GetString("dir")

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolSettings{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
			if err != nil {
				return err
			}
			defer pool.Close()

			statuses, err := db.NewMigrator(pool, dir).Status(ctx)
			if err != nil {
				return fmt.Errorf("failed to get migration status: %w", err)
			}

			fmt.Printf("%-10s %-40s %-10s %s\n", "VERSION", "NAME", "STATUS", "APPLIED AT")
			for _, s := range statuses {
				status := "pending"
				appliedAt := ""
				if s.Applied {
					status = "applied"
					if s.AppliedAt != nil {
						appliedAt = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
				}
				fmt.Printf("%-10d %-40s %-10s %s\n", s.Version, s.Name, status, appliedAt)
			}
			return nil
		},
	}
	statusCmd.Flags().String("dir", "./migrations", "Path to migrations directory")
	cmd.AddCommand(statusCmd)

	return cmd
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret = devSessionSecret
		logger.Warn().Msg("SESSION_SECRET not set; using the development signing key")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolSettings{MaxConns: cfg.DBMaxConns, MinConns: cfg.DBMinConns})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	rateLimitCfg := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		BurstSize:         cfg.RateLimitBurst,
	}
	if rateLimitCfg.RequestsPerSecond <= 0 {
		rateLimitCfg = middleware.DefaultRateLimitConfig()
	}
	// One limiter shared by every /api/v1 group so a client cannot get
	// extra capacity by spreading requests across route groups.
	rateLimit := middleware.RateLimit(rateLimitCfg)

	// Services
	issuer := token.NewIssuer([]byte(secret), "medrefer", cfg.SessionTTLDuration())

	acctRepo := account.NewRepo(pool)
	acctSvc := account.NewService(acctRepo)
	acctHandler := account.NewHandler(acctSvc, issuer)

	apprRepo := approval.NewRepo(pool)
	apprSvc := approval.NewService(acctRepo, apprRepo)
	apprHandler := approval.NewHandler(apprSvc)

	// Navigation gate: the permission table restricts routes to explicit
	// role sets; routes without an entry are open to any approved account.
	table := gate.NewTable().
		Restrict("/api/v1/accounts", account.RoleSuperAdmin).
		Restrict("/api/v1/accounts/:id/active", account.RoleSuperAdmin, account.RoleHospital)
	navGate := gate.New(table, "/login", "/dashboard")

	// Public routes: health, registration, login
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	public := e.Group("/api/v1")
	public.Use(rateLimit)
	acctHandler.RegisterPublicRoutes(public)

	// Session routes: authenticated but not approval-gated, so pending and
	// rejected accounts can still see who they are and refresh their status.
	sessionGroup := e.Group("/api/v1", rateLimit, token.Middleware(issuer))
	acctHandler.RegisterRoutes(sessionGroup)

	// Gated routes: full navigation gate on every request.
	apiV1 := e.Group("/api/v1", rateLimit, token.Middleware(issuer), navGate.Middleware(acctSvc))
	acctHandler.RegisterAdminRoutes(apiV1)

	// Approval administration: authenticated and role-restricted, but never
	// classification-gated. A hospital admin's own account classifies as
	// pending on every screen, yet that admin is the only one allowed to
	// work the doctor queue.
	adminV1 := e.Group("/api/v1", rateLimit, token.Middleware(issuer), account.Authenticate(acctSvc))
	apprHandler.RegisterRoutes(adminV1)

	addr := ":" + cfg.Port
	logger.Info().Str("addr", addr).Msg("starting server")
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("server stopped")
	}
	return nil
}
