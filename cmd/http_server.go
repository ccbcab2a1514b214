package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/JinxSeven/Risk-360/internal"
	"github.com/JinxSeven/Risk-360/internal/audit"
	"github.com/JinxSeven/Risk-360/internal/auth"
	authPostgres "github.com/JinxSeven/Risk-360/internal/auth/postgres"
	"github.com/JinxSeven/Risk-360/internal/connectivity"
	"github.com/JinxSeven/Risk-360/internal/core/events"
	"github.com/JinxSeven/Risk-360/internal/grc"
	"github.com/JinxSeven/Risk-360/internal/grc/mock"
	grcPostgres "github.com/JinxSeven/Risk-360/internal/grc/postgres"
	"github.com/JinxSeven/Risk-360/internal/grc/remote"
	"github.com/JinxSeven/Risk-360/internal/obs"
	"github.com/JinxSeven/Risk-360/internal/store/sqlite"
	"github.com/JinxSeven/Risk-360/internal/transport/middleware"
	"github.com/JinxSeven/Risk-360/internal/transport/rest"
	"github.com/JinxSeven/Risk-360/internal/transport/swagger"
	"github.com/JinxSeven/Risk-360/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

// Dependencies is everything built from the configuration. DB and Gorm are
// nil when no backend DSN is configured.
type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Gorm   *gorm.DB
	Local  *sqlite.Store
	Probe  connectivity.Probe
	Mock   *mock.Service
	Data   grc.DataService
	Mode   grc.Mode
	Bus    *events.EventBus
	Auth   *auth.Service
	Logger *slog.Logger
}

// Close drains asynchronous event handlers before releasing the stores they write to.
func (d *Dependencies) Close() {
	d.Bus.Wait()
	if err := d.Local.Close(); err != nil {
		d.Logger.Error("local store close error", "error", err)
	}
	if d.DB != nil {
		if err := d.DB.Close(); err != nil {
			d.Logger.Error("database close error", "error", err)
		}
	}
}

func startHTTPServer() {
	cfg := mustLoadConfig()
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	deps, err := initializeDependencies(ctx, cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	if _, err := swagger.Load(ctx); err != nil {
		deps.Logger.Error("embedded OpenAPI document is invalid", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	setupRoutes(ctx, router, deps)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		deps.Logger.Info("Received signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(ctx context.Context, router *chi.Mux, deps *Dependencies) {
	cfg := deps.Config
	opts := rest.RouterOptions{AllowedOrigins: cfg.Server.AllowedOrigins}
	if cfg.Observability.Metrics.Enabled {
		opts.MetricsPath = cfg.Observability.Metrics.Path
	}
	if cfg.Server.RateLimitPerSec > 0 {
		opts.Limiter = middleware.NewRateLimiter(ctx, cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst)
	}

	rest.RegisterAllRoutes(router,
		rest.NewHealthHandler(deps.Local, deps.Probe),
		auth.NewHandler(deps.Auth),
		grc.NewHandler(deps.Data),
		opts,
		deps.Logger)
}

// initializeDependencies opens both stores, probes the backend once and picks
// the data path. A backend that cannot be reached is not an error.
func initializeDependencies(ctx context.Context, cfg *internal.Config) (*Dependencies, error) {
	lg := logger.LoggerWrapper()
	obs.Init()

	local, err := sqlite.Open(cfg.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	deps := &Dependencies{
		Config: cfg,
		Local:  local,
		Bus:    events.NewEventBus(lg),
		Logger: lg,
	}
	deps.Mock = mock.NewService(local, lg, mock.WithMaxNotifications(cfg.Storage.MaxNotifications))

	configured := cfg.Database.Configured() && !cfg.Backend.ForceDemo
	var pinger connectivity.Pinger
	if configured {
		db, err := initDB(cfg.Database)
		if err != nil {
			_ = local.Close()
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		gdb, err := initGorm(db)
		if err != nil {
			_ = db.Close()
			_ = local.Close()
			return nil, fmt.Errorf("failed to initialize gorm: %w", err)
		}
		deps.DB, deps.Gorm, pinger = db, gdb, db
	}
	if cfg.Backend.ForceDemo {
		deps.Probe = connectivity.Static(false)
	} else {
		deps.Probe = connectivity.Wrap(
			connectivity.NewDBProbe(pinger, configured, cfg.Backend.ProbeTimeout, lg),
			cfg.Backend.ProbeCacheTTL)
	}

	var remoteSvc grc.DataService
	var authRepo auth.RepositoryAPI
	if deps.Gorm != nil {
		remoteSvc = remote.NewService(grcPostgres.NewRepository(deps.Gorm), lg, cfg.Backend.RequestTimeout)
		authRepo = authPostgres.NewRepository(deps.Gorm)
	}

	selected := grc.SelectPath(ctx, deps.Probe, remoteSvc, deps.Mock, lg)
	deps.Mode = selected.Mode
	audit.NewRecorder(selected.Service, lg).Register(deps.Bus)
	deps.Data = audit.NewService(selected.Service, deps.Bus, lg)

	tokens := auth.NewJWTTokenGenerator(
		cfg.Security.AccessTokenSecret,
		cfg.Security.RefreshTokenSecret,
		cfg.Security.AccessTokenDuration,
		cfg.Security.RefreshTokenDuration,
	)
	opts := []auth.Option{auth.WithEventBus(deps.Bus)}
	if cfg.Security.BCryptCost > 0 {
		opts = append(opts, auth.WithBcryptCost(cfg.Security.BCryptCost))
	}
	// auth follows the selected path; a later failed ping must not switch it to demo rules
	deps.Auth = auth.NewService(authRepo, deps.Mock, selected, tokens, lg, opts...)

	return deps, nil
}

// initDB opens the backend handle without pinging it; the probe decides
// whether the backend is usable.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Open(driver, cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return dbConn, nil
}

// initGorm shares the sqlx pool with gorm.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{Conn: db.DB}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormLogger.Default.LogMode(gormLogger.Silent),
	})
}
