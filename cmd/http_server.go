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
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/endemicwatch/endemic-monitoring/internal"
	"github.com/endemicwatch/endemic-monitoring/internal/alert"
	alertPostgres "github.com/endemicwatch/endemic-monitoring/internal/alert/postgres"
	"github.com/endemicwatch/endemic-monitoring/internal/auth"
	authPostgres "github.com/endemicwatch/endemic-monitoring/internal/auth/postgres"
	"github.com/endemicwatch/endemic-monitoring/internal/cases"
	casesPostgres "github.com/endemicwatch/endemic-monitoring/internal/cases/postgres"
	"github.com/endemicwatch/endemic-monitoring/internal/content"
	contentPostgres "github.com/endemicwatch/endemic-monitoring/internal/content/postgres"
	"github.com/endemicwatch/endemic-monitoring/internal/core/events"
	"github.com/endemicwatch/endemic-monitoring/internal/disease"
	diseasePostgres "github.com/endemicwatch/endemic-monitoring/internal/disease/postgres"
	"github.com/endemicwatch/endemic-monitoring/internal/stats"
	statsPostgres "github.com/endemicwatch/endemic-monitoring/internal/stats/postgres"
	"github.com/endemicwatch/endemic-monitoring/internal/transport"
	"github.com/endemicwatch/endemic-monitoring/internal/transport/rest"
	"github.com/endemicwatch/endemic-monitoring/internal/user"
	userPostgres "github.com/endemicwatch/endemic-monitoring/internal/user/postgres"
	"github.com/endemicwatch/endemic-monitoring/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *sqlx.DB
	GormDB   *gorm.DB
	Router   *chi.Mux
	Handlers rest.Handlers
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	rest.RegisterAllRoutes(deps.Router, deps.DB.DB, deps.Handlers, deps.Logger)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	slog.Info("Starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		slog.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			slog.Error("Database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	slog.Info("Server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if config.Observability.Logging.Format == "json" {
		logger.Init("production")
	} else {
		logger.Init("development")
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := initGorm(db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	bus := events.NewEventBus(lg)
	registerAuditLog(bus, lg)

	tokenGen := auth.NewJWTTokenGenerator(config.Security.TokenSecret, config.Security.AccessTokenDuration)
	baseHandler := transport.NewBaseHandler(lg)

	authService := auth.NewService(authPostgres.NewAuthRepository(gormDB), tokenGen, bus, lg, config.Security.BCryptCost)
	diseaseService := disease.NewService(diseasePostgres.NewDiseaseRepository(gormDB), lg)
	caseService := cases.NewService(casesPostgres.NewCaseRepository(gormDB), diseaseService, bus, lg)
	alertService := alert.NewService(alertPostgres.NewAlertRepository(gormDB), lg)
	contentService := content.NewService(contentPostgres.NewContentRepository(gormDB), lg)
	userService := user.NewService(userPostgres.NewUserRepository(gormDB), lg)
	statsService := stats.NewService(statsPostgres.NewStatsRepository(gormDB), lg)

	handlers := rest.Handlers{
		Auth:    auth.NewHandler(authService),
		User:    user.NewHandler(baseHandler, userService),
		Case:    cases.NewHandler(baseHandler, caseService),
		Alert:   alert.NewHandler(baseHandler, alertService),
		Disease: disease.NewHandler(baseHandler, diseaseService),
		Content: content.NewHandler(baseHandler, contentService),
		Stats:   stats.NewHandler(baseHandler, statsService),
	}

	return &Dependencies{
		Config:   config,
		DB:       db,
		GormDB:   gormDB,
		Router:   chi.NewRouter(),
		Handlers: handlers,
		Logger:   lg,
	}, nil
}

// initDB initializes the database connection
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// verify connection; close underlying *sql.DB on failure
	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}

// initGorm layers the ORM over the already-pooled pgx connection so both
// share one pool. TranslateError turns driver unique violations into
// gorm.ErrDuplicatedKey, which the patient-code retry depends on.
func initGorm(db *sqlx.DB) (*gorm.DB, error) {
	return gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
		TranslateError: true,
	})
}

// registerAuditLog mirrors every auth and case event into the structured
// log so sign-ins and case mutations leave a trace outside the database.
func registerAuditLog(bus *events.EventBus, lg *slog.Logger) {
	auditLogger := lg.With("channel", "audit")

	handler := func(ctx context.Context, event events.Event) error {
		auditLogger.Info("audit event",
			"event_id", event.EventID(),
			"event_type", event.EventType(),
			"occurred_at", event.OccurredAt(),
			"payload", event.Payload())
		return nil
	}

	for _, eventType := range []string{
		events.EventTypeUserRegistered,
		events.EventTypeUserLoggedIn,
		events.EventTypeUserLoggedOut,
		events.EventTypeLoginFailed,
		events.EventTypeCaseCreated,
		events.EventTypeCaseUpdated,
		events.EventTypeCaseDeleted,
	} {
		bus.Subscribe(eventType, handler)
	}
}
