package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/emre/sinavmarket/internal/app/controllers"
	appMigrations "github.com/emre/sinavmarket/internal/app/migrations"
	appRepos "github.com/emre/sinavmarket/internal/app/repositories"
	appRoutes "github.com/emre/sinavmarket/internal/app/routes"
	appServices "github.com/emre/sinavmarket/internal/app/services"
	"github.com/emre/sinavmarket/internal/config"
	"github.com/emre/sinavmarket/internal/db"
	appMiddleware "github.com/emre/sinavmarket/internal/middleware"
	pkgAuth "github.com/emre/sinavmarket/internal/pkg/auth"
	"github.com/emre/sinavmarket/internal/pkg/helpers"
	"github.com/emre/sinavmarket/internal/pkg/logger"
	"github.com/emre/sinavmarket/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services       *appServices.Services
	Controllers    *appControllers.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger // Get the configured global logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	// Run migrations
	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	// Create Default Data (after migrations)
	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Log the error but don't necessarily fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	database := &db.PostgresDB{Pool: dbPool}
	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Services. Entitlement comes first, the exam side depends on it.
	entitlementService := appServices.NewEntitlementService(
		deps.Repos.AccessRepository,
		deps.Repos.ProductExamRepository,
	)

	deps.Services = &appServices.Services{
		Auth:        appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService),
		Category:    appServices.NewCategoryService(deps.Repos.CategoryRepository),
		Entitlement: entitlementService,
		Product: appServices.NewProductService(
			database,
			deps.Repos.ProductRepository,
			deps.Repos.ProductExamRepository,
			deps.Repos.ExamRepository,
		),
		Order: appServices.NewOrderService(
			database,
			deps.Repos.OrderRepository,
			deps.Repos.ProductRepository,
			entitlementService,
		),
		Exam: appServices.NewExamService(
			database,
			deps.Repos.ExamRepository,
			deps.Repos.BookletRepository,
			entitlementService,
		),
		Import: appServices.NewImportService(
			database,
			deps.Repos.ExamRepository,
			deps.Repos.BookletRepository,
		),
		Session: appServices.NewSessionService(
			database,
			deps.Repos.SessionRepository,
			deps.Repos.ExamRepository,
			deps.Repos.BookletRepository,
			entitlementService,
		),
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, deps.Repos.UserRepository)

	deps.Controllers = &appControllers.Controllers{
		Auth:     appControllers.NewAuthController(deps.Services.Auth),
		Category: appControllers.NewCategoryController(deps.Services.Category),
		Product:  appControllers.NewProductController(deps.Services.Product),
		Order:    appControllers.NewOrderController(deps.Services.Order),
		Exam:     appControllers.NewExamController(deps.Services.Exam, deps.Services.Import),
		Session:  appControllers.NewSessionController(deps.Services.Session),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
