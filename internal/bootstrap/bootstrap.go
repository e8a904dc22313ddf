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

	appControllers "github.com/selim/assesshub/internal/app/controllers"
	appMigrations "github.com/selim/assesshub/internal/app/migrations"
	appRepos "github.com/selim/assesshub/internal/app/repositories"
	appRoutes "github.com/selim/assesshub/internal/app/routes"
	appServices "github.com/selim/assesshub/internal/app/services"
	"github.com/selim/assesshub/internal/config"
	"github.com/selim/assesshub/internal/db"
	appMiddleware "github.com/selim/assesshub/internal/middleware"
	pkgAuth "github.com/selim/assesshub/internal/pkg/auth"
	"github.com/selim/assesshub/internal/pkg/cache"
	"github.com/selim/assesshub/internal/pkg/email"
	"github.com/selim/assesshub/internal/pkg/helpers"
	"github.com/selim/assesshub/internal/pkg/logger"
	"github.com/selim/assesshub/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService             *appServices.AuthService
	RecruiterLinkService    appServices.RecruiterLinkService
	AssessmentService       appServices.AssessmentService
	AssessmentAccessService appServices.AssessmentAccessService
	InviteService           appServices.InviteService
	AuthController          *appControllers.AuthController
	RecruiterCodeController *appControllers.RecruiterCodeController
	AssessmentController    *appControllers.AssessmentController
	InviteController        *appControllers.InviteController
	AuthMiddleware          *appMiddleware.AuthMiddleware
	Repos                   *appRepos.Repositories
	JWTService              *pkgAuth.JWTService
	EmailService            email.EmailService
	Cache                   *cache.Cache
	Logger                  zerolog.Logger
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

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// creates default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

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

	if err := seed.CreateDefaultData(context.Background(), dbPool, cfg, lgr); err != nil {
		// A missing admin is recoverable, a broken schema is not
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupCache connects to redis when caching is enabled. A nil cache disables
// caching throughout the services.
func SetupCache(cfg *config.Config, lgr zerolog.Logger) *cache.Cache {
	if !cfg.Redis.Enabled {
		lgr.Info().Msg("Redis cache disabled")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cacheClient, err := cache.New(ctx, cache.Config{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		TTL:      helpers.ParseDuration(cfg.Redis.TTL, 5*time.Minute),
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to redis, continuing without cache")
		return nil
	}

	lgr.Info().Str("host", cfg.Redis.Host).Int("port", cfg.Redis.Port).Msg("Redis cache connected")
	return cacheClient
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)
	deps.Cache = SetupCache(cfg, lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.EmailService = email.NewEmailService(email.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromEmail,
		UseTLS:    cfg.SMTP.UseTLS,
		BaseURL:   cfg.SMTP.BaseURL,
	}, lgr)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)

	deps.RecruiterLinkService = appServices.NewRecruiterLinkService(
		deps.Repos.UserRepository,
		deps.Repos.RecruiterLinkRepository,
		deps.Repos.AssessmentRepository,
		deps.Cache,
		lgr,
	)

	deps.AssessmentService = appServices.NewAssessmentService(
		deps.Repos.UserRepository,
		deps.Repos.AssessmentRepository,
		deps.Cache,
		lgr,
	)

	deps.AssessmentAccessService = appServices.NewAssessmentAccessService(
		deps.Repos.RecruiterLinkRepository,
		deps.Repos.AssessmentRepository,
		deps.Cache,
		lgr,
	)

	deps.InviteService = appServices.NewInviteService(
		deps.Repos.UserRepository,
		deps.Repos.AssessmentRepository,
		deps.Repos.RecruiterLinkRepository,
		deps.Repos.InviteTokenRepository,
		deps.EmailService,
		deps.Cache,
		cfg.Invites.ExpirationDays,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.RecruiterCodeController = appControllers.NewRecruiterCodeController(deps.RecruiterLinkService, lgr)
	deps.AssessmentController = appControllers.NewAssessmentController(deps.AssessmentService, deps.AssessmentAccessService, lgr)
	deps.InviteController = appControllers.NewInviteController(deps.InviteService, lgr)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	if err := appMiddleware.RegisterCustomValidators(); err != nil {
		return nil, fmt.Errorf("failed to register custom validators: %w", err)
	}

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.RecruiterCodeController,
		deps.AssessmentController,
		deps.InviteController,
		deps.AuthMiddleware,
	)

	return router, nil
}
