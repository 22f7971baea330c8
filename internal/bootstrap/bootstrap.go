package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/adeyemi/campuscore/internal/app/controllers"
	appMigrations "github.com/adeyemi/campuscore/internal/app/migrations"
	appRepos "github.com/adeyemi/campuscore/internal/app/repositories"
	appRoutes "github.com/adeyemi/campuscore/internal/app/routes"
	appServices "github.com/adeyemi/campuscore/internal/app/services"
	"github.com/adeyemi/campuscore/internal/cache"
	"github.com/adeyemi/campuscore/internal/config"
	"github.com/adeyemi/campuscore/internal/db"
	appMiddleware "github.com/adeyemi/campuscore/internal/middleware"
	pkgAuth "github.com/adeyemi/campuscore/internal/pkg/auth"
	"github.com/adeyemi/campuscore/internal/pkg/helpers"
	"github.com/adeyemi/campuscore/internal/pkg/logger"
	"github.com/adeyemi/campuscore/internal/pkg/mailer"
	"github.com/adeyemi/campuscore/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos                  *appRepos.Repositories
	Services               *appServices.Services
	Cache                  *cache.RedisCache
	JWTService             *pkgAuth.JWTService
	AuthMiddleware         *appMiddleware.AuthMiddleware
	AuthController         *appControllers.AuthController
	HierarchyController    *appControllers.HierarchyController
	StudentController      *appControllers.StudentController
	MatriculeController    *appControllers.MatriculeController
	NotificationController *appControllers.NotificationController
	IntegrationController  *appControllers.IntegrationController
	Logger                 zerolog.Logger
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
// seeds default reference data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
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
		database.Close()
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

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// SetupCache connects to redis.
func SetupCache(cfg *config.Config, lgr zerolog.Logger) (*cache.RedisCache, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	redisCache, err := cache.NewRedisCache(ctx, cfg.GetRedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.GetRedisAddr()).Msg("Failed to connect to redis")
		return nil, err
	}

	lgr.Info().Str("addr", cfg.GetRedisAddr()).Msg("Redis connection established")
	return redisCache, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, redisCache *cache.RedisCache, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Cache: redisCache}

	deps.Repos = appRepos.NewRepositories(database.Pool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	smtpPort, err := strconv.Atoi(cfg.SMTP.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port %q: %w", cfg.SMTP.Port, err)
	}
	smtpMailer := mailer.NewSMTPMailer(mailer.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      smtpPort,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromName:  cfg.SMTP.FromName,
		FromEmail: cfg.SMTP.FromAddress,
	}, lgr)

	studentDataTTL := helpers.ParseDuration(cfg.Cache.StudentDataTTL, appServices.DefaultStudentCacheTTL)

	deps.Services = appServices.NewServices(
		database,
		deps.Repos,
		redisCache,
		deps.JWTService,
		smtpMailer,
		studentDataTTL,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService)
	deps.HierarchyController = appControllers.NewHierarchyController(deps.Services.HierarchyService)
	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService)
	deps.MatriculeController = appControllers.NewMatriculeController(deps.Services.MatriculeService)
	deps.NotificationController = appControllers.NewNotificationController(
		deps.Services.NotificationService,
		deps.Services.RecipientService,
	)
	deps.IntegrationController = appControllers.NewIntegrationController(deps.Services.IntegrationService)

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
	router.Use(appMiddleware.RequestID())
	router.Use(appMiddleware.RequestLogger())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.HierarchyController,
		deps.StudentController,
		deps.MatriculeController,
		deps.NotificationController,
		deps.IntegrationController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
