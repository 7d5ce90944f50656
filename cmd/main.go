package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/leadpilot/auth-service/config"
	"github.com/leadpilot/auth-service/internal/application"
	pginfra "github.com/leadpilot/auth-service/internal/infrastructure/postgres"
	"github.com/leadpilot/auth-service/internal/infrastructure/rediscache"
	handlers "github.com/leadpilot/auth-service/internal/interface/http"
	"github.com/leadpilot/auth-service/internal/interface/middleware"
	"github.com/leadpilot/auth-service/internal/router"
	"github.com/leadpilot/auth-service/internal/router/modules"
	"github.com/leadpilot/auth-service/pkg/helpers"
	"github.com/leadpilot/auth-service/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()

	// Postgres
	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		log.Fatalf("migration failed: %v", err)
	}

	// Redis
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	// Optional collaborators: email queue, search index, object storage.
	var pub *helpers.RabbitPublisher
	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err = helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; welcome emails disabled")
			pub = nil
		} else {
			defer pub.Close()
		}
	}

	esClient, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch unavailable; user indexing disabled")
		esClient = nil
	}

	gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		logger.WithError(err).Warn("gcs unavailable; avatar upload disabled")
		gcsClient = nil
	} else {
		defer func() { _ = gcsClient.Close() }()
	}

	// Auth core: explicit construction, no ambient lookups.
	hasher := helpers.NewPasswordHasher(helpers.DefaultPasswordPolicy())
	tokens := helpers.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.SessionTTL)

	authSvc := application.NewService(
		pginfra.NewUserRepository(pool),
		pginfra.NewCredentialRepository(pool),
		pginfra.NewSessionRepository(pool),
		rediscache.NewSessionCache(rdb, logger),
		hasher,
		tokens,
		logger,
		application.Options{
			Pub:          pub,
			GCS:          gcsClient,
			GCSBucket:    cfg.GCSBucket,
			ES:           esClient,
			ESUsersIndex: cfg.ESUsersIndex,
			SessionTTL:   cfg.SessionTTL,
			CacheTTL:     cfg.CacheTTL,
		},
	)

	// Expired-session housekeeping.
	sweeper := application.NewSweeper(pginfra.NewSessionRepository(pool), logger, cfg.SweepInterval)
	go sweeper.Run(ctx)

	// HTTP
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RealIP())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.HTTPLogEnabled {
		engine.Use(gin.Logger())
	}

	cookies := helpers.NewCookieManager(cfg.CookieDomain, cfg.CookieSecure)
	reg := router.NewRegistry(engine)
	reg.Add(
		modules.NewAuthModule(handlers.NewAuthHandler(authSvc, cookies, logger)),
		modules.NewUserModule(handlers.NewUserHandler(authSvc, logger), authSvc),
	)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: engine}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s", err)
		}
	}()

	// Graceful shutdown: stop the sweeper timer, then drain HTTP.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")
	stopSweeper()

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
