package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/fairyhunter13/referral-coupon-system/internal/config"
	"github.com/fairyhunter13/referral-coupon-system/internal/handler"
	"github.com/fairyhunter13/referral-coupon-system/internal/mailer"
	"github.com/fairyhunter13/referral-coupon-system/internal/repository"
	"github.com/fairyhunter13/referral-coupon-system/internal/service"
	"github.com/fairyhunter13/referral-coupon-system/internal/validator"
	"github.com/fairyhunter13/referral-coupon-system/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	pool, err := database.NewPool(ctx, cfg.DB.DSN(), cfg.DB.ConnectRetries, time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to apply migrations")
		}
	}

	// Mail jobs go to Kafka when brokers are configured, otherwise they are only logged.
	var (
		mail        service.Mailer = mailer.LogMailer{}
		mailQueue   handler.Pinger
		kafkaClient *kgo.Client
	)
	if cfg.Kafka.Enabled() {
		kafkaClient, err = mailer.NewClient(cfg.Kafka.Brokers, cfg.Kafka.ClientID)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create kafka client")
		}
		if err := mailer.EnsureTopic(ctx, kafkaClient, cfg.Kafka.RewardTopic, cfg.Kafka.TopicPartitions, cfg.Kafka.ReplicationFactor); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure mailer topic")
		}
		mail = mailer.NewKafkaMailer(kafkaClient, cfg.Kafka.RewardTopic)
		mailQueue = kafkaClient
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.RewardTopic).Msg("kafka mailer enabled")
	} else {
		log.Warn().Msg("no kafka brokers configured, mail jobs will only be logged")
	}

	app := fiber.New(fiber.Config{
		AppName:      "Referral Coupon System",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	validate := validator.New()

	couponRepo := repository.NewCouponRepository(pool)
	usageRepo := repository.NewUsageRepository()
	founderRepo := repository.NewFounderRepository(pool)

	couponService := service.NewCouponService(pool, couponRepo, usageRepo)
	referralService := service.NewReferralService(founderRepo, mail)

	couponHandler := handler.NewCouponHandler(couponService, validate)
	adminHandler := handler.NewAdminHandler(couponService)
	referralHandler := handler.NewReferralHandler(referralService)
	healthHandler := handler.NewHealthHandler(pool, mailQueue)

	app.Get("/health", healthHandler.Check)
	if cfg.Server.MetricsEnabled {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api")
	api.Post("/coupons", couponHandler.CreateCoupon)
	api.Get("/coupons/:code", couponHandler.GetCoupon)
	api.Post("/coupons/:code/usages", couponHandler.RecordUsage)
	api.Get("/admin/coupons/ids", adminHandler.FilterCouponIDs)
	api.Post("/founders/:id/referral-reward", referralHandler.RewardReferrer)

	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Pending mail jobs are flushed before the client goes away.
	if kafkaClient != nil {
		log.Info().Msg("flushing mail queue...")
		if err := kafkaClient.Flush(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("error flushing mail queue")
		}
		kafkaClient.Close()
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("database connections closed")
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
