package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bootcamp-directory/config"
	"github.com/oksasatya/bootcamp-directory/internal/container"
	pginfra "github.com/oksasatya/bootcamp-directory/internal/infrastructure/postgres"
	"github.com/oksasatya/bootcamp-directory/internal/router"
	"github.com/oksasatya/bootcamp-directory/pkg/helpers"
	"github.com/oksasatya/bootcamp-directory/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()
	c := container.New(cfg, logger)
	defer c.Close()

	// Postgres and migrations
	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	c.UsePostgres(pool)
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	wireOptional(ctx, c, logger)

	r := router.NewEngine(c)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server running in %s mode on :%s", cfg.Env, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

// wireOptional connects the collaborators that the API can run without.
// A failure is logged and the feature stays off.
func wireOptional(ctx context.Context, c *container.Container, logger *logrus.Logger) {
	cfg := c.Config

	if cfg.RedisAddr != "" {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unavailable; using local rate limits, logout will not revoke tokens")
			_ = rdb.Close()
		} else {
			c.UseRedis(rdb)
		}
	} else {
		logger.Warn("redis not configured; logout will not revoke tokens")
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs unavailable; storing uploads locally")
		} else {
			c.UseGCS(gcs, cfg.GCSBucket)
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		var exists bool
		if err == nil {
			exists, err = helpers.PingES(ctx, es, cfg.ESBootcampsIndex)
		}
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; search disabled")
		} else {
			if !exists {
				logger.Infof("index %s missing; it is created on the first bootcamp write", cfg.ESBootcampsIndex)
			}
			c.UseElasticsearch(es, cfg.ESBootcampsIndex)
		}
	}

	if cfg.GeocoderAPIKey != "" {
		c.UseMapQuest(cfg.GeocoderAPIKey, cfg.GeocoderBaseURL)
	} else {
		logger.Warn("geocoder not configured; bootcamps will have no location")
	}

	if !cfg.MailSendEnabled {
		logger.Info("mail sending disabled")
		return
	}
	switch cfg.MailTransport {
	case "queue":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; mail disabled")
			return
		}
		c.UseMailQueue(pub)
	default:
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
			logger.Warn("mailgun not configured; mail disabled")
			return
		}
		c.UseMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	}
}
