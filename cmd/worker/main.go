package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmuriuki/busline/config"
	"github.com/dmuriuki/busline/internal/cache"
	"github.com/dmuriuki/busline/internal/email"
	"github.com/dmuriuki/busline/internal/kafka"
	"github.com/dmuriuki/busline/internal/repository"
	"github.com/dmuriuki/busline/internal/service/booking"
	"github.com/dmuriuki/busline/pkg/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log := logger.NewLogger()

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal("load config", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal("connect postgres", "error", err)
	}
	defer pool.Close()

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()
	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.RoutesCacheTTLSeconds)*time.Second)

	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		redisCache,
		producer,
		log,
		cfg.Booking,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()

	sender := email.NewSender(cfg.Email.From, log)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
			return sender.Send(ctx, event)
		}); err != nil {
			log.Warn("consumer stopped", "error", err)
		}
	}()

	sweepTicker := time.NewTicker(time.Duration(cfg.Worker.HoldSweepMinutes) * time.Minute)
	defer sweepTicker.Stop()

	for {
		select {
		case <-sweepTicker.C:
			expired, err := bookingService.ReleaseExpiredHolds(ctx)
			if err != nil {
				log.Error("release expired holds", "error", err)
				continue
			}
			if len(expired) > 0 {
				log.Info("released expired holds", "count", len(expired))
			}
		case <-ctx.Done():
			log.Info("shutting down")
			return
		}
	}
}
