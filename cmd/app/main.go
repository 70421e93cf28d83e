package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmuriuki/busline/config"
	"github.com/dmuriuki/busline/internal/bootstrap"
	"github.com/dmuriuki/busline/internal/cache"
	"github.com/dmuriuki/busline/internal/kafka"
	"github.com/dmuriuki/busline/internal/repository"
	"github.com/dmuriuki/busline/internal/service/booking"
	"github.com/dmuriuki/busline/internal/service/schedule"
	"github.com/dmuriuki/busline/pkg/logger"
	"github.com/dmuriuki/busline/pkg/metrics"
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

	var bookingRepo repository.BookingRepository
	if cfg.Database.Host != "" {
		pool, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			log.Fatal("connect postgres", "error", err)
		}
		defer pool.Close()
		bookingRepo = repository.NewBookingRepository(pool)
	} else {
		log.Warn("no database configured, using in-memory store")
		bookingRepo = repository.NewMemoryBookingRepository()
	}

	var bookingCache booking.Cache
	if cfg.Redis.Addr != "" {
		bookingCache = cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.RoutesCacheTTLSeconds)*time.Second)
	}

	var producer booking.Producer
	if len(cfg.Kafka.Brokers) > 0 {
		p := kafka.NewProducer(cfg.Kafka.Brokers)
		defer p.Close()
		producer = p
	}

	m := metrics.NewMetrics("busline")

	scheduleService := schedule.NewScheduleService(bookingRepo, bookingCache, log)
	bookingService := booking.NewBookingService(
		bookingRepo,
		bookingCache,
		producer,
		log,
		cfg.Booking,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithMetrics(m),
	)

	if err := bootstrap.Run(ctx, cfg, log, scheduleService, bookingService); err != nil {
		log.Fatal("server error", "error", err)
	}
}
