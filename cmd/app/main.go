package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/zvrva/shareit/config"
	"github.com/zvrva/shareit/internal/bootstrap"
	"github.com/zvrva/shareit/internal/cache"
	"github.com/zvrva/shareit/internal/kafka"
	"github.com/zvrva/shareit/internal/repository"
	"github.com/zvrva/shareit/internal/service/booking"
	"github.com/zvrva/shareit/internal/service/items"
	"github.com/zvrva/shareit/internal/service/requests"
	"github.com/zvrva/shareit/internal/service/users"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	searchCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Cache.SearchTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	userRepo := repository.NewUserRepository(pool)
	itemRepo := repository.NewItemRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	requestRepo := repository.NewRequestRepository(pool)

	bookingService := booking.NewBookingService(
		bookingRepo,
		userRepo,
		itemRepo,
		producer,
		cfg.Kafka.BookingEventsTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
	)
	itemService := items.NewItemService(itemRepo, userRepo, commentRepo, bookingService, searchCache)
	userService := users.NewUserService(userRepo)
	requestService := requests.NewRequestService(requestRepo, userRepo, itemRepo)

	if err := bootstrap.Run(ctx, cfg, bookingService, itemService, userService, requestService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
