package main

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stayfinder/internal/app/arbiter"
	"stayfinder/internal/domain/property"
	"stayfinder/internal/infra/broker/kafka"
	"stayfinder/internal/infra/config"
	"stayfinder/internal/infra/db/mongo"
	ginserver "stayfinder/internal/infra/http/gin"
	"stayfinder/internal/infra/obs"
	"stayfinder/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration load failed", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	deps, ready, cleanup, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("storage init failed", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	notifier, closeNotifier, err := buildNotifier(cfg, logger)
	if err != nil {
		logger.Error("kafka init failed", "error", err)
		os.Exit(1)
	}
	defer closeNotifier()
	deps.Notifier = notifier
	deps.Clock = time.Now
	deps.RetryBackoff = cfg.RetryBackoff
	deps.Logger = logger

	svc := arbiter.New(deps)

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: ready}, ginserver.Handlers{
		Booking: ginserver.BookingHandler{
			Arbiter:    svc,
			Properties: deps.Properties,
			Clock:      time.Now,
		},
		Availability: ginserver.AvailabilityHandler{Arbiter: svc},
	})

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.StorageMode)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

func buildStorage(ctx context.Context, cfg config.Config, logger *slog.Logger) (arbiter.Deps, func() error, func(), error) {
	switch cfg.StorageMode {
	case "mongo":
		client, err := mongo.New(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return arbiter.Deps{}, nil, nil, err
		}
		bookings := mongo.NewBookingRepository(client.DB)
		if err := bookings.EnsureIndexes(ctx); err != nil {
			logger.Warn("index creation failed", "error", err)
		}
		deps := arbiter.Deps{
			Bookings:   bookings,
			Properties: mongo.NewPropertyRepository(client.DB),
		}
		ready := func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		return deps, ready, func() {}, nil
	default:
		properties := memory.NewPropertyRepository()
		if path := os.Getenv("PROPERTY_FIXTURES"); path != "" {
			if err := loadPropertyFixtures(ctx, path, properties); err != nil {
				logger.Warn("property fixtures load failed", "error", err, "path", path)
			}
		}
		deps := arbiter.Deps{
			Bookings:   memory.NewBookingRepository(),
			Properties: properties,
		}
		return deps, func() error { return nil }, func() {}, nil
	}
}

func buildNotifier(cfg config.Config, logger *slog.Logger) (arbiter.Notifier, func(), error) {
	if len(cfg.KafkaBrokers) == 0 {
		logger.Info("kafka brokers not configured, notifications disabled")
		return arbiter.NopNotifier{}, func() {}, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return nil, nil, err
	}
	closer := func() {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}
	return kafka.NewNotifier(producer, cfg.KafkaTopicPrefix), closer, nil
}

type propertyFixture struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	MaxGuests int    `json:"max_guests"`
}

func loadPropertyFixtures(ctx context.Context, path string, repo *memory.PropertyRepository) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var fixtures []propertyFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return err
	}
	for _, f := range fixtures {
		p := property.Property{
			ID:        property.PropertyID(f.ID),
			OwnerID:   f.OwnerID,
			Name:      f.Name,
			Location:  f.Location,
			MaxGuests: f.MaxGuests,
		}
		if err := repo.Save(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
