package app

import (
	"context"
	"fmt"
	"sync"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/acme/sales-callback/internal/config"
	"github.com/acme/sales-callback/internal/dialer"
	"github.com/acme/sales-callback/internal/notifier"
	"github.com/acme/sales-callback/internal/phone"
	"github.com/acme/sales-callback/internal/queue"
	"github.com/acme/sales-callback/internal/ratelimit"
	callbacksvc "github.com/acme/sales-callback/internal/service/callback"
	"github.com/acme/sales-callback/internal/store"
	"github.com/acme/sales-callback/internal/telephony"
	telephonyMock "github.com/acme/sales-callback/internal/telephony/mock"
	"github.com/acme/sales-callback/internal/telephony/sinch"
	"github.com/acme/sales-callback/pkg/logger"
)

// Container wires together shared infrastructure dependencies.
type Container struct {
	Config   *config.Config
	Logger   *logger.Logger
	Provider telephony.Provider

	Redis *redis.Client // nil when disabled
	Kafka *queue.Kafka  // nil when disabled

	// lazily initialised components
	components struct {
		once      sync.Once
		store     *store.CallbackStore
		publisher *queue.EventPublisher
		service   *callbacksvc.Service
	}
}

// Build constructs a container for the given configuration path. Missing
// required configuration aborts here with a descriptive error.
func Build(ctx context.Context, configPath string) (*Container, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	lg, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, err
	}

	var provider telephony.Provider
	if cfg.Provider.Name == "mock" {
		provider = telephonyMock.NewProvider(cfg.Provider)
	} else {
		provider, err = sinch.New(cfg.Provider)
		if err != nil {
			return nil, fmt.Errorf("bootstrap provider: %w", err)
		}
	}

	container := &Container{
		Config:   cfg,
		Logger:   lg,
		Provider: provider,
	}

	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Address,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  cfg.Redis.DialTimeout,
			ReadTimeout:  cfg.Redis.ReadTimeout,
			WriteTimeout: cfg.Redis.WriteTimeout,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
			MaxRetries:   cfg.Redis.MaxRetries,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("bootstrap redis: %w", err)
		}
		container.Redis = client
	}

	if cfg.Kafka.Enabled {
		kafka, err := queue.NewKafka(cfg.Kafka)
		if err != nil {
			return nil, fmt.Errorf("bootstrap kafka: %w", err)
		}
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.EventsTopic, 12, 1); err != nil {
			lg.Warn("ensure events topic", zap.Error(err))
		}
		container.Kafka = kafka
	}

	return container, nil
}

func (c *Container) initComponents() {
	c.components.once.Do(func() {
		cfg := c.Config

		callbackStore := store.New()
		validator := phone.NewValidator(cfg.Phone)

		d := dialer.New(
			c.Provider,
			cfg.Agents.PhoneNumbers,
			cfg.Provider,
			cfg.Dial,
			cfg.Messages.Greeting,
			c.Logger.Named("dialer"),
		)
		n := notifier.New(c.Provider, cfg.Provider.PhoneNumber)

		var publisher *queue.EventPublisher
		var svcPublisher callbacksvc.Publisher
		if c.Kafka != nil {
			publisher = queue.NewEventPublisher(c.Kafka, cfg.Kafka.EventsTopic)
			svcPublisher = publisher
		}

		var limiter callbacksvc.SubmissionLimiter
		if c.Redis != nil && cfg.RateLimit.Enabled {
			limiter = ratelimit.New(c.Redis, cfg.RateLimit)
		}

		c.components.store = callbackStore
		c.components.publisher = publisher
		c.components.service = callbacksvc.NewService(
			validator,
			callbackStore,
			d,
			n,
			svcPublisher,
			limiter,
			cfg.Messages.FallbackSMS,
			c.Logger.Named("callback"),
		)
	})
}

// Service exposes the initialized callback service.
func (c *Container) Service() *callbacksvc.Service {
	c.initComponents()
	return c.components.service
}

// Store exposes the in-memory callback store.
func (c *Container) Store() *store.CallbackStore {
	c.initComponents()
	return c.components.store
}

// Close releases all held resources.
func (c *Container) Close(ctx context.Context) error {
	var errs []error
	if c.components.publisher != nil {
		if err := c.components.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("event publisher close: %w", err))
		}
	}
	if c.Kafka != nil {
		if err := c.Kafka.Close(); err != nil {
			errs = append(errs, fmt.Errorf("kafka close: %w", err))
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	if c.Logger != nil {
		c.Logger.Sync()
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
