package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"tokoshop/internal/config"
	"tokoshop/internal/models"
	"tokoshop/internal/repositories"
	"tokoshop/internal/services"
	"tokoshop/pkg/cache"
	"tokoshop/pkg/paymentgateway"
	"tokoshop/pkg/rabbitmq"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("tokoshop exited with error")
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "tokoshop",
		Short:         "Shop backend: catalog, cart, orders and payments",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	root.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), envFile)
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "order-status <order-id> <status>",
		Short: "Set the status of an order (PENDING, PROCESSING, COMPLETED, CANCELLED)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOrderStatus(cmd.Context(), envFile, args[0], models.OrderStatus(strings.ToUpper(args[1])))
		},
	})
	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runMigrate(envFile)
		},
	})
	return root
}

// loadConfig loads and validates configuration and sets up logging.
func loadConfig(envFile string) (*config.Config, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, err
	}
	setupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogPretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := repositories.Open(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("database connected")
	return db, nil
}

func runMigrate(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if err := repositories.AutoMigrate(db); err != nil {
		return err
	}
	log.Info().Msg("database migrated")
	return nil
}

// runOrderStatus is the operator path for moving an order outside the
// payment flow, e.g. marking it shipped or cancelled.
func runOrderStatus(ctx context.Context, envFile, orderID string, status models.OrderStatus) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	orders := services.NewOrderService(
		repositories.NewGORMOrderRepository(db),
		repositories.NewGORMProductRepository(db),
		nil,
	)
	if err := orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return err
	}
	log.Info().Str("order_id", orderID).Str("status", string(status)).Msg("order status updated")
	return nil
}

func runServe(parent context.Context, envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database ---
	db, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	if err := repositories.AutoMigrate(db); err != nil {
		return err
	}

	deps := Dependencies{
		DB: db,
		Gateway: paymentgateway.NewStripeGateway(paymentgateway.Config{
			APIKey:        cfg.StripeAPIKey,
			WebhookSecret: cfg.StripeWebhookSecret,
			Timeout:       cfg.StripeTimeout,
		}),
	}

	// --- Redis (optional) ---
	if cfg.RedisAddr != "" {
		client := cache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer client.Close()
		redisCache := cache.NewRedisCache(client, "tokoshop")
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("Redis unreachable, product cache and webhook dedupe disabled")
		} else {
			deps.Cache = redisCache
			log.Info().Str("addr", cfg.RedisAddr).Msg("Redis connected")
		}
	}

	// --- RabbitMQ (optional) ---
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Warn().Err(err).Msg("RabbitMQ unavailable, domain events disabled")
		} else {
			defer mqClient.Close()
			deps.Publisher = mqClient
			if err := mqClient.Consume(ctx, rabbitmq.HandleFulfillmentMessage); err != nil {
				log.Error().Err(err).Msg("failed to start fulfillment consumer")
			}
		}
	}

	app, err := NewApp(cfg, deps)
	if err != nil {
		return err
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.AppPort).Msg("starting HTTP server")
		serverErr <- app.Listen(cfg.AppPort)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		log.Error().Err(err).Msg("error during shutdown")
	}
	log.Info().Msg("server gracefully stopped")
	return nil
}
