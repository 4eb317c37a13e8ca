package main

import (
	"fmt"
	"strings"
	"time"

	"artisanconnect/internal/config"
	"artisanconnect/internal/handlers"
	"artisanconnect/internal/metrics"
	"artisanconnect/internal/middleware"
	"artisanconnect/internal/payment"
	"artisanconnect/internal/repositories"
	"artisanconnect/internal/services"
	"artisanconnect/internal/sms"
	"artisanconnect/pkg/idempotency"
	"artisanconnect/pkg/rabbitmq"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// repositorySet bundles the storage backends the services depend on.
type repositorySet struct {
	users    repositories.UserRepository
	products repositories.ProductRepository
	carts    repositories.CartRepository
	orders   repositories.OrderRepository
}

// openRepositories selects GORM-backed repositories, or in-memory ones when
// the driver is "memory".
func openRepositories(cfg config.Config) (repositorySet, error) {
	if cfg.DatabaseDriver == "memory" {
		return memoryRepositories(), nil
	}
	db, err := repositories.OpenDatabase(cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return repositorySet{}, err
	}
	return repositorySet{
		users:    repositories.NewGORMUserRepository(db),
		products: repositories.NewGORMProductRepository(db),
		carts:    repositories.NewGORMCartRepository(db),
		orders:   repositories.NewGORMOrderRepository(db),
	}, nil
}

func memoryRepositories() repositorySet {
	return repositorySet{
		users:    repositories.NewMemoryUserRepository(),
		products: repositories.NewMemoryProductRepository(),
		carts:    repositories.NewMemoryCartRepository(),
		orders:   repositories.NewMemoryOrderRepository(),
	}
}

// server is the wired application plus whatever must be released on shutdown.
type server struct {
	app        *fiber.App
	dispatcher *services.AsyncDispatcher
	closers    []func() error
}

// Close waits for in-flight notifications and releases external connections.
func (s *server) Close() {
	s.dispatcher.Wait()
	for _, c := range s.closers {
		_ = c()
	}
}

// newServer wires providers, services and routes. Provider modes come from
// cfg and are fixed for the life of the process.
func newServer(cfg config.Config, repos repositorySet, log *zap.Logger) (*server, error) {
	srv := &server{}

	var gateway payment.Gateway
	if cfg.Payment.Mock {
		gateway = payment.NewMockGateway()
	} else {
		gateway = payment.NewRazorpayClient(cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.BaseURL, cfg.HTTPClientTimeout)
	}

	var sender sms.Sender
	if cfg.SMS.Mock {
		sender = sms.NewMockSender(log)
	} else {
		sender = sms.NewFast2SMSClient(cfg.SMS.APIKey, cfg.SMS.URL, cfg.HTTPClientTimeout)
	}

	var ledger idempotency.Store = idempotency.NewMemoryStore()
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		ledger = idempotency.NewRedisStore(rdb, cfg.LedgerTTL)
		srv.closers = append(srv.closers, rdb.Close)
	}

	notifier := services.NewNotifier(repos.users, repos.orders, sender, ledger, log)
	srv.dispatcher = services.NewAsyncDispatcher(notifier, services.NewLogDeadLetter(log))
	var dispatcher services.NotificationDispatcher = srv.dispatcher

	if cfg.RabbitMQURL != "" {
		mq, err := rabbitmq.NewClient(rabbitmq.Config{
			URL:    cfg.RabbitMQURL,
			Queues: []string{rabbitmq.PaymentCompletedQueue, rabbitmq.NotificationDeadLetterQueue},
			Logger: log,
		})
		if err != nil {
			return nil, err
		}
		srv.closers = append(srv.closers, mq.Close)

		deadLetter := services.NewQueueDeadLetter(mq, rabbitmq.NotificationDeadLetterQueue, log)
		if err := mq.Consume(rabbitmq.PaymentCompletedQueue, services.PaymentCompletedHandler(notifier, deadLetter)); err != nil {
			srv.Close()
			return nil, fmt.Errorf("failed to start notification consumer: %w", err)
		}
		dispatcher = services.NewQueueDispatcher(mq, rabbitmq.PaymentCompletedQueue, srv.dispatcher, log)
	}

	authService := services.NewAuthService(repos.users, services.AuthConfig{
		JWTSecret:      cfg.JWTSecret,
		TokenTTL:       cfg.JWTTTL,
		SuperadminUser: cfg.SuperadminUser,
		SuperadminPass: cfg.SuperadminPass,
	}, log)
	productService := services.NewProductService(repos.products)
	cartService := services.NewCartService(repos.carts, repos.products)
	orderService := services.NewOrderService(repos.orders, repos.products, repos.carts, gateway, dispatcher, cfg.Payment.Currency, log)

	app := fiber.New(fiber.Config{AppName: "artisanconnect"})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(corsConfig(cfg.AllowedOrigins)))
	app.Use(metrics.Middleware())

	auth := middleware.AuthRequired(authService, log)
	api := app.Group("/api")
	handlers.NewAuthHandler(authService, log).RegisterRoutes(api, auth)
	handlers.NewProductHandler(productService).RegisterRoutes(api, auth)
	handlers.NewCartHandler(cartService).RegisterRoutes(api, auth)
	handlers.NewOrderHandler(orderService, log).RegisterRoutes(api, auth)

	paymentMode := config.Mode(cfg.Payment.Mock)
	smsMode := config.Mode(cfg.SMS.Mock)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":      "healthy",
			"time":        time.Now().Format(time.RFC3339),
			"paymentMode": paymentMode,
			"smsMode":     smsMode,
		})
	})
	app.Get("/metrics", metrics.Handler())

	srv.app = app
	return srv, nil
}

// corsConfig allows credentials only for an explicit origin list; Fiber
// refuses credentials together with a wildcard.
func corsConfig(origins []string) cors.Config {
	for _, o := range origins {
		if o == "*" {
			return cors.Config{AllowOrigins: "*"}
		}
	}
	if len(origins) == 0 {
		return cors.Config{AllowOrigins: "*"}
	}
	return cors.Config{
		AllowOrigins:     strings.Join(origins, ","),
		AllowCredentials: true,
	}
}
