package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	amqp "github.com/rabbitmq/amqp091-go"
	"golang.org/x/sync/errgroup"

	appauth "github.com/corpz/marketplace/internal/application/auth"
	appcart "github.com/corpz/marketplace/internal/application/cart"
	appcatalog "github.com/corpz/marketplace/internal/application/catalog"
	appcheckout "github.com/corpz/marketplace/internal/application/checkout"
	apporder "github.com/corpz/marketplace/internal/application/order"
	apppayment "github.com/corpz/marketplace/internal/application/payment"
	appsocial "github.com/corpz/marketplace/internal/application/social"
	"github.com/corpz/marketplace/internal/config"
	domcart "github.com/corpz/marketplace/internal/domain/cart"
	domitem "github.com/corpz/marketplace/internal/domain/item"
	domorder "github.com/corpz/marketplace/internal/domain/order"
	dompayment "github.com/corpz/marketplace/internal/domain/payment"
	domsocial "github.com/corpz/marketplace/internal/domain/social"
	domuser "github.com/corpz/marketplace/internal/domain/user"
	"github.com/corpz/marketplace/internal/infrastructure/id"
	"github.com/corpz/marketplace/internal/infrastructure/kafka"
	"github.com/corpz/marketplace/internal/infrastructure/memory"
	"github.com/corpz/marketplace/internal/infrastructure/observability/oteltrace"
	"github.com/corpz/marketplace/internal/infrastructure/observability/prometrics"
	"github.com/corpz/marketplace/internal/infrastructure/observability/telemetry"
	"github.com/corpz/marketplace/internal/infrastructure/observability/zaplogger"
	"github.com/corpz/marketplace/internal/infrastructure/outbox"
	"github.com/corpz/marketplace/internal/infrastructure/paysim"
	"github.com/corpz/marketplace/internal/infrastructure/postgres"
	"github.com/corpz/marketplace/internal/infrastructure/rabbitmq"
	"github.com/corpz/marketplace/internal/infrastructure/redisx"
	"github.com/corpz/marketplace/internal/observability"
	httppresentation "github.com/corpz/marketplace/internal/presentation/http"
)

type repositories struct {
	items     domitem.Repository
	orders    domorder.Repository
	payments  dompayment.Repository
	users     domuser.Repository
	cart      domcart.Repository
	favorites domsocial.FavoriteRepository
	follows   domsocial.FollowRepository
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := zaplogger.New(
		observability.F("service", cfg.ServiceName),
		observability.F("env", cfg.Env),
	)

	counters, histograms := buildMetrics()
	tel := telemetry.New(
		oteltrace.New(cfg.ServiceName),
		logger,
		counters,
		histograms,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, cleanup, err := buildRepositories(ctx, cfg)
	if err != nil {
		logger.Error("storage_init_failed", observability.F("error", err))
		os.Exit(1)
	}
	defer cleanup()

	idGen := id.NewUUIDGenerator()

	bus := outbox.NewBus(logger)
	bus.Start(ctx)

	var gatewayOpts []paysim.Option
	if cfg.PaymentSuccessRate >= 0 {
		gatewayOpts = append(gatewayOpts, paysim.WithSuccessRate(cfg.PaymentSuccessRate))
	}
	gateway := paysim.New(gatewayOpts...)

	var idem *redisx.IdempotencyGuard
	if cfg.RedisAddr != "" {
		idem = redisx.NewIdempotencyGuard(redisx.New(cfg.RedisAddr))
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, 256, logger)
		producer.Start(ctx)
		kafka.NewRelay(producer, bus, cfg.ServiceName, logger).Start()
	}

	var amqpConn *amqp.Connection
	if cfg.AMQPUrl != "" {
		amqpConn, err = amqp.Dial(cfg.AMQPUrl)
		if err != nil {
			logger.Error("amqp_dial_failed", observability.F("error", err))
			os.Exit(1)
		}
		refundPub, err := rabbitmq.NewPublisher(amqpConn, cfg.RefundQueue)
		if err != nil {
			logger.Error("refund_queue_init_failed", observability.F("error", err))
			os.Exit(1)
		}
		rabbitmq.NewRefundWorker(refundPub, bus, logger).Start()
	}

	tokens := appauth.NewTokenIssuer(cfg.JWTSecret, cfg.ServiceName)
	authSvc := appauth.NewService(repos.users, tokens, idGen, tel)

	handler := httppresentation.NewHandler(httppresentation.Config{
		Auth:        authSvc,
		Place:       appcheckout.NewPlaceOrderUseCase(repos.items, repos.orders, repos.payments, gateway, idGen, bus, tel),
		Cancel:      appcheckout.NewCancelOrderUseCase(repos.items, repos.orders, repos.payments, bus, tel),
		Catalog:     appcatalog.NewService(repos.items, idGen, tel),
		Orders:      apporder.NewService(repos.orders, bus, tel),
		Payments:    apppayment.NewService(repos.payments, repos.orders, tel),
		Cart:        appcart.NewService(repos.cart, repos.items, idGen, tel),
		Social:      appsocial.NewService(repos.favorites, repos.follows, repos.items, repos.users, idGen, tel),
		Idempotency: idem,
		Telemetry:   tel,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("http_server_start", observability.F("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http_server_shutdown_error", observability.F("error", err))
		}

		bus.Stop(shutdownCtx)
		if producer != nil {
			producer.Close()
			producer.WaitClosed()
		}
		if amqpConn != nil {
			_ = amqpConn.Close()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server_error", observability.F("error", err))
		os.Exit(1)
	}
	logger.Info("server_stopped")
}

func buildRepositories(ctx context.Context, cfg config.Config) (repositories, func(), error) {
	if cfg.Storage == "postgres" {
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			return repositories{}, func() {}, err
		}
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return repositories{}, func() {}, err
		}
		return repositories{
			items:     postgres.NewItemRepository(pool),
			orders:    postgres.NewOrderRepository(pool),
			payments:  postgres.NewPaymentRepository(pool),
			users:     postgres.NewUserRepository(pool),
			cart:      postgres.NewCartRepository(pool),
			favorites: postgres.NewFavoriteRepository(pool),
			follows:   postgres.NewFollowRepository(pool),
		}, pool.Close, nil
	}
	return repositories{
		items:     memory.NewItemRepository(),
		orders:    memory.NewOrderRepository(),
		payments:  memory.NewPaymentRepository(),
		users:     memory.NewUserRepository(),
		cart:      memory.NewCartRepository(),
		favorites: memory.NewFavoriteRepository(),
		follows:   memory.NewFollowRepository(),
	}, func() {}, nil
}

func buildMetrics() (map[observability.MetricKey]observability.Counter, map[observability.MetricKey]observability.Histogram) {
	reg := prometrics.New("", "")
	counters := map[observability.MetricKey]observability.Counter{
		observability.MUsecaseRequests: reg.Counter(
			string(observability.MUsecaseRequests),
			"Total number of use case invocations.",
			"use_case", "outcome",
		),
		observability.MHTTPRequests: reg.Counter(
			string(observability.MHTTPRequests),
			"Total number of HTTP requests.",
			"method", "route", "status",
		),
		observability.MGatewayRequests: reg.Counter(
			string(observability.MGatewayRequests),
			"Total number of payment gateway charge attempts.",
			"peer", "method", "outcome",
		),
		observability.MRefundsFlagged: reg.Counter(
			string(observability.MRefundsFlagged),
			"Charges flagged as refund_required.",
			"reason",
		),
		observability.MInventoryRaceLost: reg.Counter(
			string(observability.MInventoryRaceLost),
			"Checkouts that lost the conditional stock decrement.",
			"item_id",
		),
	}

	histograms := map[observability.MetricKey]observability.Histogram{
		observability.MUsecaseDuration: reg.Histogram(
			string(observability.MUsecaseDuration),
			"Duration of use case execution in seconds.",
			prometheus.DefBuckets,
			"use_case",
		),
		observability.MHTTPRequestDuration: reg.Histogram(
			string(observability.MHTTPRequestDuration),
			"Duration of HTTP requests in seconds.",
			prometheus.DefBuckets,
			"method", "route",
		),
		observability.MGatewayDuration: reg.Histogram(
			string(observability.MGatewayDuration),
			"Latency of payment gateway charges in seconds.",
			prometheus.DefBuckets,
			"peer", "method",
		),
	}

	return counters, histograms
}
