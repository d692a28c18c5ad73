package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/api"
	appconfig "github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/config"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/events"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/health"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/inventory"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/logging"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/lookup"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/metrics"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/order"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/payment"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/resilience"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/secrets"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/shipping"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/telemetry"
	"github.com/AnthonyGillesRudolfo/Order-Lookup-Gateway/internal/upstream"
	"github.com/joho/godotenv"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// backends holds one upstream client per service, each behind its own breaker.
type backends struct {
	payment   *upstream.Client
	shipping  *upstream.Client
	inventory *upstream.Client
}

func newBackends(cfg appconfig.Config, logger *zap.Logger, m *metrics.Metrics) backends {
	build := func(name, baseURL string) *upstream.Client {
		breaker := resilience.NewBreaker(name,
			resilience.WithFailureThreshold(cfg.Breaker.FailureThreshold),
			resilience.WithRecoveryTimeout(cfg.Breaker.RecoveryTimeout),
			resilience.OnStateChange(func(name string, from, to resilience.State) {
				logger.Warn("circuit breaker state changed",
					zap.String("service", name), zap.Stringer("from", from), zap.Stringer("to", to))
				m.BreakerChanged(name, from, to)
			}),
		)
		return upstream.New(name, baseURL,
			upstream.WithTimeout(cfg.Upstreams.Timeout),
			upstream.WithBreaker(breaker),
			upstream.WithObserver(m),
			upstream.WithLogger(logger),
		)
	}
	return backends{
		payment:   build(payment.ServiceName, cfg.Upstreams.PaymentURL),
		shipping:  build(shipping.ServiceName, cfg.Upstreams.ShippingURL),
		inventory: build(inventory.ServiceName, cfg.Upstreams.InventoryURL),
	}
}

func newCoordinator(cfg appconfig.Config, logger *zap.Logger, m *metrics.Metrics, b backends) *lookup.Coordinator {
	return lookup.NewCoordinator(
		payment.NewClient(b.payment),
		shipping.NewClient(b.shipping),
		lookup.WithRecorder(m),
		lookup.WithLegTimeout(cfg.Lookup.LegTimeout),
		lookup.WithLogger(logger),
		lookup.WithNotifier(lookup.NotifierFunc(func(_ context.Context, leg lookup.Leg, id string, err error) {
			logger.Info("lookup leg produced no data",
				zap.String("leg", string(leg)), zap.String("id", id), zap.Error(err))
		})),
	)
}

// newKafkaProducer returns nil when Kafka is disabled.
func newKafkaProducer(cfg appconfig.Config, lc fx.Lifecycle, logger *zap.Logger) *events.Producer {
	if !cfg.Kafka.Enabled || len(cfg.Kafka.Brokers) == 0 {
		logger.Info("kafka disabled, order events will not be published")
		return nil
	}
	prod := events.NewProducer(cfg.Kafka.Brokers)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return prod.Close()
		},
	})
	return prod
}

func newOrderService(cfg appconfig.Config, logger *zap.Logger, b backends, prod *events.Producer) *order.Service {
	var publisher order.Publisher
	if prod != nil {
		publisher = prod
	}
	return order.NewService(
		inventory.NewClient(b.inventory),
		payment.NewClient(b.payment),
		shipping.NewClient(b.shipping),
		publisher,
		cfg.Kafka.OrdersTopic,
		logger,
	)
}

func newHandler(cfg appconfig.Config, logger *zap.Logger, m *metrics.Metrics, b backends, coord *lookup.Coordinator, svc *order.Service) http.Handler {
	rt := api.Routes{Mux: http.NewServeMux(), Logger: logger, Observer: m}
	api.RegisterLookupRoutes(rt, coord)
	api.RegisterOrdersRoutes(rt, svc)
	api.RegisterInventoryRoutes(rt, b.inventory)
	api.RegisterPaymentRoutes(rt, b.payment)
	api.RegisterShippingRoutes(rt, b.shipping)
	checker := health.NewChecker(cfg.Upstreams.HealthTimeout, b.payment, b.shipping, b.inventory)
	api.RegisterHealthRoutes(rt, checker, m.Handler())
	return rt.Handler()
}

func setupTelemetry(lc fx.Lifecycle, cfg appconfig.Config, logger *zap.Logger) {
	if !cfg.Telemetry.Enabled {
		return
	}
	var shutdown func(context.Context) error
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			fn, err := telemetry.InitTracer(ctx, cfg.ServiceName, cfg.Telemetry.Endpoint)
			if err != nil {
				logger.Warn("tracing disabled", zap.Error(err))
				return nil
			}
			shutdown = fn
			return nil
		},
		OnStop: func(ctx context.Context) error {
			if shutdown == nil {
				return nil
			}
			return shutdown(ctx)
		},
	})
}

func registerWebServer(lc fx.Lifecycle, cfg appconfig.Config, logger *zap.Logger, shutdowner fx.Shutdowner, handler http.Handler) {
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("gateway listening", zap.String("addr", cfg.HTTP.Addr))
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server error", zap.Error(err))
					_ = shutdowner.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			_ = logger.Sync()
			return nil
		},
	})
}

func main() {
	_ = godotenv.Load()
	bootstrapSecrets()

	app := fx.New(
		fx.Provide(
			appconfig.Load,
			logging.New,
			metrics.New,
			newBackends,
			newCoordinator,
			newKafkaProducer,
			newOrderService,
			newHandler,
		),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Invoke(
			func(logger *zap.Logger, cfg appconfig.Config) {
				logger.Info("starting", zap.String("service", cfg.ServiceName))
			},
			setupTelemetry,
			registerWebServer,
		),
	)

	app.Run()
}

// bootstrapSecrets exports OpenBao secrets into the environment before
// config is parsed. Failures are logged and the process keeps going.
func bootstrapSecrets() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n, err := secrets.Bootstrap(ctx)
	if err != nil {
		log.Printf("openbao bootstrap failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("loaded %d secrets from openbao", n)
	}
}
