package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"MortgageCalc/internal/domain/models"
	"MortgageCalc/internal/domain/repository"
	"MortgageCalc/internal/handler/api"
	internalrepo "MortgageCalc/internal/repository"
	icache "MortgageCalc/internal/service/cache"
	"MortgageCalc/internal/service/ratelimit"
	"MortgageCalc/internal/service/ratetable"
	"MortgageCalc/internal/service/validation"
	"MortgageCalc/internal/usecase"
	pkgch "MortgageCalc/pkg/clickhouse"
	"MortgageCalc/pkg/config"
	xhttp "MortgageCalc/pkg/http"
	"MortgageCalc/pkg/http/middleware"
	pkgkafka "MortgageCalc/pkg/kafka"
	applogger "MortgageCalc/pkg/logger"
	"MortgageCalc/pkg/metrics"
	"MortgageCalc/pkg/server"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

const startupTimeout = 15 * time.Second

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logger.Level,
		Format: cfg.Logger.Format,
		Output: cfg.Logger.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Noop{}
	}
	return metrics.New(prometheus.DefaultRegisterer)
}

func noCleanup() {}

// ProvideClickHouseClient opens ClickHouse when it backs the rate tables.
// Returns nil for the csv source.
func ProvideClickHouseClient(cfg *config.Config, log *applogger.Logger) (*pkgch.Client, func(), error) {
	if cfg.Rates.Source != "clickhouse" {
		return nil, noCleanup, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithPool(4, 2, 0),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	if err := client.InitSchema(ctx, internalrepo.SchemaStatements(cfg.ClickHouse.Database, cfg.ClickHouseTable())); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, closeWith(log, "clickhouse", client), nil
}

func closeWith(log *applogger.Logger, name string, c io.Closer) func() {
	return func() {
		if err := c.Close(); err != nil {
			log.Warn("close error", applogger.String("component", name), applogger.Error(err))
		}
	}
}

// ProvideRateSource selects the rate table backend.
func ProvideRateSource(cfg *config.Config, ch *pkgch.Client, log *applogger.Logger) (repository.RateSource, error) {
	if ch == nil {
		if cfg.Rates.Dir == "" {
			return internalrepo.NewEmbeddedRateSource(), nil
		}
		return internalrepo.NewCSVRateSource(cfg.Rates.Dir), nil
	}

	src := internalrepo.NewClickHouseRateSource(ch.DB(), cfg.ClickHouseTable())
	if !cfg.ClickHouse.Seed {
		return src, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()
	if err := seedRates(ctx, src, internalrepo.NewEmbeddedRateSource(), log); err != nil {
		return nil, fmt.Errorf("clickhouse seed: %w", err)
	}
	return src, nil
}

// seedRates copies the embedded curve of every product whose ClickHouse
// partition is empty.
func seedRates(ctx context.Context, dst *internalrepo.ClickHouseRateSource, from repository.RateSource, log *applogger.Logger) error {
	for _, key := range models.ProductKeys() {
		n, err := dst.Count(ctx, key)
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		pts, err := from.RatePoints(ctx, key)
		if err != nil {
			return err
		}
		if err := dst.Seed(ctx, key, pts); err != nil {
			return err
		}
		log.Info("rate table seeded", applogger.String("product", key), applogger.Int("points", len(pts)))
	}
	return nil
}

// ProvideRateTable loads every product curve. A missing or empty curve
// aborts startup.
func ProvideRateTable(src repository.RateSource, log *applogger.Logger) (*ratetable.Table, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	t, err := ratetable.Load(ctx, src, models.ProductKeys())
	if err != nil {
		return nil, fmt.Errorf("rate table: %w", err)
	}
	log.Info("rate table loaded", applogger.String("source", t.Source()), applogger.Int("products", t.Len()))
	return t, nil
}

func ProvidePricingEngine(t *ratetable.Table) *usecase.PricingEngine {
	return usecase.NewPricingEngine(t)
}

// ProvideQuoteCache returns nil when caching is disabled.
func ProvideQuoteCache(cfg *config.Config, log *applogger.Logger) (repository.QuoteCache, func(), error) {
	switch cfg.Cache.Backend {
	case "memory":
		return icache.NewTTLCache(cfg.Cache.MaxEntries), noCleanup, nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
		defer cancel()
		rc, err := icache.NewRedisCache(ctx, icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, closeWith(log, "redis", rc), nil
	default:
		return nil, noCleanup, nil
	}
}

// ProvideKafkaProducer creates a Kafka producer, or nil when publishing is off.
func ProvideKafkaProducer(cfg *config.Config, log *applogger.Logger) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, noCleanup, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatching(cfg.Kafka.Producer.BatchSize, cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, closeWith(log, "kafka", producer), nil
}

// ProvideQuotePublisher creates Kafka publisher repository.
func ProvideQuotePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.QuotePublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaQuotePublisher(producer, cfg.Kafka.Topic)
}

func ProvideQuoteService(
	engine *usecase.PricingEngine,
	m repository.Metrics,
	cache repository.QuoteCache,
	pub repository.QuotePublisher,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.QuoteService {
	opts := []usecase.QuoteOption{usecase.WithLogger(log)}
	if cache != nil {
		opts = append(opts, usecase.WithCache(cache, cfg.Cache.TTL))
	}
	if pub != nil {
		opts = append(opts, usecase.WithPublisher(pub))
	}
	return usecase.NewQuoteService(engine, m, opts...)
}

func ProvideValidator() (*validation.Validator, error) {
	v, err := validation.New()
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	return v, nil
}

// ProvideLimiter returns nil when rate limiting is disabled.
func ProvideLimiter(cfg *config.Config) *ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	return ratelimit.New(cfg.RateLimit.RPS, cfg.RateLimit.Burst, ratelimit.WithMaxKeys(cfg.RateLimit.MaxClients))
}

// ProvideMortgageHandler builds the quote API handler.
func ProvideMortgageHandler(
	log *applogger.Logger,
	val *validation.Validator,
	qs *usecase.QuoteService,
	t *ratetable.Table,
	m repository.Metrics,
	lim *ratelimit.Limiter,
	cfg *config.Config,
) *api.MortgageEchoHandler {
	h := api.NewMortgageEchoHandler(log, val, qs, t, m)
	if lim != nil {
		h.SetRateLimit(middleware.RateLimit(middleware.RateLimitConfig{
			Limiter:        lim,
			KeyHeader:      cfg.RateLimit.KeyHeader,
			TrustKeyHeader: cfg.RateLimit.TrustKeyHeader,
			RetryAfter:     int(lim.RetryAfter() / time.Second),
			OnReject: func(c echo.Context, key string) {
				m.RecordRejected("rate_limited")
				log.Debug("rate limited", applogger.String("client", key), applogger.String("path", c.Path()))
			},
		}))
	}
	return h
}

// ProvideHealthHandler adds a ClickHouse ping when it backs the rates.
func ProvideHealthHandler(t *ratetable.Table, ch *pkgch.Client) *api.HealthHandler {
	if ch == nil {
		return api.NewHealthHandler(t)
	}
	return api.NewHealthHandler(t, api.HealthCheck{Name: "clickhouse", Check: ch.Health})
}

// ProvideHTTPServer registers all handlers on an Echo server.
func ProvideHTTPServer(cfg *config.Config, log *applogger.Logger, mh *api.MortgageEchoHandler, hh *api.HealthHandler) (*xhttp.Server, error) {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	proxies, err := cfg.TrustedProxyNets()
	if err != nil {
		return nil, err
	}
	return xhttp.NewServer([]xhttp.Handler{mh, hh},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORSOrigins(cfg.Server.CORSOrigins),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithTrustedProxies(proxies),
		xhttp.WithLogger(log),
	), nil
}

// ProvideApp creates the application server and registers its periodic
// maintenance. Client connections are released by the injector's cleanup.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	srv *xhttp.Server,
	cache repository.QuoteCache,
	lim *ratelimit.Limiter,
) *server.App {
	app := server.New(cfg, log, srv)

	if lim != nil {
		app.AddJanitor(lim.Cleanup)
	}
	if c, ok := cache.(*icache.TTLCache); ok {
		app.AddJanitor(c.Sweep)
	}
	return app
}
