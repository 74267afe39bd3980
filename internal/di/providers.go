package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"METI/internal/domain/repository"
	domsvc "METI/internal/domain/service"
	"METI/internal/handler/api"
	"METI/internal/handler/stream"
	internalrepo "METI/internal/repository"
	"METI/internal/service/cache"
	"METI/internal/service/ratelimit"
	"METI/internal/service/yahoo"
	"METI/internal/services/scoring"
	"METI/internal/usecase"
	"METI/pkg/config"
	xhttp "METI/pkg/http"
	pkgkafka "METI/pkg/kafka"
	applogger "METI/pkg/logger"
	"METI/pkg/metrics"
	"METI/pkg/server"
)

// ProvideLogger creates the application logger from the logging section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

func ProvideCatalog() *scoring.Catalog {
	return scoring.DefaultCatalog()
}

// ProvideYahooClient creates the chart client with its circuit breaker.
func ProvideYahooClient(cfg *config.Config, m repository.Metrics, l *applogger.Logger, c *scoring.Catalog) *yahoo.Client {
	return yahoo.NewClient(
		yahoo.WithBaseURL(cfg.Market.BaseURL),
		yahoo.WithTimeout(cfg.Market.Timeout),
		yahoo.WithBreaker(cfg.Market.Breaker.MaxFailures, cfg.Market.Breaker.OpenTimeout),
		yahoo.WithMetrics(m),
		yahoo.WithLogger(l),
		yahoo.WithTimeframes(c.TimeframeKeys()),
	)
}

// ProvideBytesCache picks the observation cache backend.
func ProvideBytesCache(cfg *config.Config) (cache.BytesCache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			Prefix:   cfg.Cache.Redis.Prefix,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	default:
		return cache.NewTTLCache(), nil
	}
}

// ProvideMarketData puts the observation cache in front of the chart client.
func ProvideMarketData(cfg *config.Config, yc *yahoo.Client, bc cache.BytesCache, l *applogger.Logger) repository.MarketDataProvider {
	return internalrepo.NewCachedMarketData(yc, cache.NewObservationCache(bc), cfg.Market.CacheTTL, l)
}

// ProvideKafkaProducer creates a Kafka producer, or nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.BatchTimeout),
		pkgkafka.WithWriteTimeout(cfg.Kafka.Producer.WriteTimeout),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideIndexPublisher creates the Kafka index publisher. Nil producer means no publishing.
func ProvideIndexPublisher(cfg *config.Config, producer *pkgkafka.Producer) repository.IndexPublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaIndexPublisher(producer, cfg.Kafka.Topic)
}

// ProvideTensionIndex creates the index use case.
func ProvideTensionIndex(
	cfg *config.Config,
	catalog *scoring.Catalog,
	provider repository.MarketDataProvider,
	m repository.Metrics,
	pub repository.IndexPublisher,
	l *applogger.Logger,
) *usecase.TensionIndexUseCase {
	return usecase.NewTensionIndexUseCase(catalog, provider, m,
		usecase.WithLogger(l),
		usecase.WithPublisher(pub),
		usecase.WithParallelism(cfg.Market.MaxParallel),
		usecase.WithFetchTimeout(cfg.Market.FetchTimeout),
	)
}

func ProvideIndexService(uc *usecase.TensionIndexUseCase) domsvc.IndexService {
	return uc
}

func ProvideRefreshLimiter(cfg *config.Config) *ratelimit.Limiter {
	return ratelimit.New(cfg.RateLimit.Refresh.Capacity, cfg.RateLimit.Refresh.Refill)
}

// ProvideHandlers builds the REST and WebSocket handlers.
func ProvideHandlers(
	cfg *config.Config,
	l *applogger.Logger,
	svc domsvc.IndexService,
	catalog *scoring.Catalog,
	limiter *ratelimit.Limiter,
) []xhttp.Handler {
	return []xhttp.Handler{
		api.NewIndexEchoHandler(l, svc, catalog.Timeframes(), cfg.Geo, limiter),
		stream.NewIndexStreamHandler(l, svc, cfg.Geo, cfg.Stream.Interval),
	}
}

// ProvideHTTPServer creates the Echo server.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, handlers []xhttp.Handler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer(handlers,
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// ProvideApp creates the application and registers shutdown hooks.
// The log collector is closed before the publisher since both share the producer.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	producer *pkgkafka.Producer,
	pub repository.IndexPublisher,
	bc cache.BytesCache,
) *server.App {
	app := server.New(cfg, l, srv)

	if cfg.Logging.Collector.Enabled && producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   cfg.Logging.Collector.Interval,
			CountThreshold: cfg.Logging.Collector.CountThreshold,
			Topic:          cfg.Logging.Collector.Topic,
			Publisher:      producer,
		})
		app.OnShutdown("log collector", closerFunc(func() error {
			l.RemoveCollector()
			return nil
		}))
	}
	if pub != nil {
		app.OnShutdown("index publisher", pub)
	} else if producer != nil {
		app.OnShutdown("kafka producer", producer)
	}
	if c, ok := bc.(io.Closer); ok {
		app.OnShutdown("cache", c)
	}
	return app
}
