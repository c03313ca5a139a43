// Package site parses site command flags and launches the site server.
package site

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	entrypoint "github.com/s2design/site/internal/platform/cmd"
	"github.com/s2design/site/internal/platform/logging"
	siteserver "github.com/s2design/site/internal/services/site"
	"github.com/s2design/site/internal/services/site/backend"
	"github.com/s2design/site/internal/services/site/inquiry"
	"github.com/s2design/site/internal/services/site/platform/requestmeta"
	"github.com/s2design/site/internal/services/site/platform/session"
	"github.com/s2design/site/internal/services/site/sitecontent"
	"github.com/s2design/site/internal/services/site/storage"
	"github.com/s2design/site/internal/services/site/storage/cachestore"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds site command configuration.
type Config struct {
	HTTPAddr            string        `env:"S2_SITE_HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL          string        `env:"S2_SITE_API_BASE_URL" envDefault:"http://localhost:3000/api"`
	APITimeout          time.Duration `env:"S2_SITE_API_TIMEOUT" envDefault:"10s"`
	SessionSecret       string        `env:"S2_SITE_SESSION_SECRET"`
	SessionTTL          time.Duration `env:"S2_SITE_SESSION_TTL" envDefault:"12h"`
	CacheBackend        string        `env:"S2_SITE_CACHE_BACKEND" envDefault:"sqlite"`
	CachePath           string        `env:"S2_SITE_CACHE_PATH" envDefault:"data/site-cache.db"`
	CacheTTL            time.Duration `env:"S2_SITE_CACHE_TTL" envDefault:"5m"`
	RedisAddr           string        `env:"S2_SITE_REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword       string        `env:"S2_SITE_REDIS_PASSWORD"`
	RedisDB             int           `env:"S2_SITE_REDIS_DB" envDefault:"0"`
	ContentPath         string        `env:"S2_SITE_CONTENT_PATH"`
	InquirySink         string        `env:"S2_SITE_INQUIRY_SINK" envDefault:"backend"`
	AMQPURL             string        `env:"S2_SITE_AMQP_URL"`
	AMQPQueue           string        `env:"S2_SITE_AMQP_QUEUE" envDefault:"s2site.inquiries"`
	LogLevel            string        `env:"S2_SITE_LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"S2_SITE_LOG_FORMAT" envDefault:"json"`
	TrustForwardedProto bool          `env:"S2_SITE_TRUST_FORWARDED_PROTO" envDefault:"false"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "Content API base URL")
	fs.DurationVar(&cfg.APITimeout, "api-timeout", cfg.APITimeout, "Content API request timeout")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Admin session lifetime when the API token has no expiry")
	fs.StringVar(&cfg.CacheBackend, "cache-backend", cfg.CacheBackend, "Read cache backend: sqlite, redis, memory or none")
	fs.StringVar(&cfg.CachePath, "cache-path", cfg.CachePath, "SQLite cache database path")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "Read cache entry lifetime")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "Redis address for the redis cache backend")
	fs.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "Redis database number")
	fs.StringVar(&cfg.ContentPath, "content-path", cfg.ContentPath, "YAML file overriding the built-in site copy")
	fs.StringVar(&cfg.InquirySink, "inquiry-sink", cfg.InquirySink, "Contact inquiry delivery: log, amqp or backend")
	fs.StringVar(&cfg.AMQPURL, "amqp-url", cfg.AMQPURL, "AMQP broker URL for the amqp inquiry sink")
	fs.StringVar(&cfg.AMQPQueue, "amqp-queue", cfg.AMQPQueue, "AMQP queue for contact inquiries")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: json or console")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Honour X-Forwarded-Proto from a trusted proxy")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the site server.
func Run(ctx context.Context, cfg Config) error {
	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceSite, entrypoint.RunOptions{Logger: logger}, func(ctx context.Context) error {
		return serve(ctx, cfg, logger)
	})
}

func serve(ctx context.Context, cfg Config, logger *zap.Logger) error {
	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, policy)
	if err != nil {
		return fmt.Errorf("S2_SITE_SESSION_SECRET: %w", err)
	}
	api, err := backend.New(backend.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.APITimeout})
	if err != nil {
		return err
	}
	content, err := sitecontent.NewStore(cfg.ContentPath, logger.Named("content"))
	if err != nil {
		return fmt.Errorf("load site content: %w", err)
	}

	var resources []io.Closer
	store, err := cachestore.Open(ctx, cachestore.Options{
		Backend:       cfg.CacheBackend,
		Path:          cfg.CachePath,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	if store != nil {
		resources = append(resources, store)
	}
	sink, closer, err := openSink(cfg, api, logger)
	if err != nil {
		closeAll(resources, logger)
		return err
	}
	if closer != nil {
		resources = append(resources, closer)
	}

	server, err := siteserver.NewServer(ctx, siteserver.Config{
		HTTPAddr:     cfg.HTTPAddr,
		API:          api,
		Cache:        storage.NewCache(store, cfg.CacheTTL, logger.Named("cache")),
		Content:      content,
		Inquiries:    sink,
		Sessions:     sessions,
		SchemePolicy: policy,
		Logger:       logger,
		Resources:    resources,
	})
	if err != nil {
		closeAll(resources, logger)
		return err
	}
	defer server.Close()

	logger.Info("starting site",
		zap.String("addr", server.Addr()),
		zap.String("api", api.BaseURL()),
		zap.String("cache", cfg.CacheBackend),
		zap.String("inquiry_sink", cfg.InquirySink),
		zap.String("content", content.Path()),
	)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error { return server.ListenAndServe(ctx) })
	group.Go(func() error { return content.Watch(ctx) })
	return group.Wait()
}

// openSink builds the configured inquiry sink. The closer is nil for sinks
// that hold no connection.
func openSink(cfg Config, api inquiry.Submitter, logger *zap.Logger) (inquiry.Sink, io.Closer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.InquirySink)) {
	case inquiry.SinkLog:
		return inquiry.NewLogSink(logger.Named("inquiry")), nil, nil
	case "", inquiry.SinkBackend:
		return inquiry.NewBackendSink(api), nil, nil
	case inquiry.SinkAMQP:
		sink, err := inquiry.DialAMQP(inquiry.AMQPConfig{URL: cfg.AMQPURL, Queue: cfg.AMQPQueue})
		if err != nil {
			return nil, nil, err
		}
		return sink, sink, nil
	default:
		return nil, nil, fmt.Errorf("unknown inquiry sink %q", cfg.InquirySink)
	}
}

func closeAll(resources []io.Closer, logger *zap.Logger) {
	for _, resource := range resources {
		if err := resource.Close(); err != nil {
			logger.Warn("close resource", zap.Error(err))
		}
	}
}
