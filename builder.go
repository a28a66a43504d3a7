package sessionauth

import (
	"errors"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/prepwise/sessionauth/credstore"
)

// Builder assembles a [Manager]. Configure it once, call Build once.
type Builder struct {
	config Config

	identity IdentityClient
	store    credstore.Store
	redis    *redis.Client

	auditSink AuditSink
	logger    *zerolog.Logger
	now       func() time.Time

	built bool
}

func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithIdentityClient sets the provider adapter. Required.
func (b *Builder) WithIdentityClient(client IdentityClient) *Builder {
	b.identity = client
	return b
}

// WithStore sets an explicit credential store, overriding Config.Store.
func (b *Builder) WithStore(store credstore.Store) *Builder {
	b.store = store
	return b
}

// WithRedis supplies the client backing the redis store backend.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger overrides the logger built from Config.Log.
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.logger = &logger
	return b
}

// WithNowFunc injects the clock, primarily for tests.
func (b *Builder) WithNowFunc(now func() time.Time) *Builder {
	b.now = now
	return b
}

func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration, resolves the credential store, and
// returns the assembled Manager.
func (b *Builder) Build() (*Manager, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if b.identity == nil {
		return nil, errors.New("identity client required")
	}

	store := b.store
	if store == nil {
		switch cfg.Store.Backend {
		case "file":
			store = credstore.NewFileStore(cfg.Store.FilePath)
		case "redis":
			if b.redis == nil {
				return nil, errors.New("redis store backend requires a redis client")
			}
			store = credstore.NewRedisStore(b.redis, cfg.Store.RedisKey)
		case "memory":
			store = credstore.NewMemStore()
		}
	}

	logger := b.logger
	if logger == nil {
		built, err := newLogger(cfg.Log)
		if err != nil {
			return nil, err
		}
		logger = &built
	}

	now := b.now
	if now == nil {
		now = time.Now
	}

	manager := &Manager{
		config:   cfg,
		identity: b.identity,
		store:    store,
		audit:    newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics:  NewMetrics(cfg.Metrics),
		log:      *logger,
		now:      now,
		state:    StateAnonymous,
	}

	b.built = true

	return manager, nil
}

func newLogger(cfg LogConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), errors.New("unknown log level: " + cfg.Level)
	}
	if cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Pretty {
		writer := zerolog.ConsoleWriter{Out: os.Stderr}
		return zerolog.New(writer).Level(level).With().Timestamp().Logger(), nil
	}
	return zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger(), nil
}
