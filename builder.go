package giftauth

import (
	"errors"

	"github.com/MrEthical07/giftauth/internal/rate"
	"github.com/MrEthical07/giftauth/otp"
	"github.com/MrEthical07/giftauth/principal"
	"github.com/MrEthical07/giftauth/session"
	"github.com/MrEthical07/giftauth/ttlstore"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Builder assembles an [Engine].
//
// Builder instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Builder struct {
	config Config
	redis  redis.UniversalClient

	ttlStore   ttlstore.Store
	principals principal.Store
	auditSink  AuditSink
	logger     *zap.Logger

	built bool
}

// New returns a Builder seeded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the client used for credential keys and rate-limit counters.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithTTLStore overrides the credential store. Rate limiting still uses the
// Redis client.
func (b *Builder) WithTTLStore(store ttlstore.Store) *Builder {
	b.ttlStore = store
	return b
}

// WithPrincipalStore sets the principal directory. Required.
func (b *Builder) WithPrincipalStore(store principal.Store) *Builder {
	b.principals = store
	return b
}

// WithAuditSink sets the audit destination. It only receives events when
// Config.Audit.Enabled is true.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger sets the logger for infrastructure failures. Defaults to a no-op logger.
func (b *Builder) WithLogger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// WithMetricsEnabled toggles in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the Authenticate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// WithAutoRegister toggles creating principals for unknown phone numbers.
func (b *Builder) WithAutoRegister(enabled bool) *Builder {
	b.config.Principal.AutoRegister = enabled
	return b
}

// Build validates the configuration and wires the engine. A Builder can be
// built only once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.principals == nil {
		return nil, errors.New("principal store required")
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	store := b.ttlStore
	if store == nil {
		store = ttlstore.NewRedisStore(b.redis)
	}

	engine := &Engine{
		config:     cloneConfig(cfg),
		principals: b.principals,
		logger:     logger,
	}

	engine.codes = otp.NewIssuer(store, otp.Config{
		Digits: cfg.OTP.Digits,
		TTL:    cfg.OTP.TTL,
		Prefix: cfg.Session.RedisPrefix,
	})
	engine.sessions = session.NewIssuer(store, session.Config{
		TTL:           cfg.Session.TTL,
		RefreshMargin: cfg.Session.RefreshMargin,
		TokenBytes:    cfg.Session.TokenBytes,
		Prefix:        cfg.Session.RedisPrefix,
	})
	engine.rateLimiter = rate.New(b.redis, rate.Config{
		Prefix:               cfg.Session.RedisPrefix,
		MaxLoginCodeRequests: cfg.RateLimit.MaxLoginCodeRequests,
		LoginCodeWindow:      cfg.RateLimit.LoginCodeWindow,
		MaxLoginFailures:     cfg.RateLimit.MaxLoginFailures,
		LoginFailureWindow:   cfg.RateLimit.LoginFailureWindow,
		MaxSearchRequests:    cfg.RateLimit.MaxSearchRequests,
		SearchWindow:         cfg.RateLimit.SearchWindow,
	})
	engine.audit = newAuditDispatcher(cfg.Audit, b.auditSink, logger)
	engine.metrics = NewMetrics(cfg.Metrics)

	b.built = true

	return engine, nil
}
