package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/storely/auth-service/internal/application/auth"
	"github.com/storely/auth-service/internal/audit"
	"github.com/storely/auth-service/internal/config"
	"github.com/storely/auth-service/internal/infrastructure/db/postgres"
	"github.com/storely/auth-service/internal/infrastructure/memory"
	rabbitmq_pub "github.com/storely/auth-service/internal/infrastructure/messaging/rabbitmq"
	"github.com/storely/auth-service/internal/infrastructure/redis"
	"github.com/storely/auth-service/internal/infrastructure/security"
	"github.com/storely/auth-service/internal/logger"
	http_handlers "github.com/storely/auth-service/internal/transport/http/handlers"
	"github.com/storely/auth-service/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(dsn string) (DBCloser, error)

	NewRedis func(addr, password string, db int) RedisClient

	NewPublisher func(rabbitURL string) (Publisher, error)

	NewRouter func(router.Deps) http.Handler
}

type DBCloser interface {
	Close() error
}

type RedisClient interface {
	Ping(ctx context.Context) error
	Close() error
}

type Publisher interface{}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	var cleanupFns []func()

	// 1) user + permission store
	var userRepo auth.UserRepo
	var permRepo auth.PermissionRepo
	var sqlDB *sql.DB

	if cfg.DBAddr != "" {
		db, err := deps.NewDB(cfg.DBAddr)
		if err != nil {
			return nil, nil, err
		}
		cleanupFns = append(cleanupFns, func() { _ = db.Close() })

		var ok bool
		sqlDB, ok = db.(*sql.DB)
		if !ok {
			runCleanup(cleanupFns)
			return nil, nil, errors.New("bootstrap: NewDB did not return *sql.DB")
		}

		if err := postgres.SeedReferenceData(context.Background(), sqlDB); err != nil {
			runCleanup(cleanupFns)
			return nil, nil, err
		}

		userRepo = postgres.NewUserRepo(sqlDB)
		permRepo = postgres.NewPermissionRepo(sqlDB)
	} else {
		// dev fallback, keeps the service bootable without postgres
		logger.Logger.Warn().Msg("no DB_ADDR; using in-memory user store")
		userRepo = memory.NewUserRepo()
		permRepo = memory.NewPermissionRepo()
	}

	// 2) redis (best-effort; rate limiting disabled without it)
	var redisCli RedisClient
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; rate limiting disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	// 3) publisher
	var pub auth.EventPublisher
	if deps.NewPublisher != nil && cfg.RabbitURL != "" {
		p, err := deps.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
				pub = memory.NewNoopPublisher()
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		} else {
			ep, ok := p.(auth.EventPublisher)
			if !ok {
				runCleanup(cleanupFns)
				return nil, nil, errors.New("bootstrap: publisher does not implement EventPublisher")
			}
			pub = ep
			if c, ok := p.(interface{ Close() error }); ok {
				cleanupFns = append(cleanupFns, func() { _ = c.Close() })
			}
		}
	} else {
		pub = memory.NewNoopPublisher()
	}

	// 4) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuers[0]).Msg("initializing jwt issuer")
	hasher := security.NewBcryptHasher(12)
	issuer := security.NewJWTIssuer(cfg.JWTSecret, cfg.JWTIssuers, cfg.JWTAudiences, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	// seed admin (dev only)
	if cfg.Env == "dev" {
		postgres.SeedAdmin(context.Background(), userRepo, hasher, cfg.SeedAdminPass)
	}

	// 5) service
	authSvc := auth.NewService(
		userRepo,
		permRepo,
		hasher,
		issuer,
		pub,
		auth.Config{
			AccessTTL:       cfg.AccessTokenTTL,
			AccessFailedMax: cfg.AccessFailedMax,
			LockoutDuration: cfg.LockoutDuration,
		},
	)

	auditLog := audit.New(logger.Logger)
	authSvc = authSvc.WithAudit(auditLog.Record)

	// 6) handlers + limiter
	authH := http_handlers.NewAuthHandler(authSvc)
	usersH := http_handlers.NewUsersHandler(authSvc)

	var dbProbe http_handlers.Pinger
	if sqlDB != nil {
		dbProbe = sqlDB
	}
	healthH := http_handlers.NewHealthHandler(dbProbe)

	var fwLimiter *redis.FixedWindowLimiter
	if redisCli != nil {
		fwLimiter = redis.NewFixedWindowLimiter(redisCli.(*redis.Client))
	}

	// 7) router
	mux := deps.NewRouter(router.Deps{
		Auth:    authH,
		Users:   usersH,
		Health:  healthH,
		Issuer:  issuer,
		Limiter: fwLimiter,

		LoginRateLimit:  cfg.LoginRateLimit,
		LoginRateWindow: cfg.LoginRateWindow,
	})

	// 8) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(dsn string) (DBCloser, error) {
			return config.NewDB(dsn)
		},
		NewRedis: func(addr, password string, db int) RedisClient {
			return redis.New(addr, password, db)
		},
		NewPublisher: func(url string) (Publisher, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: router.New,
	}
}

/*
========================
 helpers
========================
*/

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
