// Package container is the application's Composition Root: every
// dependency — database, cache, messaging, repositories, use cases, HTTP
// server — is assembled in one place so nothing else in the codebase
// needs to know how its collaborators are constructed.
package container

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	ledgerhttp "github.com/vaultcoin/ledgercore/internal/adapters/http"
	"github.com/vaultcoin/ledgercore/internal/adapters/http/middleware"
	"github.com/vaultcoin/ledgercore/internal/application/ports"
	"github.com/vaultcoin/ledgercore/internal/application/usecases/ledger"
	"github.com/vaultcoin/ledgercore/internal/application/usecases/query"
	"github.com/vaultcoin/ledgercore/internal/config"
	"github.com/vaultcoin/ledgercore/internal/infrastructure/cache"
	"github.com/vaultcoin/ledgercore/internal/infrastructure/messaging"
	"github.com/vaultcoin/ledgercore/internal/infrastructure/persistence/postgres"
)

// Container owns the lifecycle of every dependency in the process: lazy
// construction in Initialize, typed access via the getters, orderly
// teardown in Shutdown.
type Container struct {
	config *config.Config
	logger *slog.Logger

	// Infrastructure
	pool        *pgxpool.Pool
	redisClient *redis.Client
	natsPub     *messaging.NATSPublisher

	// Repositories
	assetTypeRepo   ports.AssetTypeRepository
	walletRepo      ports.WalletRepository
	transactionRepo ports.TransactionRepository
	ledgerEntryRepo ports.LedgerEntryRepository
	lockRepo        ports.LockRepository
	outboxRepo      *postgres.OutboxRepository

	// Unit of Work
	uow ports.UnitOfWork

	// Domain services
	engine  *ledger.Engine
	facade  *ledger.Facade
	surface *query.Surface

	// Outbox poller
	poller       *messaging.Poller
	pollerCancel context.CancelFunc

	// HTTP
	httpServer *ledgerhttp.Server
}

// New creates an empty container for the given configuration; call
// Initialize to wire it.
func New(cfg *config.Config) *Container {
	return &Container{config: cfg}
}

// ============================================
// Initialization
// ============================================

// Initialize constructs every dependency in order: logger, database,
// cache, messaging, repositories, domain services, HTTP server.
func (c *Container) Initialize(ctx context.Context) error {
	c.logger = c.initLogger()
	c.logger.Info("initializing application container")

	if err := c.initDatabase(ctx); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.logger.Info("database connected")

	c.initRedis()
	c.logger.Info("redis client configured")

	if err := c.initNATS(); err != nil {
		// A ledger operation never depends on NATS; a degraded outbox
		// transport delays event delivery, it never blocks TOP_UP/BONUS/SPEND.
		c.logger.Warn("NATS connection failed, outbox poller will not run", slog.Any("error", err))
	}

	c.initRepositories()
	c.logger.Info("repositories initialized")

	c.initDomainServices()
	c.logger.Info("domain services initialized")

	c.initOutboxPoller()

	c.initHTTPServer()
	c.logger.Info("HTTP server initialized")

	c.logger.Info("container initialization complete")
	return nil
}

func (c *Container) initLogger() *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch c.config.Log.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: c.config.App.Debug,
	}

	if c.config.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger
}

func (c *Container) initDatabase(ctx context.Context) error {
	poolConfig, err := pgxpool.ParseConfig(c.config.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = c.config.Database.MaxConnections
	poolConfig.MinConns = c.config.Database.MinConnections
	poolConfig.MaxConnLifetime = c.config.Database.MaxConnLifetime
	poolConfig.MaxConnIdleTime = c.config.Database.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.pool = pool
	return nil
}

// initRedis configures the query cache's client. The client dials lazily
// on first command, so a down Redis at startup never blocks the process;
// cache.QueryCache degrades to passing every read through on a failed Get.
func (c *Container) initRedis() {
	c.redisClient = redis.NewClient(&redis.Options{
		Addr:        c.config.Redis.Addr,
		Password:    c.config.Redis.Password,
		DB:          c.config.Redis.DB,
		DialTimeout: c.config.Redis.DialTimeout,
	})
}

func (c *Container) initNATS() error {
	pub, err := messaging.NewNATSPublisher(c.config.NATS.URL, c.config.NATS.SubjectPrefix, c.config.NATS.ConnectTimeout)
	if err != nil {
		return err
	}
	c.natsPub = pub
	return nil
}

func (c *Container) initRepositories() {
	c.assetTypeRepo = postgres.NewAssetTypeRepository(c.pool)
	c.walletRepo = postgres.NewWalletRepository(c.pool)
	c.transactionRepo = postgres.NewTransactionRepository(c.pool)
	c.ledgerEntryRepo = postgres.NewLedgerEntryRepository(c.pool)
	c.lockRepo = postgres.NewLockRepository(c.pool)
	c.outboxRepo = postgres.NewOutboxRepository(c.pool)

	c.uow = postgres.NewUnitOfWork(c.pool)
}

// initDomainServices wires the Ledger Engine, its HTTP-facing Facade, and
// the read-only Query Surface.
func (c *Container) initDomainServices() {
	c.engine = ledger.NewEngine(
		c.lockRepo,
		c.assetTypeRepo,
		c.walletRepo,
		c.transactionRepo,
		c.ledgerEntryRepo,
		c.outboxRepo,
		c.uow,
	)
	c.facade = ledger.NewFacade(c.engine, c.walletRepo, c.assetTypeRepo)
	c.surface = query.NewSurface(c.assetTypeRepo, c.walletRepo, c.transactionRepo)
}

// initOutboxPoller wires the poller only if NATS connected successfully.
func (c *Container) initOutboxPoller() {
	if c.natsPub == nil {
		return
	}
	c.poller = messaging.NewPoller(c.outboxRepo, c.natsPub, c.logger, messaging.PollerConfig{
		Interval:   c.config.Outbox.PollInterval,
		BatchSize:  c.config.Outbox.BatchSize,
		MaxRetries: c.config.Outbox.MaxRetries,
	})
}

// initHTTPServer builds the router, wrapping the ledger use cases with the
// Redis-backed query cache at the HTTP boundary only.
func (c *Container) initHTTPServer() {
	var tokenValidator func(token string) (*middleware.AuthClaims, error)
	if c.config.Auth.EnableMockAuth {
		tokenValidator = middleware.MockTokenValidator
	}
	// A production deployment must supply a real JWT validator before
	// Auth.EnableMockAuth is turned off; Config.Validate already rejects
	// mock auth in the production environment.

	queryCache := cache.NewQueryCache(c.redisClient, c.surface, c.surface, c.config.Redis.AssetTypeTTL, c.config.Redis.BalanceTTL)
	invalidatingLedger := cache.NewLedgerInvalidator(c.facade, c.facade, c.facade, queryCache)

	routerConfig := &ledgerhttp.RouterConfig{
		Logger:             c.logger,
		Pool:               c.pool,
		Version:            c.config.App.Version,
		BuildTime:          c.config.App.BuildTime,
		Environment:        c.config.App.Environment,
		AllowedOrigins:     c.config.CORS.AllowedOrigins,
		AuthTokenValidator: tokenValidator,
	}

	router := ledgerhttp.NewRouterBuilder(routerConfig).
		WithLedgerUseCases(&ledgerhttp.LedgerUseCases{
			TopUp: invalidatingLedger,
			Bonus: invalidatingLedger,
			Spend: invalidatingLedger,
		}).
		WithQueryUseCases(&ledgerhttp.QueryUseCases{
			AssetTypes:   queryCache,
			Balances:     queryCache,
			Transactions: c.surface,
		}).
		Build()

	serverConfig := &ledgerhttp.ServerConfig{
		Host:            c.config.Server.Host,
		Port:            fmt.Sprintf("%d", c.config.Server.Port),
		ReadTimeout:     c.config.Server.ReadTimeout,
		WriteTimeout:    c.config.Server.WriteTimeout,
		IdleTimeout:     c.config.Server.IdleTimeout,
		ShutdownTimeout: c.config.Server.ShutdownTimeout,
		Logger:          c.logger,
	}

	c.httpServer = ledgerhttp.NewServer(serverConfig, router)
}

// ============================================
// Getters
// ============================================

func (c *Container) Config() *config.Config           { return c.config }
func (c *Container) Logger() *slog.Logger              { return c.logger }
func (c *Container) Pool() *pgxpool.Pool               { return c.pool }
func (c *Container) HTTPServer() *ledgerhttp.Server     { return c.httpServer }
func (c *Container) UnitOfWork() ports.UnitOfWork       { return c.uow }
func (c *Container) Engine() *ledger.Engine             { return c.engine }
func (c *Container) QuerySurface() *query.Surface       { return c.surface }

func (c *Container) AssetTypeRepository() ports.AssetTypeRepository     { return c.assetTypeRepo }
func (c *Container) WalletRepository() ports.WalletRepository           { return c.walletRepo }
func (c *Container) TransactionRepository() ports.TransactionRepository { return c.transactionRepo }
func (c *Container) LedgerEntryRepository() ports.LedgerEntryRepository { return c.ledgerEntryRepo }

// ============================================
// Run / Shutdown
// ============================================

// Run starts the outbox poller (if wired) in the background and serves
// HTTP until the process receives a shutdown signal.
func (c *Container) Run() error {
	c.logger.Info("starting ledgercore",
		slog.String("version", c.config.App.Version),
		slog.String("environment", c.config.App.Environment),
		slog.String("address", c.config.Server.Address()),
	)

	if c.poller != nil {
		pollerCtx, cancel := context.WithCancel(context.Background())
		c.pollerCancel = cancel
		go c.poller.Run(pollerCtx)
	}

	return c.httpServer.Run()
}

// Shutdown tears down every component in reverse dependency order.
func (c *Container) Shutdown(ctx context.Context) error {
	c.logger.Info("shutting down container")

	var errs []error

	if c.pollerCancel != nil {
		c.pollerCancel()
	}

	if c.httpServer != nil {
		if err := c.httpServer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("HTTP server shutdown: %w", err))
		}
	}

	if c.natsPub != nil {
		c.natsPub.Close()
	}

	if c.redisClient != nil {
		if err := c.redisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis client close: %w", err))
		}
	}

	if c.pool != nil {
		done := make(chan struct{})
		go func() {
			c.pool.Close()
			close(done)
		}()

		select {
		case <-done:
			c.logger.Info("database connection closed")
		case <-ctx.Done():
			c.logger.Warn("database close timeout")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}

	c.logger.Info("container shutdown complete")
	return nil
}

// ============================================
// Health Check
// ============================================

// HealthStatus summarizes the health of the container's dependencies.
type HealthStatus struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  time.Duration     `json:"uptime"`
	Checks  map[string]string `json:"checks"`
}

// Health pings the database and reports overall status.
func (c *Container) Health(ctx context.Context) *HealthStatus {
	status := &HealthStatus{
		Status:  "healthy",
		Version: c.config.App.Version,
		Checks:  make(map[string]string),
	}

	if err := c.pool.Ping(ctx); err != nil {
		status.Status = "unhealthy"
		status.Checks["database"] = "error: " + err.Error()
	} else {
		status.Checks["database"] = "ok"
	}

	if c.redisClient != nil {
		if err := c.redisClient.Ping(ctx).Err(); err != nil {
			status.Checks["redis"] = "error: " + err.Error()
		} else {
			status.Checks["redis"] = "ok"
		}
	}

	if c.natsPub == nil {
		status.Checks["nats"] = "not connected"
	} else {
		status.Checks["nats"] = "ok"
	}

	return status
}
