package container

import (
	"context"
	"fmt"
	"time"

	"bookapi-backend/internal/config"
	infraCache "bookapi-backend/internal/infrastructure/cache"
	"bookapi-backend/internal/infrastructure/database"
	"bookapi-backend/internal/shared/hateoas"
	"bookapi-backend/internal/shared/pagination"
	"bookapi-backend/internal/shared/versioning"
	"bookapi-backend/pkg/cache"
	"bookapi-backend/pkg/jwt"
	"bookapi-backend/pkg/logger"

	// Author domain
	authorHandler "bookapi-backend/internal/domains/author/handler"
	authorRepo "bookapi-backend/internal/domains/author/repository"
	authorService "bookapi-backend/internal/domains/author/service"

	// Book domain
	bookHandler "bookapi-backend/internal/domains/book/handler"
	bookRepo "bookapi-backend/internal/domains/book/repository"
	bookService "bookapi-backend/internal/domains/book/service"

	// User domain
	"bookapi-backend/internal/domains/user"
	userHandler "bookapi-backend/internal/domains/user/handler"
	userRepo "bookapi-backend/internal/domains/user/repository"
	userService "bookapi-backend/internal/domains/user/service"
)

const poolMonitorInterval = 30 * time.Second

// HealthChecker is a dependency reported by the health endpoint.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Container holds every dependency of the application.
//
// Initialization order matters:
//  1. Config
//  2. Infrastructure (DB, Redis, cache) - depends on Config
//  3. Repositories - depend on infrastructure
//  4. Services - depend on repositories and the cache
//  5. Handlers - depend on services
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config       *config.Config
	DB           *database.PostgresDB
	Redis        *infraCache.RedisClient
	Cache        cache.TagAwareCache
	JWTManager   *jwt.Manager
	Negotiator   *versioning.Negotiator
	HealthChecks map[string]HealthChecker

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	AuthorRepo authorRepo.RepositoryInterface
	BookRepo   bookRepo.RepositoryInterface
	UserRepo   user.Repository

	// ========================================
	// SERVICE LAYER
	// ========================================

	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface
	UserService   user.Service

	// ========================================
	// HANDLER LAYER
	// ========================================

	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.Handler
	UserHandler   *userHandler.UserHandler

	stopMonitor context.CancelFunc
}

// NewContainer builds the whole dependency graph against real PostgreSQL
// and Redis. A database failure is fatal; a Redis failure is not, since the
// cache falls back to the database.
func NewContainer(ctx context.Context) (*Container, error) {
	c := &Container{HealthChecks: map[string]HealthChecker{}}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	logger.Info("config loaded", map[string]interface{}{"environment": cfg.App.Environment})

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := cfg.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Migrate(connectCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	c.DB = db
	c.HealthChecks["database"] = db

	monitorCtx, stop := context.WithCancel(context.Background())
	c.stopMonitor = stop
	go db.MonitorPoolHealth(monitorCtx, poolMonitorInterval)

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	c.Redis = infraCache.NewRedisClient(infraCache.Options{
		Addr:      cfg.Redis.Host,
		Password:  cfg.Redis.Password,
		DB:        cfg.Redis.DB,
		PoolSize:  cfg.Redis.PoolSize,
		OpTimeout: cfg.Redis.OpTimeout,
	})
	if err := c.Redis.Connect(connectCtx); err != nil {
		logger.Warn("redis unavailable, serving without cache", err)
	}
	c.HealthChecks["redis"] = c.Redis

	c.Cache = cache.NewRedisTagCache(c.Redis.Client, cache.Options{
		Prefix: cfg.Redis.Prefix,
		TTL:    cfg.Redis.CacheTTL,
	})

	// ========================================
	// STEP 4: INITIALIZE REPOSITORIES
	// ========================================
	c.initRepositories()

	// ========================================
	// STEP 5-6: SERVICES AND HANDLERS
	// ========================================
	c.Wire()

	logger.Debug("container initialized")
	return c, nil
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.AuthorRepo = authorRepo.NewPostgresRepository(pool)
	c.BookRepo = bookRepo.NewPostgresRepository(pool)
	c.UserRepo = userRepo.NewPostgresRepository(pool)
}

// Wire builds the services and handlers from Config, the repositories and
// the cache. It also fills in the JWT manager and version negotiator when
// they are not set.
func (c *Container) Wire() {
	if c.JWTManager == nil {
		c.JWTManager = jwt.NewManager(c.Config.JWT.Secret, c.Config.JWT.AccessTokenTTL())
	}
	if c.Negotiator == nil {
		c.Negotiator = versioning.NewNegotiator(c.Config.App.DefaultAPIVersion)
	}

	paging := pagination.Config{
		DefaultLimit: c.Config.Pagination.DefaultLimit,
		MaxLimit:     c.Config.Pagination.MaxLimit,
	}
	urls := hateoas.URLBuilder{
		BaseURL:    c.Config.App.BaseURL,
		TrustProxy: c.Config.App.TrustProxy,
	}

	// ----------------------------------------
	// SERVICES
	// ----------------------------------------
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.Cache)
	c.BookService = bookService.NewBookService(
		c.BookRepo,
		c.AuthorRepo, // Cross-domain dependency
		c.Cache,
	)
	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)

	// ----------------------------------------
	// HANDLERS
	// ----------------------------------------
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService, paging, urls)
	c.BookHandler = bookHandler.NewHandler(c.BookService, c.Negotiator, paging, urls)
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
}

// Cleanup releases infrastructure resources on shutdown.
func (c *Container) Cleanup() {
	if c.stopMonitor != nil {
		c.stopMonitor()
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Warn("failed to close redis", err)
		}
	}

	logger.Debug("container cleanup completed")
}
