// Package server assembles the HTTP application: it builds the auth
// components from config, registers every route with its pipeline
// (authentication, authorization, validation) and owns shutdown.
package server

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	auth "github.com/goliatone/go-staff-auth"
	"github.com/goliatone/go-staff-auth/config"
	"github.com/goliatone/go-staff-auth/employees"
	"github.com/goliatone/go-staff-auth/middleware/jwtware"
	"github.com/goliatone/go-staff-auth/middleware/rbac"
	"github.com/goliatone/go-staff-auth/middleware/validate"
	"github.com/goliatone/go-staff-auth/repository"
)

type Server struct {
	cfg    *config.Config
	app    *fiber.App
	store  employees.Store
	tokens auth.TokenService
	logger auth.Logger
}

type Option func(*Server)

// WithLogger sets the logger shared by every component
func WithLogger(logger auth.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithStore replaces the store selected by config
func WithStore(store employees.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// New builds the application. It fails when the auth components cannot be
// built, most notably without a signing key.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server: config is required")
	}

	s := &Server{
		cfg:    cfg,
		logger: auth.DefaultLogger(),
	}

	for _, opt := range opts {
		opt(s)
	}

	tokens, err := auth.NewTokenServiceFromConfig(cfg, s.logger)
	if err != nil {
		return nil, err
	}
	s.tokens = tokens

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	accounts, err := auth.SeedAccounts(hasher, cfg.Seeds()...)
	if err != nil {
		return nil, fmt.Errorf("seed accounts: %w", err)
	}

	if s.store == nil {
		if s.store, err = openStore(ctx, cfg, s.logger); err != nil {
			return nil, err
		}
	}

	authenticator := auth.NewAuthenticator(accounts, hasher, tokens).WithLogger(s.logger)

	s.app = fiber.New(fiber.Config{
		AppName:               "staff-auth",
		ErrorHandler:          auth.ErrorHandler(s.logger),
		DisableStartupMessage: true,
	})

	s.middleware()
	s.routes(authenticator)

	s.logger.Info("app initialization complete (store=%s)", cfg.StoreDriver)

	return s, nil
}

// middleware registers the app wide stages. The request logger sits
// outside recover so recovered panics are logged with their 500 status.
func (s *Server) middleware() {
	s.app.Use(requestid.New())
	s.app.Use(requestLogger(s.logger, s.cfg.LogSkipBelow))
	s.app.Use(recover.New())
	s.app.Use(cors.New(cors.Config{AllowOrigins: s.cfg.CORSOrigins}))
}

func (s *Server) routes(authenticator auth.Authenticator) {
	api := s.app.Group(s.cfg.BasePath)

	api.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	auth.NewAuthController(authenticator).
		WithLogger(s.logger).
		Register(api)

	authenticate := jwtware.New(jwtware.Config{
		TokenVerifier: s.tokens,
		AuthScheme:    s.cfg.GetAuthScheme(),
		Logger:        s.logger,
	})

	ctl := employees.NewController(
		employees.NewService(s.store).WithLogger(s.logger),
	).WithLogger(s.logger)

	group := api.Group("/employees", authenticate)
	group.Get("/", rbac.Allow(auth.RoleAdmin, auth.RoleUser), ctl.List)
	group.Post("/", rbac.Allow(auth.RoleAdmin), validate.Body(employees.Schema), ctl.Create)
	group.Patch("/:id", rbac.Allow(auth.RoleAdmin), validate.Body(employees.Schema.Partial()), ctl.Update)
	group.Delete("/:id", rbac.Allow(auth.RoleAdmin), ctl.Delete)
}

// App exposes the fiber application, mainly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on the configured port
func (s *Server) Listen() error {
	s.logger.Info("server is running at http://localhost%s", s.cfg.Addr())
	return s.app.Listen(s.cfg.Addr())
}

// Shutdown stops accepting requests and flushes the store
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	if err := s.app.ShutdownWithContext(ctx); err != nil {
		shutdownErr = fmt.Errorf("shutdown http: %w", err)
	}

	if err := s.store.Close(ctx); err != nil {
		s.logger.Error("error saving employees during shutdown: %v", err)
		if shutdownErr == nil {
			shutdownErr = fmt.Errorf("close store: %w", err)
		}
	}

	return shutdownErr
}

func openStore(ctx context.Context, cfg *config.Config, logger auth.Logger) (employees.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreSQLite:
		db, err := repository.OpenSQLite(cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}
		store, err := repository.NewBunEmployees(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return store, nil
	default:
		store, err := repository.NewFileBackedEmployees(repository.NewFileStorage(cfg.DataFile))
		if err != nil {
			return nil, fmt.Errorf("load employees: %w", err)
		}
		return store.WithLogger(logger), nil
	}
}

// requestLogger logs requests whose final status is at least skipBelow
func requestLogger(logger auth.Logger, skipBelow int) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = auth.Normalize(err).Status
		}

		if status >= skipBelow {
			logger.Info("%s %s %d %s", c.Method(), c.OriginalURL(), status, time.Since(start))
		}

		return err
	}
}
