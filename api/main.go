package api

import (
	"context"
	"fmt"

	"github.com/brpaz/echozap"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Chaaamah/EpilepticAI-Deployment-Test/alerts"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/auth"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/clients"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/clinicians"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/config"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/errors"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/logger"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/migration"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/patients"
	"github.com/Chaaamah/EpilepticAI-Deployment-Test/store"
)

func Start(e *echo.Echo, cfg *config.Config, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := e.Start(fmt.Sprintf(":%d", cfg.HttpPort)); err != nil {
					fmt.Println(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}

func SetReady(healthCheck *HealthCheck, lifecycle fx.Lifecycle) {
	lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Lifecycle hooks run in registration order, so the repositories
			// have loaded their snapshots by the time this one fires
			healthCheck.SetReady(true)
			return nil
		},
		OnStop: nil,
	})
}

// NewPatientRepository picks the record backend. Deployments that run next
// to the external patient service proxy records to it; everything else uses
// the partitioned side-store.
func NewPatientRepository(cfg *clients.Config, local patients.PartitionRepository) (patients.Repository, error) {
	if cfg.Enabled {
		return clients.NewPatientRepository(cfg)
	}

	return local, nil
}

func NewServer(handler *Handler, healthCheck *HealthCheck, authenticator auth.Authenticator, zapLogger *zap.Logger) (*echo.Echo, error) {
	e := echo.New()
	e.Logger.Print("Starting Main Loop")

	// Skip auth and logging for the readiness probe and the login route
	skipper := RouteSkipper([]string{"/ready", "/auth/login"})
	authMiddleware := auth.NewAuthMiddleware(authenticator, auth.AuthMiddlewareOpts{
		Skipper: skipper,
	})

	e.Use(middleware.Recover())
	e.Use(echozap.ZapLogger(zapLogger))
	e.Use(authMiddleware)

	e.HTTPErrorHandler = errors.CustomHTTPErrorHandler

	e.GET("/ready", healthCheck.Ready)
	RegisterHandlers(e, handler)

	return e, nil
}

func Dependencies() fx.Option {
	return fx.Provide(
		logger.NewProductionLogger,
		logger.Suggar,
		config.NewConfig,
		store.NewConfig,
		store.NewClient,
		store.NewRedisStore,
		clients.NewConfig,
		patients.NewRepository,
		NewPatientRepository,
		patients.NewService,
		migration.NewMigrator,
		clinicians.NewRepository,
		clinicians.NewService,
		auth.NewConfig,
		auth.NewAuthenticator,
		auth.NewSessionManager,
		auth.NewAccountClientConfig,
		auth.NewAccountClient,
		alerts.NewConfig,
		alerts.NewRemoteService,
		alerts.NewEngine,
		NewHealthCheck,
		NewHandler,
		NewServer,
	)
}

func MainLoop() {
	fx.New(
		Dependencies(),
		fx.Invoke(SetReady),
		fx.Invoke(Start),
	).Run()
}
