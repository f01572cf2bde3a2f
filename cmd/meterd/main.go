package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dmitrymomot/meterkit/pkg/config"
	"github.com/dmitrymomot/meterkit/pkg/gateway"
	"github.com/dmitrymomot/meterkit/pkg/httpserver"
	"github.com/dmitrymomot/meterkit/pkg/logger"
	"github.com/dmitrymomot/meterkit/pkg/pg"
	"github.com/dmitrymomot/meterkit/pkg/plan"
	"github.com/dmitrymomot/meterkit/pkg/quota"
	"github.com/dmitrymomot/meterkit/pkg/redis"
	"github.com/dmitrymomot/meterkit/svc/meter"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	PG     pg.Config
	Redis  redis.Config
	HTTP   httpserver.Config
	Paddle gateway.PaddleConfig
	Flood  meter.FloodConfig
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var cfg appConfig
	config.MustLoad(&cfg)

	log := logger.New(logger.WithEnvironment(cfg.Environment, "meterd"))
	logger.SetAsDefault(log)

	if err := run(ctx, cfg, log); err != nil {
		log.ErrorContext(ctx, "meterd exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	pool, err := pg.Connect(ctx, cfg.PG)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, cfg.PG, log); err != nil {
		return err
	}

	redisClient, err := redis.Connect(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	defer redisClient.Close()

	paddle, err := gateway.NewPaddleClient(cfg.Paddle)
	if err != nil {
		return err
	}

	catalog, err := plan.NewCatalog(ctx, plan.NewInMemSource(plan.DefaultPlans()...))
	if err != nil {
		return err
	}

	store := quota.NewPostgresStore(pool, catalog.Free().MessageAllowance)
	engine := quota.NewService(catalog, store, paddle, quota.WithLogger(log))

	handler := meter.NewHandler(engine, meter.NewFloodLimiter(redisClient, cfg.Flood), log)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Mount("/", handler.Router())
	r.Get("/health", httpserver.HealthCheckHandler(log))
	r.Get("/ready", httpserver.HealthCheckHandler(log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))

	return httpserver.New(cfg.HTTP, log).Run(ctx, r)
}
