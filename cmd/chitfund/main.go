package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	flag "github.com/spf13/pflag"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/time/rate"

	"github.com/totegamma/chitfund/internal/config"
	"github.com/totegamma/chitfund/internal/domain"
	"github.com/totegamma/chitfund/internal/infra/cache"
	"github.com/totegamma/chitfund/internal/infra/database"
	"github.com/totegamma/chitfund/internal/infra/repository"
	"github.com/totegamma/chitfund/internal/logger"
	"github.com/totegamma/chitfund/internal/present/rest"
	"github.com/totegamma/chitfund/internal/present/rest/middleware"
	"github.com/totegamma/chitfund/internal/service"
	"github.com/totegamma/chitfund/internal/tracing"
	"github.com/totegamma/chitfund/internal/usecase"
	"github.com/totegamma/chitfund/payout"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configFlag := flag.String("config", "/etc/chitfund/config.yaml", "path to the YAML config (or set CHITFUND_CONFIG env var)")
	verboseFlag := flag.Bool("verbose", false, "enable verbose (debug) logging")
	migrateFlag := flag.Bool("migrate", false, "migrate the member store before serving")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	if envConfig := os.Getenv("CHITFUND_CONFIG"); envConfig != "" && !flag.CommandLine.Changed("config") {
		*configFlag = envConfig
	}

	log := logger.New(*verboseFlag)
	slog.SetDefault(log)

	conf, err := config.Load(*configFlag)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if conf.Server.EnableTrace {
		shutdown, err := tracing.Setup(ctx, conf.Server.TraceEndpoint, version)
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warn("failed to flush traces", "error", err)
			}
		}()
	}

	members, closeMembers, err := openMemberSource(ctx, conf, *migrateFlag)
	if err != nil {
		return err
	}
	defer closeMembers()

	var limiter *rate.Limiter
	if conf.Network.QueriesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(conf.Network.QueriesPerSecond), max(conf.Network.QueryBurst, 1))
	}
	throttled := usecase.NewThrottledRepository(members, limiter)

	var publisher usecase.ReportPublisher
	var networkCache usecase.Cache
	if conf.Server.RedisAddr != "" {
		rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)
		defer rdb.Close()
		publisher = service.NewSignalService(rdb, conf.Report.Channel)
		if conf.Network.Cache == domain.CacheRedis {
			networkCache = cache.NewRedis(rdb)
		}
	}
	switch conf.Network.Cache {
	case domain.CacheMemory:
		networkCache = cache.NewMemory(conf.Network.CacheTTL())
	case domain.CacheMemcached:
		networkCache = cache.NewMemcached(database.NewMemcached(conf.Server.MemcachedAddr))
	}

	network := usecase.NewNetworkUsecase(throttled, networkCache, conf.Network.CacheTTL(), payout.NewCalculator(nil), log)
	report := usecase.NewReportUsecase(network, publisher, conf.Report.Workers, nil, log)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(otelecho.Middleware("chitfund"))
	e.Use(middleware.NewRequestLogger(log).Handle)
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	rest.NewHandler(network, report).RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving", "listen", conf.Server.Listen, "source", conf.Network.Source, "cache", conf.Network.Cache)
		if err := e.Start(conf.Server.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openMemberSource(ctx context.Context, conf config.Config, migrate bool) (usecase.MemberRepository, func(), error) {
	switch conf.Network.Source {
	case domain.MemberSourceNeo4j:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		driver, err := database.NewNeo4j(connectCtx, conf.Network.Neo4jURI, conf.Network.Neo4jUser, conf.Network.Neo4jPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect neo4j: %w", err)
		}
		if migrate {
			if err := database.MigrateNeo4j(ctx, driver, conf.Network.Neo4jDatabase); err != nil {
				_ = driver.Close(ctx)
				return nil, nil, fmt.Errorf("failed to migrate neo4j: %w", err)
			}
		}
		closeFn := func() { _ = driver.Close(context.Background()) }
		return repository.NewGraphRepository(driver, conf.Network.Neo4jDatabase), closeFn, nil
	default:
		db, err := database.NewPostgres(conf.Server.PostgresDsn)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect database: %w", err)
		}
		if migrate {
			if err := database.MigratePostgres(db); err != nil {
				return nil, nil, fmt.Errorf("failed to migrate database: %w", err)
			}
		}
		closeFn := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return repository.NewMemberRepository(db), closeFn, nil
	}
}
