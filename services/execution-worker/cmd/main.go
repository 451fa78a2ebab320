package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/muhammadchandra19/exchange/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/pkg/redis"
	"github.com/muhammadchandra19/exchange/services/execution-worker/internal/consumer"
	"github.com/muhammadchandra19/exchange/services/execution-worker/internal/infrastructure/archive"
	"github.com/muhammadchandra19/exchange/services/execution-worker/internal/infrastructure/binance"
	executionRepo "github.com/muhammadchandra19/exchange/services/execution-worker/internal/infrastructure/postgresql/execution"
	"github.com/muhammadchandra19/exchange/services/execution-worker/internal/metrics"
	executionUsecase "github.com/muhammadchandra19/exchange/services/execution-worker/internal/usecase/execution"
	"github.com/muhammadchandra19/exchange/services/execution-worker/pkg/config"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	log, err = logger.NewLogger(logger.WithLoggingLevel(logger.ParseLevel(cfg.App.LogLevel)))
	if err != nil {
		panic(err)
	}
}

func main() {
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	pgClient, err := postgresql.NewClient(ctx, cfg.PostgreSQL)
	if err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "connect_postgresql"})
		return
	}
	defer pgClient.Close()

	rclient := redis.NewClient(log, &cfg.Redis)
	if err := redis.ConnectWithRetry(ctx, rclient, log); err != nil {
		return
	}

	m := metrics.New()
	bus := orderbus.NewBus(rclient, log)

	var publisher orderbus.Publisher = bus
	var archiver *archive.Publisher
	if cfg.Archive.Enabled {
		archiver = archive.NewPublisher(bus, archive.NewWriter(cfg.Archive), log)
		publisher = archiver
		log.Info("Archiving order events", logger.Field{Key: "topic", Value: cfg.Archive.Topic})
	}

	usecase := executionUsecase.NewUsecase(
		executionRepo.NewRepository(pgClient, log),
		postgresql.NewTransaction(pgClient),
		binance.NewClient(cfg.Exchange.BaseURL, cfg.Exchange.Timeout, log, binance.WithObserver(m.ObserveExchange)),
		publisher,
		log,
	)

	worker := consumer.NewConsumer(bus, usecase, m, log, cfg.Worker.MaxInFlight)
	if err := worker.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_consumer"})
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	mux.Handle("/health", healthcheck.New(map[string]healthcheck.Check{
		"postgresql": postgresql.Ping(pgClient),
		"redis":      rclient.Ping,
	}))
	server := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Execution worker metrics listening", logger.Field{Key: "addr", Value: cfg.Metrics.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.Field{Key: "action", Value: "listen_metrics"})
		}
	}()

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Worker.StopTimeout)
	if err := worker.Stop(stopCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_consumer"})
	}
	stopCancel()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "shutdown_metrics"})
	}

	if archiver != nil {
		if err := archiver.Close(); err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "close_archive"})
		}
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
	}

	log.Info("Execution worker shutdown complete")
}
