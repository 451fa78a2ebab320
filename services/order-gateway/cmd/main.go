package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/muhammadchandra19/exchange/pkg/auth"
	"github.com/muhammadchandra19/exchange/pkg/httplib/healthcheck"
	"github.com/muhammadchandra19/exchange/pkg/logger"
	"github.com/muhammadchandra19/exchange/pkg/orderbus"
	"github.com/muhammadchandra19/exchange/pkg/postgresql"
	"github.com/muhammadchandra19/exchange/pkg/redis"
	"github.com/muhammadchandra19/exchange/services/order-gateway/internal/handler"
	orderRepo "github.com/muhammadchandra19/exchange/services/order-gateway/internal/infrastructure/postgresql/order"
	"github.com/muhammadchandra19/exchange/services/order-gateway/internal/metrics"
	orderUsecase "github.com/muhammadchandra19/exchange/services/order-gateway/internal/usecase/order"
	"github.com/muhammadchandra19/exchange/services/order-gateway/pkg/config"
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

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	usecase := orderUsecase.NewUsecase(
		orderRepo.NewRepository(pgClient, log),
		orderbus.NewBus(rclient, log),
		log,
	)

	router := handler.NewRouter(
		handler.NewOrderHandler(usecase, log),
		auth.NewJWT(cfg.JWT.Secret),
		metrics.New(),
		healthcheck.New(map[string]healthcheck.Check{
			"postgresql": postgresql.Ping(pgClient),
			"redis":      rclient.Ping,
		}),
		log,
	)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           http.TimeoutHandler(router, cfg.HTTP.RequestTimeout, `{"error":"Request timed out"}`),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	go func() {
		log.Info("Order gateway listening", logger.Field{Key: "addr", Value: cfg.HTTP.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.Field{Key: "action", Value: "listen_http"})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "shutdown_http"})
	}

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
	}

	log.Info("Order gateway shutdown complete")
}
