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
	"github.com/muhammadchandra19/exchange/pkg/redis"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/broadcaster"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/connection"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/handler"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/metrics"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/internal/registry"
	"github.com/muhammadchandra19/exchange/services/event-broadcaster/pkg/config"
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

	rclient := redis.NewClient(log, &cfg.Redis)
	if err := redis.ConnectWithRetry(ctx, rclient, log); err != nil {
		return
	}

	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	connections := registry.New()

	fanout := broadcaster.New(connections, orderbus.NewBus(rclient, log), m, log, broadcaster.Options{
		Workers:   cfg.Broadcast.Workers,
		QueueSize: cfg.Broadcast.QueueSize,
	})
	if err := fanout.Start(ctx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "start_broadcaster"})
		return
	}

	stream := handler.NewStreamHandler(auth.NewJWT(cfg.JWT.Secret), connections, m, connection.Config{
		SendBuffer:     cfg.WebSocket.SendBuffer,
		WriteTimeout:   cfg.WebSocket.WriteTimeout,
		PongTimeout:    cfg.WebSocket.PongTimeout,
		PingInterval:   cfg.WebSocket.PingInterval,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
	}, log)

	router := handler.NewRouter(stream, m.Handler(), healthcheck.New(map[string]healthcheck.Check{
		"redis": rclient.Ping,
	}))

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	go func() {
		log.Info("Event broadcaster listening", logger.Field{Key: "addr", Value: cfg.HTTP.Addr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, logger.Field{Key: "action", Value: "listen_http"})
			sigChan <- syscall.SIGTERM
		}
	}()

	sig := <-sigChan
	log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := fanout.Stop(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "stop_broadcaster"})
	}
	cancel()

	// Hijacked connections are not closed by Shutdown.
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "shutdown_http"})
	}
	stream.CloseAll(cfg.WebSocket.WriteTimeout)

	if err := rclient.Disconnect(shutdownCtx); err != nil {
		log.Error(err, logger.Field{Key: "action", Value: "disconnect_redis"})
	}

	log.Info("Event broadcaster shutdown complete")
}
