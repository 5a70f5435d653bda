package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/centrifugal/centrifuge"
	"github.com/jonboulle/clockwork"
	"github.com/pscheid92/statuspulse/internal/adapter/eventpublisher"
	"github.com/pscheid92/statuspulse/internal/adapter/httpserver"
	"github.com/pscheid92/statuspulse/internal/adapter/mqtt"
	"github.com/pscheid92/statuspulse/internal/adapter/redis"
	"github.com/pscheid92/statuspulse/internal/adapter/websocket"
	"github.com/pscheid92/statuspulse/internal/app"
	"github.com/pscheid92/statuspulse/internal/connstate"
	"github.com/pscheid92/statuspulse/internal/metrics"
	"github.com/pscheid92/statuspulse/internal/platform/breaker"
	"github.com/pscheid92/statuspulse/internal/platform/config"
	"github.com/pscheid92/statuspulse/internal/platform/logging"
	"github.com/pscheid92/statuspulse/internal/platform/version"
	goredis "github.com/redis/go-redis/v9"
)

const shutdownTimeout = 10 * time.Second

// mirrors holds the optional external brokers.
type mirrors struct {
	sinks        []eventpublisher.Sink
	healthChecks []httpserver.HealthCheck
	redisClient  *goredis.Client
	mqtt         *mqtt.Publisher
}

func (m *mirrors) close() {
	if m.mqtt != nil {
		m.mqtt.Close()
	}
	if m.redisClient != nil {
		_ = m.redisClient.Close()
	}
}

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupMirrors(ctx context.Context, cfg *config.Config, mm *metrics.MirrorMetrics) *mirrors {
	m := &mirrors{}

	if cfg.RedisURL != "" {
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		br := breaker.New("redis", breaker.DefaultSettings, mm)
		m.redisClient = client
		m.sinks = append(m.sinks, eventpublisher.Sink{Name: "redis", Publisher: redis.NewPublisher(client, cfg.RedisChannelPrefix, br, mm)})
		m.healthChecks = append(m.healthChecks, httpserver.HealthCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redis.Ping(ctx, client) },
		})
		slog.Info("Redis mirror enabled", "prefix", cfg.RedisChannelPrefix)
	}

	if cfg.MQTTBrokerURL != "" {
		client, err := mqtt.Dial(ctx, mqtt.Options{BrokerURL: cfg.MQTTBrokerURL, ClientID: cfg.MQTTClientID})
		if err != nil {
			slog.Error("Failed to connect to MQTT broker", "error", err)
			os.Exit(1)
		}
		br := breaker.New("mqtt", breaker.DefaultSettings, mm)
		m.mqtt = mqtt.NewPublisher(client, cfg.MQTTTopicPrefix, byte(cfg.MQTTQoS), br, mm)
		m.sinks = append(m.sinks, eventpublisher.Sink{Name: "mqtt", Publisher: m.mqtt})
		m.healthChecks = append(m.healthChecks, httpserver.HealthCheck{
			Name: "mqtt",
			Check: func(_ context.Context) error {
				if !m.mqtt.IsConnected() {
					return mqtt.ErrNotConnected
				}
				return nil
			},
		})
		slog.Info("MQTT mirror enabled", "broker", cfg.MQTTBrokerURL, "prefix", cfg.MQTTTopicPrefix)
	}

	return m
}

func runGracefulShutdown(srv *httpserver.Server, node *centrifuge.Node, stopBackground context.CancelFunc) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		stopBackground()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}
		if err := node.Shutdown(shutdownCtx); err != nil {
			slog.Error("Centrifuge shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port, "version", version.Version)

	registry := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)
	wsMetrics := metrics.NewWebSocketMetrics(registry)
	broadcastMetrics := metrics.NewBroadcastMetrics(registry)
	mirrorMetrics := metrics.NewMirrorMetrics(registry)

	backgroundCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	node, err := websocket.NewNode(cfg.LogLevel)
	if err != nil {
		slog.Error("Failed to create centrifuge node", "error", err)
		os.Exit(1)
	}

	mirror := setupMirrors(backgroundCtx, cfg, mirrorMetrics)
	defer mirror.close()

	sinks := append([]eventpublisher.Sink{{Name: "websocket", Publisher: websocket.NewPublisher(node, wsMetrics)}}, mirror.sinks...)
	publisher := eventpublisher.New(sinks...)

	tracker := connstate.NewTracker()
	broadcaster := app.NewBroadcaster(publisher, clock, app.NewRandomPalette(), broadcastMetrics, cfg.PublishTimeout)
	appSvc := app.NewService(tracker, broadcaster, broadcastMetrics)

	websocket.AttachService(node, appSvc, wsMetrics)
	if err := node.Run(); err != nil {
		slog.Error("Failed to run centrifuge node", "error", err)
		os.Exit(1)
	}

	if mirror.redisClient != nil {
		commands := redis.NewCommandSubscriber(mirror.redisClient, cfg.RedisChannelPrefix, appSvc)
		go commands.Start(backgroundCtx)
	}

	ticker := app.NewHeartbeatTicker(appSvc, clock, cfg.HeartbeatInterval)
	go ticker.Run(backgroundCtx)

	wsHandler := websocket.NewHandler(node, websocket.NewCheckOrigin(cfg.AllowedOrigins(), cfg.IsDevelopment()))
	srv := httpserver.NewServer(cfg, appSvc, clock, wsHandler, metrics.Handler(registry), httpMetrics, mirror.healthChecks)

	done := runGracefulShutdown(srv, node, stopBackground)

	slog.Info("Server starting", "port", cfg.Port, "sinks", publisher.Sinks())
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
