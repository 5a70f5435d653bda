package websocket

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/centrifugal/centrifuge"
	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/pscheid92/statuspulse/internal/metrics"
	"github.com/pscheid92/statuspulse/internal/platform/correlation"
)

// RPC method names accepted on the message path. "hello" is an alias of
// "connect" for older clients.
const (
	MethodConnect    = "connect"
	MethodHello      = "hello"
	MethodDisconnect = "disconnect"
)

type connectionService interface {
	Connect(ctx context.Context) (domain.Notification, domain.StatusUpdate)
	Disconnect(ctx context.Context) (domain.Notification, domain.StatusUpdate)
}

// NewNode creates a centrifuge node that admits anonymous clients. The
// connection handlers are attached separately with AttachService because
// the service publishes through this node.
func NewNode(logLevel string) (*centrifuge.Node, error) {
	conf := centrifuge.Config{LogLevel: parseCentrifugeLogLevel(logLevel), LogHandler: slogHandler}
	node, err := centrifuge.New(conf)
	if err != nil {
		return nil, fmt.Errorf("create centrifuge node: %w", err)
	}

	node.OnConnecting(onConnecting)

	return node, nil
}

// AttachService routes client RPCs into svc. Call it before node.Run.
func AttachService(node *centrifuge.Node, svc connectionService, wsMetrics *metrics.WebSocketMetrics) {
	node.OnConnect(onConnect(svc, wsMetrics))
}

// onConnecting admits anonymous clients and subscribes them server-side to
// every outbound topic.
func onConnecting(_ context.Context, _ centrifuge.ConnectEvent) (centrifuge.ConnectReply, error) {
	subs := make(map[string]centrifuge.SubscribeOptions, len(domain.Topics))
	for _, topic := range domain.Topics {
		subs[string(topic)] = centrifuge.SubscribeOptions{}
	}
	return centrifuge.ConnectReply{
		Credentials:   &centrifuge.Credentials{UserID: ""},
		Subscriptions: subs,
	}, nil
}

func onConnect(svc connectionService, wsMetrics *metrics.WebSocketMetrics) func(client *centrifuge.Client) {
	return func(client *centrifuge.Client) {
		slog.Debug("WebSocket client connected", "client_id", client.ID())

		if wsMetrics != nil {
			wsMetrics.ActiveConnections.Inc()
		}

		client.OnSubscribe(func(e centrifuge.SubscribeEvent, cb centrifuge.SubscribeCallback) {
			if !isKnownTopic(e.Channel) {
				cb(centrifuge.SubscribeReply{}, centrifuge.ErrorPermissionDenied)
				return
			}
			cb(centrifuge.SubscribeReply{}, nil)
		})

		client.OnRPC(func(e centrifuge.RPCEvent, cb centrifuge.RPCCallback) {
			ctx := correlation.WithID(client.Context(), correlation.NewID())
			err := dispatchRPC(ctx, svc, e.Method)
			recordRPC(wsMetrics, e.Method, err)
			if err != nil {
				slog.WarnContext(ctx, "Rejected RPC", "client_id", client.ID(), "method", e.Method)
				cb(centrifuge.RPCReply{}, err)
				return
			}
			// The result reaches the caller as a broadcast on the notifications channel.
			cb(centrifuge.RPCReply{}, nil)
		})

		client.OnDisconnect(func(e centrifuge.DisconnectEvent) {
			slog.Debug("WebSocket client disconnected", "client_id", client.ID(), "reason", e.Reason)
			if wsMetrics != nil {
				wsMetrics.ActiveConnections.Dec()
			}
		})
	}
}

func dispatchRPC(ctx context.Context, svc connectionService, method string) error {
	switch method {
	case MethodConnect, MethodHello:
		svc.Connect(ctx)
	case MethodDisconnect:
		svc.Disconnect(ctx)
	default:
		return centrifuge.ErrorMethodNotFound
	}
	return nil
}

func recordRPC(wsMetrics *metrics.WebSocketMetrics, method string, err error) {
	if wsMetrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
		method = "unknown"
	}
	wsMetrics.RPCCalls.WithLabelValues(method, result).Inc()
}

func isKnownTopic(channel string) bool {
	return slices.Contains(domain.Topics, domain.Topic(channel))
}

func slogHandler(entry centrifuge.LogEntry) {
	attrs := make([]any, 0, len(entry.Fields)*2)
	for k, v := range entry.Fields {
		attrs = append(attrs, k, v)
	}
	switch entry.Level {
	case centrifuge.LogLevelTrace, centrifuge.LogLevelDebug:
		slog.Debug(entry.Message, attrs...)
	case centrifuge.LogLevelInfo:
		slog.Info(entry.Message, attrs...)
	case centrifuge.LogLevelWarn:
		slog.Warn(entry.Message, attrs...)
	case centrifuge.LogLevelError:
		slog.Error(entry.Message, attrs...)
	case centrifuge.LogLevelNone:
		// EMPTY
	}
}

func parseCentrifugeLogLevel(level string) centrifuge.LogLevel {
	switch level {
	case "debug":
		return centrifuge.LogLevelDebug
	case "warn":
		return centrifuge.LogLevelWarn
	case "error":
		return centrifuge.LogLevelError
	default:
		return centrifuge.LogLevelInfo
	}
}
