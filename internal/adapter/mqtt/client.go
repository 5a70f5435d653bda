// Package mqtt mirrors broadcasts onto an MQTT broker for device
// subscribers that do not speak WebSocket.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pscheid92/statuspulse/internal/platform/retry"
)

const (
	connectTimeout    = 10 * time.Second
	keepAlive         = 60 * time.Second
	disconnectQuiesce = 250 // milliseconds
)

var ErrConnectTimeout = errors.New("mqtt connect timed out")

// Options configures the broker connection.
type Options struct {
	BrokerURL string
	ClientID  string
}

// Dial connects to the broker, retrying with the default connect policy.
// Paho takes over reconnection once the first connect succeeded.
func Dial(ctx context.Context, o Options) (pahomqtt.Client, error) {
	opts := pahomqtt.NewClientOptions().
		AddBroker(o.BrokerURL).
		SetClientID(o.ClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout).
		SetKeepAlive(keepAlive).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			slog.Warn("MQTT connection lost", "broker", o.BrokerURL, "error", err)
		}).
		SetOnConnectHandler(func(_ pahomqtt.Client) {
			slog.Info("MQTT connected", "broker", o.BrokerURL)
		})

	client := pahomqtt.NewClient(opts)

	policy := retry.DefaultConnectPolicy
	policy.OnRetry = func(attempt int, err error, backoff time.Duration) {
		slog.Warn("MQTT broker not reachable, retrying", "attempt", attempt, "backoff", backoff, "error", err)
	}
	err := retry.DoVoid(ctx, policy, retry.RetryTransient, func(_ context.Context) error {
		token := client.Connect()
		if !token.WaitTimeout(connectTimeout) {
			return ErrConnectTimeout
		}
		return token.Error()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker: %w", err)
	}

	return client, nil
}
