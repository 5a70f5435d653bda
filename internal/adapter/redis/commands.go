package redis

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/pscheid92/statuspulse/internal/platform/correlation"
	goredis "github.com/redis/go-redis/v9"
)

const commandsChannel = "commands"

type connectionService interface {
	Connect(ctx context.Context) (domain.Notification, domain.StatusUpdate)
	Disconnect(ctx context.Context) (domain.Notification, domain.StatusUpdate)
}

// CommandSubscriber is the fire-and-forget inbound path over Redis: a
// message "connect" or "disconnect" on "<prefix>:commands" is fed into the
// service, and the outcome is only visible as a broadcast.
type CommandSubscriber struct {
	rdb     *goredis.Client
	channel string
	svc     connectionService
}

func NewCommandSubscriber(rdb *goredis.Client, prefix string, svc connectionService) *CommandSubscriber {
	return &CommandSubscriber{rdb: rdb, channel: channelName(prefix, commandsChannel), svc: svc}
}

func (s *CommandSubscriber) Channel() string {
	return s.channel
}

// Start blocks until ctx is cancelled or the subscription closes.
func (s *CommandSubscriber) Start(ctx context.Context) {
	pubsub := s.rdb.Subscribe(ctx, s.channel)
	defer func() { _ = pubsub.Close() }()

	slog.Info("Listening for commands", "channel", s.channel)

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok || msg == nil {
				return
			}
			s.handle(correlation.WithID(ctx, correlation.NewID()), msg.Payload)
		case <-ctx.Done():
			return
		}
	}
}

func (s *CommandSubscriber) handle(ctx context.Context, payload string) {
	switch strings.ToLower(strings.TrimSpace(payload)) {
	case "connect", "hello":
		s.svc.Connect(ctx)
	case "disconnect":
		s.svc.Disconnect(ctx)
	default:
		slog.WarnContext(ctx, "Ignoring unknown command", "channel", s.channel, "payload", payload)
	}
}
