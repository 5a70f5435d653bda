package domain

import "context"

// Topic names a publish/subscribe channel.
type Topic string

const (
	TopicNotifications Topic = "notifications"
	TopicStatus        Topic = "status"
)

// Topics lists every outbound topic.
var Topics = []Topic{TopicNotifications, TopicStatus}

// Publisher delivers an encoded payload to all subscribers of a topic.
// Delivery is best-effort and unacknowledged.
type Publisher interface {
	Publish(ctx context.Context, topic Topic, payload []byte) error
}
