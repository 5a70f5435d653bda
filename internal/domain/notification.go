package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationKind classifies a notification for subscribers.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindWarning NotificationKind = "warning"
	KindInfo    NotificationKind = "info"
)

// Notification is a one-shot, user-facing event record. It is never mutated
// after creation.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	Kind      NotificationKind `json:"type"`
	Title     string           `json:"title"`
	Body      string           `json:"message"`
	Color     string           `json:"color"`
	Animation string           `json:"animation"`
	Timestamp time.Time        `json:"timestamp"`
}

// StatusUpdate is the compact state snapshot that drives subscriber styling.
type StatusUpdate struct {
	Color           string `json:"color"`
	Animation       string `json:"animation"`
	ConnectionCount int    `json:"connectionCount"`
}

// StatusUpdateFor builds the status record for a snapshot.
func StatusUpdateFor(snap Snapshot) StatusUpdate {
	return StatusUpdate{
		Color:           snap.State.Color,
		Animation:       snap.State.Animation,
		ConnectionCount: snap.Count,
	}
}
