// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (presentation.go, notification.go, pubsub.go) hold
// shared value types and the contracts adapters implement. The threshold
// table lives here so every consumer derives presentation state the same way.
package domain
