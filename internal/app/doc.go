// Package app provides the application service layer.
//
// Service funnels connect/disconnect signals from every inbound transport
// into one connstate.Tracker, and Broadcaster turns the resulting state into
// notification and status records published through a domain.Publisher.
// HeartbeatTicker drives periodic liveliness notifications.
package app
