package httpserver

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pscheid92/statuspulse/internal/domain"
)

const healthMessage = "Backend is running with animated status"

type healthResponse struct {
	Status      string `json:"status"`
	Timestamp   int64  `json:"timestamp"`
	Connections int    `json:"connections"`
	Color       string `json:"color"`
	Animation   string `json:"animation"`
	Message     string `json:"message"`
}

type statusResponse struct {
	Connections int              `json:"connections"`
	Color       string           `json:"color"`
	Animation   string           `json:"animation"`
	ServerLoad  domain.LoadLabel `json:"serverLoad"`
}

type connectResponse struct {
	Message      string              `json:"message"`
	ConnectionID int                 `json:"connectionId"`
	Color        string              `json:"color"`
	Animation    string              `json:"animation"`
	Notification domain.Notification `json:"notification"`
}

type disconnectResponse struct {
	Message              string              `json:"message"`
	RemainingConnections int                 `json:"remainingConnections"`
	Color                string              `json:"color"`
	Animation            string              `json:"animation"`
	Notification         domain.Notification `json:"notification"`
}

func (s *Server) registerAPIRoutes() {
	api := s.echo.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/status", s.handleStatus)

	limiter := newRateLimiter(float64(s.config.RateLimitPerSecond), s.config.RateLimitBurst)
	api.POST("/connect", s.handleConnect, limiter)
	api.POST("/disconnect", s.handleDisconnect, limiter)
}

func (s *Server) handleHealth(c echo.Context) error {
	snap := s.app.Current()
	response := healthResponse{
		Status:      "UP",
		Timestamp:   s.clock.Now().UnixMilli(),
		Connections: snap.Count,
		Color:       snap.State.Color,
		Animation:   snap.State.Animation,
		Message:     healthMessage,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleStatus(c echo.Context) error {
	snap := s.app.Current()
	response := statusResponse{
		Connections: snap.Count,
		Color:       snap.State.Color,
		Animation:   snap.State.Animation,
		ServerLoad:  snap.State.LoadLabel,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleConnect(c echo.Context) error {
	notification, status := s.app.Connect(c.Request().Context())
	response := connectResponse{
		Message:      "Connected successfully",
		ConnectionID: status.ConnectionCount,
		Color:        status.Color,
		Animation:    status.Animation,
		Notification: notification,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDisconnect(c echo.Context) error {
	notification, status := s.app.Disconnect(c.Request().Context())
	response := disconnectResponse{
		Message:              "Disconnected",
		RemainingConnections: status.ConnectionCount,
		Color:                status.Color,
		Animation:            status.Animation,
		Notification:         notification,
	}
	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
