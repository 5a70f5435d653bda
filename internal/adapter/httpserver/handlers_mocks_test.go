package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/pscheid92/statuspulse/internal/connstate"
	"github.com/pscheid92/statuspulse/internal/domain"
	"github.com/pscheid92/statuspulse/internal/platform/config"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// fakeService is backed by a real tracker so responses carry real
// presentation states; it records how often each path was taken.
type fakeService struct {
	mu          sync.Mutex
	tracker     *connstate.Tracker
	connects    int
	disconnects int
}

func newFakeService() *fakeService {
	return &fakeService{tracker: connstate.NewTracker()}
}

func (f *fakeService) Connect(_ context.Context) (domain.Notification, domain.StatusUpdate) {
	f.mu.Lock()
	f.connects++
	f.mu.Unlock()
	snap := f.tracker.Connect()
	return f.notification(domain.KindSuccess, snap), domain.StatusUpdateFor(snap)
}

func (f *fakeService) Disconnect(_ context.Context) (domain.Notification, domain.StatusUpdate) {
	f.mu.Lock()
	f.disconnects++
	f.mu.Unlock()
	snap := f.tracker.Disconnect()
	return f.notification(domain.KindWarning, snap), domain.StatusUpdateFor(snap)
}

func (f *fakeService) Current() domain.Snapshot {
	return f.tracker.CurrentState()
}

func (f *fakeService) notification(kind domain.NotificationKind, snap domain.Snapshot) domain.Notification {
	return domain.Notification{
		ID:        uuid.New(),
		Kind:      kind,
		Title:     "test",
		Color:     snap.State.Color,
		Animation: snap.State.Animation,
		Timestamp: testNow,
	}
}

// --- Test helpers ---

func testConfig() *config.Config {
	return &config.Config{
		AppEnv:             "test",
		Port:               "0",
		CORSAllowOrigins:   "*",
		RateLimitPerSecond: 100,
		RateLimitBurst:     100,
	}
}

func newTestServer(t *testing.T, app connectionService, opts ...func(*Server)) *Server {
	t.Helper()

	srv := &Server{
		echo:      echo.New(),
		config:    testConfig(),
		clock:     clockwork.NewFakeClockAt(testNow),
		app:       app,
		startTime: testNow,
	}

	for _, opt := range opts {
		opt(srv)
	}

	srv.registerRoutes()

	return srv
}

func withHealthChecks(checks ...HealthCheck) func(*Server) {
	return func(s *Server) {
		s.healthChecks = checks
	}
}

func withConfig(cfg *config.Config) func(*Server) {
	return func(s *Server) {
		s.config = cfg
	}
}

func withWebsocketHandler(h http.Handler) func(*Server) {
	return func(s *Server) {
		s.websocketHandler = h
	}
}

func withMetricsHandler(h http.Handler) func(*Server) {
	return func(s *Server) {
		s.metricsHandler = h
	}
}

func withClock(clock clockwork.Clock) func(*Server) {
	return func(s *Server) {
		s.clock = clock
	}
}

// serve runs a request through the full middleware chain.
func serve(srv *Server, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = testRemoteAddr
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}
