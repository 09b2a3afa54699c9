package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"gorm.io/gorm"

	"franchiseops/internal/ai"
	"franchiseops/internal/config"
	"franchiseops/internal/server"
)

// fakeServer reports Start/Stop calls. When hold is set, Start blocks until Stop.
type fakeServer struct {
	startErr error
	stopErr  error
	hold     bool

	started  chan struct{}
	released chan struct{}
	stopped  bool
}

func (s *fakeServer) Start() error {
	close(s.started)
	if s.hold {
		<-s.released
	}
	return s.startErr
}

func (s *fakeServer) Stop() error {
	s.stopped = true
	if s.hold {
		close(s.released)
	}
	return s.stopErr
}

// harness swaps every injectable dependency of run for the duration of a test.
type harness struct {
	cfg       config.Config
	srv       *fakeServer
	signals   chan os.Signal
	built     server.Config
	usedMock  bool
	usedDBURL bool
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	restoreLoad, restoreLevel := loadConfigFunc, setLogLevelFunc
	restoreMock, restoreConfigure := newMockDatabaseFunc, configureDatabase
	restoreServer, restoreSignals := newServerFunc, subscribeShutdownSig
	t.Cleanup(func() {
		loadConfigFunc, setLogLevelFunc = restoreLoad, restoreLevel
		newMockDatabaseFunc, configureDatabase = restoreMock, restoreConfigure
		newServerFunc, subscribeShutdownSig = restoreServer, restoreSignals
	})

	h := &harness{
		cfg: config.Config{
			Server:   config.ServerConfig{Addr: ":8080"},
			Database: config.DatabaseConfig{UseMock: true},
			Logging:  config.LoggingConfig{Level: "info"},
			Auth:     config.AuthConfig{Session: config.SessionConfig{Lifetime: time.Hour, CookieName: "franchiseops_session"}},
		},
		srv:     &fakeServer{startErr: http.ErrServerClosed, started: make(chan struct{}), released: make(chan struct{})},
		signals: make(chan os.Signal, 1),
	}

	loadConfigFunc = func() (config.Config, error) { return h.cfg, nil }
	setLogLevelFunc = func(string) error { return nil }
	newMockDatabaseFunc = func(context.Context) (*gorm.DB, error) {
		h.usedMock = true
		return &gorm.DB{}, nil
	}
	configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
		h.usedDBURL = true
		return &gorm.DB{}, nil
	}
	newServerFunc = func(c server.Config) (serverLifecycle, error) {
		h.built = c
		return h.srv, nil
	}
	subscribeShutdownSig = func() (<-chan os.Signal, func()) { return h.signals, func() {} }
	return h
}

// signalAfterStart delivers SIGTERM once the server reports it is running.
func (h *harness) signalAfterStart() {
	go func() {
		<-h.srv.started
		h.signals <- syscall.SIGTERM
	}()
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name    string
		arrange func(h *harness)
		want    int
	}{
		{
			name: "graceful shutdown on signal",
			arrange: func(h *harness) {
				h.srv.hold = true
				h.signalAfterStart()
			},
			want: 0,
		},
		{
			name: "server closes on its own",
			arrange: func(h *harness) {
				h.srv.startErr = nil
			},
			want: 0,
		},
		{
			name: "listener failure",
			arrange: func(h *harness) {
				h.srv.startErr = errors.New("address already in use")
			},
			want: 1,
		},
		{
			name: "shutdown failure",
			arrange: func(h *harness) {
				h.srv.hold = true
				h.srv.stopErr = errors.New("deadline exceeded")
				h.signalAfterStart()
			},
			want: 1,
		},
		{
			name: "config error",
			arrange: func(h *harness) {
				loadConfigFunc = func() (config.Config, error) { return config.Config{}, errors.New("MATCH_HIGH_THRESHOLD out of range") }
			},
			want: 1,
		},
		{
			name: "invalid log level",
			arrange: func(h *harness) {
				setLogLevelFunc = func(string) error { return errors.New("unknown level") }
			},
			want: 1,
		},
		{
			name: "database unreachable",
			arrange: func(h *harness) {
				h.cfg.Database = config.DatabaseConfig{URL: "postgres://franchise@db/ops"}
				configureDatabase = func(config.DatabaseConfig) (*gorm.DB, error) {
					return nil, errors.New("connection refused")
				}
			},
			want: 1,
		},
		{
			name: "server construction failure",
			arrange: func(h *harness) {
				newServerFunc = func(server.Config) (serverLifecycle, error) {
					return nil, errors.New("session store unavailable")
				}
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			tt.arrange(h)
			if got := run(context.Background()); got != tt.want {
				t.Fatalf("expected exit code %d, got %d", tt.want, got)
			}
		})
	}
}

func TestRunStopsServerOnlyAfterSignal(t *testing.T) {
	h := newHarness(t)
	h.srv.hold = true
	h.signalAfterStart()

	if code := run(context.Background()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !h.srv.stopped {
		t.Fatal("expected server to be stopped after SIGTERM")
	}

	h = newHarness(t)
	h.srv.startErr = errors.New("address already in use")
	run(context.Background())
	if h.srv.stopped {
		t.Fatal("server should not be stopped when it never started")
	}
}

func TestRunSelectsDatabase(t *testing.T) {
	h := newHarness(t)
	h.srv.startErr = nil
	if code := run(context.Background()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if !h.usedMock || h.usedDBURL {
		t.Fatalf("expected seeded database only, mock=%v url=%v", h.usedMock, h.usedDBURL)
	}

	h = newHarness(t)
	h.srv.startErr = nil
	h.cfg.Database = config.DatabaseConfig{URL: "postgres://franchise@db/ops"}
	if code := run(context.Background()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	if h.usedMock || !h.usedDBURL {
		t.Fatalf("expected configured database only, mock=%v url=%v", h.usedMock, h.usedDBURL)
	}
}

func TestRunForwardsServerConfig(t *testing.T) {
	h := newHarness(t)
	h.srv.startErr = nil
	h.cfg.Matching = config.MatchingConfig{HighThreshold: 0.9, KeywordWeight: 0.2}
	h.cfg.Metrics = config.MetricsConfig{Enabled: true, Path: "/internal/metrics"}

	if code := run(context.Background()); code != 0 {
		t.Fatalf("expected exit code 0, got %d", code)
	}
	got := h.built
	if got.Addr != ":8080" || got.Session.CookieName != "franchiseops_session" {
		t.Fatalf("unexpected server settings: %+v", got)
	}
	if got.Matching.HighThreshold != 0.9 || got.Matching.KeywordWeight != 0.2 {
		t.Fatalf("expected matching config to be forwarded, got %+v", got.Matching)
	}
	if got.Metrics == nil || got.MetricsPath != "/internal/metrics" {
		t.Fatalf("expected metrics recorder on %q, got %v %q", "/internal/metrics", got.Metrics, got.MetricsPath)
	}
	if got.ManualExtractor != nil {
		t.Fatalf("expected no manual extractor without an api key, got %T", got.ManualExtractor)
	}
}

func TestNewManualExtractor(t *testing.T) {
	t.Parallel()

	extractor, err := newManualExtractor(context.Background(), config.AIConfig{})
	if err != nil || extractor != nil {
		t.Fatalf("expected disabled extractor, got %v %v", extractor, err)
	}

	extractor, err = newManualExtractor(context.Background(), config.AIConfig{APIKey: "sk-test", Model: "vision-mini"})
	if err != nil {
		t.Fatalf("newManualExtractor returned error: %v", err)
	}
	client, ok := extractor.(*ai.Client)
	if !ok || client.Model() != "vision-mini" {
		t.Fatalf("expected ai client for vision-mini, got %T", extractor)
	}
}
