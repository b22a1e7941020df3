package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dorada-store/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stopLog struct {
	mu    sync.Mutex
	names []string
}

func (l *stopLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.names = append(l.names, name)
}

func (l *stopLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.names...)
}

type fakeService struct {
	name     string
	startErr error
	block    bool
	stops    *stopLog
	stopped  atomic.Bool
}

func (f *fakeService) Name() string { return f.name }

func (f *fakeService) Start(ctx context.Context) error {
	if f.block {
		<-ctx.Done()
		return nil
	}
	return f.startErr
}

func (f *fakeService) Stop(ctx context.Context) error {
	f.stopped.Store(true)
	if f.stops != nil {
		f.stops.add(f.name)
	}
	return nil
}

func TestRunnerStopsEveryServiceWhenOneFails(t *testing.T) {
	failing := &fakeService{name: "worker", startErr: errors.New("redis unreachable")}
	steady := &fakeService{name: "http", block: true}
	runner := NewRunner(steady, failing)
	hooks := 0
	runner.OnStop(func() { hooks++ })

	err := runner.Run(context.Background(), time.Second, nil)
	assert.EqualError(t, err, "redis unreachable")
	assert.True(t, failing.stopped.Load())
	assert.True(t, steady.stopped.Load())
	assert.Equal(t, 1, hooks)
}

func TestRunnerStopsInRegistrationOrder(t *testing.T) {
	stops := &stopLog{}
	api := &fakeService{name: "http", block: true, stops: stops}
	worker := &fakeService{name: "worker", block: true, stops: stops}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, NewRunner(api, worker).Run(ctx, time.Second, nil))
	assert.Equal(t, []string{"http", "worker"}, stops.list())
}

func TestRunnerTreatsEarlyCleanExitAsFailure(t *testing.T) {
	quitter := &fakeService{name: "worker"}
	steady := &fakeService{name: "http", block: true}

	err := NewRunner(steady, quitter).Run(context.Background(), time.Second, nil)
	assert.EqualError(t, err, "worker exited unexpectedly")
	assert.True(t, steady.stopped.Load())
}

func TestRunnerRejectsMissingServices(t *testing.T) {
	assert.Error(t, NewRunner().Run(context.Background(), time.Second, nil))
	assert.EqualError(t, NewRunner(&fakeService{name: "http"}, nil).Run(context.Background(), time.Second, nil), "service 1 is nil")
}

func TestHTTPServiceServesUntilStopped(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status_code":0}`)
	})
	svc := NewHTTPService("127.0.0.1:0", handler)
	require.NoError(t, svc.Listen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewRunner(svc).Run(ctx, time.Second, nil) }()

	resp, err := http.Get("http://" + svc.Addr() + "/health")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	assert.JSONEq(t, `{"status_code":0}`, string(body))

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("runner did not stop")
	}
	_, err = http.Get("http://" + svc.Addr() + "/health")
	assert.Error(t, err)
}

func TestBuildRunnerRejectsBadModes(t *testing.T) {
	_, err := BuildRunner(nil, ModeAll)
	assert.Error(t, err)

	cfg := &config.Config{}
	_, err = BuildRunner(cfg, "batch")
	assert.Error(t, err)

	_, err = BuildRunner(cfg, " Worker ")
	assert.EqualError(t, err, "worker mode needs queue.enabled")
}

func TestParseMode(t *testing.T) {
	cases := map[string]string{"": ModeAll, " API ": ModeAPI, "worker": ModeWorker, "ALL": ModeAll}
	for raw, want := range cases {
		got, err := ParseMode(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseMode("seed")
	assert.Error(t, err)

	assert.True(t, runsAPI(ModeAll))
	assert.False(t, runsAPI(ModeWorker))
	assert.True(t, runsWorker(ModeAll, true))
	assert.False(t, runsWorker(ModeAll, false))
	assert.True(t, runsWorker(ModeWorker, false))
}

func TestNormalizeOptionsDefaults(t *testing.T) {
	opts := normalizeOptions(Options{Mode: " API "})
	assert.Equal(t, ModeAPI, opts.Mode)
	assert.Equal(t, defaultShutdownTimeout, opts.ShutdownTimeout)
	assert.NotNil(t, opts.Logger)

	assert.Equal(t, ModeAll, normalizeOptions(Options{}).Mode)
}
