package usecase

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/backendapi"
	"StockPulse/pkg/config"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend serves canned model-backend responses. Individual endpoints
// can be switched to transport or application failures mid-test.
type fakeBackend struct {
	mu        sync.Mutex
	srv       *httptest.Server
	failHTTP  map[string]bool
	appErrors map[string]string
	calls     map[string]int

	holdHistorical chan struct{}
	heldOnce       bool
}

var fakeResponses = map[string]string{
	backendapi.EndpointHistorical: `{
		"status": "success",
		"data": [
			{"Date": "2024-01-02", "Open": 104, "High": 106, "Low": 103, "Close": 105, "Volume": 1200},
			{"Date": "2024-01-01", "Open": 99, "High": 101, "Low": 98, "Close": 100, "Volume": 1000}
		],
		"trend_analysis": "uptrend",
		"performance_metrics": {
			"best_day": {"date": "2024-01-02", "return": 5.0, "close": 105},
			"worst_day": {"date": "2024-01-01", "return": -1.0, "close": 100}
		},
		"support_resistance": {"support_levels": [98], "resistance_levels": [106]}
	}`,
	backendapi.EndpointSignals: `{
		"status": "success",
		"signals": [
			{"date": "2024-01-02", "action": "buy", "price": 110, "confidence": 0.9, "indicators": {"rsi": 28}}
		],
		"backtest_results": {
			"initial_capital": 1000,
			"final_value": 1200,
			"trades": [{"date": "2024-01-02", "action": "sell", "price": 100, "value": 110}]
		}
	}`,
	backendapi.EndpointPredict: `{
		"status": "success",
		"prediction": 106.5,
		"trend_analysis": "uptrend"
	}`,
	backendapi.EndpointPredictWeekly: `{
		"status": "success",
		"weekly_predictions": [{"date": "2024-01-03", "price": 107, "confidence": 0.8}]
	}`,
	backendapi.EndpointTemporal: `{
		"status": "success",
		"temporal_patterns": {
			"daily": {"Monday": {"mean": 100, "max": 105, "min": 98}},
			"weekly": {},
			"monthly": {}
		}
	}`,
	backendapi.EndpointMetrics: `{
		"status": "success",
		"metrics": {
			"current_price": 105, "daily_change": 5, "daily_change_percent": 5,
			"weekly_high": 106, "weekly_low": 98,
			"monthly_high": 106, "monthly_low": 98,
			"average_volume": 1100
		}
	}`,
	backendapi.EndpointRetrain: `{
		"status": "success",
		"message": "model retrained",
		"metrics": {"loss": 0.01, "val_loss": 0.02, "epochs_trained": 12}
	}`,
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{
		failHTTP:  make(map[string]bool),
		appErrors: make(map[string]string),
		calls:     make(map[string]int),
	}
	b.srv = httptest.NewServer(http.HandlerFunc(b.handle))
	t.Cleanup(b.srv.Close)
	return b
}

func (b *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	b.mu.Lock()
	b.calls[path]++
	failHTTP := b.failHTTP[path]
	appError := b.appErrors[path]
	var hold chan struct{}
	if path == backendapi.EndpointHistorical && b.holdHistorical != nil && !b.heldOnce {
		b.heldOnce = true
		hold = b.holdHistorical
	}
	b.mu.Unlock()

	if hold != nil {
		<-hold
	}

	w.Header().Set("Content-Type", "application/json")
	switch {
	case failHTTP:
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","error":"internal"}`))
	case appError != "":
		w.Write([]byte(`{"status":"error","error":"` + appError + `"}`))
	default:
		w.Write([]byte(fakeResponses[path]))
	}
}

func (b *fakeBackend) setFailHTTP(path string, fail bool) {
	b.mu.Lock()
	b.failHTTP[path] = fail
	b.mu.Unlock()
}

func (b *fakeBackend) setAppError(path, msg string) {
	b.mu.Lock()
	b.appErrors[path] = msg
	b.mu.Unlock()
}

func (b *fakeBackend) callCount(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

func newTestOrchestrator(t *testing.T, baseURL string) *Orchestrator {
	t.Helper()
	cfg := &config.Config{}
	cfg.Backend.BaseURL = baseURL
	cfg.Backend.Timeout = 5 * time.Second
	cfg.Backend.RetryAttempts = 1

	rec := metrics.NewWithRegistry(prometheus.NewRegistry())
	log := applogger.Nop()
	api := backendapi.New(cfg, rec, log)

	o := NewOrchestrator(api, rec, log)
	t.Cleanup(o.Close)
	return o
}

func waitForTerminal(t *testing.T, ch <-chan models.Snapshot) models.Snapshot {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case snap, ok := <-ch:
			require.True(t, ok, "subscription closed before terminal state")
			if snap.State == models.StateReady || snap.State == models.StateFailed {
				return snap
			}
		case <-deadline:
			t.Fatal("timed out waiting for terminal state")
		}
	}
}

func TestOrchestratorStartsIdle(t *testing.T) {
	backend := newFakeBackend(t)
	o := newTestOrchestrator(t, backend.srv.URL)

	snap := o.Snapshot()
	assert.Equal(t, models.StateIdle, snap.State)
	assert.Zero(t, snap.Generation)
	assert.Empty(t, snap.Prices)
	assert.Zero(t, backend.callCount(backendapi.EndpointHistorical))
}

func TestOrchestratorRefreshSuccess(t *testing.T) {
	backend := newFakeBackend(t)
	o := newTestOrchestrator(t, backend.srv.URL)

	ch, cancel := o.Subscribe()
	defer cancel()

	gen := o.Refresh()
	assert.Equal(t, int64(1), gen)

	snap := waitForTerminal(t, ch)
	require.Equal(t, models.StateReady, snap.State)
	assert.Equal(t, gen, snap.Generation)
	assert.Empty(t, snap.Error)

	require.Len(t, snap.Prices, 2)
	assert.Equal(t, "2024-01-01", snap.Prices[0].Date)
	assert.Equal(t, "2024-01-02", snap.Prices[1].Date)

	assert.Equal(t, "uptrend", snap.TrendAnalysis)
	require.NotNil(t, snap.Performance)
	require.NotNil(t, snap.SupportResistance)
	require.NotNil(t, snap.Backtest)
	require.NotNil(t, snap.Temporal)
	require.NotNil(t, snap.Metrics)
	assert.Equal(t, 105.0, snap.Metrics.CurrentPrice)

	daily, err := snap.DailyPrediction.Take()
	require.NoError(t, err)
	assert.Equal(t, 106.5, daily)

	require.Len(t, snap.WeeklyForecast, 1)
	require.Len(t, snap.Signals, 1)

	// The prediction request went out exactly once per endpoint and only
	// after the historical series resolved.
	assert.Equal(t, 1, backend.callCount(backendapi.EndpointPredict))
	assert.Equal(t, 1, backend.callCount(backendapi.EndpointPredictWeekly))
}

func TestOrchestratorFailureKeepsCommittedData(t *testing.T) {
	backend := newFakeBackend(t)
	o := newTestOrchestrator(t, backend.srv.URL)

	ch, cancel := o.Subscribe()
	defer cancel()

	o.Refresh()
	ready := waitForTerminal(t, ch)
	require.Equal(t, models.StateReady, ready.State)

	backend.setFailHTTP(backendapi.EndpointMetrics, true)
	gen := o.Refresh()

	failed := waitForTerminal(t, ch)
	require.Equal(t, models.StateFailed, failed.State)
	assert.Equal(t, gen, failed.Generation)
	assert.Contains(t, failed.Error, "market metrics")

	// Data from the last successful cycle stays visible.
	assert.Equal(t, ready.Prices, failed.Prices)
	assert.Equal(t, ready.Metrics, failed.Metrics)
}

func TestOrchestratorApplicationError(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setAppError(backendapi.EndpointHistorical, "model not trained")
	o := newTestOrchestrator(t, backend.srv.URL)

	ch, cancel := o.Subscribe()
	defer cancel()
	o.Refresh()

	snap := waitForTerminal(t, ch)
	require.Equal(t, models.StateFailed, snap.State)
	assert.Contains(t, snap.Error, "model not trained")

	// Predictions depend on the historical series and never start.
	assert.Zero(t, backend.callCount(backendapi.EndpointPredict))
	assert.Zero(t, backend.callCount(backendapi.EndpointPredictWeekly))
}

func TestOrchestratorStaleCycleDiscarded(t *testing.T) {
	backend := newFakeBackend(t)
	gate := make(chan struct{})
	backend.holdHistorical = gate

	o := newTestOrchestrator(t, backend.srv.URL)
	ch, cancel := o.Subscribe()
	defer cancel()

	// The first cycle's historical fetch stalls on the gate; the second
	// cycle runs to completion in the meantime.
	first := o.Refresh()
	second := o.Refresh()
	require.Greater(t, second, first)

	snap := waitForTerminal(t, ch)
	require.Equal(t, models.StateReady, snap.State)
	assert.Equal(t, second, snap.Generation)

	close(gate)
	time.Sleep(200 * time.Millisecond)

	// The stale cycle's late completion must not disturb published state.
	final := o.Snapshot()
	assert.Equal(t, second, final.Generation)
	assert.Equal(t, models.StateReady, final.State)
}

func TestOrchestratorRetrain(t *testing.T) {
	backend := newFakeBackend(t)
	o := newTestOrchestrator(t, backend.srv.URL)

	ch, cancel := o.Subscribe()
	defer cancel()

	m, err := o.Retrain(context.Background())
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, 12, m.EpochsTrained)

	// A successful retrain kicks off a fresh cycle.
	snap := waitForTerminal(t, ch)
	assert.Equal(t, models.StateReady, snap.State)
	assert.Equal(t, int64(1), snap.Generation)
}

func TestOrchestratorRetrainFailureLeavesSnapshot(t *testing.T) {
	backend := newFakeBackend(t)
	backend.setFailHTTP(backendapi.EndpointRetrain, true)
	o := newTestOrchestrator(t, backend.srv.URL)

	before := o.Snapshot()
	_, err := o.Retrain(context.Background())
	require.Error(t, err)

	after := o.Snapshot()
	assert.Equal(t, before.Generation, after.Generation)
	assert.Equal(t, before.State, after.State)
	assert.Zero(t, backend.callCount(backendapi.EndpointHistorical))
}
