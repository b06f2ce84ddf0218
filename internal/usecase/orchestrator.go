package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/service/backendapi"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"

	"github.com/moznion/go-optional"
)

// Orchestrator coordinates the dashboard fetch lifecycle. Four independent
// fetches run concurrently; the two prediction fetches start only after the
// historical series has resolved and been normalized. Each refresh gets a
// generation token so a stale cycle's late response can never overwrite a
// newer cycle's state.
type Orchestrator struct {
	api *backendapi.Client
	rec *metrics.Recorder
	log *applogger.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	gen       int64
	published models.Snapshot
	committed models.Snapshot
	subs      map[chan models.Snapshot]struct{}
}

// NewOrchestrator creates an orchestrator in the Idle state.
func NewOrchestrator(api *backendapi.Client, rec *metrics.Recorder, log *applogger.Logger) *Orchestrator {
	ctx, cancel := context.WithCancel(context.Background())
	idle := models.Snapshot{
		State:           models.StateIdle,
		UpdatedAt:       time.Now().UTC(),
		DailyPrediction: optional.None[float64](),
	}
	return &Orchestrator{
		api:       api,
		rec:       rec,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		published: idle,
		committed: idle,
		subs:      make(map[chan models.Snapshot]struct{}),
	}
}

// Snapshot returns the currently published state.
func (o *Orchestrator) Snapshot() models.Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.published
}

// Subscribe registers a listener for every published transition. The
// returned cancel func must be called to release the subscription.
func (o *Orchestrator) Subscribe() (<-chan models.Snapshot, func()) {
	ch := make(chan models.Snapshot, 16)
	o.mu.Lock()
	o.subs[ch] = struct{}{}
	o.mu.Unlock()

	cancel := func() {
		o.mu.Lock()
		if _, ok := o.subs[ch]; ok {
			delete(o.subs, ch)
			close(ch)
		}
		o.mu.Unlock()
	}
	return ch, cancel
}

// Close stops any in-flight cycle and releases subscribers.
func (o *Orchestrator) Close() {
	o.cancel()
	o.mu.Lock()
	for ch := range o.subs {
		delete(o.subs, ch)
		close(ch)
	}
	o.mu.Unlock()
}

// Refresh starts a new fetch cycle and returns its generation. The previous
// cycle is not cancelled; its late responses are discarded by the generation
// check. Staging starts from the last committed data so earlier results stay
// visible while the new cycle loads.
func (o *Orchestrator) Refresh() int64 {
	o.mu.Lock()
	o.gen++
	gen := o.gen
	snap := o.committed
	snap.Generation = gen
	snap.State = models.StateLoading
	snap.Error = ""
	snap.UpdatedAt = time.Now().UTC()
	o.published = snap
	o.notifyLocked()
	o.mu.Unlock()

	go o.runCycle(gen)
	return gen
}

// Retrain issues a one-shot retraining request. Success triggers a full
// refresh cycle; failure leaves the displayed snapshot untouched.
func (o *Orchestrator) Retrain(ctx context.Context) (*models.RetrainMetrics, error) {
	resp, err := o.api.Retrain(ctx)
	if err != nil {
		o.log.Error("retrain failed", applogger.Error(err))
		return nil, err
	}
	o.log.Info("retrain complete", applogger.String("message", resp.Message))
	o.Refresh()
	return resp.Metrics, nil
}

func (o *Orchestrator) runCycle(gen int64) {
	ctx := o.ctx

	var wg sync.WaitGroup
	var errMu sync.Mutex
	var errs []error
	record := func(err error) {
		errMu.Lock()
		errs = append(errs, err)
		errMu.Unlock()
	}

	wg.Add(4)
	go func() {
		defer wg.Done()
		o.fetchHistoricalThenPredict(ctx, gen, record)
	}()
	go func() {
		defer wg.Done()
		if err := o.fetchSignals(ctx, gen); err != nil {
			record(err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := o.fetchTemporal(ctx, gen); err != nil {
			record(err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := o.fetchMetrics(ctx, gen); err != nil {
			record(err)
		}
	}()
	wg.Wait()

	o.finishCycle(gen, errs)
}

func (o *Orchestrator) finishCycle(gen int64, errs []error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return
	}

	if len(errs) == 0 {
		snap := o.published
		snap.State = models.StateReady
		snap.Error = ""
		snap.UpdatedAt = time.Now().UTC()
		o.published = snap
		o.committed = snap
		o.notifyLocked()
		o.rec.RecordCycle(string(models.StateReady))
		o.log.Info("refresh cycle ready", applogger.Int64("generation", gen))
		return
	}

	// First error is the one the user sees; the rest are logged only.
	first := errs[0]
	for _, err := range errs[1:] {
		o.log.Error("fetch error (suppressed)", applogger.Error(err), applogger.Int64("generation", gen))
	}

	snap := o.committed
	snap.Generation = gen
	snap.State = models.StateFailed
	snap.Error = first.Error()
	snap.UpdatedAt = time.Now().UTC()
	o.published = snap
	o.notifyLocked()
	o.rec.RecordCycle(string(models.StateFailed))
	o.log.Error("refresh cycle failed", applogger.Error(first), applogger.Int64("generation", gen))
}

// apply mutates a copy of the published snapshot if the cycle is still
// current. Readers only ever see whole snapshots.
func (o *Orchestrator) apply(gen int64, mutate func(*models.Snapshot)) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.gen {
		return false
	}
	snap := o.published
	mutate(&snap)
	snap.Generation = gen
	snap.UpdatedAt = time.Now().UTC()
	o.published = snap
	o.notifyLocked()
	return true
}

func (o *Orchestrator) fetchHistoricalThenPredict(ctx context.Context, gen int64, record func(error)) {
	resp, err := o.api.Historical(ctx)
	if err != nil {
		record(fmt.Errorf("historical data: %w", err))
		return
	}

	series, err := NormalizeSeries(resp.Data)
	if err != nil {
		record(fmt.Errorf("historical data: %w", err))
		return
	}

	if len(series) > 0 {
		o.rec.RecordLastClose(series[len(series)-1].Close)
	}

	if !o.apply(gen, func(s *models.Snapshot) {
		s.Prices = series
		s.TrendAnalysis = resp.TrendAnalysis
		s.Performance = resp.PerformanceMetrics
		s.SupportResistance = resp.SupportResistance
	}) {
		return
	}

	// Predictions are sequenced strictly after price normalization, but run
	// concurrently with each other.
	req := &backendapi.PredictRequest{Prices: series}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := o.fetchDailyPrediction(ctx, gen, req); err != nil {
			record(err)
		}
	}()
	go func() {
		defer wg.Done()
		if err := o.fetchWeeklyPrediction(ctx, gen, req); err != nil {
			record(err)
		}
	}()
	wg.Wait()
}

func (o *Orchestrator) fetchDailyPrediction(ctx context.Context, gen int64, req *backendapi.PredictRequest) error {
	resp, err := o.api.PredictDaily(ctx, req)
	if err != nil {
		return fmt.Errorf("daily prediction: %w", err)
	}
	o.apply(gen, func(s *models.Snapshot) {
		s.DailyPrediction = optional.Some(resp.Prediction)
		if resp.TrendAnalysis != "" {
			s.TrendAnalysis = resp.TrendAnalysis
		}
		if resp.SupportResistance != nil {
			s.SupportResistance = resp.SupportResistance
		}
	})
	return nil
}

func (o *Orchestrator) fetchWeeklyPrediction(ctx context.Context, gen int64, req *backendapi.PredictRequest) error {
	resp, err := o.api.PredictWeekly(ctx, req)
	if err != nil {
		return fmt.Errorf("weekly prediction: %w", err)
	}
	forecast, err := NormalizeForecast(resp.WeeklyPredictions)
	if err != nil {
		return fmt.Errorf("weekly prediction: %w", err)
	}
	o.apply(gen, func(s *models.Snapshot) {
		s.WeeklyForecast = forecast
	})
	return nil
}

func (o *Orchestrator) fetchSignals(ctx context.Context, gen int64) error {
	resp, err := o.api.TradingSignals(ctx)
	if err != nil {
		return fmt.Errorf("trading signals: %w", err)
	}
	signals, err := NormalizeSignals(resp.Signals)
	if err != nil {
		return fmt.Errorf("trading signals: %w", err)
	}
	o.apply(gen, func(s *models.Snapshot) {
		s.Signals = signals
		s.Backtest = resp.BacktestResults
	})
	return nil
}

func (o *Orchestrator) fetchTemporal(ctx context.Context, gen int64) error {
	resp, err := o.api.Temporal(ctx)
	if err != nil {
		return fmt.Errorf("temporal analysis: %w", err)
	}
	o.apply(gen, func(s *models.Snapshot) {
		s.Temporal = resp.TemporalPatterns
	})
	return nil
}

func (o *Orchestrator) fetchMetrics(ctx context.Context, gen int64) error {
	resp, err := o.api.Metrics(ctx)
	if err != nil {
		return fmt.Errorf("market metrics: %w", err)
	}
	o.apply(gen, func(s *models.Snapshot) {
		s.Metrics = resp.Metrics
	})
	return nil
}

// notifyLocked fans the published snapshot out to subscribers. Callers hold
// o.mu. Slow subscribers drop updates rather than block a transition.
func (o *Orchestrator) notifyLocked() {
	for ch := range o.subs {
		select {
		case ch <- o.published:
		default:
			// drop on backpressure
		}
	}
}
