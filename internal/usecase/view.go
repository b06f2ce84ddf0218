package usecase

import (
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	"StockPulse/pkg/cache"

	"github.com/moznion/go-optional"
)

// ViewAssembler builds the browser-facing dashboard view from a snapshot.
// Assembled views are cached per snapshot so polling clients do not redo the
// signal join on every request.
type ViewAssembler struct {
	cache *cache.MemoryCache
	ttl   time.Duration
}

// NewViewAssembler creates a view assembler.
func NewViewAssembler(c *cache.MemoryCache, ttl time.Duration) *ViewAssembler {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &ViewAssembler{cache: c, ttl: ttl}
}

// Build assembles the dashboard view for one snapshot.
func (a *ViewAssembler) Build(snap models.Snapshot) (*models.DashboardView, error) {
	key := fmt.Sprintf("view:%d:%s:%d", snap.Generation, snap.State, snap.UpdatedAt.UnixNano())
	if a.cache != nil {
		if v, err := a.cache.Get(key); err == nil {
			if view, ok := v.(*models.DashboardView); ok {
				return view, nil
			}
		}
	}

	view, err := assemble(snap)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		a.cache.Set(key, view, a.ttl)
	}
	return view, nil
}

func assemble(snap models.Snapshot) (*models.DashboardView, error) {
	view := &models.DashboardView{
		State:             snap.State,
		Error:             snap.Error,
		UpdatedAt:         snap.UpdatedAt,
		Chart:             JoinSignals(snap.Prices, snap.Signals),
		Signals:           snap.Signals,
		TrendAnalysis:     snap.TrendAnalysis,
		Performance:       snap.Performance,
		SupportResistance: snap.SupportResistance,
		Temporal:          snap.Temporal,
		Metrics:           snap.Metrics,
		DailyPrediction:   snap.DailyPrediction,
		LastClose:         optional.None[float64](),
	}

	if n := len(snap.Prices); n > 0 {
		view.LastClose = optional.Some(snap.Prices[n-1].Close)
	}

	if snap.Backtest != nil {
		summary := SummarizeBacktest(snap.Backtest)
		view.BacktestSummary = &summary
		view.Trades = BuildTradeViews(snap.Backtest.Trades)
	} else {
		view.Trades = []models.TradeView{}
	}

	forecast, err := BuildForecastViews(snap.WeeklyForecast, view.LastClose)
	if err != nil {
		return nil, err
	}
	view.WeeklyForecast = forecast

	return view, nil
}
