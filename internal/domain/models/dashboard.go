package models

import (
	"time"

	"github.com/moznion/go-optional"
)

// FetchState is the orchestrator's lifecycle state.
type FetchState string

const (
	StateIdle    FetchState = "idle"
	StateLoading FetchState = "loading"
	StateReady   FetchState = "ready"
	StateFailed  FetchState = "failed"
)

// Snapshot is one immutable view of everything the dashboard knows. The
// orchestrator replaces it wholesale on every transition; readers never see a
// half-applied update.
type Snapshot struct {
	Generation int64      `json:"generation"`
	State      FetchState `json:"state"`
	Error      string     `json:"error,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Prices            []PricePoint              `json:"prices,omitempty"`
	TrendAnalysis     string                    `json:"trend_analysis,omitempty"`
	Performance       *PerformanceSummary       `json:"performance_metrics,omitempty"`
	SupportResistance *SupportResistance        `json:"support_resistance,omitempty"`
	Signals           []TradingSignal           `json:"signals,omitempty"`
	Backtest          *BacktestResult           `json:"backtest_results,omitempty"`
	Temporal          *TemporalPatterns         `json:"temporal_patterns,omitempty"`
	Metrics           *MarketMetrics            `json:"metrics,omitempty"`
	DailyPrediction   optional.Option[float64]  `json:"daily_prediction"`
	WeeklyForecast    []ForecastPoint           `json:"weekly_forecast,omitempty"`
}

// ChartPoint is a price point with its joined signal markers. Absent markers
// marshal to null, never zero, so the chart can tell "no signal" from a zero
// price.
type ChartPoint struct {
	PricePoint
	Buy  optional.Option[float64] `json:"buy"`
	Sell optional.Option[float64] `json:"sell"`
}

// DashboardView is the browser-facing assembly of a snapshot.
type DashboardView struct {
	State     FetchState `json:"state"`
	Error     string     `json:"error,omitempty"`
	UpdatedAt time.Time  `json:"updated_at"`

	Chart             []ChartPoint             `json:"chart"`
	Signals           []TradingSignal          `json:"signals"`
	Trades            []TradeView              `json:"trades"`
	BacktestSummary   *BacktestSummary         `json:"backtest_summary,omitempty"`
	TrendAnalysis     string                   `json:"trend_analysis,omitempty"`
	Performance       *PerformanceSummary      `json:"performance_metrics,omitempty"`
	SupportResistance *SupportResistance       `json:"support_resistance,omitempty"`
	Temporal          *TemporalPatterns        `json:"temporal_patterns,omitempty"`
	Metrics           *MarketMetrics           `json:"metrics,omitempty"`
	DailyPrediction   optional.Option[float64] `json:"daily_prediction"`
	WeeklyForecast    []ForecastView           `json:"weekly_forecast"`
	LastClose         optional.Option[float64] `json:"last_close"`
}
